package services

// FreeList lleva un booleano por marco físico: true = libre.
type FreeList struct {
	free []bool
}

func NewFreeList(frames int) *FreeList {
	free := make([]bool, frames)
	for i := range free {
		free[i] = true
	}
	return &FreeList{free: free}
}

// Allocate recorre la lista y toma el primer marco libre.
// Retorna false si no queda ninguno.
func (f *FreeList) Allocate() (int, bool) {
	for frame, isFree := range f.free {
		if isFree {
			f.free[frame] = false
			return frame, true
		}
	}
	return -1, false
}

func (f *FreeList) Release(frame int) {
	if frame >= 0 && frame < len(f.free) {
		f.free[frame] = true
	}
}

func (f *FreeList) IsFree(frame int) bool {
	return frame >= 0 && frame < len(f.free) && f.free[frame]
}

func (f *FreeList) Size() int {
	return len(f.free)
}

func (f *FreeList) FreeCount() int {
	count := 0
	for _, isFree := range f.free {
		if isFree {
			count++
		}
	}
	return count
}
