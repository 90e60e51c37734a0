package models

import "errors"

const (
	PageSize     = 1024 // bytes por página, virtual y física
	VirtualPages = 100  // entradas de la tabla de páginas
	TLBEntries   = 2

	// DefaultPhysicalPages es la cantidad de marcos si la config no indica otra.
	DefaultPhysicalPages = 1024

	Unmapped = -1 // página sin marco físico / sin bloque en disco
	NoOwner  = -1 // página virtual no reservada por ningún proceso
)

// Mapping es una entrada de la tabla de páginas.
type Mapping struct {
	PhysicalPage int  `json:"physical_page"` // -1 = no residente
	DiskPage     int  `json:"disk_page"`     // -1 = nunca fue a swap
	Initialized  bool `json:"initialized"`
	Owner        int  `json:"owner"` // PID que reservó la página, -1 = libre
}

func NewMapping() Mapping {
	return Mapping{PhysicalPage: Unmapped, DiskPage: Unmapped, Owner: NoOwner}
}

// Allocated indica si algún proceso reservó la página.
func (m Mapping) Allocated() bool {
	return m.Owner != NoOwner
}

// Resident indica si la página tiene un marco físico asignado.
func (m Mapping) Resident() bool {
	return m.PhysicalPage != Unmapped
}

type TLBEntry struct {
	VirtualPage  int `json:"virtual_page"`
	PhysicalPage int `json:"physical_page"`
}

// FrameInfo describe un marco físico para el endpoint de estado.
type FrameInfo struct {
	Frame       int  `json:"frame"`
	Free        bool `json:"free"`
	VirtualPage int  `json:"virtual_page"`
	Owner       int  `json:"owner"`
}

// DEFINICION DE ERRORES
var (
	ErrInvalidSize       = errors.New("size must be a positive multiple of the page size")
	ErrInvalidAddress    = errors.New("address must be page aligned and inside the address space")
	ErrOutOfMemory       = errors.New("no free physical page and no swappable victim")
	ErrNoVirtualSpace    = errors.New("no contiguous free virtual region")
	ErrSegmentationFault = errors.New("access to an unallocated virtual page")
	ErrNotOwner          = errors.New("region is not owned by the caller")
	ErrSwapIO            = errors.New("swap i/o failure")
)
