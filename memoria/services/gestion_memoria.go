package services

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/KyleAdjei/Operating-Sytem/memoria/models"
	"github.com/KyleAdjei/Operating-Sytem/utils/random"
)

// VictimSelector elige el proceso al que se le va a robar una página.
// candidates son los PIDs con al menos una página residente.
type VictimSelector interface {
	SelectVictim(candidates []int) (int, bool)
}

// RandomVictims elige uniformemente entre los candidatos.
type RandomVictims struct {
	Rand random.Source
}

func (r RandomVictims) SelectVictim(candidates []int) (int, bool) {
	if len(candidates) == 0 {
		return -1, false
	}
	return candidates[r.Rand.Intn(len(candidates))], true
}

// MMU agrupa la tabla de páginas, la lista de marcos libres, la TLB y la memoria física.
// Todo acceso pasa por mu, aunque en la práctica solo el kernel y el proceso en
// ejecución lo usan, nunca a la vez.
type MMU struct {
	mu        sync.Mutex
	pageTable *PageTable
	freeList  *FreeList
	tlb       *TLB
	memory    []byte
	swap      *SwapStore
	victims   VictimSelector
	rand      random.Source
}

// NewMMU arma la memoria física con physicalPages marcos.
// swap puede ser nil: en ese caso no hay desalojo y quedarse sin marcos es ErrOutOfMemory.
func NewMMU(physicalPages int, swap *SwapStore, victims VictimSelector, rand random.Source) *MMU {
	if physicalPages <= 0 {
		physicalPages = models.DefaultPhysicalPages
	}
	if rand == nil {
		rand = random.NewSource(0)
	}
	if victims == nil {
		victims = RandomVictims{Rand: rand}
	}
	return &MMU{
		pageTable: NewPageTable(),
		freeList:  NewFreeList(physicalPages),
		tlb:       NewTLB(rand),
		memory:    make([]byte, physicalPages*models.PageSize),
		swap:      swap,
		victims:   victims,
		rand:      rand,
	}
}

// Split separa una dirección virtual en página y desplazamiento.
func Split(address int) (int, int, error) {
	if address < 0 || address >= models.VirtualPages*models.PageSize {
		return -1, -1, fmt.Errorf("%w: %d", models.ErrInvalidAddress, address)
	}
	return address / models.PageSize, address % models.PageSize, nil
}

// Lookup consulta solo la TLB.
func (m *MMU) Lookup(virtualPage int) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	physical, hit := m.tlb.Lookup(virtualPage)
	if hit {
		slog.Debug(fmt.Sprintf("TLB HIT - Página %d - Marco %d", virtualPage, physical))
	} else {
		slog.Debug(fmt.Sprintf("TLB MISS - Página %d", virtualPage))
	}
	return physical, hit
}

// GetMapping resuelve una página virtual a un marco físico, trayéndola de swap o
// desalojando a otra si hace falta, y deja la traducción en la TLB.
func (m *MMU) GetMapping(virtualPage int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := m.pageTable.Entry(virtualPage)
	if entry == nil {
		return models.Unmapped, fmt.Errorf("%w: page %d", models.ErrInvalidAddress, virtualPage)
	}
	if !entry.Allocated() {
		return models.Unmapped, fmt.Errorf("%w: page %d", models.ErrSegmentationFault, virtualPage)
	}

	if !entry.Resident() {
		frame, err := m.obtainFrame()
		if err != nil {
			return models.Unmapped, err
		}

		page := m.frame(frame)
		if entry.DiskPage != models.Unmapped {
			if err := m.swap.ReadBlock(entry.DiskPage, page); err != nil {
				m.freeList.Release(frame)
				slog.Error(fmt.Sprintf("No se pudo traer la página %d de swap: %v", virtualPage, err))
				return models.Unmapped, err
			}
			slog.Info(fmt.Sprintf("## (%d) - Swap in - Página %d - Bloque %d - Marco %d", entry.Owner, virtualPage, entry.DiskPage, frame))
		} else {
			clear(page)
		}
		entry.PhysicalPage = frame
		entry.Initialized = true
	}

	m.tlb.Insert(virtualPage, entry.PhysicalPage)
	return entry.PhysicalPage, nil
}

// obtainFrame toma un marco libre o, si no hay, desaloja una página y usa el suyo.
func (m *MMU) obtainFrame() (int, error) {
	if frame, ok := m.freeList.Allocate(); ok {
		return frame, nil
	}
	if err := m.evictOneVictim(); err != nil {
		return -1, err
	}
	frame, ok := m.freeList.Allocate()
	if !ok {
		panic("memoria: desalojo exitoso sin marco libre")
	}
	return frame, nil
}

func (m *MMU) evictOneVictim() error {
	if m.swap == nil {
		return fmt.Errorf("%w: swap not configured", models.ErrOutOfMemory)
	}

	victim, ok := m.victims.SelectVictim(m.pageTable.OwnersWithResidentPages())
	if !ok {
		return models.ErrOutOfMemory
	}
	pages := m.pageTable.ResidentPagesOf(victim)
	if len(pages) == 0 {
		return fmt.Errorf("%w: process %d has no resident pages", models.ErrOutOfMemory, victim)
	}
	virtualPage := pages[m.rand.Intn(len(pages))]
	entry := m.pageTable.Entry(virtualPage)

	block := entry.DiskPage
	if block == models.Unmapped {
		block = m.swap.AllocateBlock()
	}
	if err := m.swap.WriteBlock(block, m.frame(entry.PhysicalPage)); err != nil {
		slog.Error(fmt.Sprintf("Falló el swap out de la página %d: %v", virtualPage, err))
		return fmt.Errorf("%w: %w", models.ErrOutOfMemory, err)
	}

	slog.Info(fmt.Sprintf("## (%d) - Swap out - Página %d - Bloque %d - Marco %d", victim, virtualPage, block, entry.PhysicalPage))
	m.freeList.Release(entry.PhysicalPage)
	entry.PhysicalPage = models.Unmapped
	entry.DiskPage = block
	m.tlb.Invalidate(virtualPage)
	return nil
}

func (m *MMU) frame(physicalPage int) []byte {
	start := physicalPage * models.PageSize
	return m.memory[start : start+models.PageSize]
}

// Load lee un byte de un marco físico.
func (m *MMU) Load(physicalPage int, offset int) byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frame(physicalPage)[offset]
}

// Store escribe un byte en un marco físico.
func (m *MMU) Store(physicalPage int, offset int, value byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frame(physicalPage)[offset] = value
}

// Allocate reserva size bytes contiguos del espacio virtual para owner y
// devuelve la dirección inicial. Los marcos se asignan recién en el primer acceso.
func (m *MMU) Allocate(owner int, size int) (int, error) {
	if size <= 0 || size%models.PageSize != 0 {
		return -1, fmt.Errorf("%w: %d", models.ErrInvalidSize, size)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	start, err := m.pageTable.Reserve(owner, size/models.PageSize)
	if err != nil {
		return -1, err
	}
	slog.Debug(fmt.Sprintf("## (%d) - Reserva %d bytes desde la dirección %d", owner, size, start*models.PageSize))
	return start * models.PageSize, nil
}

// Free libera una región que owner reservó. Falla sin tocar nada si la
// dirección o el tamaño no están alineados, o si alguna página no es de owner.
func (m *MMU) Free(owner int, address int, size int) error {
	if address < 0 || address%models.PageSize != 0 {
		return fmt.Errorf("%w: %d", models.ErrInvalidAddress, address)
	}
	if size <= 0 || size%models.PageSize != 0 {
		return fmt.Errorf("%w: %d", models.ErrInvalidSize, size)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	start, pages := address/models.PageSize, size/models.PageSize
	if err := m.pageTable.Owned(owner, start, pages); err != nil {
		return err
	}
	for page := start; page < start+pages; page++ {
		m.releasePage(page)
	}
	slog.Debug(fmt.Sprintf("## (%d) - Libera %d bytes desde la dirección %d", owner, size, address))
	return nil
}

// ReleaseOwner libera todas las páginas de owner y devuelve cuántas eran.
func (m *MMU) ReleaseOwner(owner int) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	pages := m.pageTable.PagesOf(owner)
	for _, page := range pages {
		m.releasePage(page)
	}
	return len(pages)
}

func (m *MMU) releasePage(virtualPage int) {
	entry := m.pageTable.Entry(virtualPage)
	if entry.Resident() {
		m.freeList.Release(entry.PhysicalPage)
	}
	m.tlb.Invalidate(virtualPage)
	*entry = models.NewMapping()
}

// ClearTLB se llama en cada cambio de proceso.
func (m *MMU) ClearTLB() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tlb.Clear()
}

func (m *MMU) TLBEntries() []models.TLBEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tlb.Entries()
}

// Mapping devuelve una copia de la entrada de la tabla de páginas.
func (m *MMU) Mapping(virtualPage int) (models.Mapping, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := m.pageTable.Entry(virtualPage)
	if entry == nil {
		return models.NewMapping(), false
	}
	return *entry, true
}

func (m *MMU) FreeFrames() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.freeList.FreeCount()
}

// Frames describe cada marco físico: si está libre y qué página lo ocupa.
func (m *MMU) Frames() []models.FrameInfo {
	m.mu.Lock()
	defer m.mu.Unlock()

	frames := make([]models.FrameInfo, m.freeList.Size())
	for i := range frames {
		frames[i] = models.FrameInfo{Frame: i, Free: m.freeList.IsFree(i), VirtualPage: models.Unmapped, Owner: models.NoOwner}
	}
	for page := 0; page < models.VirtualPages; page++ {
		entry := m.pageTable.Entry(page)
		if entry.Resident() {
			frames[entry.PhysicalPage].VirtualPage = page
			frames[entry.PhysicalPage].Owner = entry.Owner
		}
	}
	return frames
}

// CheckConsistency verifica que un marco esté ocupado si y solo si una única
// entrada de la tabla de páginas lo referencia.
func (m *MMU) CheckConsistency() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	claims := make([]int, m.freeList.Size())
	var errs []error
	for page := 0; page < models.VirtualPages; page++ {
		entry := m.pageTable.Entry(page)
		if !entry.Resident() {
			continue
		}
		if !entry.Allocated() {
			errs = append(errs, fmt.Errorf("page %d has frame %d but no owner", page, entry.PhysicalPage))
		}
		claims[entry.PhysicalPage]++
	}
	for frame, count := range claims {
		free := m.freeList.IsFree(frame)
		switch {
		case count > 1:
			errs = append(errs, fmt.Errorf("frame %d claimed by %d pages", frame, count))
		case count == 1 && free:
			errs = append(errs, fmt.Errorf("frame %d is mapped but marked free", frame))
		case count == 0 && !free:
			errs = append(errs, fmt.Errorf("frame %d is used but unmapped", frame))
		}
	}
	return errors.Join(errs...)
}
