package services

import (
	"github.com/KyleAdjei/Operating-Sytem/memoria/models"
	"github.com/KyleAdjei/Operating-Sytem/utils/random"
)

// TLB es la caché de traducciones compartida por todos los procesos.
// Nunca es fuente de verdad: ante la duda se consulta la tabla de páginas.
type TLB struct {
	entries [models.TLBEntries]models.TLBEntry
	rand    random.Source
}

func NewTLB(rand random.Source) *TLB {
	tlb := &TLB{rand: rand}
	tlb.Clear()
	return tlb
}

func (t *TLB) Lookup(virtualPage int) (int, bool) {
	if virtualPage == models.Unmapped {
		return models.Unmapped, false
	}
	for _, entry := range t.entries {
		if entry.VirtualPage == virtualPage {
			return entry.PhysicalPage, true
		}
	}
	return models.Unmapped, false
}

// Insert pisa un slot elegido al azar.
func (t *TLB) Insert(virtualPage int, physicalPage int) {
	// si la página ya estaba cacheada se actualiza ese slot para no duplicarla
	for i := range t.entries {
		if t.entries[i].VirtualPage == virtualPage {
			t.entries[i].PhysicalPage = physicalPage
			return
		}
	}
	slot := t.rand.Intn(len(t.entries))
	t.entries[slot] = models.TLBEntry{VirtualPage: virtualPage, PhysicalPage: physicalPage}
}

// Invalidate descarta la traducción de una página virtual, si estaba.
func (t *TLB) Invalidate(virtualPage int) {
	for i := range t.entries {
		if t.entries[i].VirtualPage == virtualPage {
			t.entries[i] = emptyTLBEntry()
		}
	}
}

func (t *TLB) Clear() {
	for i := range t.entries {
		t.entries[i] = emptyTLBEntry()
	}
}

func (t *TLB) Entries() []models.TLBEntry {
	entries := make([]models.TLBEntry, len(t.entries))
	copy(entries, t.entries[:])
	return entries
}

func emptyTLBEntry() models.TLBEntry {
	return models.TLBEntry{VirtualPage: models.Unmapped, PhysicalPage: models.Unmapped}
}
