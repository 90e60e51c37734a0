package services

import (
	"fmt"

	"github.com/KyleAdjei/Operating-Sytem/memoria/models"
)

// PageTable es la única tabla de páginas del espacio de direcciones compartido.
type PageTable struct {
	entries [models.VirtualPages]models.Mapping
}

func NewPageTable() *PageTable {
	table := &PageTable{}
	for i := range table.entries {
		table.entries[i] = models.NewMapping()
	}
	return table
}

// Entry devuelve la entrada de la página virtual, o nil si está fuera de rango.
func (t *PageTable) Entry(virtualPage int) *models.Mapping {
	if virtualPage < 0 || virtualPage >= len(t.entries) {
		return nil
	}
	return &t.entries[virtualPage]
}

// Reserve busca la primera corrida de pages páginas libres contiguas y se las asigna a owner.
func (t *PageTable) Reserve(owner int, pages int) (int, error) {
	if pages <= 0 || pages > len(t.entries) {
		return -1, models.ErrInvalidSize
	}

	run := 0
	for page := range t.entries {
		if t.entries[page].Allocated() {
			run = 0
			continue
		}
		run++
		if run == pages {
			start := page - pages + 1
			for p := start; p <= page; p++ {
				t.entries[p] = models.NewMapping()
				t.entries[p].Owner = owner
			}
			return start, nil
		}
	}
	return -1, fmt.Errorf("%w: %d pages", models.ErrNoVirtualSpace, pages)
}

// Owned verifica que todas las páginas [start, start+pages) pertenezcan a owner.
func (t *PageTable) Owned(owner int, start int, pages int) error {
	if start < 0 || pages <= 0 || start+pages > len(t.entries) {
		return models.ErrInvalidAddress
	}
	for p := start; p < start+pages; p++ {
		if t.entries[p].Owner != owner {
			return fmt.Errorf("%w: page %d", models.ErrNotOwner, p)
		}
	}
	return nil
}

// ResidentPagesOf lista las páginas virtuales de owner que tienen marco físico.
func (t *PageTable) ResidentPagesOf(owner int) []int {
	var pages []int
	for page, entry := range t.entries {
		if entry.Owner == owner && entry.Resident() {
			pages = append(pages, page)
		}
	}
	return pages
}

// PagesOf lista todas las páginas virtuales reservadas por owner.
func (t *PageTable) PagesOf(owner int) []int {
	var pages []int
	for page, entry := range t.entries {
		if entry.Owner == owner {
			pages = append(pages, page)
		}
	}
	return pages
}

// OwnersWithResidentPages devuelve los PIDs que tienen al menos una página residente,
// en orden de primera aparición.
func (t *PageTable) OwnersWithResidentPages() []int {
	seen := make(map[int]bool)
	var owners []int
	for _, entry := range t.entries {
		if entry.Allocated() && entry.Resident() && !seen[entry.Owner] {
			seen[entry.Owner] = true
			owners = append(owners, entry.Owner)
		}
	}
	return owners
}
