package models

import (
	"sort"
	"sync"
)

// --- Tabla de procesos ---

// ProcessTable guarda los PCBs vivos indexados por PID.
type ProcessTable struct {
	mx sync.Mutex
	M  map[int]*PCB
}

func NewProcessTable() *ProcessTable {
	return &ProcessTable{M: make(map[int]*PCB)}
}

func (table *ProcessTable) Add(pcb *PCB) {
	table.mx.Lock()
	defer table.mx.Unlock()
	table.M[pcb.PID] = pcb
}

func (table *ProcessTable) Remove(pid int) {
	table.mx.Lock()
	defer table.mx.Unlock()
	delete(table.M, pid)
}

func (table *ProcessTable) Get(pid int) (*PCB, bool) {
	table.mx.Lock()
	defer table.mx.Unlock()
	pcb, ok := table.M[pid]
	return pcb, ok
}

// FindByName devuelve el proceso de menor PID con ese nombre.
func (table *ProcessTable) FindByName(name string) (*PCB, bool) {
	for _, pcb := range table.All() {
		if pcb.Name == name {
			return pcb, true
		}
	}
	return nil, false
}

// All devuelve los PCBs ordenados por PID.
func (table *ProcessTable) All() []*PCB {
	table.mx.Lock()
	defer table.mx.Unlock()
	pcbs := make([]*PCB, 0, len(table.M))
	for _, pcb := range table.M {
		pcbs = append(pcbs, pcb)
	}
	sort.Slice(pcbs, func(i, j int) bool {
		return pcbs[i].PID < pcbs[j].PID
	})
	return pcbs
}

func (table *ProcessTable) Size() int {
	table.mx.Lock()
	defer table.mx.Unlock()
	return len(table.M)
}
