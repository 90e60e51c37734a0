package models

import (
	"github.com/KyleAdjei/Operating-Sytem/utils/list"
)

/* ---------- Colas de estados ----------> */

// Queues agrupa las colas del planificador. Un PCB está como mucho en una de ellas.
type Queues struct {
	Ready    [len(Priorities)]*list.ArrayList[*PCB]
	Sleeping *list.ArrayList[*PCB]
}

func NewQueues() *Queues {
	queues := &Queues{Sleeping: &list.ArrayList[*PCB]{}}
	for i := range queues.Ready {
		queues.Ready[i] = &list.ArrayList[*PCB]{}
	}
	return queues
}

// Enqueue agrega al PCB al final de la cola de su prioridad.
func (q *Queues) Enqueue(pcb *PCB) {
	q.Ready[pcb.Priority].Add(pcb)
}

func (q *Queues) ReadyCount() int {
	count := 0
	for _, queue := range q.Ready {
		count += queue.Size()
	}
	return count
}

// Contains indica si el PID está en alguna cola.
func (q *Queues) Contains(pid int) bool {
	match := func(pcb *PCB) bool { return pcb.PID == pid }
	for _, queue := range q.Ready {
		if _, _, found := queue.Find(match); found {
			return true
		}
	}
	_, _, found := q.Sleeping.Find(match)
	return found
}

// ReadyPIDs devuelve, en orden, los PIDs de la cola READY de esa prioridad.
func (q *Queues) ReadyPIDs(priority Priority) []int {
	pcbs := q.Ready[priority].GetAll()
	pids := make([]int, 0, len(pcbs))
	for _, pcb := range pcbs {
		pids = append(pids, pcb.PID)
	}
	return pids
}
