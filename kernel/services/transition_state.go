package services

import (
	"fmt"
	"log/slog"

	"github.com/KyleAdjei/Operating-Sytem/kernel/models"
)

// removeProcessFromCurrentQueue saca al PCB de la cola en la que esté, si está en alguna.
func (s *Scheduler) removeProcessFromCurrentQueue(pid int) {
	match := func(p *models.PCB) bool { return p.PID == pid }
	for _, queue := range s.queues.Ready {
		if queue.RemoveWhere(match) {
			return
		}
	}
	s.queues.Sleeping.RemoveWhere(match)
}

// transitionState cambia el estado del proceso y lo deja en la cola que le corresponde.
// RUNNING, BLOCKED y TERMINATED no tienen cola.
func (s *Scheduler) transitionState(pcb *models.PCB, newState models.State) {
	oldState := pcb.State
	s.removeProcessFromCurrentQueue(pcb.PID)
	pcb.State = newState

	switch newState {
	case models.EstadoReady:
		s.queues.Enqueue(pcb)
	case models.EstadoSleeping:
		s.queues.Sleeping.Add(pcb)
	}

	slog.Info(fmt.Sprintf("## (%d) Pasa del estado %s al estado %s", pcb.PID, oldState, newState))
}
