package services

import (
	"fmt"
	"log/slog"

	"github.com/KyleAdjei/Operating-Sytem/kernel/models"
)

// createProcess arma el PCB, lanza la goroutine del proceso (que arranca
// estacionada) y lo admite en el planificador.
func (k *Kernel) createProcess(name string, priority models.Priority, body func(*Process)) (int, error) {
	if body == nil {
		return -1, models.ErrProcessNotLoaded
	}
	if priority < models.RealTime || priority > models.Background {
		return -1, fmt.Errorf("%w: %d", models.ErrInvalidPriority, priority)
	}

	pid := k.generatePID()
	process := newProcess(k, body)
	pcb := models.NewPCB(pid, name, priority, process)
	process.pcb = pcb

	go process.run()
	k.scheduler.Admit(pcb)

	slog.Debug(fmt.Sprintf("## (%d) Se crea el proceso - Estado : NEW", pid), "nombre", name)
	return pid, nil
}

func (k *Kernel) generatePID() int {
	pid := k.nextPID
	k.nextPID++
	return pid
}
