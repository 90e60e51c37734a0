package services

import (
	"fmt"
	"log/slog"
)

// finishProcess saca del sistema al proceso en ejecución, le cierra los
// dispositivos, le libera la memoria y despacha al siguiente.
func (k *Kernel) finishProcess() {
	pcb := k.scheduler.Terminate()
	if pcb == nil {
		return
	}

	devices := pcb.OpenDevices()
	k.closeAllDevicesForProcess(pcb)
	pages := k.mmu.ReleaseOwner(pcb.PID)

	slog.Info(fmt.Sprintf("## (%d) - Finaliza el proceso", pcb.PID),
		slog.Int("dispositivos_cerrados", devices),
		slog.Int("paginas_liberadas", pages),
		slog.Int("mensajes_pendientes", pcb.Inbox.Size()),
	)

	k.scheduler.Dispatch()
}
