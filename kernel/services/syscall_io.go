package services

import (
	"fmt"
	"log/slog"

	"github.com/KyleAdjei/Operating-Sytem/kernel/models"
)

// openDevice abre el dispositivo en el VFS y guarda su id en el primer slot
// libre del proceso. Devuelve el slot.
func (k *Kernel) openDevice(caller *models.PCB, spec string) (int, error) {
	slot := caller.FreeDeviceSlot()
	if slot < 0 {
		return -1, fmt.Errorf("%w: process %d", models.ErrNoDeviceSlot, caller.PID)
	}

	vfsID, err := k.vfs.Open(spec)
	if err != nil {
		slog.Warn(fmt.Sprintf("## (%d) - No se pudo abrir %q: %v", caller.PID, spec, err))
		return -1, err
	}

	caller.Devices[slot] = vfsID
	slog.Debug(fmt.Sprintf("## (%d) - Abre %q en el slot %d", caller.PID, spec, slot))
	return slot, nil
}

func (k *Kernel) closeDevice(caller *models.PCB, slot int) {
	vfsID, ok := caller.DeviceID(slot)
	if !ok {
		return
	}
	k.vfs.Close(vfsID)
	caller.Devices[slot] = models.NoDevice
}

func (k *Kernel) readDevice(caller *models.PCB, slot int, size int) []byte {
	vfsID, ok := caller.DeviceID(slot)
	if !ok {
		return []byte{}
	}
	return k.vfs.Read(vfsID, size)
}

func (k *Kernel) writeDevice(caller *models.PCB, slot int, data []byte) int {
	vfsID, ok := caller.DeviceID(slot)
	if !ok {
		return 0
	}
	return k.vfs.Write(vfsID, data)
}

func (k *Kernel) seekDevice(caller *models.PCB, slot int, to int) {
	if vfsID, ok := caller.DeviceID(slot); ok {
		k.vfs.Seek(vfsID, to)
	}
}

func (k *Kernel) closeAllDevicesForProcess(pcb *models.PCB) {
	for slot := range pcb.Devices {
		k.closeDevice(pcb, slot)
	}
}
