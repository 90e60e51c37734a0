package services

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/KyleAdjei/Operating-Sytem/io/models"
)

type deviceEntry struct {
	device   models.Device
	deviceID int
}

// VFS enruta ids propios hacia el dispositivo y handle que los respaldan.
// Su espacio de ids es independiente de los slots de cada proceso.
type VFS struct {
	mu      sync.Mutex
	drivers map[string]models.Device
	entries map[int]deviceEntry
	nextID  int
}

// NewVFS crea un VFS con los dispositivos "random" y "file" registrados.
func NewVFS() *VFS {
	vfs := &VFS{
		drivers: make(map[string]models.Device),
		entries: make(map[int]deviceEntry),
	}
	vfs.Register(models.DeviceRandom, NewRandomDevice())
	vfs.Register(models.DeviceFile, NewFileDevice())
	return vfs
}

// Register agrega (o reemplaza) el driver para un tipo de dispositivo.
func (v *VFS) Register(deviceType string, device models.Device) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.drivers[strings.ToLower(deviceType)] = device
}

// Open recibe "<tipo> <detalle>", abre el dispositivo correspondiente y devuelve un id de VFS.
//
// Ejemplo:
//
//	id, err := vfs.Open("file data.dat")
//	id, err := vfs.Open("random 42")
func (v *VFS) Open(spec string) (int, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return -1, fmt.Errorf("%w: empty spec", models.ErrInvalidSpec)
	}

	deviceType, details, _ := strings.Cut(spec, " ")

	v.mu.Lock()
	defer v.mu.Unlock()

	device, exists := v.drivers[strings.ToLower(deviceType)]
	if !exists {
		return -1, fmt.Errorf("%w: %s", models.ErrUnknownDevice, deviceType)
	}

	deviceID, err := device.Open(details)
	if err != nil {
		return -1, fmt.Errorf("no se pudo abrir el dispositivo %s: %w", deviceType, err)
	}

	vfsID := v.nextID
	v.nextID++
	v.entries[vfsID] = deviceEntry{device: device, deviceID: deviceID}

	slog.Debug("Dispositivo abierto en VFS", "spec", spec, "vfs_id", vfsID, "device_id", deviceID)
	return vfsID, nil
}

func (v *VFS) Close(vfsID int) {
	v.mu.Lock()
	entry, exists := v.entries[vfsID]
	delete(v.entries, vfsID)
	v.mu.Unlock()

	if !exists {
		slog.Debug("Close sobre id de VFS inexistente", "vfs_id", vfsID)
		return
	}
	entry.device.Close(entry.deviceID)
}

func (v *VFS) Read(vfsID int, size int) []byte {
	entry, exists := v.lookup(vfsID)
	if !exists {
		return []byte{}
	}
	return entry.device.Read(entry.deviceID, size)
}

func (v *VFS) Write(vfsID int, data []byte) int {
	entry, exists := v.lookup(vfsID)
	if !exists {
		return 0
	}
	return entry.device.Write(entry.deviceID, data)
}

func (v *VFS) Seek(vfsID int, to int) {
	entry, exists := v.lookup(vfsID)
	if !exists {
		return
	}
	entry.device.Seek(entry.deviceID, to)
}

// OpenCount devuelve cuántos ids están abiertos.
func (v *VFS) OpenCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.entries)
}

func (v *VFS) lookup(vfsID int) (deviceEntry, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	entry, exists := v.entries[vfsID]
	return entry, exists
}
