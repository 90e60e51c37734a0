package services

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/KyleAdjei/Operating-Sytem/io/models"
)

// FileDevice es un dispositivo respaldado por archivos reales del sistema operativo anfitrión.
type FileDevice struct {
	mu    sync.Mutex
	files [models.MaxOpenDevices]*os.File
}

func NewFileDevice() *FileDevice {
	return &FileDevice{}
}

// Open abre (o crea) el archivo en modo lectura/escritura y devuelve el handle asignado.
func (d *FileDevice) Open(filename string) (int, error) {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return -1, fmt.Errorf("%w: filename cannot be empty", models.ErrInvalidSpec)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for id := range d.files {
		if d.files[id] != nil {
			continue
		}
		file, err := os.OpenFile(filename, os.O_RDWR|os.O_CREATE, 0644)
		if err != nil {
			return -1, fmt.Errorf("no se pudo abrir %s: %w", filename, err)
		}
		d.files[id] = file
		slog.Debug("Archivo abierto", "archivo", filename, "handle", id)
		return id, nil
	}
	return -1, models.ErrNoFreeHandle
}

func (d *FileDevice) Close(id int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	file := d.get(id)
	if file == nil {
		return
	}
	if err := file.Close(); err != nil {
		slog.Error("Error cerrando archivo", "handle", id, "error", err)
	}
	d.files[id] = nil
}

// Read lee hasta size bytes desde la posición actual. Puede devolver menos
// bytes de los pedidos, o ninguno si se llegó al final del archivo.
func (d *FileDevice) Read(id int, size int) []byte {
	d.mu.Lock()
	defer d.mu.Unlock()

	file := d.get(id)
	if file == nil || size <= 0 {
		return []byte{}
	}

	buffer := make([]byte, size)
	n, err := io.ReadFull(file, buffer)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		slog.Error("Error leyendo archivo", "handle", id, "error", err)
	}
	return buffer[:n]
}

func (d *FileDevice) Write(id int, data []byte) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	file := d.get(id)
	if file == nil || data == nil {
		return 0
	}

	n, err := file.Write(data)
	if err != nil {
		slog.Error("Error escribiendo archivo", "handle", id, "error", err)
	}
	return n
}

func (d *FileDevice) Seek(id int, to int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	file := d.get(id)
	if file == nil {
		return
	}
	if _, err := file.Seek(int64(to), io.SeekStart); err != nil {
		slog.Error("Error posicionando el cursor del archivo", "handle", id, "offset", to, "error", err)
	}
}

// get asume el mutex tomado.
func (d *FileDevice) get(id int) *os.File {
	if id < 0 || id >= len(d.files) {
		return nil
	}
	return d.files[id]
}
