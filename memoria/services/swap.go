package services

import (
	"fmt"
	"log/slog"
	"sync"

	iomodels "github.com/KyleAdjei/Operating-Sytem/io/models"
	"github.com/KyleAdjei/Operating-Sytem/memoria/models"
)

// SwapStore guarda páginas en bloques secuenciales de un dispositivo ya abierto.
// El bloque N vive en el offset N*PageSize. Los números de bloque nunca se reutilizan.
type SwapStore struct {
	mu        sync.Mutex
	device    iomodels.Device
	handle    int
	nextBlock int
}

func NewSwapStore(device iomodels.Device, handle int) *SwapStore {
	return &SwapStore{device: device, handle: handle}
}

// AllocateBlock reserva el próximo bloque libre del archivo de swap.
func (s *SwapStore) AllocateBlock() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	block := s.nextBlock
	s.nextBlock++
	return block
}

// BlocksUsed devuelve cuántos bloques se entregaron hasta ahora.
func (s *SwapStore) BlocksUsed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextBlock
}

func (s *SwapStore) WriteBlock(block int, data []byte) error {
	if len(data) != models.PageSize {
		return fmt.Errorf("%w: block %d expects %d bytes, got %d", models.ErrSwapIO, block, models.PageSize, len(data))
	}

	s.device.Seek(s.handle, block*models.PageSize)
	written := s.device.Write(s.handle, data)
	if written != len(data) {
		return fmt.Errorf("%w: block %d wrote %d of %d bytes", models.ErrSwapIO, block, written, len(data))
	}

	slog.Debug(fmt.Sprintf("Swap - Bloque %d escrito", block))
	return nil
}

// ReadBlock copia el bloque en into, que debe medir una página.
func (s *SwapStore) ReadBlock(block int, into []byte) error {
	if len(into) != models.PageSize {
		return fmt.Errorf("%w: block %d expects %d bytes, got %d", models.ErrSwapIO, block, models.PageSize, len(into))
	}

	s.device.Seek(s.handle, block*models.PageSize)
	data := s.device.Read(s.handle, models.PageSize)
	if len(data) != models.PageSize {
		return fmt.Errorf("%w: block %d read %d of %d bytes", models.ErrSwapIO, block, len(data), models.PageSize)
	}
	copy(into, data)

	slog.Debug(fmt.Sprintf("Swap - Bloque %d leído", block))
	return nil
}

// Close libera el handle del dispositivo.
func (s *SwapStore) Close() {
	s.device.Close(s.handle)
}
