package services

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	iosvc "github.com/KyleAdjei/Operating-Sytem/io/services"
	"github.com/KyleAdjei/Operating-Sytem/memoria/models"
)

func newTestSwap(t *testing.T) *SwapStore {
	t.Helper()
	device := iosvc.NewFileDevice()
	handle, err := device.Open(filepath.Join(t.TempDir(), "swap.bin"))
	if err != nil {
		t.Fatalf("Expected swap file to open, got: %v", err)
	}
	swap := NewSwapStore(device, handle)
	t.Cleanup(swap.Close)
	return swap
}

// brokenDevice acepta todo pero nunca escribe ni lee nada.
type brokenDevice struct{}

func (brokenDevice) Open(string) (int, error) { return 0, nil }
func (brokenDevice) Close(int)                {}
func (brokenDevice) Read(int, int) []byte     { return nil }
func (brokenDevice) Write(int, []byte) int    { return 0 }
func (brokenDevice) Seek(int, int)            {}

func TestSwapStore_BlocksAreSequential(t *testing.T) {
	swap := newTestSwap(t)

	for expected := 0; expected < 3; expected++ {
		if block := swap.AllocateBlock(); block != expected {
			t.Errorf("Expected block %d, got %d", expected, block)
		}
	}
	if swap.BlocksUsed() != 3 {
		t.Errorf("Expected 3 blocks used, got %d", swap.BlocksUsed())
	}
}

func TestSwapStore_WriteThenRead(t *testing.T) {
	swap := newTestSwap(t)

	first := bytes.Repeat([]byte{0xAA}, models.PageSize)
	second := bytes.Repeat([]byte{0x55}, models.PageSize)
	a, b := swap.AllocateBlock(), swap.AllocateBlock()

	// se escribe fuera de orden para verificar los offsets
	if err := swap.WriteBlock(b, second); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if err := swap.WriteBlock(a, first); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	page := make([]byte, models.PageSize)
	if err := swap.ReadBlock(a, page); err != nil || !bytes.Equal(page, first) {
		t.Errorf("Expected block %d to hold 0xAA, err=%v", a, err)
	}
	if err := swap.ReadBlock(b, page); err != nil || !bytes.Equal(page, second) {
		t.Errorf("Expected block %d to hold 0x55, err=%v", b, err)
	}
}

func TestSwapStore_Failures(t *testing.T) {
	swap := NewSwapStore(brokenDevice{}, 0)
	page := make([]byte, models.PageSize)

	if err := swap.WriteBlock(0, page); !errors.Is(err, models.ErrSwapIO) {
		t.Errorf("Expected ErrSwapIO on failed write, got %v", err)
	}
	if err := swap.ReadBlock(0, page); !errors.Is(err, models.ErrSwapIO) {
		t.Errorf("Expected ErrSwapIO on short read, got %v", err)
	}
	if err := swap.WriteBlock(0, page[:10]); !errors.Is(err, models.ErrSwapIO) {
		t.Errorf("Expected ErrSwapIO for a partial page, got %v", err)
	}
}
