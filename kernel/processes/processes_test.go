package processes

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/KyleAdjei/Operating-Sytem/kernel/models"
	"github.com/KyleAdjei/Operating-Sytem/kernel/services"
)

func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	os.Exit(m.Run())
}

func startSystem(t *testing.T) *services.OS {
	t.Helper()
	config := models.DefaultConfig()
	config.SwapFilePath = filepath.Join(t.TempDir(), "swap.bin")
	config.PhysicalPages = 2
	config.IdleTickMs = 1
	config.QuantumMs = 5
	system, err := services.Startup(config)
	if err != nil {
		t.Fatalf("Expected startup to succeed, got: %v", err)
	}
	t.Cleanup(system.Shutdown)
	return system
}

func create(t *testing.T, system *services.OS, name string) int {
	t.Helper()
	sample, err := Lookup(name)
	if err != nil {
		t.Fatalf("Expected sample %s, got: %v", name, err)
	}
	pid, err := system.CreateProcess(sample.Name, sample.Priority, sample.Body)
	if err != nil {
		t.Fatalf("Expected %s to be created, got: %v", name, err)
	}
	return pid
}

// waitExit espera a que el proceso deje de figurar en la tabla.
func waitExit(t *testing.T, system *services.OS, pid int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		processes, err := system.Processes()
		if err != nil {
			t.Fatalf("Expected process list, got: %v", err)
		}
		alive := false
		for _, process := range processes {
			alive = alive || process.PID == pid
		}
		if !alive {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("Expected process %d to finish", pid)
}

func TestLookup(t *testing.T) {
	for _, name := range []string{"ping", "PONG", "background", "memoria", "dispositivos"} {
		if _, err := Lookup(name); err != nil {
			t.Errorf("Expected %s to exist, got: %v", name, err)
		}
	}
	if _, err := Lookup("cpu"); !errors.Is(err, models.ErrUnknownWorkload) {
		t.Errorf("Expected ErrUnknownWorkload, got %v", err)
	}
}

func TestPingPong(t *testing.T) {
	system := startSystem(t)
	create(t, system, PongName)
	ping := create(t, system, PingName)
	create(t, system, BackgroundName)

	waitExit(t, system, ping)
}

func TestMemoryAndDevices(t *testing.T) {
	system := startSystem(t)
	memory := create(t, system, MemoryName)
	devices := create(t, system, DevicesName)

	waitExit(t, system, memory)
	waitExit(t, system, devices)

	for _, frame := range system.Frames() {
		if !frame.Free {
			t.Errorf("Expected memory released, got %+v", frame)
		}
	}
}
