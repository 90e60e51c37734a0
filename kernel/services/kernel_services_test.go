package services

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/KyleAdjei/Operating-Sytem/kernel/models"
	memoriaModels "github.com/KyleAdjei/Operating-Sytem/memoria/models"
	"github.com/KyleAdjei/Operating-Sytem/utils/random"
)

func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	os.Exit(m.Run())
}

func testConfig(t *testing.T) models.Config {
	t.Helper()
	config := models.DefaultConfig()
	config.SwapFilePath = filepath.Join(t.TempDir(), "swap.bin")
	config.PhysicalPages = 8
	config.QuantumMs = 0
	config.IdleTickMs = 1
	return config
}

func startTestOS(t *testing.T, config models.Config) *OS {
	t.Helper()
	system, err := StartupWithRand(config, random.NewSequence(0))
	if err != nil {
		t.Fatalf("Expected startup to succeed, got: %v", err)
	}
	t.Cleanup(system.Shutdown)
	return system
}

func receive[T any](t *testing.T, ch chan T) T {
	t.Helper()
	select {
	case value := <-ch:
		return value
	case <-time.After(3 * time.Second):
		t.Fatal("Timed out waiting for the process")
	}
	var zero T
	return zero
}

func waitUntil(t *testing.T, condition func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for !condition() {
		if time.Now().After(deadline) {
			t.Fatal("Timed out waiting for condition")
		}
		time.Sleep(time.Millisecond)
	}
}

func noProcesses(system *OS) func() bool {
	return func() bool {
		processes, err := system.Processes()
		return err == nil && len(processes) == 0
	}
}

func TestKernel_MessageFromRealTimeToBackground(t *testing.T) {
	system := startTestOS(t, testConfig(t))
	received := make(chan models.KernelMessage, 1)

	bPID, err := system.CreateProcess("B", models.Background, func(p *Process) {
		received <- p.WaitForMessage()
	})
	if err != nil {
		t.Fatalf("Expected B to be created, got: %v", err)
	}
	aPID, _ := system.CreateProcess("A", models.RealTime, func(p *Process) {
		p.SendMessage(models.KernelMessage{TargetPID: bPID, What: 1})
	})

	message := receive(t, received)
	if message.What != 1 || message.SenderPID != aPID || len(message.Data) != 0 {
		t.Errorf("Expected kind 1 from %d with empty payload, got %s", aPID, message)
	}
}

func TestKernel_MessagesArriveInOrder(t *testing.T) {
	system := startTestOS(t, testConfig(t))
	whats := make(chan []int, 1)

	target, _ := system.CreateProcess("receptor", models.Interactive, func(p *Process) {
		var got []int
		for len(got) < 3 {
			got = append(got, p.WaitForMessage().What)
		}
		whats <- got
	})
	system.CreateProcess("emisor", models.Interactive, func(p *Process) {
		for what := 1; what <= 3; what++ {
			p.SendMessage(models.KernelMessage{TargetPID: target, What: what, Data: []byte{byte(what)}})
			p.SwitchProcess()
		}
	})

	got := receive(t, whats)
	for i, what := range got {
		if what != i+1 {
			t.Errorf("Expected FIFO order 1,2,3, got %v", got)
			break
		}
	}
}

func TestKernel_MessagePayloadIsCopied(t *testing.T) {
	system := startTestOS(t, testConfig(t))
	received := make(chan models.KernelMessage, 1)
	payload := []byte{1, 2, 3}

	target, _ := system.CreateProcess("receptor", models.Interactive, func(p *Process) {
		received <- p.WaitForMessage()
	})
	system.CreateProcess("emisor", models.Interactive, func(p *Process) {
		p.SendMessage(models.KernelMessage{TargetPID: target, What: 2, Data: payload})
		payload[0] = 99
	})

	if message := receive(t, received); message.Data[0] != 1 {
		t.Errorf("Expected the receiver to keep its own copy, got %v", message.Data)
	}
}

func TestKernel_SendToMissingTarget(t *testing.T) {
	system := startTestOS(t, testConfig(t))
	result := make(chan error, 1)

	system.CreateProcess("emisor", models.Interactive, func(p *Process) {
		result <- p.SendMessage(models.KernelMessage{TargetPID: 999})
	})

	if err := receive(t, result); !errors.Is(err, models.ErrTargetNotFound) {
		t.Errorf("Expected ErrTargetNotFound, got %v", err)
	}
}

func TestKernel_SingleRunner(t *testing.T) {
	config := testConfig(t)
	config.QuantumMs = 1
	system := startTestOS(t, config)

	var inside, violations atomic.Int32
	var wg sync.WaitGroup
	body := func(p *Process) {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			if inside.Add(1) != 1 {
				violations.Add(1)
			}
			time.Sleep(100 * time.Microsecond)
			inside.Add(-1)
			if i%2 == 0 {
				p.SwitchProcess()
			} else {
				p.Cooperate()
			}
		}
	}

	priorities := []models.Priority{models.RealTime, models.Interactive, models.Background, models.Interactive}
	wg.Add(len(priorities))
	for _, priority := range priorities {
		if _, err := system.CreateProcess("worker", priority, body); err != nil {
			t.Fatalf("Expected worker to be created, got: %v", err)
		}
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	receive(t, done)

	if violations.Load() != 0 {
		t.Errorf("Expected a single runner at any time, got %d overlaps", violations.Load())
	}
}

func TestKernel_SleepWaitsAtLeastTheDeadline(t *testing.T) {
	system := startTestOS(t, testConfig(t))
	elapsed := make(chan time.Duration, 1)

	system.CreateProcess("dormilon", models.Interactive, func(p *Process) {
		start := time.Now()
		p.Sleep(50)
		elapsed <- time.Since(start)
	})
	// otro proceso con trabajo para que el kernel no esté ocioso
	system.CreateProcess("ocupado", models.Interactive, func(p *Process) {
		for i := 0; i < 100; i++ {
			p.SwitchProcess()
		}
	})

	if got := receive(t, elapsed); got < 50*time.Millisecond {
		t.Errorf("Expected at least 50ms asleep, got %v", got)
	}
}

func TestKernel_MemorySurvivesSwap(t *testing.T) {
	config := testConfig(t)
	config.PhysicalPages = 2
	system := startTestOS(t, config)
	result := make(chan byte, 1)
	failures := make(chan error, 1)

	system.CreateProcess("memoria", models.Interactive, func(p *Process) {
		address, err := p.AllocateMemory(memoriaModels.PageSize)
		if err != nil {
			failures <- err
			return
		}
		p.Write(address, 0xFF)

		others, err := p.AllocateMemory(4 * memoriaModels.PageSize)
		if err != nil {
			failures <- err
			return
		}
		for page := 0; page < 4; page++ {
			if err := p.Write(others+page*memoriaModels.PageSize, 1); err != nil {
				failures <- err
				return
			}
		}

		value, err := p.Read(address)
		if err != nil {
			failures <- err
			return
		}
		result <- value
	})

	select {
	case value := <-result:
		if value != 0xFF {
			t.Errorf("Expected 0xFF after swap, got %#x", value)
		}
	case err := <-failures:
		t.Fatalf("Expected no memory error, got: %v", err)
	case <-time.After(3 * time.Second):
		t.Fatal("Timed out waiting for the process")
	}
}

func TestKernel_MemoryErrors(t *testing.T) {
	system := startTestOS(t, testConfig(t))
	errs := make(chan []error, 1)

	system.CreateProcess("errores", models.Interactive, func(p *Process) {
		_, errSize := p.AllocateMemory(100)
		errFree := p.FreeMemory(1, memoriaModels.PageSize)
		_, errRead := p.Read(5 * memoriaModels.PageSize)
		errWrite := p.Write(-1, 0)
		errs <- []error{errSize, errFree, errRead, errWrite}
	})

	got := receive(t, errs)
	expected := []error{
		memoriaModels.ErrInvalidSize,
		memoriaModels.ErrInvalidAddress,
		memoriaModels.ErrSegmentationFault,
		memoriaModels.ErrInvalidAddress,
	}
	for i := range expected {
		if !errors.Is(got[i], expected[i]) {
			t.Errorf("Expected %v, got %v", expected[i], got[i])
		}
	}
}

func TestKernel_ExitReleasesResources(t *testing.T) {
	system := startTestOS(t, testConfig(t))
	openAtStart := system.OpenDevices()

	system.CreateProcess("recursos", models.Interactive, func(p *Process) {
		address, _ := p.AllocateMemory(2 * memoriaModels.PageSize)
		p.Write(address, 7)
		p.Write(address+memoriaModels.PageSize, 7)
		p.Open("random 3")
		p.Open("random 4")
	})

	waitUntil(t, noProcesses(system))
	if open := system.OpenDevices(); open != openAtStart {
		t.Errorf("Expected %d open devices after exit, got %d", openAtStart, open)
	}
	for _, frame := range system.Frames() {
		if !frame.Free {
			t.Errorf("Expected every frame free after exit, got %+v", frame)
		}
	}
}

func TestKernel_Devices(t *testing.T) {
	system := startTestOS(t, testConfig(t))
	path := filepath.Join(t.TempDir(), "datos.txt")

	type outcome struct {
		randomBytes int
		fileData    string
		badSpecErr  error
		invalidRead int
		invalidW    int
	}
	results := make(chan outcome, 1)

	system.CreateProcess("dispositivos", models.Interactive, func(p *Process) {
		var out outcome
		randomSlot, _ := p.Open("random 42")
		out.randomBytes = len(p.ReadDevice(randomSlot, 8))

		fileSlot, _ := p.Open("file " + path)
		p.WriteDevice(fileSlot, []byte("hola"))
		p.Seek(fileSlot, 0)
		out.fileData = string(p.ReadDevice(fileSlot, 4))
		p.Close(fileSlot)

		_, out.badSpecErr = p.Open("teclado algo")
		out.invalidRead = len(p.ReadDevice(fileSlot, 4))
		out.invalidW = p.WriteDevice(9, []byte("x"))
		p.Seek(-1, 10)
		p.Close(20)
		results <- out
	})

	out := receive(t, results)
	if out.randomBytes != 8 {
		t.Errorf("Expected 8 random bytes, got %d", out.randomBytes)
	}
	if out.fileData != "hola" {
		t.Errorf("Expected 'hola' read back, got %q", out.fileData)
	}
	if out.badSpecErr == nil {
		t.Error("Expected error for an unknown device type")
	}
	if out.invalidRead != 0 || out.invalidW != 0 {
		t.Errorf("Expected closed and unknown slots to be no-ops, got %d/%d", out.invalidRead, out.invalidW)
	}
}

func TestKernel_DeviceSlotsRunOut(t *testing.T) {
	system := startTestOS(t, testConfig(t))
	result := make(chan error, 1)

	system.CreateProcess("glotón", models.Interactive, func(p *Process) {
		for i := 0; i < models.MaxDevices; i++ {
			if _, err := p.Open("random"); err != nil {
				result <- err
				return
			}
		}
		_, err := p.Open("random")
		result <- err
	})

	if err := receive(t, result); !errors.Is(err, models.ErrNoDeviceSlot) {
		t.Errorf("Expected ErrNoDeviceSlot, got %v", err)
	}
}

func TestKernel_Pids(t *testing.T) {
	system := startTestOS(t, testConfig(t))
	type pids struct {
		own, found int
		ok, absent bool
	}
	results := make(chan pids, 1)

	pongPID, _ := system.CreateProcess("pong", models.Background, func(p *Process) {
		p.WaitForMessage()
	})
	pingPID, _ := system.CreateProcess("ping", models.Interactive, func(p *Process) {
		var out pids
		out.own = p.GetPid()
		out.found, out.ok = p.GetPidByName("pong")
		_, out.absent = p.GetPidByName("nadie")
		results <- out
	})

	out := receive(t, results)
	if out.own != pingPID {
		t.Errorf("Expected own pid %d, got %d", pingPID, out.own)
	}
	if !out.ok || out.found != pongPID {
		t.Errorf("Expected pong pid %d, got %d", pongPID, out.found)
	}
	if out.absent {
		t.Error("Expected unknown name not to be found")
	}
	if pingPID <= pongPID {
		t.Errorf("Expected increasing pids, got %d then %d", pongPID, pingPID)
	}
}

func TestKernel_CreateProcessFromProcess(t *testing.T) {
	system := startTestOS(t, testConfig(t))
	childRan := make(chan int, 1)

	system.CreateProcess("padre", models.Interactive, func(p *Process) {
		p.CreateProcess("hijo", models.RealTime, func(child *Process) {
			childRan <- child.GetPid()
		})
	})

	if pid := receive(t, childRan); pid <= 1 {
		t.Errorf("Expected child pid after parent, got %d", pid)
	}
}

func TestKernel_QuantumDemotesBusyProcess(t *testing.T) {
	config := testConfig(t)
	config.QuantumMs = 1
	config.DemotionThreshold = 1
	system := startTestOS(t, config)

	pid, _ := system.CreateProcess("acaparador", models.RealTime, func(p *Process) {
		for i := 0; i < 10; i++ {
			time.Sleep(5 * time.Millisecond)
			p.Cooperate()
		}
		p.WaitForMessage()
	})

	waitUntil(t, func() bool {
		processes, err := system.Processes()
		if err != nil {
			return false
		}
		for _, process := range processes {
			if process.PID == pid && process.State == models.EstadoBlocked.String() {
				return process.Priority == models.Background.String()
			}
		}
		return false
	})
}

func TestKernel_ShutdownReleasesParkedProcesses(t *testing.T) {
	system, err := StartupWithRand(testConfig(t), random.NewSequence(0))
	if err != nil {
		t.Fatalf("Expected startup to succeed, got: %v", err)
	}
	exited := make(chan struct{})

	system.CreateProcess("eterno", models.Interactive, func(p *Process) {
		defer close(exited)
		p.WaitForMessage()
	})
	waitUntil(t, func() bool {
		processes, _ := system.Processes()
		return len(processes) == 1 && processes[0].State == models.EstadoBlocked.String()
	})

	system.Shutdown()
	receive(t, exited)

	if _, err := system.CreateProcess("tarde", models.Interactive, func(*Process) {}); !errors.Is(err, models.ErrShutdown) {
		t.Errorf("Expected ErrShutdown after shutdown, got %v", err)
	}
}

func TestKernel_SwitchProcessResetsExceedances(t *testing.T) {
	scheduler := NewScheduler(random.NewSequence(0), 0, 5)
	kernel := NewKernel(scheduler, nil, nil, 0)
	pcb := newTestPCB(1, models.RealTime)
	scheduler.Admit(pcb)

	for i := 0; i < 6; i++ {
		kernel.execute(&syscallRequest{Type: models.SyscallQuantumExpired, Caller: pcb})
		kernel.execute(&syscallRequest{Type: models.SyscallSwitchProcess, Caller: pcb})
	}
	if pcb.Priority != models.RealTime || pcb.Exceedances != 0 {
		t.Errorf("Expected REAL_TIME with no exceedances, got %s (%d)", pcb.Priority, pcb.Exceedances)
	}

	for i := 0; i < 6; i++ {
		kernel.execute(&syscallRequest{Type: models.SyscallQuantumExpired, Caller: pcb})
	}
	if pcb.Priority != models.Interactive {
		t.Errorf("Expected INTERACTIVE after 6 consecutive exceedances, got %s", pcb.Priority)
	}
}
