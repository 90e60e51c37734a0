package services

import (
	"context"
	"fmt"
	"log/slog"

	ioModels "github.com/KyleAdjei/Operating-Sytem/io/models"
	iosvc "github.com/KyleAdjei/Operating-Sytem/io/services"
	"github.com/KyleAdjei/Operating-Sytem/kernel/models"
	memoriaModels "github.com/KyleAdjei/Operating-Sytem/memoria/models"
	memsvc "github.com/KyleAdjei/Operating-Sytem/memoria/services"
	"github.com/KyleAdjei/Operating-Sytem/utils/random"
)

// OS es la puerta de entrada desde fuera de los procesos: arranque, consulta y apagado.
type OS struct {
	kernel *Kernel
	cancel context.CancelFunc
	vfs    *iosvc.VFS
	mmu    *memsvc.MMU
	swap   *memsvc.SwapStore
}

// Startup arma el VFS, el swap, la memoria y el planificador, y arranca el kernel.
func Startup(config models.Config) (*OS, error) {
	return StartupWithRand(config, random.NewSource(config.Seed))
}

// StartupWithRand permite fijar la fuente de aleatoriedad.
func StartupWithRand(config models.Config, rand random.Source) (*OS, error) {
	vfs := iosvc.NewVFS()

	var swap *memsvc.SwapStore
	if config.SwapFilePath != "" {
		swapID, err := vfs.Open(fmt.Sprintf("%s %s", ioModels.DeviceFile, config.SwapFilePath))
		if err != nil {
			return nil, fmt.Errorf("no se pudo abrir el swap %q: %w", config.SwapFilePath, err)
		}
		swap = memsvc.NewSwapStore(vfs, swapID)
	}

	scheduler := NewScheduler(rand, config.Quantum(), config.DemotionThreshold)
	mmu := memsvc.NewMMU(config.PhysicalPages, swap, scheduler, rand)
	scheduler.OnSwitch(mmu.ClearTLB)

	kernel := NewKernel(scheduler, mmu, vfs, config.IdleTick())
	ctx, cancel := context.WithCancel(context.Background())
	go kernel.Run(ctx)

	slog.Info("Sistema iniciado",
		slog.Int("marcos", config.PhysicalPages),
		slog.String("swap", config.SwapFilePath),
		slog.Duration("quantum", config.Quantum()),
	)
	return &OS{kernel: kernel, cancel: cancel, vfs: vfs, mmu: mmu, swap: swap}, nil
}

// CreateProcess crea un proceso desde fuera del sistema.
func (o *OS) CreateProcess(name string, priority models.Priority, body func(*Process)) (int, error) {
	request := &syscallRequest{Type: models.SyscallCreateProcess, Values: []any{name, priority, body}}
	if err := o.kernel.submit(request); err != nil {
		return -1, err
	}
	if request.Err != nil {
		return -1, request.Err
	}
	return request.Result.(int), nil
}

// Processes devuelve una foto de la tabla de procesos.
func (o *OS) Processes() ([]models.ProcessInfo, error) {
	request := &syscallRequest{Type: models.SyscallListProcesses}
	if err := o.kernel.submit(request); err != nil {
		return nil, err
	}
	return request.Result.([]models.ProcessInfo), nil
}

// Frames describe la memoria física.
func (o *OS) Frames() []memoriaModels.FrameInfo {
	return o.mmu.Frames()
}

func (o *OS) OpenDevices() int {
	return o.vfs.OpenCount()
}

// Shutdown detiene el kernel. Los procesos estacionados terminan solos.
func (o *OS) Shutdown() {
	o.cancel()
	<-o.kernel.Stopped()
	if o.swap != nil {
		o.swap.Close()
	}
	slog.Info("Sistema apagado")
}
