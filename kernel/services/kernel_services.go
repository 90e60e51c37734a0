package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	iosvc "github.com/KyleAdjei/Operating-Sytem/io/services"
	"github.com/KyleAdjei/Operating-Sytem/kernel/models"
	memsvc "github.com/KyleAdjei/Operating-Sytem/memoria/services"
)

// syscallRequest viaja de un proceso (o del arranque) a la goroutine del kernel.
type syscallRequest struct {
	Type   models.SyscallType
	Caller *models.PCB // nil = llamada de arranque, no hay proceso que reanudar
	Values []any
	Result any
	Err    error
	done   chan struct{}
}

// Kernel serializa todas las operaciones privilegiadas en una sola goroutine.
type Kernel struct {
	requests  chan *syscallRequest
	stopped   chan struct{}
	scheduler *Scheduler
	mmu       *memsvc.MMU
	vfs       *iosvc.VFS
	idleTick  time.Duration
	nextPID   int

	// active es el proceso que efectivamente está ejecutando código de usuario.
	active *models.PCB
}

func NewKernel(scheduler *Scheduler, mmu *memsvc.MMU, vfs *iosvc.VFS, idleTick time.Duration) *Kernel {
	if idleTick <= 0 {
		idleTick = 10 * time.Millisecond
	}
	return &Kernel{
		requests:  make(chan *syscallRequest),
		stopped:   make(chan struct{}),
		scheduler: scheduler,
		mmu:       mmu,
		vfs:       vfs,
		idleTick:  idleTick,
		nextPID:   1,
	}
}

// Run atiende pedidos hasta que se cancele ctx. Con nadie ejecutando, el tick
// despierta a los procesos dormidos cuyo plazo ya venció.
func (k *Kernel) Run(ctx context.Context) {
	defer close(k.stopped)
	ticker := time.NewTicker(k.idleTick)
	defer ticker.Stop()

	slog.Info("Kernel iniciado")
	for {
		select {
		case <-ctx.Done():
			k.scheduler.Stop()
			slog.Info("Kernel detenido")
			return
		case request := <-k.requests:
			k.handle(request)
		case <-ticker.C:
			k.idle()
		}
	}
}

// Stopped se cierra cuando Run terminó.
func (k *Kernel) Stopped() <-chan struct{} {
	return k.stopped
}

func (k *Kernel) handle(request *syscallRequest) {
	if request.Caller != nil {
		// quien llama quedó estacionado esperando la respuesta
		k.active = nil
	}

	request.Result, request.Err = k.execute(request)
	if request.Err != nil {
		slog.Debug(fmt.Sprintf("Syscall %s terminó con error: %v", request.Type, request.Err))
	}
	if request.done != nil {
		close(request.done)
	}

	if k.active == nil {
		k.resumeRunning()
	}
}

func (k *Kernel) idle() {
	if k.active != nil || k.scheduler.Running() != nil {
		return
	}
	if k.scheduler.Dispatch() != nil {
		k.resumeRunning()
	}
}

func (k *Kernel) resumeRunning() {
	next := k.scheduler.Running()
	if next == nil {
		return
	}
	k.active = next
	next.Runtime.Resume()
}

// submit manda un pedido de arranque y espera a que el kernel lo termine.
func (k *Kernel) submit(request *syscallRequest) error {
	request.done = make(chan struct{})
	select {
	case k.requests <- request:
	case <-k.stopped:
		return models.ErrShutdown
	}
	select {
	case <-request.done:
		return nil
	case <-k.stopped:
		return models.ErrShutdown
	}
}
