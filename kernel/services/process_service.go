package services

import (
	"runtime"
	"sync/atomic"

	"github.com/KyleAdjei/Operating-Sytem/kernel/models"
)

// Process es el lado usuario de un PCB: una goroutine que ejecuta body y que
// solo avanza cuando el kernel la reanuda.
type Process struct {
	pcb    *models.PCB
	kernel *Kernel
	body   func(*Process)
	resume chan struct{}
	yield  atomic.Bool
}

func newProcess(kernel *Kernel, body func(*Process)) *Process {
	return &Process{
		kernel: kernel,
		body:   body,
		resume: make(chan struct{}, 1),
	}
}

// Resume habilita al proceso a seguir. No bloquea.
func (p *Process) Resume() {
	select {
	case p.resume <- struct{}{}:
	default:
	}
}

// RequestYield lo llama el timer del quantum.
func (p *Process) RequestYield() {
	p.yield.Store(true)
}

// ClearYield lo llama el planificador al despacharlo.
func (p *Process) ClearYield() {
	p.yield.Store(false)
}

// run espera el primer despacho, ejecuta el cuerpo y avisa al kernel que terminó.
func (p *Process) run() {
	p.park()
	p.body(p)
	p.exit()
}

// park bloquea hasta que el kernel lo reanude. Si el kernel se apagó, la
// goroutine termina acá.
func (p *Process) park() {
	select {
	case <-p.resume:
	case <-p.kernel.stopped:
		runtime.Goexit()
	}
}

// call manda la syscall y queda estacionado hasta que el kernel lo vuelva a elegir.
func (p *Process) call(syscallType models.SyscallType, values ...any) (any, error) {
	request := &syscallRequest{Type: syscallType, Caller: p.pcb, Values: values}
	select {
	case p.kernel.requests <- request:
	case <-p.kernel.stopped:
		runtime.Goexit()
	}
	p.park()
	return request.Result, request.Err
}

// exit no espera respuesta: después de esto la goroutine termina.
func (p *Process) exit() {
	request := &syscallRequest{Type: models.SyscallExit, Caller: p.pcb}
	select {
	case p.kernel.requests <- request:
	case <-p.kernel.stopped:
	}
}
