package services

import (
	"github.com/KyleAdjei/Operating-Sytem/kernel/models"
	memoriaModels "github.com/KyleAdjei/Operating-Sytem/memoria/models"
	memsvc "github.com/KyleAdjei/Operating-Sytem/memoria/services"
)

// --- Procesos y planificación ---

// CreateProcess crea un proceso hijo. Quien llama sigue ejecutando.
func (p *Process) CreateProcess(name string, priority models.Priority, body func(*Process)) (int, error) {
	if body == nil {
		return -1, models.ErrProcessNotLoaded
	}
	result, err := p.call(models.SyscallCreateProcess, name, priority, body)
	if err != nil {
		return -1, err
	}
	return result.(int), nil
}

// SwitchProcess cede la CPU: el proceso vuelve al final de su cola.
func (p *Process) SwitchProcess() {
	p.call(models.SyscallSwitchProcess)
}

// Cooperate es el punto de control del quantum. Si el timer venció, cede la CPU
// y cuenta una excedencia.
func (p *Process) Cooperate() {
	if p.yield.CompareAndSwap(true, false) {
		p.call(models.SyscallQuantumExpired)
	}
}

// Sleep duerme al menos milliseconds.
func (p *Process) Sleep(milliseconds int) {
	p.call(models.SyscallSleep, milliseconds)
}

func (p *Process) GetPid() int {
	result, _ := p.call(models.SyscallGetPid)
	return result.(int)
}

// GetPidByName busca el PID del proceso vivo de menor PID con ese nombre.
func (p *Process) GetPidByName(name string) (int, bool) {
	result, err := p.call(models.SyscallGetPidByName, name)
	if err != nil {
		return -1, false
	}
	return result.(int), true
}

// --- Memoria ---

// AllocateMemory reserva size bytes (múltiplo de la página) y devuelve la dirección virtual.
func (p *Process) AllocateMemory(size int) (int, error) {
	result, err := p.call(models.SyscallAllocateMemory, size)
	if err != nil {
		return -1, err
	}
	return result.(int), nil
}

func (p *Process) FreeMemory(pointer int, size int) error {
	_, err := p.call(models.SyscallFreeMemory, pointer, size)
	return err
}

// Read lee un byte de memoria virtual. Con un hit en la TLB no entra al kernel.
func (p *Process) Read(address int) (byte, error) {
	physical, offset, err := p.translate(address)
	if err != nil {
		return 0, err
	}
	return p.kernel.mmu.Load(physical, offset), nil
}

// Write escribe un byte en memoria virtual.
func (p *Process) Write(address int, value byte) error {
	physical, offset, err := p.translate(address)
	if err != nil {
		return err
	}
	p.kernel.mmu.Store(physical, offset, value)
	return nil
}

func (p *Process) translate(address int) (int, int, error) {
	page, offset, err := memsvc.Split(address)
	if err != nil {
		return memoriaModels.Unmapped, 0, err
	}
	if physical, hit := p.kernel.mmu.Lookup(page); hit {
		return physical, offset, nil
	}

	result, err := p.call(models.SyscallGetMapping, page)
	if err != nil {
		return memoriaModels.Unmapped, 0, err
	}
	return result.(int), offset, nil
}

// --- Mensajes ---

// SendMessage manda una copia de message a message.TargetPID. El remitente lo completa el kernel.
func (p *Process) SendMessage(message models.KernelMessage) error {
	_, err := p.call(models.SyscallSendMessage, message)
	return err
}

// WaitForMessage devuelve el mensaje más viejo de la bandeja. Si está vacía,
// el proceso queda bloqueado hasta que le llegue uno.
func (p *Process) WaitForMessage() models.KernelMessage {
	for {
		result, err := p.call(models.SyscallWaitForMessage)
		if err != nil {
			continue
		}
		if message, ok := result.(models.KernelMessage); ok {
			return message
		}
	}
}

// --- Dispositivos ---

// Open abre "<tipo> <detalle>" y devuelve el slot del proceso.
func (p *Process) Open(spec string) (int, error) {
	result, err := p.call(models.SyscallOpen, spec)
	if err != nil {
		return -1, err
	}
	return result.(int), nil
}

func (p *Process) Close(slot int) {
	p.call(models.SyscallClose, slot)
}

func (p *Process) ReadDevice(slot int, size int) []byte {
	result, _ := p.call(models.SyscallRead, slot, size)
	data, _ := result.([]byte)
	return data
}

func (p *Process) WriteDevice(slot int, data []byte) int {
	result, _ := p.call(models.SyscallWrite, slot, data)
	written, _ := result.(int)
	return written
}

func (p *Process) Seek(slot int, to int) {
	p.call(models.SyscallSeek, slot, to)
}
