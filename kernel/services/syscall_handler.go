package services

import (
	"fmt"
	"log/slog"

	"github.com/KyleAdjei/Operating-Sytem/kernel/models"
)

// execute es el punto de entrada de todas las syscalls. Corre en la goroutine del kernel.
func (k *Kernel) execute(request *syscallRequest) (any, error) {
	switch request.Type {
	case models.SyscallCreateProcess:
		return k.createProcess(
			argument[string](request.Values, 0),
			argument[models.Priority](request.Values, 1),
			argument[func(*Process)](request.Values, 2),
		)
	case models.SyscallListProcesses:
		return k.scheduler.Processes(), nil
	}

	caller := request.Caller
	if caller == nil {
		return nil, fmt.Errorf("%w: %s needs a calling process", models.ErrUnknownSyscall, request.Type)
	}
	if caller != k.scheduler.Running() {
		panic(fmt.Sprintf("kernel: syscall %s del proceso %d, que no está en ejecución", request.Type, caller.PID))
	}
	slog.Debug(fmt.Sprintf("## (%d) - Solicitó syscall: %s", caller.PID, request.Type))

	switch request.Type {
	case models.SyscallSwitchProcess:
		// ceder a tiempo corta la racha de quantums vencidos
		caller.Exceedances = 0
		k.scheduler.Yield()
		return nil, nil

	case models.SyscallQuantumExpired:
		caller.Exceedances++
		k.scheduler.Yield()
		return nil, nil

	case models.SyscallSleep:
		k.scheduler.Sleep(argument[int](request.Values, 0))
		return nil, nil

	case models.SyscallExit:
		k.finishProcess()
		return nil, nil

	case models.SyscallGetPid:
		return caller.PID, nil

	case models.SyscallGetPidByName:
		name := argument[string](request.Values, 0)
		pcb, found := k.scheduler.LookupByName(name)
		if !found {
			return -1, fmt.Errorf("%w: %q", models.ErrTargetNotFound, name)
		}
		return pcb.PID, nil

	case models.SyscallAllocateMemory:
		return k.mmu.Allocate(caller.PID, argument[int](request.Values, 0))

	case models.SyscallFreeMemory:
		return nil, k.mmu.Free(caller.PID, argument[int](request.Values, 0), argument[int](request.Values, 1))

	case models.SyscallGetMapping:
		return k.mmu.GetMapping(argument[int](request.Values, 0))

	case models.SyscallSendMessage:
		return nil, k.sendMessage(caller, argument[models.KernelMessage](request.Values, 0))

	case models.SyscallWaitForMessage:
		return k.waitForMessage(caller), nil

	case models.SyscallOpen:
		return k.openDevice(caller, argument[string](request.Values, 0))

	case models.SyscallClose:
		k.closeDevice(caller, argument[int](request.Values, 0))
		return nil, nil

	case models.SyscallRead:
		return k.readDevice(caller, argument[int](request.Values, 0), argument[int](request.Values, 1)), nil

	case models.SyscallWrite:
		return k.writeDevice(caller, argument[int](request.Values, 0), argument[[]byte](request.Values, 1)), nil

	case models.SyscallSeek:
		k.seekDevice(caller, argument[int](request.Values, 0), argument[int](request.Values, 1))
		return nil, nil

	default:
		slog.Error("Syscall desconocida", "tipo", request.Type, "PID", caller.PID)
		return nil, fmt.Errorf("%w: %d", models.ErrUnknownSyscall, request.Type)
	}
}

// argument devuelve el valor en index si existe y es del tipo pedido; si no, el valor cero.
func argument[T any](values []any, index int) T {
	var zero T
	if index < 0 || index >= len(values) {
		return zero
	}
	value, ok := values[index].(T)
	if !ok {
		return zero
	}
	return value
}

// sendMessage copia el mensaje en la bandeja del destinatario y, si estaba
// bloqueado esperando, lo vuelve a READY.
func (k *Kernel) sendMessage(caller *models.PCB, message models.KernelMessage) error {
	copied := message.Clone()
	copied.SenderPID = caller.PID

	target, found := k.scheduler.Lookup(copied.TargetPID)
	if !found {
		slog.Warn(fmt.Sprintf("## (%d) - Mensaje a un proceso inexistente: %d", caller.PID, copied.TargetPID))
		return fmt.Errorf("%w: %d", models.ErrTargetNotFound, copied.TargetPID)
	}

	target.Inbox.Add(copied)
	slog.Debug(fmt.Sprintf("## (%d) - Envía mensaje %s", caller.PID, copied))
	if k.scheduler.Unblock(target) {
		slog.Debug(fmt.Sprintf("## (%d) - Desbloqueado por mensaje de %d", target.PID, caller.PID))
	}
	return nil
}

// waitForMessage entrega el mensaje más viejo. Si la bandeja está vacía bloquea
// al proceso y devuelve nil: el proceso vuelve a preguntar cuando lo reanuden.
func (k *Kernel) waitForMessage(caller *models.PCB) any {
	message, err := caller.Inbox.Dequeue()
	if err == nil {
		return message.Clone()
	}
	k.scheduler.Block()
	return nil
}
