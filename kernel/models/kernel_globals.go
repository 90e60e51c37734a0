package models

import (
	"errors"
	"time"

	memoriaModels "github.com/KyleAdjei/Operating-Sytem/memoria/models"
)

type Config struct {
	LogLevel          string   `json:"log_level"`
	LogPath           string   `json:"log_path"`
	PhysicalPages     int      `json:"physical_pages"`
	SwapFilePath      string   `json:"swap_file_path"`
	QuantumMs         int      `json:"quantum_ms"`
	IdleTickMs        int      `json:"idle_tick_ms"`
	DemotionThreshold int      `json:"demotion_threshold"`
	PortKernel        int      `json:"port_kernel"`
	Seed              int64    `json:"seed"`
	Workload          []string `json:"workload"`
}

// DefaultConfig son los valores que se usan para cualquier campo que el archivo no defina.
func DefaultConfig() Config {
	return Config{
		LogLevel:          "INFO",
		LogPath:           "./logs/kernel.log",
		PhysicalPages:     memoriaModels.DefaultPhysicalPages,
		SwapFilePath:      "./swap/swapfile.bin",
		QuantumMs:         250,
		IdleTickMs:        10,
		DemotionThreshold: 5,
		PortKernel:        8001,
		Workload:          []string{"ping", "pong", "background"},
	}
}

func (c Config) Quantum() time.Duration {
	return time.Duration(c.QuantumMs) * time.Millisecond
}

func (c Config) IdleTick() time.Duration {
	if c.IdleTickMs <= 0 {
		return 10 * time.Millisecond
	}
	return time.Duration(c.IdleTickMs) * time.Millisecond
}

type SyscallType int

const (
	SyscallCreateProcess SyscallType = iota
	SyscallSwitchProcess
	SyscallQuantumExpired
	SyscallSleep
	SyscallExit
	SyscallGetPid
	SyscallGetPidByName
	SyscallAllocateMemory
	SyscallFreeMemory
	SyscallGetMapping
	SyscallSendMessage
	SyscallWaitForMessage
	SyscallOpen
	SyscallClose
	SyscallRead
	SyscallWrite
	SyscallSeek
	SyscallListProcesses
)

var syscallNames = [...]string{
	"CREATE_PROCESS", "SWITCH_PROCESS", "QUANTUM_EXPIRED", "SLEEP", "EXIT",
	"GET_PID", "GET_PID_BY_NAME", "ALLOCATE_MEMORY", "FREE_MEMORY", "GET_MAPPING",
	"SEND_MESSAGE", "WAIT_FOR_MESSAGE", "OPEN", "CLOSE", "READ", "WRITE", "SEEK",
	"LIST_PROCESSES",
}

func (s SyscallType) String() string {
	if s < 0 || int(s) >= len(syscallNames) {
		return "UNKNOWN"
	}
	return syscallNames[s]
}

// DEFINICION DE ERRORES
var (
	ErrTargetNotFound   = errors.New("target process not found")
	ErrNoDeviceSlot     = errors.New("no free device slot")
	ErrInvalidPriority  = errors.New("invalid priority")
	ErrShutdown         = errors.New("kernel is shut down")
	ErrUnknownSyscall   = errors.New("unknown syscall")
	ErrUnknownWorkload  = errors.New("unknown workload process")
	ErrProcessNotLoaded = errors.New("process body is nil")
)
