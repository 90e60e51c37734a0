package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/KyleAdjei/Operating-Sytem/utils/list"
)

// MaxDevices es la cantidad de dispositivos que un proceso puede tener abiertos a la vez.
const MaxDevices = 10

// NoDevice marca un slot de dispositivo libre.
const NoDevice = -1

type Priority int

const (
	RealTime Priority = iota
	Interactive
	Background
)

// Priorities en el orden en que las considera el planificador.
var Priorities = [...]Priority{RealTime, Interactive, Background}

func (p Priority) String() string {
	switch p {
	case RealTime:
		return "REAL_TIME"
	case Interactive:
		return "INTERACTIVE"
	case Background:
		return "BACKGROUND"
	default:
		return "UNKNOWN"
	}
}

// Demote baja un nivel. BACKGROUND se queda en BACKGROUND.
func (p Priority) Demote() Priority {
	if p >= Background {
		return Background
	}
	return p + 1
}

func ParsePriority(value string) (Priority, error) {
	switch strings.ToUpper(value) {
	case "REAL_TIME", "REALTIME":
		return RealTime, nil
	case "INTERACTIVE":
		return Interactive, nil
	case "BACKGROUND":
		return Background, nil
	default:
		return Background, fmt.Errorf("%w: %q", ErrInvalidPriority, value)
	}
}

type State int

const (
	EstadoNew State = iota
	EstadoReady
	EstadoRunning
	EstadoSleeping
	EstadoBlocked
	EstadoTerminated
)

func (s State) String() string {
	states := [...]string{"NEW", "READY", "RUNNING", "SLEEPING", "BLOCKED", "TERMINATED"}
	if s < 0 || int(s) >= len(states) {
		return "UNKNOWN"
	}
	return states[s]
}

// Runtime es el lado "usuario" del proceso: la goroutine que ejecuta su código.
type Runtime interface {
	Resume()       // despierta al proceso estacionado
	RequestYield() // avisa que se le terminó el quantum
	ClearYield()   // descarta un aviso de quantum de un despacho anterior
}

type PCB struct {
	PID               int
	Name              string
	Priority          Priority
	State             State
	Devices           [MaxDevices]int // ids del VFS, NoDevice = libre
	Inbox             *list.ArrayList[KernelMessage]
	WaitingForMessage bool
	WakeUpTime        time.Time // cero = no duerme
	Exceedances       int
	Runtime           Runtime
}

func NewPCB(pid int, name string, priority Priority, runtime Runtime) *PCB {
	pcb := &PCB{
		PID:      pid,
		Name:     name,
		Priority: priority,
		State:    EstadoNew,
		Inbox:    &list.ArrayList[KernelMessage]{},
		Runtime:  runtime,
	}
	for i := range pcb.Devices {
		pcb.Devices[i] = NoDevice
	}
	return pcb
}

// FreeDeviceSlot devuelve el primer slot libre o -1.
func (pcb *PCB) FreeDeviceSlot() int {
	for slot, id := range pcb.Devices {
		if id == NoDevice {
			return slot
		}
	}
	return -1
}

// DeviceID traduce un slot del proceso al id del VFS.
func (pcb *PCB) DeviceID(slot int) (int, bool) {
	if slot < 0 || slot >= MaxDevices || pcb.Devices[slot] == NoDevice {
		return NoDevice, false
	}
	return pcb.Devices[slot], true
}

func (pcb *PCB) OpenDevices() int {
	count := 0
	for _, id := range pcb.Devices {
		if id != NoDevice {
			count++
		}
	}
	return count
}

// ProcessInfo es la foto de un PCB que se expone por el endpoint de estado.
type ProcessInfo struct {
	PID             int    `json:"pid"`
	Name            string `json:"name"`
	Priority        string `json:"priority"`
	State           string `json:"state"`
	PendingMessages int    `json:"pending_messages"`
	Exceedances     int    `json:"exceedances"`
	OpenDevices     int    `json:"open_devices"`
}

func (pcb *PCB) Info() ProcessInfo {
	return ProcessInfo{
		PID:             pcb.PID,
		Name:            pcb.Name,
		Priority:        pcb.Priority.String(),
		State:           pcb.State.String(),
		PendingMessages: pcb.Inbox.Size(),
		Exceedances:     pcb.Exceedances,
		OpenDevices:     pcb.OpenDevices(),
	}
}
