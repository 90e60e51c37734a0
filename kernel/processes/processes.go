// Package processes tiene los procesos de ejemplo que se pueden lanzar desde la config.
package processes

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/KyleAdjei/Operating-Sytem/kernel/models"
	"github.com/KyleAdjei/Operating-Sytem/kernel/services"
	memoriaModels "github.com/KyleAdjei/Operating-Sytem/memoria/models"
)

const (
	PingName       = "ping"
	PongName       = "pong"
	BackgroundName = "background"
	MemoryName     = "memoria"
	DevicesName    = "dispositivos"

	pingRounds = 5
)

// Sample es un proceso de ejemplo listo para crear.
type Sample struct {
	Name     string
	Priority models.Priority
	Body     func(*services.Process)
}

// Lookup traduce un nombre de la config al proceso de ejemplo.
func Lookup(name string) (Sample, error) {
	switch strings.ToLower(name) {
	case PingName:
		return Sample{Name: PingName, Priority: models.Interactive, Body: Ping(pingRounds)}, nil
	case PongName:
		return Sample{Name: PongName, Priority: models.Interactive, Body: Pong}, nil
	case BackgroundName:
		return Sample{Name: BackgroundName, Priority: models.Background, Body: Background}, nil
	case MemoryName:
		return Sample{Name: MemoryName, Priority: models.RealTime, Body: Memory}, nil
	case DevicesName:
		return Sample{Name: DevicesName, Priority: models.Interactive, Body: Devices}, nil
	default:
		return Sample{}, fmt.Errorf("%w: %q", models.ErrUnknownWorkload, name)
	}
}

// Ping le manda rounds mensajes a pong y espera cada respuesta.
func Ping(rounds int) func(*services.Process) {
	return func(p *services.Process) {
		pongPID, found := p.GetPidByName(PongName)
		for attempt := 0; !found && attempt < 10; attempt++ {
			p.Sleep(10)
			pongPID, found = p.GetPidByName(PongName)
		}
		if !found {
			slog.Warn("PING: no se encontró a pong, termina")
			return
		}
		slog.Info(fmt.Sprintf("PING: pong tiene PID %d", pongPID))

		for i := 0; i < rounds; i++ {
			if err := p.SendMessage(models.KernelMessage{TargetPID: pongPID, What: i}); err != nil {
				slog.Warn(fmt.Sprintf("PING: pong ya no existe: %v", err))
				return
			}
			p.Sleep(20)

			reply := p.WaitForMessage()
			slog.Info(fmt.Sprintf("PING: from: %d to: %d what: %d", reply.SenderPID, p.GetPid(), reply.What))
			p.Cooperate()
		}
	}
}

// Pong responde cada mensaje con el mismo what. No termina nunca.
func Pong(p *services.Process) {
	for {
		incoming := p.WaitForMessage()
		slog.Info(fmt.Sprintf("PONG: from: %d to: %d what: %d", incoming.SenderPID, p.GetPid(), incoming.What))

		p.SendMessage(models.KernelMessage{TargetPID: incoming.SenderPID, What: incoming.What})
		p.Cooperate()
	}
}

// Background simula trabajo de fondo: ocupa la CPU un rato y se duerme.
func Background(p *services.Process) {
	for {
		time.Sleep(10 * time.Millisecond)
		p.Cooperate()
		p.Sleep(100)
	}
}

// Memory reserva unas páginas, escribe un patrón y lo verifica.
func Memory(p *services.Process) {
	const pages = 4
	address, err := p.AllocateMemory(pages * memoriaModels.PageSize)
	if err != nil {
		slog.Error(fmt.Sprintf("MEMORIA: no se pudo reservar: %v", err))
		return
	}
	defer p.FreeMemory(address, pages*memoriaModels.PageSize)

	for page := 0; page < pages; page++ {
		p.Write(address+page*memoriaModels.PageSize, byte(page+1))
		p.Cooperate()
	}
	for page := 0; page < pages; page++ {
		value, err := p.Read(address + page*memoriaModels.PageSize)
		if err != nil || value != byte(page+1) {
			slog.Error(fmt.Sprintf("MEMORIA: página %d leyó %d (%v)", page, value, err))
			return
		}
	}
	slog.Info(fmt.Sprintf("MEMORIA: %d páginas verificadas desde la dirección %d", pages, address))
}

// Devices lee unos bytes del dispositivo aleatorio.
func Devices(p *services.Process) {
	slot, err := p.Open(fmt.Sprintf("random %d", p.GetPid()))
	if err != nil {
		slog.Error(fmt.Sprintf("DISPOSITIVOS: no se pudo abrir random: %v", err))
		return
	}
	defer p.Close(slot)

	data := p.ReadDevice(slot, 8)
	slog.Info(fmt.Sprintf("DISPOSITIVOS: leídos %d bytes aleatorios: %v", len(data), data))
}
