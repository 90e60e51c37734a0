package services

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/KyleAdjei/Operating-Sytem/kernel/models"
	"github.com/KyleAdjei/Operating-Sytem/utils/list"
	"github.com/KyleAdjei/Operating-Sytem/utils/random"
)

// Pesos de la elección de cola, sobre 10.
const (
	realTimeWeight    = 6
	interactiveWeight = 9
)

// Scheduler decide qué proceso corre. No es seguro para uso concurrente:
// solo lo toca la goroutine del kernel.
type Scheduler struct {
	queues    *models.Queues
	processes *models.ProcessTable
	running   *models.PCB
	quantum   time.Duration
	threshold int
	timer     *time.Timer
	rand      random.Source
	now       func() time.Time
	onSwitch  func()

	// quantumGen cambia en cada arranque o corte del quantum. Un timer que ya
	// estaba disparando cuando se lo cortó no avisa a nadie.
	quantumGen atomic.Uint64
}

// NewScheduler crea un planificador vacío. Con quantum <= 0 no se arma el timer.
func NewScheduler(rand random.Source, quantum time.Duration, threshold int) *Scheduler {
	return &Scheduler{
		queues:    models.NewQueues(),
		processes: models.NewProcessTable(),
		quantum:   quantum,
		threshold: threshold,
		rand:      rand,
		now:       time.Now,
	}
}

// SetClock reemplaza el reloj. Lo usan los tests.
func (s *Scheduler) SetClock(now func() time.Time) {
	s.now = now
}

// OnSwitch registra lo que hay que hacer en cada cambio de proceso (limpiar la TLB).
func (s *Scheduler) OnSwitch(hook func()) {
	s.onSwitch = hook
}

func (s *Scheduler) Running() *models.PCB {
	return s.running
}

func (s *Scheduler) Lookup(pid int) (*models.PCB, bool) {
	return s.processes.Get(pid)
}

func (s *Scheduler) LookupByName(name string) (*models.PCB, bool) {
	return s.processes.FindByName(name)
}

// Processes lista todos los procesos vivos ordenados por PID.
func (s *Scheduler) Processes() []models.ProcessInfo {
	pcbs := s.processes.All()
	infos := make([]models.ProcessInfo, 0, len(pcbs))
	for _, pcb := range pcbs {
		infos = append(infos, pcb.Info())
	}
	return infos
}

// Admit registra un proceso nuevo y lo encola. Si no corre nadie, despacha.
func (s *Scheduler) Admit(pcb *models.PCB) {
	s.processes.Add(pcb)
	slog.Info(fmt.Sprintf("## (%d) Se crea el proceso %s - Prioridad %s", pcb.PID, pcb.Name, pcb.Priority))
	s.transitionState(pcb, models.EstadoReady)

	if s.running == nil {
		s.Dispatch()
	}
}

// Dispatch elige al próximo proceso. Antes limpia la TLB y despierta a los
// dormidos cuyo plazo venció. Devuelve nil si no hay nada para correr.
func (s *Scheduler) Dispatch() *models.PCB {
	if s.running != nil {
		panic(fmt.Sprintf("planificador: dispatch con el proceso %d en ejecución", s.running.PID))
	}

	s.stopQuantum()
	if s.onSwitch != nil {
		s.onSwitch()
	}
	s.wakeSleepers()

	next := s.pickNext()
	if next == nil {
		return nil
	}
	slog.Debug(fmt.Sprintf("## (%d) Elegido - Colas READY: RT %v INT %v BG %v", next.PID,
		s.queues.ReadyPIDs(models.RealTime),
		s.queues.ReadyPIDs(models.Interactive),
		s.queues.ReadyPIDs(models.Background),
	))
	s.running = next
	s.transitionState(next, models.EstadoRunning)
	s.startQuantum(next)
	return next
}

// Yield devuelve al proceso en ejecución al final de su cola y despacha.
// Si superó el quantum más veces que el umbral, baja un nivel de prioridad.
func (s *Scheduler) Yield() *models.PCB {
	if pcb := s.takeRunning(); pcb != nil {
		if pcb.Exceedances > s.threshold {
			previous := pcb.Priority
			pcb.Priority = pcb.Priority.Demote()
			pcb.Exceedances = 0
			slog.Info(fmt.Sprintf("## (%d) Excedió el quantum - Prioridad %s -> %s", pcb.PID, previous, pcb.Priority))
		}
		s.transitionState(pcb, models.EstadoReady)
	}
	return s.Dispatch()
}

// Sleep duerme al proceso en ejecución al menos milliseconds y despacha.
func (s *Scheduler) Sleep(milliseconds int) *models.PCB {
	if pcb := s.takeRunning(); pcb != nil {
		pcb.WakeUpTime = s.now().Add(time.Duration(milliseconds) * time.Millisecond)
		pcb.Exceedances = 0
		s.transitionState(pcb, models.EstadoSleeping)
	}
	return s.Dispatch()
}

// Block deja al proceso en ejecución esperando un mensaje y despacha.
func (s *Scheduler) Block() *models.PCB {
	if pcb := s.takeRunning(); pcb != nil {
		pcb.WaitingForMessage = true
		pcb.Exceedances = 0
		s.transitionState(pcb, models.EstadoBlocked)
	}
	return s.Dispatch()
}

// Unblock vuelve a READY a un proceso que esperaba un mensaje.
func (s *Scheduler) Unblock(pcb *models.PCB) bool {
	if !pcb.WaitingForMessage || pcb.State != models.EstadoBlocked {
		return false
	}
	pcb.WaitingForMessage = false
	s.RestoreToRunnable(pcb)
	return true
}

// Terminate saca al proceso en ejecución del sistema. No despacha: el kernel
// primero libera sus recursos.
func (s *Scheduler) Terminate() *models.PCB {
	pcb := s.takeRunning()
	if pcb == nil {
		return nil
	}
	s.stopQuantum()
	s.transitionState(pcb, models.EstadoTerminated)
	s.processes.Remove(pcb.PID)
	return pcb
}

// RestoreToRunnable pone al proceso al final de la cola de su prioridad.
func (s *Scheduler) RestoreToRunnable(pcb *models.PCB) {
	s.transitionState(pcb, models.EstadoReady)
}

// SelectVictim elige uniformemente entre los candidatos que siguen vivos.
func (s *Scheduler) SelectVictim(candidates []int) (int, bool) {
	alive := make([]int, 0, len(candidates))
	for _, pid := range candidates {
		if _, ok := s.processes.Get(pid); ok {
			alive = append(alive, pid)
		}
	}
	if len(alive) == 0 {
		return -1, false
	}
	return alive[s.rand.Intn(len(alive))], true
}

// Stop apaga el timer del quantum.
func (s *Scheduler) Stop() {
	s.stopQuantum()
}

func (s *Scheduler) takeRunning() *models.PCB {
	pcb := s.running
	s.running = nil
	return pcb
}

func (s *Scheduler) wakeSleepers() {
	now := s.now()
	woken := s.queues.Sleeping.RemoveAll(func(pcb *models.PCB) bool {
		return !pcb.WakeUpTime.After(now)
	})
	for _, pcb := range woken {
		pcb.WakeUpTime = time.Time{}
		s.RestoreToRunnable(pcb)
	}
}

// pickNext tira una vez por cola: REAL_TIME sale con 6/10, INTERACTIVE con 9/10
// y BACKGROUND siempre. Si ninguna tirada acierta y BACKGROUND está vacía no
// corre nadie; el tick del kernel vuelve a intentar.
func (s *Scheduler) pickNext() *models.PCB {
	realTime := s.queues.Ready[models.RealTime]
	interactive := s.queues.Ready[models.Interactive]
	background := s.queues.Ready[models.Background]

	switch {
	case !realTime.IsEmpty() && s.rand.Intn(10) < realTimeWeight:
		return dequeue(realTime)
	case !interactive.IsEmpty() && s.rand.Intn(10) < interactiveWeight:
		return dequeue(interactive)
	case !background.IsEmpty():
		return dequeue(background)
	}
	return nil
}

func dequeue(queue *list.ArrayList[*models.PCB]) *models.PCB {
	pcb, err := queue.Dequeue()
	if err != nil {
		return nil
	}
	return pcb
}

func (s *Scheduler) startQuantum(pcb *models.PCB) {
	if pcb.Runtime == nil {
		return
	}
	pcb.Runtime.ClearYield()
	if s.quantum <= 0 {
		return
	}
	generation := s.quantumGen.Add(1)
	runtime := pcb.Runtime
	s.timer = time.AfterFunc(s.quantum, func() {
		s.quantumExpired(generation, runtime)
	})
}

// quantumExpired corre en la goroutine del timer.
func (s *Scheduler) quantumExpired(generation uint64, runtime models.Runtime) {
	if s.quantumGen.Load() != generation {
		return
	}
	runtime.RequestYield()
}

func (s *Scheduler) stopQuantum() {
	s.quantumGen.Add(1)
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
