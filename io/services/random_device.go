package services

import (
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/KyleAdjei/Operating-Sytem/io/models"
)

// RandomDevice genera bytes pseudo-aleatorios. Es de solo lectura.
type RandomDevice struct {
	mu         sync.Mutex
	generators [models.MaxOpenDevices]*rand.Rand
}

func NewRandomDevice() *RandomDevice {
	return &RandomDevice{}
}

// Open acepta opcionalmente una semilla entera; si no es válida se usa la hora actual.
func (d *RandomDevice) Open(seed string) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for id := range d.generators {
		if d.generators[id] == nil {
			d.generators[id] = newGenerator(seed)
			return id, nil
		}
	}
	return -1, models.ErrNoFreeHandle
}

func (d *RandomDevice) Close(id int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.get(id) != nil {
		d.generators[id] = nil
	}
}

func (d *RandomDevice) Read(id int, size int) []byte {
	d.mu.Lock()
	defer d.mu.Unlock()

	generator := d.get(id)
	if generator == nil || size <= 0 {
		return []byte{}
	}
	buffer := make([]byte, size)
	generator.Read(buffer)
	return buffer
}

func (d *RandomDevice) Write(id int, data []byte) int {
	return 0
}

// Seek avanza el generador descartando "to" bytes.
func (d *RandomDevice) Seek(id int, to int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	generator := d.get(id)
	if generator == nil || to <= 0 {
		return
	}
	generator.Read(make([]byte, to))
}

func (d *RandomDevice) get(id int) *rand.Rand {
	if id < 0 || id >= len(d.generators) {
		return nil
	}
	return d.generators[id]
}

func newGenerator(seed string) *rand.Rand {
	if parsed, err := strconv.ParseInt(strings.TrimSpace(seed), 10, 64); err == nil {
		return rand.New(rand.NewSource(parsed))
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
