package random

import (
	"math/rand"
	"sync"
	"time"
)

// Source es la fuente de aleatoriedad que usan el planificador y la memoria
// (pesos de las colas, slot de TLB, víctima de swap). *rand.Rand la cumple.
type Source interface {
	Intn(n int) int
}

// NewSource devuelve una fuente segura para usar desde varias goroutines.
// Con seed 0 se siembra con la hora actual.
func NewSource(seed int64) Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &lockedSource{r: rand.New(rand.NewSource(seed))}
}

type lockedSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (s *lockedSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Intn(n)
}

// Sequence devuelve los valores cargados en orden, cíclicamente, acotados a n.
// Sirve para que los tests fijen las decisiones aleatorias.
//
// Ejemplo:
//
//	seq := random.NewSequence(0, 9) // primera llamada Intn(10) -> 0, segunda -> 9
type Sequence struct {
	mu     sync.Mutex
	values []int
	next   int
}

func NewSequence(values ...int) *Sequence {
	if len(values) == 0 {
		values = []int{0}
	}
	return &Sequence{values: values}
}

func (s *Sequence) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	value := s.values[s.next%len(s.values)]
	s.next++
	if value < 0 {
		value = -value
	}
	return value % n
}
