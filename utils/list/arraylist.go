package list

import (
	"fmt"
	"sync"
)

// List define las operaciones de una cola/lista genérica.
type List[T any] interface {
	Add(item T)                                 // Añadir un elemento al final de la lista
	Dequeue() (T, error)                        // Eliminar y devolver el primer elemento de la lista
	Find(predicate func(T) bool) (T, int, bool) // Permite buscar un elemento de la lista dado un predicado.
	GetAll() []T                                // Retorna una copia de los elementos
	RemoveWhere(match func(T) bool) bool        // Elimina el primer elemento que cumpla el predicado
	RemoveAll(match func(T) bool) []T           // Elimina y devuelve, en orden, todos los que cumplan el predicado
	Size() int                                  // Retornar el tamaño de la lista
	IsEmpty() bool
}

// ArrayList implementa List sobre un slice protegido por un RWMutex.
// El valor cero está listo para usarse.
type ArrayList[T any] struct {
	mu    sync.RWMutex
	items []T
}

// Add inserta un elemento al final de la lista.
//
// Ejemplo:
//
//	func main() {
//		list := &ArrayList[int]{}
//		list.Add(10)
//		list.Add(20)
//	}
func (list *ArrayList[T]) Add(item T) {
	list.mu.Lock()
	defer list.mu.Unlock()

	list.items = append(list.items, item)
}

// Dequeue elimina y devuelve el primer elemento de la cola.
// En caso de que la lista se encuentre vacía retorna el valor "cero" del tipo T y un error.
//
// Ejemplo:
//
//	func main() {
//		numbers := &list.ArrayList[int]{}
//		numbers.Add(10)
//		numbers.Add(20)
//		value, _ := numbers.Dequeue()
//		fmt.Println("Valor: ", value) //output: 10
//	}
func (list *ArrayList[T]) Dequeue() (T, error) {
	list.mu.Lock()
	defer list.mu.Unlock()

	if len(list.items) == 0 {
		var zero T
		return zero, fmt.Errorf("list is empty")
	}
	value := list.items[0]
	var zero T
	list.items[0] = zero // no retener referencias en el array subyacente
	list.items = list.items[1:]
	return value, nil
}

// Find permite buscar un elemento de la lista dado un predicado.
// Retorna el elemento, su índice y si fue encontrado.
//
// Ejemplo:
//
//	func main() {
//		list := &ArrayList[int]{}
//		list.Add(10)
//		list.Add(20)
//		number, index, found := list.Find(func(number int) bool {
//			return number == 20
//		})
//	}
func (list *ArrayList[T]) Find(predicate func(T) bool) (T, int, bool) {
	list.mu.RLock() //Bloqueo de solo lectura: permite otras lecturas concurrentes
	defer list.mu.RUnlock()

	for i, item := range list.items {
		if predicate(item) {
			return item, i, true
		}
	}
	var zero T
	return zero, -1, false
}

// GetAll retorna una copia de todos los elementos que se encuentra en la lista
func (list *ArrayList[T]) GetAll() []T {
	list.mu.RLock()
	defer list.mu.RUnlock()

	// Copia del slice para evitar que modificaciones externas afecten la lista interna
	itemsCopy := make([]T, len(list.items))
	copy(itemsCopy, list.items)
	return itemsCopy
}

// RemoveWhere elimina el primer elemento que cumpla el predicado.
// Retorna true si eliminó alguno.
func (list *ArrayList[T]) RemoveWhere(match func(T) bool) bool {
	list.mu.Lock()
	defer list.mu.Unlock()

	for i, item := range list.items {
		if match(item) {
			list.items = append(list.items[:i], list.items[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveAll elimina todos los elementos que cumplan el predicado y los
// devuelve respetando el orden en que estaban en la lista.
//
// Ejemplo:
//
//	func main() {
//		list := &ArrayList[int]{}
//		list.Add(1)
//		list.Add(2)
//		list.Add(3)
//		pares := list.RemoveAll(func(n int) bool { return n%2 == 0 }) // [2], list: [1, 3]
//	}
func (list *ArrayList[T]) RemoveAll(match func(T) bool) []T {
	list.mu.Lock()
	defer list.mu.Unlock()

	var removed []T
	kept := list.items[:0]
	for _, item := range list.items {
		if match(item) {
			removed = append(removed, item)
			continue
		}
		kept = append(kept, item)
	}
	var zero T
	for i := len(kept); i < len(list.items); i++ {
		list.items[i] = zero
	}
	list.items = kept
	return removed
}

// Size devuelve el tamaño de la lista.
func (list *ArrayList[T]) Size() int {
	list.mu.RLock()
	defer list.mu.RUnlock()

	return len(list.items)
}

// IsEmpty indica si la lista no tiene elementos.
func (list *ArrayList[T]) IsEmpty() bool {
	return list.Size() == 0
}
