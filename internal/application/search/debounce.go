// Package search sincroniza el término de búsqueda con el estado navegable (query string)
// agrupando ráfagas de cambios con un debounce.
package search

import (
	"sync"
	"time"
)

// DefaultWait ventana de quietud por defecto.
const DefaultWait = 300 * time.Millisecond

// Timer handle cancelable de un efecto programado.
type Timer interface {
	Stop() bool
}

// AfterFunc programa f tras d. time.AfterFunc satisface la firma adaptando su retorno.
type AfterFunc func(d time.Duration, f func()) Timer

func stdAfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// Debouncer ejecuta fn con el último valor recibido cuando pasan wait sin nuevos Submit.
// Mantiene como mucho un timer pendiente.
type Debouncer[T any] struct {
	mu        sync.Mutex
	wait      time.Duration
	fn        func(T)
	afterFunc AfterFunc
	pending   Timer
	seq       uint64
	disposed  bool
}

// DebouncerOption configura el Debouncer.
type DebouncerOption[T any] func(*Debouncer[T])

// WithAfterFunc reemplaza el planificador (tests deterministas).
func WithAfterFunc[T any](af AfterFunc) DebouncerOption[T] {
	return func(d *Debouncer[T]) { d.afterFunc = af }
}

// NewDebouncer construye el debouncer. wait <= 0 usa DefaultWait.
func NewDebouncer[T any](wait time.Duration, fn func(T), opts ...DebouncerOption[T]) *Debouncer[T] {
	if wait <= 0 {
		wait = DefaultWait
	}
	d := &Debouncer[T]{wait: wait, fn: fn, afterFunc: stdAfterFunc}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Submit cancela el efecto pendiente (si lo hay) y programa uno nuevo con v.
func (d *Debouncer[T]) Submit(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.disposed {
		return
	}
	if d.pending != nil {
		d.pending.Stop()
	}
	d.seq++
	seq := d.seq
	d.pending = d.afterFunc(d.wait, func() { d.fire(seq, v) })
}

// fire descarta disparos obsoletos: Stop puede llegar tarde si el timer ya estaba en vuelo.
func (d *Debouncer[T]) fire(seq uint64, v T) {
	d.mu.Lock()
	if d.disposed || seq != d.seq {
		d.mu.Unlock()
		return
	}
	d.pending = nil
	d.mu.Unlock()
	d.fn(v)
}

// Dispose cancela el efecto pendiente. Tras Dispose ningún Submit tiene efecto.
func (d *Debouncer[T]) Dispose() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.disposed = true
	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
}
