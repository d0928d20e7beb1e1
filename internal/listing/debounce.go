package listing

import (
	"sync"
	"time"
)

// Debouncer applies the latest submitted value once no new value has arrived for the
// configured delay. A value superseded before its delay elapses is never applied.
type Debouncer[T any] struct {
	delay time.Duration
	apply func(T)

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	pending T
	armed   bool
}

func NewDebouncer[T any](delay time.Duration, apply func(T)) *Debouncer[T] {
	if delay < 0 {
		delay = 0
	}
	return &Debouncer[T]{delay: delay, apply: apply}
}

func (d *Debouncer[T]) Submit(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.pending = v
	d.armed = true
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

func (d *Debouncer[T]) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || !d.armed {
		d.mu.Unlock()
		return
	}
	v := d.pending
	d.armed = false
	d.mu.Unlock()

	if d.apply != nil {
		d.apply(v)
	}
}

// Flush applies the pending value immediately. It reports whether a value was pending.
func (d *Debouncer[T]) Flush() bool {
	d.mu.Lock()
	if !d.armed {
		d.mu.Unlock()
		return false
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	v := d.pending
	d.armed = false
	d.mu.Unlock()

	if d.apply != nil {
		d.apply(v)
	}
	return true
}

// Stop discards the pending value, if any.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	d.armed = false
}
