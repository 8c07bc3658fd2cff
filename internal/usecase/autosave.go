package usecase

import (
	"sync"
	"time"
)

// Timer is the part of *time.Timer the debouncer needs.
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks. Tests substitute a virtual clock.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// RealClock is backed by the time package.
func RealClock() Clock { return realClock{} }

type pending struct {
	gen   uint64
	timer Timer
	fn    func()
}

// Debouncer runs the last function triggered for a key once the key has
// been quiet for the window (trailing edge). Different keys do not
// interfere.
type Debouncer struct {
	mu      sync.Mutex
	clock   Clock
	window  time.Duration
	gen     uint64
	pending map[string]*pending
	stopped bool
}

func NewDebouncer(clock Clock, window time.Duration) *Debouncer {
	if clock == nil {
		clock = RealClock()
	}
	return &Debouncer{clock: clock, window: window, pending: map[string]*pending{}}
}

// Trigger schedules fn for key, replacing whatever was scheduled before.
// After Stop, fn runs immediately.
func (d *Debouncer) Trigger(key string, fn func()) {
	d.mu.Lock()
	if d.stopped || d.window <= 0 {
		d.mu.Unlock()
		fn()
		return
	}
	if p, ok := d.pending[key]; ok {
		p.timer.Stop()
	}
	d.gen++
	gen := d.gen
	p := &pending{gen: gen, fn: fn}
	d.pending[key] = p
	p.timer = d.clock.AfterFunc(d.window, func() { d.fire(key, gen) })
	d.mu.Unlock()
}

func (d *Debouncer) fire(key string, gen uint64) {
	d.mu.Lock()
	p, ok := d.pending[key]
	if !ok || p.gen != gen {
		d.mu.Unlock()
		return
	}
	delete(d.pending, key)
	d.mu.Unlock()
	p.fn()
}

// Cancel drops whatever is scheduled for key. It reports whether
// something was pending.
func (d *Debouncer) Cancel(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.pending[key]
	if !ok {
		return false
	}
	p.timer.Stop()
	delete(d.pending, key)
	return true
}

// Pending reports how many keys are waiting.
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// Flush runs every pending function now, in no particular order.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	fns := make([]func(), 0, len(d.pending))
	for key, p := range d.pending {
		p.timer.Stop()
		fns = append(fns, p.fn)
		delete(d.pending, key)
	}
	d.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Stop flushes and switches the debouncer to immediate mode.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()
	d.Flush()
}
