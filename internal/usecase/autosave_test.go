package usecase

import (
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeClock fires timers only when Advance moves past their deadline.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now + d, fn: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && t.at <= c.now {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	sort.Slice(due, func(i, j int) bool { return due[i].at < due[j].at })
	for _, t := range due {
		t.fn()
	}
}

func TestDebouncer_TrailingEdge(t *testing.T) {
	clock := &fakeClock{}
	d := NewDebouncer(clock, 500*time.Millisecond)

	var saved []int
	for i := 1; i <= 3; i++ {
		v := i
		d.Trigger("doc", func() { saved = append(saved, v) })
		clock.Advance(100 * time.Millisecond)
	}
	assert.Empty(t, saved)
	assert.Equal(t, 1, d.Pending())

	clock.Advance(350 * time.Millisecond)
	assert.Empty(t, saved)

	clock.Advance(50 * time.Millisecond)
	assert.Equal(t, []int{3}, saved)
	assert.Zero(t, d.Pending())

	clock.Advance(time.Second)
	assert.Equal(t, []int{3}, saved)
}

func TestDebouncer_KeysAreIndependent(t *testing.T) {
	clock := &fakeClock{}
	d := NewDebouncer(clock, time.Second)

	var saved []string
	d.Trigger("a", func() { saved = append(saved, "a") })
	clock.Advance(600 * time.Millisecond)
	d.Trigger("b", func() { saved = append(saved, "b") })
	clock.Advance(600 * time.Millisecond)
	assert.Equal(t, []string{"a"}, saved)

	clock.Advance(600 * time.Millisecond)
	assert.Equal(t, []string{"a", "b"}, saved)
}

func TestDebouncer_FlushAndStop(t *testing.T) {
	clock := &fakeClock{}
	d := NewDebouncer(clock, time.Second)

	calls := 0
	d.Trigger("doc", func() { calls++ })
	d.Flush()
	assert.Equal(t, 1, calls)

	clock.Advance(2 * time.Second)
	assert.Equal(t, 1, calls)

	d.Trigger("doc", func() { calls++ })
	d.Stop()
	assert.Equal(t, 2, calls)

	d.Trigger("doc", func() { calls++ })
	assert.Equal(t, 3, calls)
}

func TestDebouncer_ZeroWindowIsImmediate(t *testing.T) {
	d := NewDebouncer(&fakeClock{}, 0)
	calls := 0
	d.Trigger("doc", func() { calls++ })
	assert.Equal(t, 1, calls)
}

func TestDebouncer_Cancel(t *testing.T) {
	clock := &fakeClock{}
	d := NewDebouncer(clock, time.Second)

	calls := 0
	d.Trigger("a", func() { calls++ })
	d.Trigger("b", func() { calls += 10 })
	assert.True(t, d.Cancel("a"))
	assert.False(t, d.Cancel("a"))

	clock.Advance(2 * time.Second)
	assert.Equal(t, 10, calls)
	d.Flush()
	assert.Equal(t, 10, calls)
}
