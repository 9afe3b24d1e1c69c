package core

import (
	"sync"
	"time"
)

// IntervalForRate converts a per-second rate into a tick interval. Non-positive
// rates fall back to fallback.
func IntervalForRate(rate, fallback float64) time.Duration {
	if rate <= 0 {
		rate = fallback
	}
	return time.Duration(float64(time.Second) / rate)
}

// Repeater runs a callback on a fixed interval until stopped. Each Repeater is
// a handle for exactly one schedule, so stopping one never affects another.
// Firings never overlap: the next tick is not consumed until fn returns.
type Repeater struct {
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
	once     sync.Once
}

// NewRepeater creates a stopped repeater with the given interval.
func NewRepeater(interval time.Duration) *Repeater {
	if interval <= 0 {
		interval = time.Millisecond
	}
	return &Repeater{
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Interval returns the configured tick interval.
func (r *Repeater) Interval() time.Duration { return r.interval }

// Start launches the schedule. It must be called at most once.
func (r *Repeater) Start(fn func()) {
	go func() {
		defer close(r.done)
		t := time.NewTicker(r.interval)
		defer t.Stop()
		for {
			select {
			case <-r.stop:
				return
			case <-t.C:
				select {
				case <-r.stop:
					return
				default:
				}
				fn()
			}
		}
	}()
}

// Stop cancels the schedule. It does not wait for an in-flight callback and is
// safe to call more than once.
func (r *Repeater) Stop() {
	r.once.Do(func() { close(r.stop) })
}

// Done is closed once the schedule goroutine has exited.
func (r *Repeater) Done() <-chan struct{} { return r.done }

// Stopped reports whether Stop has been called.
func (r *Repeater) Stopped() bool {
	select {
	case <-r.stop:
		return true
	default:
		return false
	}
}
