// Package debounce collapses bursts of triggers into a single call.
package debounce

import (
	"sync"
	"time"
)

// afterFunc is swapped in tests to run timer callbacks by hand.
var afterFunc = time.AfterFunc

// Debouncer runs fn once delay has passed without another Trigger.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	fn    func()
	// gen identifies the pending schedule; a timer callback whose
	// generation no longer matches is dropped.
	gen uint64
}

func New(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = afterFunc(d.delay, func() { d.fire(gen) })
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.gen++
	d.timer = nil
	d.mu.Unlock()
	d.fn()
}

// Stop cancels a pending call.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
