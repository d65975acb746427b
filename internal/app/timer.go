package app

import (
	"sync"
	"time"
)

// CountdownTimer is a restartable single-countdown primitive. It ticks once
// per interval while running, never goes below zero, and raises an
// edge-triggered expiry signal exactly once per Start. The signal is cleared
// only by Start or Reset, so a consumer observing it twice cannot
// double-handle a question.
//
// Callbacks are invoked outside the timer's lock, on the tick goroutine.
type CountdownTimer struct {
	interval time.Duration
	onTick   func(remaining int)
	onExpire func()

	mu        sync.Mutex
	remaining int
	running   bool
	expired   bool
	gen       uint64
	cancel    chan struct{}
}

// NewCountdownTimer builds a timer ticking at interval (time.Second in
// production; tests inject a large interval and drive Tick directly).
// Either callback may be nil.
func NewCountdownTimer(interval time.Duration, onTick func(remaining int), onExpire func()) *CountdownTimer {
	if interval <= 0 {
		interval = time.Second
	}
	return &CountdownTimer{
		interval: interval,
		onTick:   onTick,
		onExpire: onExpire,
	}
}

// Start resets remaining time to seconds, clears any prior expiry signal and
// begins ticking. Any previously scheduled tick stream is cancelled first so
// rapid start/reset/start sequences never produce overlapping streams.
func (t *CountdownTimer) Start(seconds int) {
	t.mu.Lock()
	t.cancelLocked()
	t.remaining = seconds
	t.expired = false
	t.running = seconds > 0
	if !t.running {
		t.mu.Unlock()
		return
	}
	t.gen++
	gen := t.gen
	cancel := make(chan struct{})
	t.cancel = cancel
	t.mu.Unlock()

	go t.run(gen, cancel)
}

// Stop halts ticking without clearing remaining time or expiry state.
func (t *CountdownTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = false
	t.cancelLocked()
}

// Reset stops ticking and sets remaining time, clearing the expiry signal.
func (t *CountdownTimer) Reset(seconds int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelLocked()
	t.running = false
	t.remaining = seconds
	t.expired = false
}

// Remaining reports the seconds left on the countdown.
func (t *CountdownTimer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

// Expired reports whether the expiry signal has fired since the last Start or Reset.
func (t *CountdownTimer) Expired() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.expired
}

// Tick advances the countdown by one second. The scheduled tick stream calls
// this once per interval; tests call it directly for deterministic time.
func (t *CountdownTimer) Tick() {
	t.mu.Lock()
	gen := t.gen
	t.mu.Unlock()
	t.tick(gen)
}

func (t *CountdownTimer) run(gen uint64, cancel <-chan struct{}) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-cancel:
			return
		case <-ticker.C:
			if !t.tick(gen) {
				return
			}
		}
	}
}

// tick decrements once and reports whether the stream should keep running.
func (t *CountdownTimer) tick(gen uint64) bool {
	t.mu.Lock()
	if gen != t.gen || !t.running {
		t.mu.Unlock()
		return false
	}
	t.remaining--
	if t.remaining <= 0 {
		t.remaining = 0
		t.running = false
		t.expired = true
		onExpire := t.onExpire
		t.mu.Unlock()
		if onExpire != nil {
			onExpire()
		}
		return false
	}
	remaining := t.remaining
	onTick := t.onTick
	t.mu.Unlock()
	if onTick != nil {
		onTick(remaining)
	}
	return true
}

func (t *CountdownTimer) cancelLocked() {
	if t.cancel != nil {
		close(t.cancel)
		t.cancel = nil
	}
	t.gen++
}
