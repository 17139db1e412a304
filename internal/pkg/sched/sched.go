/*
Package sched provides a ledger of cancellable, keyed delay timers.

It backs debounce behavior: arming a key supersedes any timer already armed for
that key, so a key never has two live timers. A timer callback that lost the
race against a newer Arm or an explicit Cancel observes this under the ledger
lock and performs no action.
*/
package sched

import (
	"sync"
	"time"
)

// Timers owns at most one pending timer per key.
type Timers struct {
	mu     sync.Mutex
	active map[string]*time.Timer
}

// NewTimers returns an empty timer ledger.
func NewTimers() *Timers {
	return &Timers{
		active: make(map[string]*time.Timer),
	}
}

// Arm schedules fire to run after d, replacing any timer currently armed for
// key. It reports whether a previous timer was replaced.
//
// The callback runs on the timer goroutine. Before calling fire, it verifies
// under the ledger lock that it is still the current timer for key; a callback
// superseded by a later Arm or Cancel returns without calling fire, even if it
// was already in flight when the supersession happened.
func (t *Timers) Arm(key string, d time.Duration, fire func()) (replaced bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if prev, ok := t.active[key]; ok {
		prev.Stop()
		replaced = true
	}

	var tm *time.Timer
	tm = time.AfterFunc(d, func() {
		t.mu.Lock()
		cur, ok := t.active[key]
		if !ok || cur != tm {
			// Superseded between firing and acquiring the lock.
			t.mu.Unlock()
			return
		}
		delete(t.active, key)
		t.mu.Unlock()

		fire()
	})

	t.active[key] = tm
	return replaced
}

// Cancel stops and removes the timer for key, if any. It reports whether a
// timer was live. The removal is synchronous: once Cancel returns, the
// cancelled timer's callback can no longer run its fire function.
func (t *Timers) Cancel(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	tm, ok := t.active[key]
	if !ok {
		return false
	}
	tm.Stop()
	delete(t.active, key)
	return true
}

// Active reports whether a timer is currently armed for key.
func (t *Timers) Active(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, ok := t.active[key]
	return ok
}

// Len returns the number of armed timers.
func (t *Timers) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.active)
}

// StopAll cancels every armed timer. Used during shutdown.
func (t *Timers) StopAll() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for key, tm := range t.active {
		tm.Stop()
		delete(t.active, key)
	}
}
