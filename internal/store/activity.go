package store

import (
	"sync"
)

// ActivityState is what the views show as the busy indicator.
type ActivityState string

const (
	StateActive  ActivityState = "active"
	StateLoading ActivityState = "loading"
)

// Activity counts operations in flight. It reads loading while any is running.
type Activity struct {
	mu      sync.Mutex
	count   int
	changed *Broadcaster
}

// NewActivity returns an idle Activity.
func NewActivity(changed *Broadcaster) *Activity {
	return &Activity{changed: changed}
}

// Begin marks one operation as running. The returned func ends it; calling it
// more than once has no further effect.
func (a *Activity) Begin() (end func()) {
	a.mu.Lock()
	a.count++
	a.mu.Unlock()
	a.changed.Notify()

	var once sync.Once
	return func() {
		once.Do(func() {
			a.mu.Lock()
			a.count--
			a.mu.Unlock()
			a.changed.Notify()
		})
	}
}

// State reports loading while at least one operation is running.
func (a *Activity) State() ActivityState {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.count > 0 {
		return StateLoading
	}
	return StateActive
}

// InFlight returns the number of running operations.
func (a *Activity) InFlight() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.count
}
