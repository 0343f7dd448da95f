// Package notify holds the single user-visible notification and dismisses it
// after a fixed duration.
package notify

import (
	"sync"
	"time"

	"github.com/Polystyreeni/NoteOnline/internal/clock"
)

// DefaultDuration is how long a notification stays before it is cleared.
const DefaultDuration = 4000 * time.Millisecond

// Kind classifies a notification.
type Kind string

const (
	KindNone    Kind = "none"
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Notification is what the views display.
type Notification struct {
	Kind    Kind
	Message string
}

// Empty reports whether there is nothing to show.
func (n Notification) Empty() bool { return n.Message == "" }

var cleared = Notification{Kind: KindNone}

// Option configures a Notifier.
type Option func(*Notifier)

// WithDuration overrides DefaultDuration. Non-positive values are ignored.
func WithDuration(d time.Duration) Option {
	return func(n *Notifier) {
		if d > 0 {
			n.duration = d
		}
	}
}

// WithClock injects the time source used for the dismiss timer.
func WithClock(c clock.Clock) Option {
	return func(n *Notifier) { n.clock = c }
}

// Notifier owns the current notification. Every Notify replaces it and
// restarts the dismiss timer, so only the latest one is ever cleared.
type Notifier struct {
	mu       sync.Mutex
	current  Notification
	gen      uint64
	timer    clock.Timer
	duration time.Duration
	clock    clock.Clock

	subs   map[int]chan Notification
	nextID int
	closed bool
}

// New returns a Notifier showing nothing.
func New(opts ...Option) *Notifier {
	n := &Notifier{
		current:  cleared,
		duration: DefaultDuration,
		clock:    clock.Real(),
		subs:     make(map[int]chan Notification),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Notify replaces the current notification and arms a new dismiss timer.
// KindNone is accepted like any other kind.
func (n *Notifier) Notify(kind Kind, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	if n.timer != nil {
		n.timer.Stop()
	}
	n.gen++
	gen := n.gen
	n.current = Notification{Kind: kind, Message: message}
	n.timer = n.clock.AfterFunc(n.duration, func() { n.expire(gen) })
	n.publishLocked()
}

// Success is Notify(KindSuccess, message).
func (n *Notifier) Success(message string) { n.Notify(KindSuccess, message) }

// Error is Notify(KindError, message).
func (n *Notifier) Error(message string) { n.Notify(KindError, message) }

// expire clears the notification unless a newer Notify happened since the
// timer for gen was armed. A timer that fired while being stopped lands here
// with a stale gen.
func (n *Notifier) expire(gen uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed || gen != n.gen {
		return
	}
	n.current = cleared
	n.timer = nil
	n.publishLocked()
}

// Current returns the notification being shown.
func (n *Notifier) Current() Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Subscribe returns a channel that receives the notification after every
// change. Slow readers only see the latest value. The returned func
// unsubscribes and closes the channel.
func (n *Notifier) Subscribe() (<-chan Notification, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	ch := make(chan Notification, 1)
	if n.closed {
		close(ch)
		return ch, func() {}
	}
	id := n.nextID
	n.nextID++
	n.subs[id] = ch
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			if c, ok := n.subs[id]; ok {
				delete(n.subs, id)
				close(c)
			}
		})
	}
}

// Close stops the timer and closes all subscriptions. Later Notify calls are ignored.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	n.closed = true
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	for id, ch := range n.subs {
		delete(n.subs, id)
		close(ch)
	}
}

func (n *Notifier) publishLocked() {
	for _, ch := range n.subs {
		select {
		case ch <- n.current:
		default:
			// Drop the stale value and retry once; only the latest matters.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- n.current:
			default:
			}
		}
	}
}
