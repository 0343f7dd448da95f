package store

import (
	"sync"
	"sync/atomic"

	"github.com/Polystyreeni/NoteOnline/client"
)

// SessionStore holds the current identity. Every replacement bumps the epoch,
// which lets callers discard results fetched for an earlier session.
type SessionStore struct {
	mu      sync.Mutex
	current atomic.Pointer[client.Session]
	epoch   atomic.Uint64
	changed *Broadcaster
}

// NewSessionStore starts unregistered at epoch 0.
func NewSessionStore(changed *Broadcaster) *SessionStore {
	s := &SessionStore{changed: changed}
	u := client.Unregistered()
	s.current.Store(&u)
	return s
}

// Get returns the current session.
func (s *SessionStore) Get() client.Session { return *s.current.Load() }

// Epoch returns the number of replacements so far.
func (s *SessionStore) Epoch() uint64 { return s.epoch.Load() }

// Set replaces the session and returns the new epoch.
func (s *SessionStore) Set(session client.Session) uint64 {
	s.mu.Lock()
	s.current.Store(&session)
	e := s.epoch.Add(1)
	s.mu.Unlock()
	s.changed.Notify()
	return e
}

// Reset replaces the session with the unregistered sentinel.
func (s *SessionStore) Reset() uint64 { return s.Set(client.Unregistered()) }
