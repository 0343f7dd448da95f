package store

import (
	"sync"
	"sync/atomic"

	"github.com/Polystyreeni/NoteOnline/client"
)

// ActiveNoteStore holds the note open in the editor: nothing, the unsaved
// placeholder, or a fetched note. Each intent to change it takes a new
// generation so a slow fetch cannot overwrite a newer choice.
type ActiveNoteStore struct {
	mu      sync.Mutex
	current atomic.Pointer[client.NoteDetail] // nil when empty
	gen     atomic.Uint64
	changed *Broadcaster
}

// NewActiveNoteStore returns an empty store.
func NewActiveNoteStore(changed *Broadcaster) *ActiveNoteStore {
	return &ActiveNoteStore{changed: changed}
}

// Get returns the active note and whether there is one.
func (s *ActiveNoteStore) Get() (client.NoteDetail, bool) {
	n := s.current.Load()
	if n == nil {
		return client.NoteDetail{}, false
	}
	return *n, true
}

// Generation returns the latest generation handed out.
func (s *ActiveNoteStore) Generation() uint64 { return s.gen.Load() }

// Claim starts a new generation and returns it.
func (s *ActiveNoteStore) Claim() uint64 { return s.gen.Add(1) }

// Set makes n active.
func (s *ActiveNoteStore) Set(n client.NoteDetail) {
	s.mu.Lock()
	s.current.Store(&n)
	s.mu.Unlock()
	s.changed.Notify()
}

// SetIfCurrent makes n active only if gen is still the latest generation.
func (s *ActiveNoteStore) SetIfCurrent(gen uint64, n client.NoteDetail) bool {
	s.mu.Lock()
	if s.gen.Load() != gen {
		s.mu.Unlock()
		return false
	}
	s.current.Store(&n)
	s.mu.Unlock()
	s.changed.Notify()
	return true
}

// New makes the unsaved placeholder active.
func (s *ActiveNoteStore) New() { s.Set(client.NewNote()) }

// Clear leaves nothing active.
func (s *ActiveNoteStore) Clear() {
	s.mu.Lock()
	s.current.Store(nil)
	s.mu.Unlock()
	s.changed.Notify()
}
