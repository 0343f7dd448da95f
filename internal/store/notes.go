package store

import (
	"slices"
	"sync"
	"sync/atomic"

	"github.com/Polystyreeni/NoteOnline/client"
)

// NoteStore is the cached note collection, always sorted newest first.
type NoteStore struct {
	mu      sync.Mutex
	notes   atomic.Pointer[[]client.NoteSummary]
	loaded  atomic.Bool
	changed *Broadcaster
}

// NewNoteStore returns an empty, not yet loaded collection.
func NewNoteStore(changed *Broadcaster) *NoteStore {
	s := &NoteStore{changed: changed}
	empty := []client.NoteSummary{}
	s.notes.Store(&empty)
	return s
}

// Snapshot returns a copy of the collection.
func (s *NoteStore) Snapshot() []client.NoteSummary { return slices.Clone(*s.notes.Load()) }

// Len returns the number of cached notes.
func (s *NoteStore) Len() int { return len(*s.notes.Load()) }

// CountOwned returns the number of cached notes owned by user id.
func (s *NoteStore) CountOwned(owner int64) int {
	n := 0
	for _, note := range *s.notes.Load() {
		if note.Owner == owner {
			n++
		}
	}
	return n
}

// Loaded reports whether the collection was filled from the server since the last Clear.
func (s *NoteStore) Loaded() bool { return s.loaded.Load() }

// Find returns the cached summary with id.
func (s *NoteStore) Find(id int64) (client.NoteSummary, bool) {
	for _, n := range *s.notes.Load() {
		if n.ID == id {
			return n, true
		}
	}
	return client.NoteSummary{}, false
}

// Set replaces the collection with a server listing.
func (s *NoteStore) Set(notes []client.NoteSummary) {
	s.apply(func(cur []client.NoteSummary) []client.NoteSummary { return SetNotes(notes) })
	s.loaded.Store(true)
}

// Insert adds a created note.
func (s *NoteStore) Insert(n client.NoteSummary) {
	s.apply(func(cur []client.NoteSummary) []client.NoteSummary { return InsertNote(cur, n) })
}

// Replace updates a note in place; unknown ids are ignored.
func (s *NoteStore) Replace(n client.NoteSummary) {
	s.apply(func(cur []client.NoteSummary) []client.NoteSummary { return ReplaceNote(cur, n) })
}

// Remove drops a deleted note.
func (s *NoteStore) Remove(id int64) {
	s.apply(func(cur []client.NoteSummary) []client.NoteSummary { return RemoveNote(cur, id) })
}

// Clear empties the collection and marks it as not loaded.
func (s *NoteStore) Clear() {
	s.apply(func([]client.NoteSummary) []client.NoteSummary { return []client.NoteSummary{} })
	s.loaded.Store(false)
}

func (s *NoteStore) apply(reduce func([]client.NoteSummary) []client.NoteSummary) {
	s.mu.Lock()
	next := reduce(*s.notes.Load())
	s.notes.Store(&next)
	s.mu.Unlock()
	s.changed.Notify()
}
