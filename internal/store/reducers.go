// Package store holds the client-side state: session, note collection, active
// note and activity. Containers publish immutable snapshots; the note
// collection is changed only through the pure reducers in this file.
package store

import (
	"cmp"
	"slices"

	"github.com/Polystyreeni/NoteOnline/client"
)

// sortByModified orders newest first. The sort is stable so equal timestamps
// keep their relative order.
func sortByModified(notes []client.NoteSummary) {
	slices.SortStableFunc(notes, func(a, b client.NoteSummary) int {
		return cmp.Compare(b.ModifiedAt, a.ModifiedAt)
	})
}

// SetNotes returns a sorted copy of notes. Later duplicates of an id are dropped.
func SetNotes(notes []client.NoteSummary) []client.NoteSummary {
	out := make([]client.NoteSummary, 0, len(notes))
	seen := make(map[int64]struct{}, len(notes))
	for _, n := range notes {
		if _, dup := seen[n.ID]; dup {
			continue
		}
		seen[n.ID] = struct{}{}
		out = append(out, n)
	}
	sortByModified(out)
	return out
}

// InsertNote puts n in front of notes and re-sorts. An existing entry with the
// same id is replaced.
func InsertNote(notes []client.NoteSummary, n client.NoteSummary) []client.NoteSummary {
	out := make([]client.NoteSummary, 0, len(notes)+1)
	out = append(out, n)
	for _, existing := range notes {
		if existing.ID != n.ID {
			out = append(out, existing)
		}
	}
	sortByModified(out)
	return out
}

// ReplaceNote swaps the entry with n's id for n and re-sorts. When no entry
// has that id, notes is returned unchanged.
func ReplaceNote(notes []client.NoteSummary, n client.NoteSummary) []client.NoteSummary {
	idx := slices.IndexFunc(notes, func(e client.NoteSummary) bool { return e.ID == n.ID })
	if idx < 0 {
		return notes
	}
	out := slices.Clone(notes)
	out[idx] = n
	sortByModified(out)
	return out
}

// RemoveNote drops the entry with id. Order of the rest is kept.
func RemoveNote(notes []client.NoteSummary, id int64) []client.NoteSummary {
	out := make([]client.NoteSummary, 0, len(notes))
	for _, n := range notes {
		if n.ID != id {
			out = append(out, n)
		}
	}
	return out
}
