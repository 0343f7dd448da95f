package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Polystyreeni/NoteOnline/client"
)

func ids(notes []client.NoteSummary) []int64 {
	out := make([]int64, len(notes))
	for i, n := range notes {
		out[i] = n.ID
	}
	return out
}

func sample() []client.NoteSummary {
	return SetNotes([]client.NoteSummary{
		{ID: 1, Header: "a", ModifiedAt: 100},
		{ID: 2, Header: "b", ModifiedAt: 300},
		{ID: 3, Header: "c", ModifiedAt: 200},
	})
}

func TestSetNotes_SortsDescending(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []int64{2, 3, 1}, ids(sample()))
}

func TestSetNotes_StableAndDeduplicated(t *testing.T) {
	t.Parallel()
	got := SetNotes([]client.NoteSummary{
		{ID: 1, ModifiedAt: 5},
		{ID: 2, ModifiedAt: 5},
		{ID: 1, ModifiedAt: 9},
		{ID: 3, ModifiedAt: 5},
	})
	assert.Equal(t, []int64{1, 2, 3}, ids(got))
}

func TestSetNotes_DoesNotAliasInput(t *testing.T) {
	t.Parallel()
	in := []client.NoteSummary{{ID: 1, ModifiedAt: 1}, {ID: 2, ModifiedAt: 2}}
	_ = SetNotes(in)
	assert.Equal(t, int64(1), in[0].ID)
}

func TestInsertNote(t *testing.T) {
	t.Parallel()
	base := sample()
	got := InsertNote(base, client.NoteSummary{ID: 4, ModifiedAt: 250})
	assert.Equal(t, []int64{2, 4, 3, 1}, ids(got))
	assert.Equal(t, []int64{2, 3, 1}, ids(base), "input must not change")

	// Same timestamp as the newest: the inserted note goes first.
	got = InsertNote(base, client.NoteSummary{ID: 5, ModifiedAt: 300})
	assert.Equal(t, []int64{5, 2, 3, 1}, ids(got))

	// Existing id is replaced, not duplicated.
	got = InsertNote(base, client.NoteSummary{ID: 1, ModifiedAt: 400})
	assert.Equal(t, []int64{1, 2, 3}, ids(got))
}

func TestReplaceNote(t *testing.T) {
	t.Parallel()
	base := sample()
	got := ReplaceNote(base, client.NoteSummary{ID: 1, Header: "a2", ModifiedAt: 500})
	assert.Equal(t, []int64{1, 2, 3}, ids(got))
	assert.Equal(t, "a2", got[0].Header)
	assert.Equal(t, "a", base[2].Header, "input must not change")
}

func TestReplaceNote_MissingIsNoop(t *testing.T) {
	t.Parallel()
	base := sample()
	got := ReplaceNote(base, client.NoteSummary{ID: 99, ModifiedAt: 1000})
	assert.Equal(t, base, got)
}

func TestRemoveNote(t *testing.T) {
	t.Parallel()
	base := sample()
	got := RemoveNote(base, 3)
	assert.Equal(t, []int64{2, 1}, ids(got))
	assert.Len(t, base, 3)

	assert.Equal(t, ids(base), ids(RemoveNote(base, 42)))
}
