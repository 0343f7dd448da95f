package devserver

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(context.Background(), MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestStoreUsers(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	u, err := st.CreateUser(ctx, "alice@example.com", []byte("h"), []byte("s"), t0)
	require.NoError(t, err)
	assert.NotZero(t, u.ID)

	_, err = st.CreateUser(ctx, "ALICE@example.com", []byte("h"), []byte("s"), t0)
	require.ErrorIs(t, err, ErrEmailTaken)

	got, err := st.GetUserByEmail(ctx, "Alice@Example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, []byte("h"), got.PasswordHash)
	assert.True(t, got.LockedUntil.IsZero())

	require.NoError(t, st.SetLoginFailures(ctx, u.ID, 3, t0.Add(time.Minute)))
	got, err = st.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.FailedLogins)
	assert.True(t, got.LockedUntil.Equal(t0.Add(time.Minute)))

	_, err = st.GetUser(ctx, 999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStoreNotes(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	u, err := st.CreateUser(ctx, "a@example.com", []byte("h"), []byte("s"), t0)
	require.NoError(t, err)
	other, err := st.CreateUser(ctx, "b@example.com", []byte("h"), []byte("s"), t0)
	require.NoError(t, err)

	first, err := st.CreateNote(ctx, u.ID, "one", "1", 2, t0)
	require.NoError(t, err)
	second, err := st.CreateNote(ctx, u.ID, "two", "2", 2, t0.Add(time.Second))
	require.NoError(t, err)
	_, err = st.CreateNote(ctx, u.ID, "three", "3", 2, t0)
	require.ErrorIs(t, err, ErrNoteLimit)
	_, err = st.CreateNote(ctx, other.ID, "theirs", "x", 2, t0)
	require.NoError(t, err)

	mine, err := st.ListNotes(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, second.ID, mine[0].ID)
	assert.Empty(t, mine[0].Content, "listing omits content")

	all, err := st.ListNotes(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	updated, err := st.UpdateNote(ctx, first.ID, "one!", "1!", t0.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, "1!", updated.Content)
	assert.True(t, updated.CreatedAt.Equal(t0))
	assert.True(t, updated.ModifiedAt.Equal(t0.Add(time.Minute)))

	mine, err = st.ListNotes(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, mine[0].ID, "latest modification first")

	require.NoError(t, st.DeleteNote(ctx, first.ID))
	require.ErrorIs(t, st.DeleteNote(ctx, first.ID), ErrNotFound)
	_, err = st.GetNote(ctx, first.ID)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = st.UpdateNote(ctx, first.ID, "h", "c", t0)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStoreSessions(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	u, err := st.CreateUser(ctx, "a@example.com", []byte("h"), []byte("s"), t0)
	require.NoError(t, err)

	require.NoError(t, st.CreateSession(ctx, Session{ID: "live", UserID: u.ID, CSRFToken: "c1", ExpiresAt: t0.Add(time.Hour)}))
	require.NoError(t, st.CreateSession(ctx, Session{ID: "old", UserID: u.ID, CSRFToken: "c2", ExpiresAt: t0.Add(-time.Hour)}))

	n, err := st.DeleteExpiredSessions(ctx, t0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	sess, err := st.GetSession(ctx, "live")
	require.NoError(t, err)
	assert.Equal(t, "c1", sess.CSRFToken)

	require.NoError(t, st.TouchSession(ctx, "live", t0.Add(2*time.Hour)))
	sess, err = st.GetSession(ctx, "live")
	require.NoError(t, err)
	assert.True(t, sess.ExpiresAt.Equal(t0.Add(2*time.Hour)))

	require.NoError(t, st.DeleteSession(ctx, "live"))
	_, err = st.GetSession(ctx, "live")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestOpenFileDatabase(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "notes.db")

	st, err := Open(ctx, path)
	require.NoError(t, err)
	_, err = st.CreateUser(ctx, "a@example.com", []byte("h"), []byte("s"), t0)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	st, err = Open(ctx, path)
	require.NoError(t, err)
	defer st.Close()
	_, err = st.GetUserByEmail(ctx, "a@example.com")
	require.NoError(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, salt, err := hashPassword("Correct-Horse-9")
	require.NoError(t, err)
	assert.Len(t, hash, hashLength)
	assert.Len(t, salt, saltLength)
	assert.True(t, verifyPassword("Correct-Horse-9", hash, salt))
	assert.False(t, verifyPassword("Correct-Horse-8", hash, salt))

	hash2, salt2, err := hashPassword("Correct-Horse-9")
	require.NoError(t, err)
	assert.NotEqual(t, salt, salt2)
	assert.NotEqual(t, hash, hash2)
}
