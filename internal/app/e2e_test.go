package app

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Polystyreeni/NoteOnline/client"
	"github.com/Polystyreeni/NoteOnline/internal/clock"
	"github.com/Polystyreeni/NoteOnline/internal/config"
	"github.com/Polystyreeni/NoteOnline/internal/devserver"
	"github.com/Polystyreeni/NoteOnline/internal/notify"
)

func TestAgainstDevServer(t *testing.T) {
	ctx := context.Background()
	cfg := config.NewDevServerForTesting()
	cfg.MaxNotes = 2
	st, err := devserver.Open(ctx, devserver.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	srv := httptest.NewServer(devserver.New(cfg, st, devserver.WithLogger(zerolog.Nop())).Handler())
	t.Cleanup(srv.Close)

	c, err := client.New(srv.URL + "/api")
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	fake := clock.Fake(time.Now())
	notes := notify.New(notify.WithClock(fake))
	t.Cleanup(notes.Close)
	a := New(c, notes, WithScorer(strong), WithMaxNotes(cfg.MaxNotes), WithLogger(zerolog.Nop()))
	t.Cleanup(func() { _ = a.Close() })

	s, err := a.CheckStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, client.RoleUnregistered, s.Role)

	const pw = "Str0ng-Passw0rd!"
	_, err = a.Register(ctx, client.Registration{Email: "kim@example.com", Password: pw, PasswordRepeat: pw})
	require.NoError(t, err)
	assert.Equal(t, "New user registered with email: kim@example.com! Please login.", notes.Current().Message)
	assert.False(t, a.Session().Authenticated())

	_, err = a.Login(ctx, client.Credentials{Email: "kim@example.com", Password: pw})
	require.NoError(t, err)
	assert.Equal(t, "Logged in as kim@example.com", notes.Current().Message)

	require.NoError(t, a.EnsureNotes(ctx))
	assert.Empty(t, a.Notes())

	require.NoError(t, a.NewNote(ctx))
	first, err := a.SaveNote(ctx, "first", "hello")
	require.NoError(t, err)
	assert.Equal(t, notify.Notification{Kind: notify.KindSuccess, Message: "New note added"}, notes.Current())

	_, err = a.SaveNote(ctx, "first", "hello again")
	require.NoError(t, err)
	assert.Equal(t, "Updated note", notes.Current().Message)

	require.NoError(t, a.NewNote(ctx))
	_, err = a.SaveNote(ctx, "second", "x")
	require.NoError(t, err)
	require.Len(t, a.Notes(), 2)

	_, err = a.AddNote(ctx, client.NoteRequest{Header: "third", Content: "y"})
	require.ErrorIs(t, err, ErrNoteLimit)

	opened, err := a.OpenNote(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello again", opened.Content)

	require.NoError(t, a.DeleteNote(ctx, first.ID))
	assert.Len(t, a.Notes(), 1)

	_, err = a.OpenNote(ctx, first.ID)
	require.ErrorIs(t, err, client.ErrNotFound)
	assert.Equal(t, "Failed to fetch note data!", notes.Current().Message)

	require.NoError(t, a.Logout(ctx))
	assert.Equal(t, "User has logged out!", notes.Current().Message)
	assert.Empty(t, a.Notes())

	fake.Advance(notify.DefaultDuration)
	assert.True(t, notes.Current().Empty())
}
