// Package app coordinates the note client: it runs one remote call per
// operation, applies the result to the stores on the dispatch loop, and
// reports the outcome as a notification.
package app

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Polystyreeni/NoteOnline/client"
	"github.com/Polystyreeni/NoteOnline/internal/notify"
	"github.com/Polystyreeni/NoteOnline/internal/shardqueue"
	"github.com/Polystyreeni/NoteOnline/internal/store"
	"github.com/Polystyreeni/NoteOnline/internal/validate"
)

// stateKey routes every store mutation to the same shard, so mutations are
// applied one at a time in submission order.
const stateKey = "state"

// DefaultMaxNotes matches the dev server's default per-user limit.
const DefaultMaxNotes = 100

// Gateway is the remote API. *client.Client implements it.
type Gateway interface {
	CheckStatus(ctx context.Context) (*client.Session, error)
	Login(ctx context.Context, req client.Credentials) (*client.Session, error)
	Register(ctx context.Context, req client.Registration) (*client.Session, error)
	Logout(ctx context.Context, token string) error
	ListNotes(ctx context.Context) ([]client.NoteSummary, error)
	GetNote(ctx context.Context, id int64) (*client.NoteDetail, error)
	CreateNote(ctx context.Context, token string, req client.NoteRequest) (*client.NoteDetail, error)
	UpdateNote(ctx context.Context, token string, id int64, req client.NoteRequest) (*client.NoteDetail, error)
	DeleteNote(ctx context.Context, token string, id int64) error
}

// Notifier receives user-facing outcomes. *notify.Notifier implements it.
type Notifier interface {
	Notify(kind notify.Kind, message string)
}

// Option configures an App.
type Option func(*App)

// WithMaxNotes sets the local note limit checked before a create is sent.
func WithMaxNotes(n int) Option {
	return func(a *App) {
		if n > 0 {
			a.maxNotes = n
		}
	}
}

// WithScorer replaces the password strength scorer used by Register.
func WithScorer(s validate.Scorer) Option {
	return func(a *App) {
		if s != nil {
			a.scorer = s
		}
	}
}

// WithLogger sets the logger; the default is the global zerolog logger.
func WithLogger(l zerolog.Logger) Option {
	return func(a *App) { a.log = l }
}

// WithDispatchConfig tunes the dispatch loop.
func WithDispatchConfig(cfg shardqueue.Config) Option {
	return func(a *App) { a.loopCfg = cfg }
}

// App owns the client state. All methods are safe for concurrent use.
type App struct {
	gw       Gateway
	notifier Notifier
	scorer   validate.Scorer
	maxNotes int
	log      zerolog.Logger

	loopCfg shardqueue.Config
	loop    *shardqueue.ShardExecutor

	changed  *store.Broadcaster
	session  *store.SessionStore
	notes    *store.NoteStore
	active   *store.ActiveNoteStore
	activity *store.Activity
}

// New returns an App with an unregistered session and empty stores.
func New(gw Gateway, notifier Notifier, opts ...Option) *App {
	changed := store.NewBroadcaster()
	a := &App{
		gw:       gw,
		notifier: notifier,
		scorer:   validate.ZxcvbnScorer{},
		maxNotes: DefaultMaxNotes,
		log:      log.Logger,
		changed:  changed,
		session:  store.NewSessionStore(changed),
		notes:    store.NewNoteStore(changed),
		active:   store.NewActiveNoteStore(changed),
		activity: store.NewActivity(changed),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.loopCfg.Shards = 1
	userHandler := a.loopCfg.ErrorHandler
	a.loopCfg.ErrorHandler = func(err error) {
		a.log.Error().Err(err).Msg("state mutation failed")
		if userHandler != nil {
			userHandler(err)
		}
	}
	a.loop = shardqueue.NewShardExecutor(a.loopCfg)
	return a
}

// Close stops the dispatch loop after applying pending mutations.
func (a *App) Close() error { return a.loop.Close() }

// Session returns the current identity.
func (a *App) Session() client.Session { return a.session.Get() }

// Notes returns the cached note summaries, newest first.
func (a *App) Notes() []client.NoteSummary { return a.notes.Snapshot() }

// ActiveNote returns the note open in the editor, if any.
func (a *App) ActiveNote() (client.NoteDetail, bool) { return a.active.Get() }

// Activity reports whether any operation is in flight.
func (a *App) Activity() store.ActivityState { return a.activity.State() }

// MaxNotes returns the local note limit.
func (a *App) MaxNotes() int { return a.maxNotes }

// Changes wakes the caller after any state change. Call the returned func to stop.
func (a *App) Changes() (<-chan struct{}, func()) { return a.changed.Subscribe() }

// apply runs fn on the dispatch loop and waits until it has run. Once a
// response has arrived its mutation is applied even if ctx is already done.
func (a *App) apply(ctx context.Context, fn func()) error {
	return a.loop.Run(context.WithoutCancel(ctx), stateKey, shardqueue.JobFunc(func(context.Context) error {
		fn()
		return nil
	}))
}

// applyForEpoch is apply that skips fn when the session changed since epoch.
func (a *App) applyForEpoch(ctx context.Context, epoch uint64, fn func()) error {
	stale := false
	err := a.apply(ctx, func() {
		if a.session.Epoch() != epoch {
			stale = true
			return
		}
		fn()
	})
	if err != nil {
		return err
	}
	if stale {
		return ErrStaleResponse
	}
	return nil
}
