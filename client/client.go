package client

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/Polystyreeni/NoteOnline/client/internal/api"
	"github.com/Polystyreeni/NoteOnline/client/internal/types"
)

// --------------------------------------------------------------------
// Client core
// --------------------------------------------------------------------

// Client talks to the NoteOnline REST API. The session cookie lives in an
// in-memory jar owned by the Client; the anti-forgery token is passed in by
// the caller on every mutating call.
type Client struct {
	baseURL string
	http    *http.Client
	jar     *sessionJar
	retry   *retryPolicy
	doer    types.HTTPClient // http, possibly wrapped by the retry policy

	closedOnce uint32 // ensures Close is idempotent
}

// New constructs a Client for baseURL. Additional options can be provided via
// functional arguments.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("baseURL cannot be empty")
	}

	jar := newSessionJar()
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		jar:     jar,
		http:    &http.Client{Timeout: 30 * time.Second, Jar: jar},
	}

	// Auto-enable debug via env variable without changing code.
	if debugLoggingRequested() {
		opts = append(opts, WithDebugLogging(true))
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	c.doer = c.http
	if c.retry != nil {
		c.doer = &retryingDoer{base: c.http, policy: *c.retry}
	}
	return c, nil
}

// BaseURL returns the API root the client was built with.
func (c *Client) BaseURL() string { return c.baseURL }

// ResetSession drops every cookie, forgetting the server-side session.
func (c *Client) ResetSession() { c.jar.reset() }

// Close releases idle connections. Calls made after Close fail with
// ErrClientClosed. Safe to call multiple times.
func (c *Client) Close() error {
	if !atomic.CompareAndSwapUint32(&c.closedOnce, 0, 1) {
		return nil
	}
	c.http.CloseIdleConnections()
	return nil
}

func (c *Client) closed() bool { return atomic.LoadUint32(&c.closedOnce) == 1 }

// --------------------------------------------------------------------
// Session operations - delegated to internal/api
// --------------------------------------------------------------------

// CheckStatus returns the identity bound to the current session cookie. A
// client without a session gets the unregistered identity, not an error.
func (c *Client) CheckStatus(ctx context.Context) (*Session, error) {
	if c.closed() {
		return nil, ErrClientClosed
	}
	start := time.Now()
	s, err := api.CheckStatus(ctx, c.doer, c.baseURL)
	observe("check_status", start, err)
	return s, err
}

// Login authenticates and stores the session cookie.
func (c *Client) Login(ctx context.Context, req Credentials) (*Session, error) {
	if c.closed() {
		return nil, ErrClientClosed
	}
	start := time.Now()
	s, err := api.Login(ctx, c.doer, c.baseURL, req)
	observe("login", start, err)
	return s, err
}

// Register creates an account. It does not log in.
func (c *Client) Register(ctx context.Context, req Registration) (*Session, error) {
	if c.closed() {
		return nil, ErrClientClosed
	}
	start := time.Now()
	s, err := api.Register(ctx, c.doer, c.baseURL, req)
	observe("register", start, err)
	return s, err
}

// Logout ends the server-side session. The cookie jar is dropped whatever the
// outcome, so the client is logged out locally even when the request fails.
func (c *Client) Logout(ctx context.Context, token string) error {
	if c.closed() {
		return ErrClientClosed
	}
	defer c.ResetSession()
	start := time.Now()
	err := api.Logout(ctx, c.doer, c.baseURL, token)
	observe("logout", start, err)
	return err
}

// --------------------------------------------------------------------
// Note operations - delegated to internal/api
// --------------------------------------------------------------------

// ListNotes returns the note summaries visible to the session.
func (c *Client) ListNotes(ctx context.Context) ([]NoteSummary, error) {
	if c.closed() {
		return nil, ErrClientClosed
	}
	start := time.Now()
	notes, err := api.ListNotes(ctx, c.doer, c.baseURL)
	observe("list_notes", start, err)
	return notes, err
}

// GetNote retrieves a note with its content.
func (c *Client) GetNote(ctx context.Context, id int64) (*NoteDetail, error) {
	if c.closed() {
		return nil, ErrClientClosed
	}
	start := time.Now()
	n, err := api.GetNote(ctx, c.doer, c.baseURL, id)
	observe("get_note", start, err)
	return n, err
}

// CreateNote stores a new note.
func (c *Client) CreateNote(ctx context.Context, token string, req NoteRequest) (*NoteDetail, error) {
	if c.closed() {
		return nil, ErrClientClosed
	}
	start := time.Now()
	n, err := api.CreateNote(ctx, c.doer, c.baseURL, token, req)
	observe("create_note", start, err)
	return n, err
}

// UpdateNote replaces the header and content of an existing note.
func (c *Client) UpdateNote(ctx context.Context, token string, id int64, req NoteRequest) (*NoteDetail, error) {
	if c.closed() {
		return nil, ErrClientClosed
	}
	start := time.Now()
	n, err := api.UpdateNote(ctx, c.doer, c.baseURL, token, id, req)
	observe("update_note", start, err)
	return n, err
}

// DeleteNote deletes a note. Backend returns 2xx with no body on success.
func (c *Client) DeleteNote(ctx context.Context, token string, id int64) error {
	if c.closed() {
		return ErrClientClosed
	}
	start := time.Now()
	err := api.DeleteNote(ctx, c.doer, c.baseURL, token, id)
	observe("delete_note", start, err)
	return err
}
