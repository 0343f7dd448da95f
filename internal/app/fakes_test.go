package app

import (
	"context"
	"errors"
	"sync"

	"github.com/Polystyreeni/NoteOnline/client"
	"github.com/Polystyreeni/NoteOnline/internal/notify"
)

// fakeGateway answers with the configured funcs and counts calls.
type fakeGateway struct {
	mu    sync.Mutex
	calls map[string]int

	status   func() (*client.Session, error)
	login    func(client.Credentials) (*client.Session, error)
	register func(client.Registration) (*client.Session, error)
	logout   func(token string) error
	list     func() ([]client.NoteSummary, error)
	get      func(ctx context.Context, id int64) (*client.NoteDetail, error)
	create   func(token string, req client.NoteRequest) (*client.NoteDetail, error)
	update   func(token string, id int64, req client.NoteRequest) (*client.NoteDetail, error)
	remove   func(token string, id int64) error
}

var errUnconfigured = errors.New("fake: not configured")

func (f *fakeGateway) count(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[op]++
}

func (f *fakeGateway) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeGateway) CheckStatus(context.Context) (*client.Session, error) {
	f.count("status")
	if f.status == nil {
		return nil, errUnconfigured
	}
	return f.status()
}

func (f *fakeGateway) Login(_ context.Context, req client.Credentials) (*client.Session, error) {
	f.count("login")
	if f.login == nil {
		return nil, errUnconfigured
	}
	return f.login(req)
}

func (f *fakeGateway) Register(_ context.Context, req client.Registration) (*client.Session, error) {
	f.count("register")
	if f.register == nil {
		return nil, errUnconfigured
	}
	return f.register(req)
}

func (f *fakeGateway) Logout(_ context.Context, token string) error {
	f.count("logout")
	if f.logout == nil {
		return nil
	}
	return f.logout(token)
}

func (f *fakeGateway) ListNotes(context.Context) ([]client.NoteSummary, error) {
	f.count("list")
	if f.list == nil {
		return nil, errUnconfigured
	}
	return f.list()
}

func (f *fakeGateway) GetNote(ctx context.Context, id int64) (*client.NoteDetail, error) {
	f.count("get")
	if f.get == nil {
		return nil, errUnconfigured
	}
	return f.get(ctx, id)
}

func (f *fakeGateway) CreateNote(_ context.Context, token string, req client.NoteRequest) (*client.NoteDetail, error) {
	f.count("create")
	if f.create == nil {
		return nil, errUnconfigured
	}
	return f.create(token, req)
}

func (f *fakeGateway) UpdateNote(_ context.Context, token string, id int64, req client.NoteRequest) (*client.NoteDetail, error) {
	f.count("update")
	if f.update == nil {
		return nil, errUnconfigured
	}
	return f.update(token, id, req)
}

func (f *fakeGateway) DeleteNote(_ context.Context, token string, id int64) error {
	f.count("delete")
	if f.remove == nil {
		return errUnconfigured
	}
	return f.remove(token, id)
}

// recorder keeps every notification in order.
type recorder struct {
	mu   sync.Mutex
	msgs []notify.Notification
}

func (r *recorder) Notify(kind notify.Kind, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, notify.Notification{Kind: kind, Message: message})
}

func (r *recorder) All() []notify.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Notification(nil), r.msgs...)
}

func (r *recorder) Last() notify.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.msgs) == 0 {
		return notify.Notification{}
	}
	return r.msgs[len(r.msgs)-1]
}

func alice() *client.Session {
	return &client.Session{ID: 7, Email: "alice@example.com", Role: client.RoleUser, Token: "tok-alice"}
}
