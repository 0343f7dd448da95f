package app

import (
	"context"
	"fmt"

	"github.com/Polystyreeni/NoteOnline/client"
	"github.com/Polystyreeni/NoteOnline/internal/notify"
	"github.com/Polystyreeni/NoteOnline/internal/validate"
)

// Login authenticates with the server. On success the session is replaced and
// the note caches are emptied; on failure the session is left as it was.
func (a *App) Login(ctx context.Context, creds client.Credentials) (client.Session, error) {
	end := a.activity.Begin()
	defer end()

	s, err := a.gw.Login(ctx, creds)
	if err != nil {
		a.log.Warn().Err(err).Str("email", creds.Email).Msg("login failed")
		a.notifier.Notify(notify.KindError, msgLoginFailed)
		return client.Session{}, err
	}
	if err := a.apply(ctx, func() { a.replaceSession(*s) }); err != nil {
		return client.Session{}, err
	}
	a.log.Info().Str("email", s.Email).Str("role", string(s.Role)).Msg("logged in")
	a.notifier.Notify(notify.KindSuccess, fmt.Sprintf(msgLoggedIn, s.Email))
	return *s, nil
}

// Register validates the form locally, then creates the account. Local
// failures return a *ValidationError without a request or notification.
func (a *App) Register(ctx context.Context, reg client.Registration) (client.Session, error) {
	if err := a.validateRegistration(reg); err != nil {
		return client.Session{}, err
	}

	end := a.activity.Begin()
	defer end()

	s, err := a.gw.Register(ctx, reg)
	if err != nil {
		a.log.Warn().Err(err).Str("email", reg.Email).Msg("registration failed")
		a.notifier.Notify(notify.KindError, msgRegisterFailed)
		return client.Session{}, err
	}
	if err := a.apply(ctx, func() { a.replaceSession(*s) }); err != nil {
		return client.Session{}, err
	}
	a.notifier.Notify(notify.KindSuccess, fmt.Sprintf(msgRegistered, reg.Email))
	return *s, nil
}

// validateRegistration checks email, password composition, password strength
// and the repeat, in that order.
func (a *App) validateRegistration(reg client.Registration) error {
	if !validate.IsValidEmail(reg.Email) {
		return &ValidationError{Field: "email", Message: msgInvalidEmail}
	}
	if status := validate.IsValidPassword(reg.Password); !status.OK {
		return &ValidationError{Field: "password", Message: status.Message}
	}
	if !validate.StrongEnough(a.scorer.Score(reg.Password)) {
		return &ValidationError{Field: "password", Message: msgWeakPassword}
	}
	if reg.Password != reg.PasswordRepeat {
		return &ValidationError{Field: "passwordRepeat", Message: msgPasswordMismatch}
	}
	return nil
}

// Logout ends the session. Local state is cleared whether or not the server
// call succeeds; a failure is still reported and returned.
func (a *App) Logout(ctx context.Context) error {
	token := a.session.Get().Token
	err := a.gw.Logout(ctx, token)

	if aerr := a.apply(ctx, func() { a.replaceSession(client.Unregistered()) }); aerr != nil {
		return aerr
	}
	if err != nil {
		a.log.Warn().Err(err).Msg("logout failed, local session cleared")
		a.notifier.Notify(notify.KindError, msgLogoutFailed)
		return err
	}
	a.notifier.Notify(notify.KindSuccess, msgLoggedOut)
	return nil
}

// CheckStatus asks the server who the session cookie belongs to. Any failure
// is treated as logged out. Note caches are emptied either way.
func (a *App) CheckStatus(ctx context.Context) (client.Session, error) {
	end := a.activity.Begin()
	defer end()

	s, err := a.gw.CheckStatus(ctx)
	next := client.Unregistered()
	if err == nil {
		next = *s
	} else {
		a.log.Debug().Err(err).Msg("status check failed, treating as unregistered")
	}
	if aerr := a.apply(ctx, func() { a.replaceSession(next) }); aerr != nil {
		return client.Session{}, aerr
	}
	return next, err
}

// replaceSession must run on the dispatch loop.
func (a *App) replaceSession(s client.Session) {
	a.session.Set(s)
	a.notes.Clear()
	a.active.Claim()
	a.active.Clear()
}
