package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Polystyreeni/NoteOnline/client"
	"github.com/Polystyreeni/NoteOnline/internal/validate"
)

const sessionCookie = "NOTES_SESSION"

// principal is the authenticated caller of a request.
type principal struct {
	user    *User
	session *Session
	admin   bool
}

func (p *principal) role() client.Role {
	if p.admin {
		return client.RoleAdmin
	}
	return client.RoleUser
}

func (p *principal) wire() client.Session {
	return client.Session{ID: p.user.ID, Email: p.user.Email, Role: p.role(), Token: p.session.CSRFToken}
}

// csrfOK reports whether the request carries this session's token.
func (p *principal) csrfOK(r *http.Request) bool {
	return r.Header.Get(client.CSRFHeader) == p.session.CSRFToken
}

// authenticate resolves the session cookie. It returns nil without error when
// the request has no live session.
func (s *Server) authenticate(ctx context.Context, r *http.Request) (*principal, error) {
	c, err := r.Cookie(sessionCookie)
	if err != nil || c.Value == "" {
		return nil, nil
	}
	sess, err := s.store.GetSession(ctx, c.Value)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !s.clock.Now().Before(sess.ExpiresAt) {
		_ = s.store.DeleteSession(ctx, sess.ID)
		return nil, nil
	}
	user, err := s.store.GetUser(ctx, sess.UserID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &principal{user: user, session: sess, admin: s.cfg.IsAdmin(user.Email)}, nil
}

type authedHandler func(w http.ResponseWriter, r *http.Request, p *principal)

// requireAuth answers 401 when the request has no live session.
func (s *Server) requireAuth(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := s.authenticate(r.Context(), r)
		if err != nil {
			s.log.Error().Err(err).Msg("resolve session")
			writeInternalError(w)
			return
		}
		if p == nil {
			writeError(w, http.StatusUnauthorized, "Full authentication is required to access this resource")
			return
		}
		next(w, r, p)
	}
}

func (s *Server) setSessionCookie(w http.ResponseWriter, sess *Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.ID,
		Path:     "/api",
		Expires:  sess.ExpiresAt,
		MaxAge:   int(s.cfg.SessionTTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/api",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// handleAuthStatus answers the caller's identity, refreshing the session, or
// the unregistered identity with a cleared cookie.
func (s *Server) handleAuthStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, err := s.authenticate(ctx, r)
	if err != nil {
		s.log.Error().Err(err).Msg("resolve session")
	}
	if p == nil {
		clearSessionCookie(w)
		writeJSON(w, http.StatusOK, client.Unregistered())
		return
	}

	p.session.ExpiresAt = s.clock.Now().Add(s.cfg.SessionTTL)
	if err := s.store.TouchSession(ctx, p.session.ID, p.session.ExpiresAt); err != nil {
		s.log.Warn().Err(err).Msg("refresh session")
	}
	s.setSessionCookie(w, p.session)
	writeJSON(w, http.StatusOK, p.wire())
}

// lockFor returns how long an account stays locked after failures
// consecutive failed logins.
func (s *Server) lockFor(failures int) time.Duration {
	switch {
	case failures >= s.cfg.LockMax:
		return s.cfg.LockMaxDuration
	case failures >= s.cfg.LockMin:
		return s.cfg.LockMinDuration
	default:
		return 0
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var creds client.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := s.store.GetUserByEmail(ctx, creds.Email)
	if errors.Is(err, ErrNotFound) {
		loginsTotal.WithLabelValues("bad_credentials").Inc()
		writeError(w, http.StatusUnauthorized, "Bad credentials")
		return
	}
	if err != nil {
		s.log.Error().Err(err).Msg("load user")
		writeInternalError(w)
		return
	}

	now := s.clock.Now()
	if now.Before(user.LockedUntil) {
		loginsTotal.WithLabelValues("locked").Inc()
		writeError(w, http.StatusUnauthorized, "User account is locked")
		return
	}

	if !verifyPassword(creds.Password, user.PasswordHash, user.Salt) {
		failures := user.FailedLogins + 1
		var until time.Time
		if d := s.lockFor(failures); d > 0 {
			until = now.Add(d)
			accountLocksTotal.Inc()
			s.log.Warn().Int64("user_id", user.ID).Int("failures", failures).Time("locked_until", until).Msg("account locked")
		}
		if err := s.store.SetLoginFailures(ctx, user.ID, failures, until); err != nil {
			s.log.Error().Err(err).Msg("record login failure")
		}
		loginsTotal.WithLabelValues("bad_credentials").Inc()
		writeError(w, http.StatusUnauthorized, "Bad credentials")
		return
	}

	if user.FailedLogins != 0 || !user.LockedUntil.IsZero() {
		if err := s.store.SetLoginFailures(ctx, user.ID, 0, time.Time{}); err != nil {
			s.log.Error().Err(err).Msg("reset login failures")
		}
	}
	if n, err := s.store.DeleteExpiredSessions(ctx, now); err != nil {
		s.log.Warn().Err(err).Msg("sweep sessions")
	} else if n > 0 {
		s.log.Debug().Int64("removed", n).Msg("expired sessions removed")
	}

	sess := &Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		CSRFToken: uuid.NewString(),
		ExpiresAt: now.Add(s.cfg.SessionTTL),
	}
	if err := s.store.CreateSession(ctx, *sess); err != nil {
		s.log.Error().Err(err).Msg("create session")
		writeInternalError(w)
		return
	}
	loginsTotal.WithLabelValues("success").Inc()

	p := &principal{user: user, session: sess, admin: s.cfg.IsAdmin(user.Email)}
	s.log.Info().Int64("user_id", user.ID).Str("role", string(p.role())).Msg("user logged in")
	s.setSessionCookie(w, sess)
	writeJSON(w, http.StatusOK, p.wire())
}

// handleRegister creates an account. The new user must still log in, so the
// answer is the unregistered identity.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var reg client.Registration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if !validate.IsValidPassword(reg.Password).OK {
		writeText(w, http.StatusBadRequest, "Password is not valid!")
		return
	}
	if !validate.IsValidEmail(reg.Email) {
		writeText(w, http.StatusBadRequest, "Email is not valid!")
		return
	}
	if reg.Password != reg.PasswordRepeat {
		writeText(w, http.StatusBadRequest, "Password and repeat do not match!")
		return
	}

	hash, salt, err := hashPassword(reg.Password)
	if err != nil {
		s.log.Error().Err(err).Msg("hash password")
		writeInternalError(w)
		return
	}
	user, err := s.store.CreateUser(ctx, reg.Email, hash, salt, s.clock.Now())
	if errors.Is(err, ErrEmailTaken) {
		writeText(w, http.StatusBadRequest, "Email is not valid!")
		return
	}
	if err != nil {
		s.log.Error().Err(err).Msg("create user")
		writeInternalError(w)
		return
	}
	s.log.Info().Int64("user_id", user.ID).Msg("user registered")
	writeJSON(w, http.StatusOK, client.Unregistered())
}

// handleLogout ends the session. A live session must present its token.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, err := s.authenticate(ctx, r)
	if err != nil {
		s.log.Error().Err(err).Msg("resolve session")
	}
	if p != nil {
		if !p.csrfOK(r) {
			writeText(w, http.StatusForbidden, "Invalid session token")
			return
		}
		if err := s.store.DeleteSession(ctx, p.session.ID); err != nil {
			s.log.Error().Err(err).Msg("delete session")
			writeInternalError(w)
			return
		}
		s.log.Info().Int64("user_id", p.user.ID).Msg("user logged out")
	}
	clearSessionCookie(w)
	writeText(w, http.StatusOK, "Logged out!")
}
