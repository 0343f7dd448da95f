package api

import (
	"context"
	"net/http"

	"github.com/Polystyreeni/NoteOnline/client/internal/types"
)

// CheckStatus asks the server which identity the current cookie belongs to.
func CheckStatus(ctx context.Context, httpClient types.HTTPClient, baseURL string) (*types.Session, error) {
	var s types.Session
	if err := do(ctx, httpClient, baseURL, call{
		op:     "check status",
		method: http.MethodGet,
		path:   "/authstatus",
		out:    &s,
	}); err != nil {
		return nil, err
	}
	return &s, nil
}

// Login posts credentials; the server answers with the session and sets the cookie.
func Login(ctx context.Context, httpClient types.HTTPClient, baseURL string, req types.Credentials) (*types.Session, error) {
	var s types.Session
	if err := do(ctx, httpClient, baseURL, call{
		op:     "login",
		method: http.MethodPost,
		path:   "/login",
		body:   req,
		out:    &s,
	}); err != nil {
		return nil, err
	}
	return &s, nil
}

// Register creates an account.
func Register(ctx context.Context, httpClient types.HTTPClient, baseURL string, req types.Registration) (*types.Session, error) {
	var s types.Session
	if err := do(ctx, httpClient, baseURL, call{
		op:     "register",
		method: http.MethodPost,
		path:   "/register",
		body:   req,
		out:    &s,
	}); err != nil {
		return nil, err
	}
	return &s, nil
}

// Logout ends the server-side session. The token is required.
func Logout(ctx context.Context, httpClient types.HTTPClient, baseURL, token string) error {
	if err := types.ValidateToken(token); err != nil {
		return err
	}
	return do(ctx, httpClient, baseURL, call{
		op:     "logout",
		method: http.MethodPost,
		path:   "/logout",
		token:  token,
		body:   struct{}{},
	})
}
