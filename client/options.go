package client

// This file defines functional options that configure the Client during
// construction. Keeping them in a standalone file avoids cluttering
// client.go and makes it easy to discover all available knobs at a glance.

import (
	"fmt"
	"net/http"
	"time"
)

// Option configures a Client during construction in New.
//
// Options are applied in order; transport-related options (like debug
// logging) wrap whatever transport is installed when they run, so pass
// WithHTTPClient first. Options must be deterministic and side-effect free.
type Option func(*Client) error

// WithHTTPTimeout sets the underlying http.Client Timeout used by the SDK.
//
// Prefer per-request context deadlines where possible; this timeout is a
// coarse safety net that bounds the total time spent on a single HTTP request
// (including connection, TLS handshake, redirects, and reading the response).
// With WithRetry the bound applies to each attempt. The value must be greater
// than zero.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0")
		}
		c.http.Timeout = d
		return nil
	}
}

// WithHTTPClient replaces the underlying http.Client. The client is copied;
// when it has no Jar the Client's session jar is installed, otherwise the
// caller's jar is used and ResetSession has no effect on it.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return fmt.Errorf("http client must not be nil")
		}
		cp := *hc
		if cp.Jar == nil {
			cp.Jar = c.jar
		}
		c.http = &cp
		return nil
	}
}

// WithDebugLogging wraps the client's transport so each request/response is
// logged when enabled is true.
//
// Do not enable this option in production environments as it increases
// verbosity and dumps bodies, including credentials, to the log.
func WithDebugLogging(enabled bool) Option {
	return func(c *Client) error {
		if !enabled {
			return nil
		}
		if _, already := c.http.Transport.(*debugTransport); already {
			return nil
		}
		base := c.http.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		c.http.Transport = &debugTransport{base: base}
		return nil
	}
}

// WithRetry retries recoverable failures (network errors, 408, 429, 5xx) with
// exponential backoff starting at initial. attempts counts the first try, so
// 1 disables retrying. The default is no retry. POST requests (login, logout,
// create) are never replayed.
func WithRetry(attempts int, initial time.Duration) Option {
	return func(c *Client) error {
		if attempts < 1 {
			return fmt.Errorf("retry attempts must be >= 1")
		}
		if initial <= 0 {
			return fmt.Errorf("retry interval must be > 0")
		}
		if attempts == 1 {
			c.retry = nil
			return nil
		}
		c.retry = &retryPolicy{attempts: attempts, initial: initial, max: 20 * initial}
		return nil
	}
}
