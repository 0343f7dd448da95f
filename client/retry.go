package client

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"

	"github.com/Polystyreeni/NoteOnline/client/internal/types"
)

const maxBufferedBody = 64 << 10

var errRetryableStatus = errors.New("retryable status")

type retryPolicy struct {
	attempts int
	initial  time.Duration
	max      time.Duration
}

// retryingDoer replays a request while it fails recoverably. The last
// retryable response is returned as-is so the caller can still classify it.
type retryingDoer struct {
	base   types.HTTPClient
	policy retryPolicy
}

func (r *retryingDoer) Do(req *http.Request) (*http.Response, error) {
	// A replayed POST may create a second note, so only idempotent methods
	// are retried. Bodies that cannot be rewound are sent once.
	if !idempotent(req.Method) || (req.Body != nil && req.Body != http.NoBody && req.GetBody == nil) {
		return r.base.Do(req)
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = r.policy.initial
	exp.Multiplier = 2
	exp.MaxInterval = r.policy.max
	exp.MaxElapsedTime = 0
	exp.Reset()
	b := backoff.WithContext(backoff.WithMaxRetries(exp, uint64(r.policy.attempts-1)), req.Context())

	var (
		last    *http.Response
		attempt int
	)
	op := func() error {
		last = nil
		attempt++
		try := req
		if attempt > 1 && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return backoff.Permanent(err)
			}
			try = req.Clone(req.Context())
			try.Body = body
		}

		resp, err := r.base.Do(try)
		if err != nil {
			if req.Context().Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		if retryableStatus(resp.StatusCode) {
			data, _ := io.ReadAll(io.LimitReader(resp.Body, maxBufferedBody))
			_ = resp.Body.Close()
			resp.Body = io.NopCloser(bytes.NewReader(data))
			last = resp
			return errRetryableStatus
		}
		last = resp
		return nil
	}
	notify := func(err error, wait time.Duration) {
		log.Debug().Err(err).Str("method", req.Method).Str("url", req.URL.String()).Int("attempt", attempt).Dur("wait", wait).Msg("retrying request")
	}

	err := backoff.RetryNotify(op, b, notify)
	if last != nil && (err == nil || errors.Is(err, errRetryableStatus)) {
		return last, nil
	}
	return nil, err
}

func idempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

func retryableStatus(code int) bool {
	return code == http.StatusRequestTimeout || code == http.StatusTooManyRequests || code >= 500
}
