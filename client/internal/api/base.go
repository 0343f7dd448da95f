package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	errs "github.com/Polystyreeni/NoteOnline/client/internal/errors"
	"github.com/Polystyreeni/NoteOnline/client/internal/types"
)

const (
	// CSRFHeader carries the session's anti-forgery token on mutating requests.
	CSRFHeader = "X-CSRF-TOKEN"
	// RequestIDHeader correlates client and server logs.
	RequestIDHeader = "X-Request-ID"

	maxErrorBody = 64 << 10
)

// call describes one REST round trip.
type call struct {
	op     string // human readable operation, used in error messages
	method string
	path   string
	token  string // CSRF token; empty for non-mutating requests
	body   any    // JSON encoded when non-nil
	out    any    // JSON decoded into when non-nil
}

// do performs c against baseURL. Any 2xx status is success. Transport failures
// and non-2xx answers are returned as *errors.ClassifiedError; 404 additionally
// matches types.ErrNotFound.
func do(ctx context.Context, httpClient types.HTTPClient, baseURL string, c call) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var body io.Reader
	if c.body != nil {
		data, err := json.Marshal(c.body)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, c.method, baseURL+c.path, body)
	if err != nil {
		return err
	}
	if c.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(RequestIDHeader, uuid.NewString())
	if c.token != "" {
		httpReq.Header.Set(CSRFHeader, c.token)
	}

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return errs.NewNetworkError(c.op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		httpErr := errs.NewHTTPError(resp.StatusCode, data, c.op)
		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %w", types.ErrNotFound, httpErr)
		}
		return httpErr
	}

	if c.out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(c.out); err != nil {
		return fmt.Errorf("%s: decode response: %w", c.op, err)
	}
	return nil
}
