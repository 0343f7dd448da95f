package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Polystyreeni/NoteOnline/client/internal/types"
)

// ListNotes returns the summaries visible to the current session.
func ListNotes(ctx context.Context, httpClient types.HTTPClient, baseURL string) ([]types.NoteSummary, error) {
	var notes []types.NoteSummary
	if err := do(ctx, httpClient, baseURL, call{
		op:     "list notes",
		method: http.MethodGet,
		path:   "/notes",
		out:    &notes,
	}); err != nil {
		return nil, err
	}
	if notes == nil {
		notes = []types.NoteSummary{}
	}
	return notes, nil
}

// GetNote fetches one note with its content.
func GetNote(ctx context.Context, httpClient types.HTTPClient, baseURL string, id int64) (*types.NoteDetail, error) {
	if err := types.ValidateNoteID(id); err != nil {
		return nil, err
	}
	var n types.NoteDetail
	if err := do(ctx, httpClient, baseURL, call{
		op:     "get note",
		method: http.MethodGet,
		path:   fmt.Sprintf("/notes/%d", id),
		out:    &n,
	}); err != nil {
		return nil, err
	}
	return &n, nil
}

// CreateNote stores a new note and returns it as saved by the server.
func CreateNote(ctx context.Context, httpClient types.HTTPClient, baseURL, token string, req types.NoteRequest) (*types.NoteDetail, error) {
	if err := types.ValidateToken(token); err != nil {
		return nil, err
	}
	var n types.NoteDetail
	if err := do(ctx, httpClient, baseURL, call{
		op:     "create note",
		method: http.MethodPost,
		path:   "/notes",
		token:  token,
		body:   req,
		out:    &n,
	}); err != nil {
		return nil, err
	}
	return &n, nil
}

// UpdateNote replaces header and content of note id.
func UpdateNote(ctx context.Context, httpClient types.HTTPClient, baseURL, token string, id int64, req types.NoteRequest) (*types.NoteDetail, error) {
	if err := types.ValidateNoteID(id); err != nil {
		return nil, err
	}
	if err := types.ValidateToken(token); err != nil {
		return nil, err
	}
	var n types.NoteDetail
	if err := do(ctx, httpClient, baseURL, call{
		op:     "update note",
		method: http.MethodPut,
		path:   fmt.Sprintf("/notes/%d", id),
		token:  token,
		body:   req,
		out:    &n,
	}); err != nil {
		return nil, err
	}
	return &n, nil
}

// DeleteNote removes note id.
func DeleteNote(ctx context.Context, httpClient types.HTTPClient, baseURL, token string, id int64) error {
	if err := types.ValidateNoteID(id); err != nil {
		return err
	}
	if err := types.ValidateToken(token); err != nil {
		return err
	}
	return do(ctx, httpClient, baseURL, call{
		op:     "delete note",
		method: http.MethodDelete,
		path:   fmt.Sprintf("/notes/%d", id),
		token:  token,
	})
}
