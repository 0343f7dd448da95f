package app

import (
	"context"

	"github.com/Polystyreeni/NoteOnline/client"
	"github.com/Polystyreeni/NoteOnline/internal/notify"
	"github.com/Polystyreeni/NoteOnline/internal/validate"
)

// OpenNote fetches note id and makes it active. If another note was chosen
// meanwhile, the response is dropped and ErrStaleResponse returned.
func (a *App) OpenNote(ctx context.Context, id int64) (client.NoteDetail, error) {
	end := a.activity.Begin()
	defer end()

	epoch := a.session.Epoch()
	gen := a.active.Claim()

	n, err := a.gw.GetNote(ctx, id)
	if err != nil {
		a.log.Warn().Err(err).Int64("id", id).Msg("fetch note failed")
		a.notifier.Notify(notify.KindError, msgFetchFailed)
		return client.NoteDetail{}, err
	}

	applied := false
	if err := a.applyForEpoch(ctx, epoch, func() { applied = a.active.SetIfCurrent(gen, *n) }); err != nil {
		return client.NoteDetail{}, err
	}
	if !applied {
		return client.NoteDetail{}, ErrStaleResponse
	}
	return *n, nil
}

// NewNote makes the unsaved placeholder active.
func (a *App) NewNote(ctx context.Context) error {
	a.active.Claim()
	return a.apply(ctx, a.active.New)
}

// ClearActiveNote leaves nothing active.
func (a *App) ClearActiveNote(ctx context.Context) error {
	a.active.Claim()
	return a.apply(ctx, a.active.Clear)
}

// SaveNote stores the editor contents: a create when the active note is the
// unsaved placeholder (or nothing is active), otherwise an update of the
// active note.
func (a *App) SaveNote(ctx context.Context, header, content string) (client.NoteDetail, error) {
	if header == "" || content == "" {
		a.notifier.Notify(notify.KindError, msgEmptyNote)
		field := "header"
		if header != "" {
			field = "content"
		}
		return client.NoteDetail{}, &ValidationError{Field: field, Message: msgEmptyNote}
	}
	if err := validate.ValidateNote(header, content); err != nil {
		return client.NoteDetail{}, err
	}

	active, ok := a.active.Get()
	if !ok || active.IsNew() {
		return a.AddNote(ctx, client.NoteRequest{Header: header, Content: content})
	}
	return a.UpdateNote(ctx, active.ID, client.NoteRequest{Owner: active.Owner, Header: header, Content: content})
}
