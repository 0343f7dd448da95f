package app

import (
	"context"
	"fmt"

	"github.com/Polystyreeni/NoteOnline/client"
	"github.com/Polystyreeni/NoteOnline/internal/notify"
)

// ListNotes replaces the cached collection with the server's listing.
func (a *App) ListNotes(ctx context.Context) error {
	end := a.activity.Begin()
	defer end()

	epoch := a.session.Epoch()
	notes, err := a.gw.ListNotes(ctx)
	if err != nil {
		a.log.Warn().Err(err).Msg("list notes failed")
		a.notifier.Notify(notify.KindError, fmt.Sprintf(msgListFailed, err.Error()))
		return err
	}
	return a.applyForEpoch(ctx, epoch, func() { a.notes.Set(notes) })
}

// EnsureNotes loads the collection only when the cache is empty.
func (a *App) EnsureNotes(ctx context.Context) error {
	if a.notes.Len() > 0 {
		return nil
	}
	return a.ListNotes(ctx)
}

// AddNote creates a note. The created note becomes active unless another note
// was chosen while the request was in flight. A zero Owner is filled with the
// session's user id. The limit counts only the user's own notes; an admin's
// listing also holds other users' notes.
func (a *App) AddNote(ctx context.Context, req client.NoteRequest) (client.NoteDetail, error) {
	sess := a.session.Get()
	if a.notes.CountOwned(sess.ID) >= a.maxNotes {
		a.notifier.Notify(notify.KindError, fmt.Sprintf(msgAddFailed, msgNoteLimit))
		return client.NoteDetail{}, ErrNoteLimit
	}

	end := a.activity.Begin()
	defer end()

	epoch := a.session.Epoch()
	gen := a.active.Claim()
	if req.Owner == 0 {
		req.Owner = sess.ID
	}

	n, err := a.gw.CreateNote(ctx, sess.Token, req)
	if err != nil {
		a.log.Warn().Err(err).Msg("create note failed")
		a.notifier.Notify(notify.KindError, fmt.Sprintf(msgAddFailed, client.ErrorDetail(err)))
		return client.NoteDetail{}, err
	}
	if err := a.applyForEpoch(ctx, epoch, func() {
		a.notes.Insert(n.Summary())
		a.active.SetIfCurrent(gen, *n)
	}); err != nil {
		return client.NoteDetail{}, err
	}
	a.notifier.Notify(notify.KindSuccess, msgAdded)
	return *n, nil
}

// UpdateNote saves new header and content for note id. The cached summary is
// replaced only if it is present.
func (a *App) UpdateNote(ctx context.Context, id int64, req client.NoteRequest) (client.NoteDetail, error) {
	end := a.activity.Begin()
	defer end()

	sess := a.session.Get()
	epoch := a.session.Epoch()
	gen := a.active.Claim()
	if req.Owner == 0 {
		req.Owner = sess.ID
	}

	n, err := a.gw.UpdateNote(ctx, sess.Token, id, req)
	if err != nil {
		a.log.Warn().Err(err).Int64("id", id).Msg("update note failed")
		a.notifier.Notify(notify.KindError, fmt.Sprintf(msgUpdateFailed, client.ErrorDetail(err)))
		return client.NoteDetail{}, err
	}
	if err := a.applyForEpoch(ctx, epoch, func() {
		a.notes.Replace(n.Summary())
		a.active.SetIfCurrent(gen, *n)
	}); err != nil {
		return client.NoteDetail{}, err
	}
	a.notifier.Notify(notify.KindSuccess, msgUpdated)
	return *n, nil
}

// DeleteNote removes note id. It does not mark the app as loading.
func (a *App) DeleteNote(ctx context.Context, id int64) error {
	sess := a.session.Get()
	epoch := a.session.Epoch()

	if err := a.gw.DeleteNote(ctx, sess.Token, id); err != nil {
		a.log.Warn().Err(err).Int64("id", id).Msg("delete note failed")
		a.notifier.Notify(notify.KindError, fmt.Sprintf(msgDeleteFailed, client.ErrorDetail(err)))
		return err
	}
	if err := a.applyForEpoch(ctx, epoch, func() { a.notes.Remove(id) }); err != nil {
		return err
	}
	a.notifier.Notify(notify.KindSuccess, msgDeleted)
	return nil
}
