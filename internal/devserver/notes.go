package devserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/Polystyreeni/NoteOnline/client"
	"github.com/Polystyreeni/NoteOnline/internal/validate"
)

func (n *Note) summary() client.NoteSummary {
	return client.NoteSummary{
		ID:         n.ID,
		Owner:      n.Owner,
		Header:     n.Header,
		CreatedAt:  n.CreatedAt.UnixMilli(),
		ModifiedAt: n.ModifiedAt.UnixMilli(),
	}
}

func (n *Note) detail() client.NoteDetail {
	return client.NoteDetail{
		ID:         n.ID,
		Owner:      n.Owner,
		Header:     n.Header,
		Content:    n.Content,
		CreatedAt:  n.CreatedAt.UnixMilli(),
		ModifiedAt: n.ModifiedAt.UnixMilli(),
	}
}

func noteID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id, err == nil
}

// handleListNotes returns the caller's notes, or every note for admins.
func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request, p *principal) {
	owner := p.user.ID
	if p.admin {
		owner = 0
	}
	notes, err := s.store.ListNotes(r.Context(), owner)
	if err != nil {
		s.log.Error().Err(err).Msg("list notes")
		writeInternalError(w)
		return
	}
	out := make([]client.NoteSummary, 0, len(notes))
	for i := range notes {
		out = append(out, notes[i].summary())
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request, p *principal) {
	if r.Header.Get(client.CSRFHeader) == "" {
		writeText(w, http.StatusBadRequest, "Missing session token")
		return
	}
	var req client.NoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validate.ValidateNote(req.Header, req.Content) != nil {
		writeText(w, http.StatusBadRequest, "Invalid note content!")
		return
	}
	if !p.csrfOK(r) {
		writeText(w, http.StatusBadRequest, "Invalid session token")
		return
	}

	n, err := s.store.CreateNote(r.Context(), p.user.ID, req.Header, req.Content, s.cfg.MaxNotes, s.clock.Now())
	if errors.Is(err, ErrNoteLimit) {
		writeText(w, http.StatusBadRequest, "Note limit reached")
		return
	}
	if err != nil {
		s.log.Error().Err(err).Msg("create note")
		writeInternalError(w)
		return
	}
	writeJSON(w, http.StatusCreated, n.detail())
}

// handleGetNote returns a note to its owner or to an admin.
func (s *Server) handleGetNote(w http.ResponseWriter, r *http.Request, p *principal) {
	id, ok := noteID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid note id")
		return
	}
	n, err := s.store.GetNote(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "Note not found")
		return
	}
	if err != nil {
		s.log.Error().Err(err).Int64("id", id).Msg("get note")
		writeInternalError(w)
		return
	}
	if !p.admin && n.Owner != p.user.ID {
		writeText(w, http.StatusUnauthorized, "Unauthorized access to note!")
		return
	}
	writeJSON(w, http.StatusOK, n.detail())
}

// handleUpdateNote lets owners edit their own notes. Admins get no exception.
func (s *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request, p *principal) {
	ctx := r.Context()
	if !p.csrfOK(r) {
		writeText(w, http.StatusUnauthorized, "Unauthorized update!")
		return
	}
	id, ok := noteID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid note id")
		return
	}
	existing, err := s.store.GetNote(ctx, id)
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "Note not found")
		return
	}
	if err != nil {
		s.log.Error().Err(err).Int64("id", id).Msg("get note")
		writeInternalError(w)
		return
	}
	if existing.Owner != p.user.ID {
		writeText(w, http.StatusUnauthorized, "Unauthorized update!")
		return
	}

	var req client.NoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validate.ValidateNote(req.Header, req.Content) != nil {
		writeText(w, http.StatusBadRequest, "Invalid note content!")
		return
	}

	n, err := s.store.UpdateNote(ctx, id, req.Header, req.Content, s.clock.Now())
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "Note not found")
		return
	}
	if err != nil {
		s.log.Error().Err(err).Int64("id", id).Msg("update note")
		writeInternalError(w)
		return
	}
	writeJSON(w, http.StatusOK, n.detail())
}

// handleDeleteNote lets owners delete their notes and admins delete any note.
// The answer is the deleted id.
func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request, p *principal) {
	ctx := r.Context()
	if !p.csrfOK(r) {
		writeText(w, http.StatusUnauthorized, "Unauthorized delete!")
		return
	}
	id, ok := noteID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid note id")
		return
	}
	if !p.admin {
		n, err := s.store.GetNote(ctx, id)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "Note not found")
			return
		}
		if err != nil {
			s.log.Error().Err(err).Int64("id", id).Msg("get note")
			writeInternalError(w)
			return
		}
		if n.Owner != p.user.ID {
			writeText(w, http.StatusUnauthorized, "Unauthorized delete!")
			return
		}
	}
	if err := s.store.DeleteNote(ctx, id); errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "Note not found")
		return
	} else if err != nil {
		s.log.Error().Err(err).Int64("id", id).Msg("delete note")
		writeInternalError(w)
		return
	}
	writeJSON(w, http.StatusOK, id)
}
