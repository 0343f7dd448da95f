package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/Polystyreeni/NoteOnline/client"
)

// Notes is the part of *app.App the tools need.
type Notes interface {
	ListNotes(ctx context.Context) error
	Notes() []client.NoteSummary
	OpenNote(ctx context.Context, id int64) (client.NoteDetail, error)
	AddNote(ctx context.Context, req client.NoteRequest) (client.NoteDetail, error)
	UpdateNote(ctx context.Context, id int64, req client.NoteRequest) (client.NoteDetail, error)
	DeleteNote(ctx context.Context, id int64) error
}

// NoteHandler exposes the note collection as MCP tools.
type NoteHandler struct {
	notes Notes
}

func NewNoteHandler(n Notes) *NoteHandler {
	return &NoteHandler{notes: n}
}

// RegisterTools adds list_notes, get_note, create_note, update_note and delete_note.
func (nh *NoteHandler) RegisterTools(s *server.MCPServer) error {
	list := mcp.NewTool("list_notes",
		mcp.WithDescription("List the notes visible to the logged-in user, newest first. Content is not included."),
	)
	s.AddTool(list, nh.handleListNotes)

	get := mcp.NewTool("get_note",
		mcp.WithDescription("Fetch one note with its content."),
		mcp.WithNumber("note_id", mcp.Required(), mcp.Description("Note id")),
	)
	s.AddTool(get, nh.handleGetNote)

	create := mcp.NewTool("create_note",
		mcp.WithDescription("Create a note. Header is at most 64 characters, content at most 5000."),
		mcp.WithString("header", mcp.Required(), mcp.Description("Note header")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Note body")),
	)
	s.AddTool(create, nh.handleCreateNote)

	update := mcp.NewTool("update_note",
		mcp.WithDescription("Replace the header and content of a note you own."),
		mcp.WithNumber("note_id", mcp.Required(), mcp.Description("Note id")),
		mcp.WithString("header", mcp.Required(), mcp.Description("New header")),
		mcp.WithString("content", mcp.Required(), mcp.Description("New body")),
	)
	s.AddTool(update, nh.handleUpdateNote)

	del := mcp.NewTool("delete_note",
		mcp.WithDescription("Delete a note."),
		mcp.WithNumber("note_id", mcp.Required(), mcp.Description("Note id")),
	)
	s.AddTool(del, nh.handleDeleteNote)

	return nil
}

func (nh *NoteHandler) handleListNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	log.Debug().Msg("list_notes invoked")

	start := time.Now()
	err := nh.notes.ListNotes(ctx)
	elapsed := time.Since(start)
	if err != nil {
		log.Error().Err(err).Dur("elapsed", elapsed).Msg("list_notes failed")
		return mcp.NewToolResultError(fmt.Sprintf("failed to list notes: %s", client.ErrorDetail(err))), nil
	}

	notes := nh.notes.Notes()
	log.Debug().Int("count", len(notes)).Dur("elapsed", elapsed).Msg("list_notes succeeded")
	return jsonResult(map[string]any{"notes": notes, "count": len(notes)})
}

func (nh *NoteHandler) handleGetNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := noteID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	log.Debug().Int64("note_id", id).Msg("get_note invoked")

	start := time.Now()
	n, err := nh.notes.OpenNote(ctx, id)
	elapsed := time.Since(start)
	if err != nil {
		log.Error().Err(err).Int64("note_id", id).Dur("elapsed", elapsed).Msg("get_note failed")
		return mcp.NewToolResultError(fmt.Sprintf("failed to get note: %s", client.ErrorDetail(err))), nil
	}
	return jsonResult(n)
}

func (nh *NoteHandler) handleCreateNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	header, _ := req.RequireString("header")
	content, _ := req.RequireString("content")
	log.Debug().Str("header", header).Int("content_len", len(content)).Msg("create_note invoked")

	start := time.Now()
	n, err := nh.notes.AddNote(ctx, client.NoteRequest{Header: header, Content: content})
	elapsed := time.Since(start)
	if err != nil {
		log.Error().Err(err).Dur("elapsed", elapsed).Msg("create_note failed")
		return mcp.NewToolResultError(fmt.Sprintf("failed to create note: %s", client.ErrorDetail(err))), nil
	}
	log.Debug().Int64("note_id", n.ID).Dur("elapsed", elapsed).Msg("create_note succeeded")
	return jsonResult(n)
}

func (nh *NoteHandler) handleUpdateNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := noteID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	header, _ := req.RequireString("header")
	content, _ := req.RequireString("content")
	log.Debug().Int64("note_id", id).Str("header", header).Msg("update_note invoked")

	// The owner travels with the update; keep the cached one when known.
	var owner int64
	for _, s := range nh.notes.Notes() {
		if s.ID == id {
			owner = s.Owner
			break
		}
	}

	start := time.Now()
	n, err := nh.notes.UpdateNote(ctx, id, client.NoteRequest{Owner: owner, Header: header, Content: content})
	elapsed := time.Since(start)
	if err != nil {
		log.Error().Err(err).Int64("note_id", id).Dur("elapsed", elapsed).Msg("update_note failed")
		return mcp.NewToolResultError(fmt.Sprintf("failed to update note: %s", client.ErrorDetail(err))), nil
	}
	return jsonResult(n)
}

func (nh *NoteHandler) handleDeleteNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := noteID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	log.Debug().Int64("note_id", id).Msg("delete_note invoked")

	start := time.Now()
	if err := nh.notes.DeleteNote(ctx, id); err != nil {
		log.Error().Err(err).Int64("note_id", id).Dur("elapsed", time.Since(start)).Msg("delete_note failed")
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete note: %s", client.ErrorDetail(err))), nil
	}
	return jsonResult(map[string]any{"deleted": id})
}

// noteID reads note_id. JSON numbers arrive as float64; strings are accepted too.
func noteID(req mcp.CallToolRequest) (int64, error) {
	switch v := req.GetArguments()["note_id"].(type) {
	case float64:
		if v > 0 && v == float64(int64(v)) {
			return int64(v), nil
		}
	case int:
		if v > 0 {
			return int64(v), nil
		}
	case int64:
		if v > 0 {
			return v, nil
		}
	case string:
		if id, err := strconv.ParseInt(v, 10, 64); err == nil && id > 0 {
			return id, nil
		}
	case nil:
		return 0, fmt.Errorf("note_id is required")
	}
	return 0, fmt.Errorf("note_id must be a positive integer")
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
