// Package mcp serves the note collection as MCP tools over stdio.
package mcp

import (
	"context"
	"io"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/Polystyreeni/NoteOnline/internal/mcp/handlers"
)

const (
	ServerName    = "noteonline"
	ServerVersion = "0.1.0"
)

type toolRegisterer interface {
	RegisterTools(s *server.MCPServer) error
}

// NewServer builds an MCP server with the note tools registered.
func NewServer(notes handlers.Notes) (*server.MCPServer, error) {
	s := server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithToolCapabilities(true),
	)

	for _, h := range []toolRegisterer{handlers.NewNoteHandler(notes)} {
		if err := h.RegisterTools(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// ServeStdio answers requests read from in until ctx is done or in is closed.
// Logs must not go to out.
func ServeStdio(ctx context.Context, notes handlers.Notes, in io.Reader, out io.Writer) error {
	s, err := NewServer(notes)
	if err != nil {
		return err
	}

	log.Info().Msg("Starting NoteOnline MCP server (stdio transport)")
	stdio := server.NewStdioServer(s)
	if err := stdio.Listen(ctx, in, out); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("Stdio server error")
		return err
	}
	log.Info().Msg("MCP server shutdown complete")
	return nil
}
