package client

import (
	"github.com/Polystyreeni/NoteOnline/client/internal/api"
	"github.com/Polystyreeni/NoteOnline/client/internal/types"
)

// Public type aliases so SDK consumers can import only the client package.
// Requests
type (
	Credentials  = types.Credentials
	Registration = types.Registration
	NoteRequest  = types.NoteRequest

	// Domain entities
	Role        = types.Role
	Session     = types.Session
	NoteSummary = types.NoteSummary
	NoteDetail  = types.NoteDetail
)

const (
	RoleUnregistered = types.RoleUnregistered
	RoleUser         = types.RoleUser
	RoleAdmin        = types.RoleAdmin

	// NewNoteID is the id of an active note that has not been saved yet.
	NewNoteID = types.NewNoteID

	// CSRFHeader is the request header carrying the session token.
	CSRFHeader = api.CSRFHeader
)

// Unregistered returns the logged-out session sentinel.
func Unregistered() Session { return types.Unregistered() }

// NewNote returns the unsaved-note placeholder.
func NewNote() NoteDetail { return types.NewNote() }

// Errors re-exported in errors.go
