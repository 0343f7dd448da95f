package types

import (
	"encoding/json"
)

// ------------------------------
// Core Domain Entities
// ------------------------------

// Role is the capability level of a session. Values match the backend role names.
type Role string

const (
	RoleUnregistered Role = "ROLE_NONE"
	RoleUser         Role = "ROLE_USER"
	RoleAdmin        Role = "ROLE_ADMIN"
)

// rank orders roles so a roles array collapses to its most capable member.
func (r Role) rank() int {
	switch r {
	case RoleAdmin:
		return 2
	case RoleUser:
		return 1
	default:
		return 0
	}
}

// Session is the identity known to the client. The zero value is not valid;
// use Unregistered for the logged-out sentinel.
type Session struct {
	ID    int64
	Email string
	Role  Role
	// Token is the anti-forgery value sent as X-CSRF-TOKEN on mutations.
	Token string
}

// Unregistered returns the sentinel session with no id and no token.
func Unregistered() Session {
	return Session{Role: RoleUnregistered}
}

// Authenticated reports whether the session belongs to a logged-in user.
func (s Session) Authenticated() bool {
	return s.Role == RoleUser || s.Role == RoleAdmin
}

// IsAdmin reports whether the session carries the admin role.
func (s Session) IsAdmin() bool { return s.Role == RoleAdmin }

type sessionJSON struct {
	ID           int64    `json:"id,omitempty"`
	Email        string   `json:"email,omitempty"`
	Roles        []string `json:"roles"`
	Role         string   `json:"role,omitempty"`
	SessionToken string   `json:"sessionToken,omitempty"`
}

// MarshalJSON writes the wire form, which carries a roles array.
func (s Session) MarshalJSON() ([]byte, error) {
	role := s.Role
	if role == "" {
		role = RoleUnregistered
	}
	return json.Marshal(sessionJSON{
		ID:           s.ID,
		Email:        s.Email,
		Roles:        []string{string(role)},
		SessionToken: s.Token,
	})
}

// UnmarshalJSON accepts either a roles array or a single role field and keeps
// the highest role present.
func (s *Session) UnmarshalJSON(data []byte) error {
	var w sessionJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	role := RoleUnregistered
	candidates := w.Roles
	if w.Role != "" {
		candidates = append(candidates, w.Role)
	}
	for _, c := range candidates {
		if r := Role(c); r.rank() > role.rank() {
			role = r
		}
	}
	*s = Session{ID: w.ID, Email: w.Email, Role: role, Token: w.SessionToken}
	if !s.Authenticated() {
		s.ID = 0
		s.Token = ""
	}
	return nil
}

// NoteSummary is the list projection of a note. Timestamps are epoch milliseconds.
type NoteSummary struct {
	ID         int64  `json:"id"`
	Owner      int64  `json:"owner"`
	Header     string `json:"header"`
	CreatedAt  int64  `json:"createdAt"`
	ModifiedAt int64  `json:"modifiedAt"`
}

// NoteDetail is a note with its body.
type NoteDetail struct {
	ID         int64  `json:"id"`
	Owner      int64  `json:"owner"`
	Header     string `json:"header"`
	Content    string `json:"content"`
	CreatedAt  int64  `json:"createdAt"`
	ModifiedAt int64  `json:"modifiedAt"`
}

// Summary drops the body.
func (n NoteDetail) Summary() NoteSummary {
	return NoteSummary{
		ID:         n.ID,
		Owner:      n.Owner,
		Header:     n.Header,
		CreatedAt:  n.CreatedAt,
		ModifiedAt: n.ModifiedAt,
	}
}

// NewNoteID marks an active note that has not been saved yet.
const NewNoteID int64 = -1

// NewNote returns the unsaved-note placeholder.
func NewNote() NoteDetail {
	return NoteDetail{ID: NewNoteID, Owner: NewNoteID}
}

// IsNew reports whether n is the unsaved-note placeholder.
func (n NoteDetail) IsNew() bool { return n.ID == NewNoteID }
