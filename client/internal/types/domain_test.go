package types

import (
	"encoding/json"
	"testing"
)

func TestSession_UnmarshalRolesArray(t *testing.T) {
	t.Parallel()
	var s Session
	raw := `{"id":7,"email":"a@b.fi","roles":["ROLE_USER","ROLE_ADMIN"],"sessionToken":"tok"}`
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s.Role != RoleAdmin || s.ID != 7 || s.Token != "tok" || s.Email != "a@b.fi" {
		t.Fatalf("unexpected session: %+v", s)
	}
}

func TestSession_UnmarshalUnregisteredDropsIdentity(t *testing.T) {
	t.Parallel()
	var s Session
	if err := json.Unmarshal([]byte(`{"id":3,"roles":["ROLE_NONE"],"sessionToken":"x"}`), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s != Unregistered() {
		t.Fatalf("expected sentinel, got %+v", s)
	}
}

func TestSession_RoundTripKeepsRole(t *testing.T) {
	t.Parallel()
	in := Session{ID: 1, Email: "x@y.fi", Role: RoleUser, Token: "t"}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out Session
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out != in {
		t.Fatalf("got %+v want %+v", out, in)
	}
}

func TestNewNotePlaceholder(t *testing.T) {
	t.Parallel()
	n := NewNote()
	if !n.IsNew() || n.Owner != NewNoteID || n.Header != "" || n.Content != "" {
		t.Fatalf("unexpected placeholder %+v", n)
	}
	if (NoteDetail{ID: 5}).IsNew() {
		t.Fatal("saved note reported as new")
	}
}
