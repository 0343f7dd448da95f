package types

import "testing"

func TestValidateNoteID(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in int64
		ok bool
	}{
		{1, true}, {42, true}, {0, false}, {NewNoteID, false}, {-7, false},
	}
	for _, c := range cases {
		err := ValidateNoteID(c.in)
		if c.ok && err != nil {
			t.Fatalf("expected ok for %d, got %v", c.in, err)
		}
		if !c.ok && err == nil {
			t.Fatalf("expected error for %d", c.in)
		}
	}
}

func TestValidateToken(t *testing.T) {
	t.Parallel()
	if err := ValidateToken(""); err == nil {
		t.Fatal("expected error for empty token")
	}
	if err := ValidateToken("abc"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
