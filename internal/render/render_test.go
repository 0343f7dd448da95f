package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Polystyreeni/NoteOnline/client"
)

// 2025-01-02T03:04:05Z
const ts = int64(1735787045000)

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatTable, "JSON": FormatJSON, " yaml ": FormatYAML, "table": FormatTable} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("xml")
	require.Error(t, err)
}

func TestNotesTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Notes(&buf, FormatTable, []client.NoteSummary{
		{ID: 1, Header: "groceries", ModifiedAt: ts},
		{ID: 12, Header: "todo"},
	}))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[1], "groceries")
	assert.Contains(t, lines[1], "2025-01-02T03:04:05Z")
	assert.Contains(t, lines[2], "todo")
}

func TestNotesStructured(t *testing.T) {
	notes := []client.NoteSummary{{ID: 3, Owner: 9, Header: "h", CreatedAt: ts, ModifiedAt: ts}}

	var js bytes.Buffer
	require.NoError(t, Notes(&js, FormatJSON, notes))
	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "h", decoded[0]["header"])
	assert.Equal(t, "2025-01-02T03:04:05Z", decoded[0]["modified"])
	assert.NotContains(t, decoded[0], "content")

	var ym bytes.Buffer
	require.NoError(t, Notes(&ym, FormatYAML, notes))
	var fromYAML []noteView
	require.NoError(t, yaml.Unmarshal(ym.Bytes(), &fromYAML))
	assert.Equal(t, []noteView{summaryView(notes[0])}, fromYAML)
}

func TestNoteAndSession(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Note(&buf, FormatTable, client.NoteDetail{ID: 4, Header: "h", Content: "line one\nline two"}))
	assert.Contains(t, buf.String(), "Header:")
	assert.True(t, strings.HasSuffix(buf.String(), "line one\nline two\n"))

	buf.Reset()
	require.NoError(t, Session(&buf, FormatTable, client.Unregistered()))
	assert.Equal(t, "Not logged in\n", buf.String())

	buf.Reset()
	require.NoError(t, Session(&buf, FormatYAML, client.Session{ID: 2, Email: "a@b.co", Role: client.RoleAdmin}))
	assert.Contains(t, buf.String(), "role: ROLE_ADMIN")
}

func TestExportHTML(t *testing.T) {
	var buf bytes.Buffer
	err := ExportHTML(&buf, "My <notes>", []client.NoteDetail{
		{ID: 1, Header: "Plan & ideas", Content: "# Title\n\n- one\n- two\n\n<script>alert(1)</script>", ModifiedAt: ts},
	})
	require.NoError(t, err)
	out := buf.String()

	assert.Contains(t, out, "<title>My &lt;notes&gt;</title>")
	assert.Contains(t, out, `<article id="note-1">`)
	assert.Contains(t, out, "<h2>Plan &amp; ideas</h2>")
	assert.Contains(t, out, "<h1>Title</h1>")
	assert.Contains(t, out, "<li>one</li>")
	assert.NotContains(t, out, "<script>alert(1)</script>")
}
