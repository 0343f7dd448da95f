// Package render prints notes for the command line and exports them as HTML.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Polystyreeni/NoteOnline/client"
)

// Format selects how records are printed.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat accepts table, json or yaml in any case. Empty means table.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatTable, nil
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want table, json or yaml)", s)
	}
}

// noteView is the printed form of a note. Times are RFC 3339 in UTC.
type noteView struct {
	ID       int64  `json:"id" yaml:"id"`
	Owner    int64  `json:"owner" yaml:"owner"`
	Header   string `json:"header" yaml:"header"`
	Content  string `json:"content,omitempty" yaml:"content,omitempty"`
	Created  string `json:"created" yaml:"created"`
	Modified string `json:"modified" yaml:"modified"`
}

type sessionView struct {
	ID    int64  `json:"id,omitempty" yaml:"id,omitempty"`
	Email string `json:"email,omitempty" yaml:"email,omitempty"`
	Role  string `json:"role" yaml:"role"`
}

// Timestamp formats epoch milliseconds.
func Timestamp(ms int64) string {
	if ms == 0 {
		return ""
	}
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}

func summaryView(n client.NoteSummary) noteView {
	return noteView{ID: n.ID, Owner: n.Owner, Header: n.Header, Created: Timestamp(n.CreatedAt), Modified: Timestamp(n.ModifiedAt)}
}

func detailView(n client.NoteDetail) noteView {
	v := summaryView(n.Summary())
	v.Content = n.Content
	return v
}

func encode(w io.Writer, f Format, v any) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("encode: unsupported format %q", f)
	}
}
