package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/Polystyreeni/NoteOnline/client"
)

// markdown is safe to share; raw HTML in note content is escaped.
var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

var exportTemplate = template.Must(template.New("export").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<h1>{{.Title}}</h1>
{{range .Notes}}<article id="note-{{.ID}}">
<h2>{{.Header}}</h2>
<p><small>Last modified {{.Modified}}</small></p>
{{.Body}}</article>
{{end}}</body>
</html>
`))

type exportNote struct {
	ID       int64
	Header   string
	Modified string
	Body     template.HTML
}

// MarkdownToHTML renders note content, treated as Markdown, to HTML.
func MarkdownToHTML(content string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

// ExportHTML writes notes as a standalone HTML document, in the given order.
func ExportHTML(w io.Writer, title string, notes []client.NoteDetail) error {
	data := struct {
		Title string
		Notes []exportNote
	}{Title: title}
	for _, n := range notes {
		body, err := MarkdownToHTML(n.Content)
		if err != nil {
			return fmt.Errorf("note %d: %w", n.ID, err)
		}
		data.Notes = append(data.Notes, exportNote{
			ID:       n.ID,
			Header:   n.Header,
			Modified: Timestamp(n.ModifiedAt),
			Body:     template.HTML(body),
		})
	}
	return exportTemplate.Execute(w, data)
}
