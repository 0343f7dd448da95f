package render

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Polystyreeni/NoteOnline/client"
)

// Notes prints a note listing.
func Notes(w io.Writer, f Format, notes []client.NoteSummary) error {
	views := make([]noteView, 0, len(notes))
	for _, n := range notes {
		views = append(views, summaryView(n))
	}
	if f != FormatTable {
		return encode(w, f, views)
	}

	tw := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "ID\tHEADER\tMODIFIED\n")
	for _, v := range views {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", v.ID, v.Header, v.Modified)
	}
	return tw.Flush()
}

// Note prints one note with its content.
func Note(w io.Writer, f Format, n client.NoteDetail) error {
	v := detailView(n)
	if f != FormatTable {
		return encode(w, f, v)
	}

	tw := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%d\n", v.ID)
	fmt.Fprintf(tw, "Header:\t%s\n", v.Header)
	fmt.Fprintf(tw, "Created:\t%s\n", v.Created)
	fmt.Fprintf(tw, "Modified:\t%s\n", v.Modified)
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%s\n", v.Content)
	return err
}

// Session prints who is logged in.
func Session(w io.Writer, f Format, s client.Session) error {
	v := sessionView{ID: s.ID, Email: s.Email, Role: string(s.Role)}
	if f != FormatTable {
		return encode(w, f, v)
	}
	if !s.Authenticated() {
		_, err := fmt.Fprintln(w, "Not logged in")
		return err
	}
	_, err := fmt.Fprintf(w, "Logged in as %s (%s)\n", s.Email, s.Role)
	return err
}
