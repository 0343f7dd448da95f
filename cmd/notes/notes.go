package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Polystyreeni/NoteOnline/client"
	"github.com/Polystyreeni/NoteOnline/internal/app"
	"github.com/Polystyreeni/NoteOnline/internal/render"
)

func parseNoteID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid note id %q", arg)
	}
	return id, nil
}

// readContent returns --content, or the contents of --file ("-" reads stdin).
func readContent(cmd *cobra.Command, content, file string) (string, error) {
	if file == "" {
		return content, nil
	}
	if cmd.Flags().Changed("content") {
		return "", fmt.Errorf("--content and --file are mutually exclusive")
	}
	var r io.Reader = cmd.InOrStdin()
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return "", err
		}
		defer f.Close()
		r = f
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", file, err)
	}
	return string(b), nil
}

func (c *cli) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your notes, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.ListNotes(ctx); err != nil {
					return err
				}
				return render.Notes(cmd.OutOrStdout(), c.format, a.Notes())
			})
		},
	}
}

func (c *cli) newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <note-id>",
		Short: "Print a note with its content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseNoteID(args[0])
			if err != nil {
				return err
			}
			return c.withSession(cmd, func(ctx context.Context, a *app.App) error {
				n, err := a.OpenNote(ctx, id)
				if err != nil {
					return fmt.Errorf("fetch note %d: %s", id, client.ErrorDetail(err))
				}
				return render.Note(cmd.OutOrStdout(), c.format, n)
			})
		},
	}
}

func (c *cli) newAddCmd() *cobra.Command {
	var header, content, file string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a note",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readContent(cmd, content, file)
			if err != nil {
				return err
			}
			return c.withSession(cmd, func(ctx context.Context, a *app.App) error {
				// The local limit check needs the collection.
				if err := a.EnsureNotes(ctx); err != nil {
					return err
				}
				if err := a.NewNote(ctx); err != nil {
					return err
				}
				n, err := a.SaveNote(ctx, header, body)
				if err != nil {
					return err
				}
				log.Debug().Int64("note_id", n.ID).Msg("note created")
				return render.Note(cmd.OutOrStdout(), c.format, n)
			})
		},
	}

	cmd.Flags().StringVar(&header, "header", "", "Note header (max 64 characters)")
	cmd.Flags().StringVar(&content, "content", "", "Note content (max 5000 characters)")
	cmd.Flags().StringVarP(&file, "file", "f", "", `Read content from a file, "-" for stdin`)
	_ = cmd.MarkFlagRequired("header")
	return cmd
}

func (c *cli) newEditCmd() *cobra.Command {
	var header, content, file string

	cmd := &cobra.Command{
		Use:   "edit <note-id>",
		Short: "Change the header or content of a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseNoteID(args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("header") && !cmd.Flags().Changed("content") && file == "" {
				return fmt.Errorf("nothing to change: pass --header, --content or --file")
			}
			body, err := readContent(cmd, content, file)
			if err != nil {
				return err
			}
			return c.withSession(cmd, func(ctx context.Context, a *app.App) error {
				current, err := a.OpenNote(ctx, id)
				if err != nil {
					return fmt.Errorf("fetch note %d: %s", id, client.ErrorDetail(err))
				}
				if !cmd.Flags().Changed("header") {
					header = current.Header
				}
				if !cmd.Flags().Changed("content") && file == "" {
					body = current.Content
				}
				n, err := a.SaveNote(ctx, header, body)
				if err != nil {
					return err
				}
				return render.Note(cmd.OutOrStdout(), c.format, n)
			})
		},
	}

	cmd.Flags().StringVar(&header, "header", "", "New header")
	cmd.Flags().StringVar(&content, "content", "", "New content")
	cmd.Flags().StringVarP(&file, "file", "f", "", `Read content from a file, "-" for stdin`)
	return cmd
}

func (c *cli) newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <note-id>",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseNoteID(args[0])
			if err != nil {
				return err
			}
			return c.withSession(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.DeleteNote(ctx, id); err != nil {
					return fmt.Errorf("delete note %d: %s", id, client.ErrorDetail(err))
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "Deleted note %d\n", id)
				return err
			})
		},
	}
}

func (c *cli) newExportCmd() *cobra.Command {
	var out, title string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every note to one HTML page, rendering content as Markdown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.ListNotes(ctx); err != nil {
					return err
				}
				summaries := a.Notes()
				notes := make([]client.NoteDetail, 0, len(summaries))
				for _, s := range summaries {
					n, err := a.OpenNote(ctx, s.ID)
					if err != nil {
						return fmt.Errorf("fetch note %d: %s", s.ID, client.ErrorDetail(err))
					}
					notes = append(notes, n)
				}

				w := cmd.OutOrStdout()
				if out != "" && out != "-" {
					f, err := os.Create(out)
					if err != nil {
						return err
					}
					defer f.Close()
					w = f
				}
				if err := render.ExportHTML(w, title, notes); err != nil {
					return err
				}
				log.Info().Int("notes", len(notes)).Str("out", out).Msg("export complete")
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&out, "out", "-", `Output file, "-" for stdout`)
	cmd.Flags().StringVar(&title, "title", "My notes", "Page title")
	return cmd
}
