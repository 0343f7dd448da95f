package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Polystyreeni/NoteOnline/internal/app"
	"github.com/Polystyreeni/NoteOnline/internal/config"
	"github.com/Polystyreeni/NoteOnline/internal/mcp"
	"github.com/Polystyreeni/NoteOnline/internal/notify"
	"github.com/Polystyreeni/NoteOnline/internal/tui"
)

func (c *cli) newTUICmd() *cobra.Command {
	var logFile string

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive terminal client",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
			if err != nil {
				return err
			}
			defer f.Close()
			config.InitLoggerTo(f)

			n := notify.New(notify.WithDuration(c.cfg.NotificationDuration))
			defer n.Close()
			a, closeFn, err := c.newApp(n)
			if err != nil {
				return err
			}
			defer closeFn()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM)
			defer stop()
			return tui.Run(ctx, a, n)
		},
	}

	cmd.Flags().StringVar(&logFile, "log-file", filepath.Join(os.TempDir(), "notes-tui.log"), "Where log lines go while the screen is in use")
	return cmd
}

func (c *cli) newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve your notes as MCP tools over stdio",
		Long:  "Logs in with the configured credentials and answers MCP requests on stdin/stdout until stdin closes.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			cmd.SetContext(ctx)

			return c.withSession(cmd, func(ctx context.Context, a *app.App) error {
				return mcp.ServeStdio(ctx, a, cmd.InOrStdin(), cmd.OutOrStdout())
			})
		},
	}
}
