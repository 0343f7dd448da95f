package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Polystyreeni/NoteOnline/internal/config"
	"github.com/Polystyreeni/NoteOnline/internal/devserver"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("notes-devserver exited with error")
		os.Exit(1)
	}
}

// NewRootCmd constructs the server command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	var addr, dbPath, logLevel string
	var maxNotes int
	var admins []string

	cmd := &cobra.Command{
		Use:   "notes-devserver",
		Short: "Run the NoteOnline development API backed by SQLite",
		Long: "Serves the note REST API under /api and Prometheus metrics under /metrics.\n" +
			"Settings come from NOTES_DEVSERVER_* variables; flags override them.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			config.InitLogger()

			cfg, err := config.NewDevServer()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("db") {
				cfg.DBPath = dbPath
			}
			if cmd.Flags().Changed("max-notes") {
				cfg.MaxNotes = maxNotes
			}
			if cmd.Flags().Changed("admin") {
				cfg.AdminEmails = admins
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if err := cfg.ResolveDefaults(); err != nil {
				return err
			}

			level, _ := config.ParseLevel(cfg.LogLevel)
			logger := config.NewServiceLogger(os.Stdout, "notes-devserver", level)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return devserver.Run(ctx, cfg, logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().StringVar(&dbPath, "db", "notes-dev.db", `SQLite file, or ":memory:"`)
	cmd.Flags().IntVar(&maxNotes, "max-notes", 100, "Per-user note limit")
	cmd.Flags().StringSliceVar(&admins, "admin", nil, "Emails granted the admin role")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
	return cmd
}
