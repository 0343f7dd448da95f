package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Polystyreeni/NoteOnline/client"
	"github.com/Polystyreeni/NoteOnline/internal/app"
	"github.com/Polystyreeni/NoteOnline/internal/config"
	"github.com/Polystyreeni/NoteOnline/internal/notify"
	"github.com/Polystyreeni/NoteOnline/internal/render"
	"github.com/Polystyreeni/NoteOnline/internal/shardqueue"
)

func main() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// cli carries the resolved configuration shared by every subcommand.
type cli struct {
	cfg    *config.Config
	format render.Format

	api      string
	email    string
	password string
	output   string
	debug    bool
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:          "notes",
		Short:        "NoteOnline client: manage notes from the terminal",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.InitLoggerTo(cmd.ErrOrStderr())
			return c.load(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&c.api, "api", "", "REST root of the note service (default $NOTES_API_ADDRESS)")
	rootCmd.PersistentFlags().StringVar(&c.email, "email", "", "Account email (default $NOTES_EMAIL)")
	rootCmd.PersistentFlags().StringVar(&c.password, "password", "", "Account password (default $NOTES_PASSWORD)")
	rootCmd.PersistentFlags().StringVarP(&c.output, "output", "o", "table", "Output format: table, json or yaml")
	rootCmd.PersistentFlags().BoolVarP(&c.debug, "debug", "d", false, "Enable verbose debug output")

	rootCmd.AddCommand(c.newStatusCmd())
	rootCmd.AddCommand(c.newRegisterCmd())
	rootCmd.AddCommand(c.newPasswordCheckCmd())
	rootCmd.AddCommand(c.newListCmd())
	rootCmd.AddCommand(c.newShowCmd())
	rootCmd.AddCommand(c.newAddCmd())
	rootCmd.AddCommand(c.newEditCmd())
	rootCmd.AddCommand(c.newDeleteCmd())
	rootCmd.AddCommand(c.newExportCmd())
	rootCmd.AddCommand(c.newTUICmd())
	rootCmd.AddCommand(c.newMCPCmd())

	return rootCmd
}

// load reads NOTES_* variables and lets flags override them.
func (c *cli) load(cmd *cobra.Command) error {
	cfg, err := config.New()
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("api") {
		cfg.APIAddress = c.api
	}
	if flags.Changed("email") {
		cfg.Email = c.email
	}
	if flags.Changed("password") {
		cfg.Password = c.password
	}
	if c.debug {
		cfg.Debug = true
		cfg.LogLevel = "debug"
	}
	if err := cfg.ResolveDefaults(); err != nil {
		return err
	}
	config.SetLogLevel(cfg.Level())

	f, err := render.ParseFormat(c.output)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.format = f
	log.Debug().Str("api_address", cfg.APIAddress).Str("output", string(f)).Msg("cli configured")
	return nil
}

// logNotifier turns app notifications into log lines on stderr.
type logNotifier struct{}

func (logNotifier) Notify(kind notify.Kind, message string) {
	switch kind {
	case notify.KindError:
		log.Error().Msg(message)
	case notify.KindSuccess:
		log.Info().Msg(message)
	}
}

// newApp wires a client and an App for one command.
func (c *cli) newApp(notifier app.Notifier, opts ...app.Option) (*app.App, func(), error) {
	sdk, err := client.New(c.cfg.APIAddress,
		client.WithHTTPTimeout(c.cfg.HTTPTimeout),
		client.WithRetry(c.cfg.RetryAttempts, c.cfg.RetryInterval),
		client.WithDebugLogging(c.cfg.Debug),
	)
	if err != nil {
		return nil, nil, err
	}
	dispatch, err := shardqueue.LoadConfig()
	if err != nil {
		_ = sdk.Close()
		return nil, nil, err
	}
	opts = append([]app.Option{
		app.WithDispatchConfig(dispatch),
		app.WithMaxNotes(c.cfg.MaxNotes),
		app.WithLogger(log.Logger),
	}, opts...)
	a := app.New(sdk, notifier, opts...)
	closeFn := func() {
		if err := a.Close(); err != nil {
			log.Debug().Err(err).Msg("close app")
		}
		_ = sdk.Close()
	}
	return a, closeFn, nil
}

// withSession logs in with the configured credentials, runs fn and logs out.
func (c *cli) withSession(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	if c.cfg.Email == "" || c.cfg.Password == "" {
		return errors.New("credentials required: pass --email and --password or set NOTES_EMAIL and NOTES_PASSWORD")
	}

	a, closeFn, err := c.newApp(logNotifier{})
	if err != nil {
		return err
	}
	defer closeFn()

	ctx := cmd.Context()
	start := time.Now()
	s, err := a.Login(ctx, client.Credentials{Email: c.cfg.Email, Password: c.cfg.Password})
	if err != nil {
		log.Error().Err(err).Str("email", c.cfg.Email).Dur("elapsed", time.Since(start)).Msg("login failed")
		return fmt.Errorf("login: %s", client.ErrorDetail(err))
	}
	log.Debug().Int64("user_id", s.ID).Str("role", string(s.Role)).Dur("elapsed", time.Since(start)).Msg("logged in")

	defer func() {
		logoutCtx, cancel := context.WithTimeout(context.Background(), c.cfg.HTTPTimeout)
		defer cancel()
		if err := a.Logout(logoutCtx); err != nil {
			log.Warn().Err(err).Msg("logout failed")
		}
	}()

	return fn(ctx, a)
}
