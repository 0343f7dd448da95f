package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Polystyreeni/NoteOnline/client"
	"github.com/Polystyreeni/NoteOnline/internal/app"
	"github.com/Polystyreeni/NoteOnline/internal/render"
	"github.com/Polystyreeni/NoteOnline/internal/validate"
)

func (c *cli) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the identity the server reports; logs in first when credentials are set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			show := func(ctx context.Context, a *app.App) error {
				s, err := a.CheckStatus(ctx)
				if err != nil {
					return err
				}
				return render.Session(cmd.OutOrStdout(), c.format, s)
			}

			if c.cfg.Email != "" && c.cfg.Password != "" {
				return c.withSession(cmd, show)
			}
			a, closeFn, err := c.newApp(logNotifier{})
			if err != nil {
				return err
			}
			defer closeFn()
			return show(cmd.Context(), a)
		},
	}
}

func (c *cli) newRegisterCmd() *cobra.Command {
	var repeat string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account with --email and --password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("repeat") {
				repeat = c.cfg.Password
			}
			a, closeFn, err := c.newApp(logNotifier{},
				app.WithScorer(validate.ZxcvbnScorer{UserInputs: []string{c.cfg.Email}}))
			if err != nil {
				return err
			}
			defer closeFn()

			_, err = a.Register(cmd.Context(), client.Registration{
				Email:          c.cfg.Email,
				Password:       c.cfg.Password,
				PasswordRepeat: repeat,
			})
			var verr *app.ValidationError
			if errors.As(err, &verr) {
				return fmt.Errorf("%s: %s", verr.Field, verr.Message)
			}
			if err != nil {
				return fmt.Errorf("register: %s", client.ErrorDetail(err))
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Registered %s\n", c.cfg.Email)
			return err
		},
	}

	cmd.Flags().StringVar(&repeat, "repeat", "", "Password repeat (defaults to --password)")
	return cmd
}

func (c *cli) newPasswordCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "password-check [password]",
		Short: "Check a password against the registration rules without contacting the server",
		Long:  "Reads the password from the argument, or from the first line of stdin when none is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			if len(args) == 1 {
				password = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}

			out := cmd.OutOrStdout()
			if status := validate.IsValidPassword(password); !status.OK {
				fmt.Fprintf(out, "Rejected: %s\n", status.Message)
				return errors.New("password rejected")
			}

			var inputs []string
			if c.cfg.Email != "" {
				inputs = []string{c.cfg.Email}
			}
			strength := validate.ZxcvbnScorer{UserInputs: inputs}.Score(password)
			fmt.Fprintf(out, "Score: %d/4\n", strength.Score)
			if strength.Warning != "" {
				fmt.Fprintf(out, "Warning: %s\n", strength.Warning)
			}
			for _, s := range strength.Suggestions {
				fmt.Fprintf(out, "Suggestion: %s\n", s)
			}
			if !validate.StrongEnough(strength) {
				fmt.Fprintln(out, "Rejected: Password is too weak")
				return errors.New("password rejected")
			}
			_, err := fmt.Fprintln(out, "Accepted")
			return err
		},
	}
}
