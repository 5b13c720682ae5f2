package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newLoginCommand(app *App) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Log in and store the session locally",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := args[0]
			if password == "" {
				var err error
				password, err = promptPassword(cmd, "Password: ")
				if err != nil {
					return err
				}
			}

			if err := app.Store.Login(cmd.Context(), username, password); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when omitted)")
	return cmd
}

func newRegisterCommand(app *App) *cobra.Command {
	var password, email string

	cmd := &cobra.Command{
		Use:   "register <username>",
		Short: "Create an account and log in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := args[0]
			if password == "" {
				var err error
				password, err = promptPassword(cmd, "Password: ")
				if err != nil {
					return err
				}
			}

			if err := app.Store.Register(cmd.Context(), username, password, email); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered and logged in as %s\n", username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when omitted)")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	return cmd
}

func newLogoutCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Store.Logout()
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newWhoamiCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session's user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state := app.Store.Snapshot()
			if !state.Session.IsAuthenticated {
				return fmt.Errorf("not logged in")
			}

			user, err := app.Store.FetchCurrentUser(cmd.Context())
			if err != nil {
				return err
			}

			if app.Format == "json" {
				return printJSON(cmd, user)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (id %d)\n", user.Username, user.ID)
			return nil
		},
	}
}

// promptPassword reads a password without echo when stdin is a
// terminal, falling back to a plain line read otherwise (tests,
// pipes).
func promptPassword(cmd *cobra.Command, prompt string) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	if f, ok := cmd.InOrStdin().(interface{ Fd() uintptr }); ok && term.IsTerminal(int(f.Fd())) {
		raw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}

	var line string
	if _, err := fmt.Fscanln(cmd.InOrStdin(), &line); err != nil {
		return "", err
	}
	return line, nil
}
