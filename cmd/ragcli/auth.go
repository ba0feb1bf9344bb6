package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newLoginCmd(a *app) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and store the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if email, err = promptIfEmpty(email, "Email: "); err != nil {
				return err
			}
			if password, err = promptIfEmpty(password, "Password: "); err != nil {
				return err
			}

			sess, err := a.sessions.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}

			fmt.Printf("Logged in as %s (%s)\n", sess.User.Name, sess.User.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when omitted)")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and forget stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.sessions.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("Logged out")
			return nil
		},
	}
}

func newRegisterCmd(a *app) *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if name, err = promptIfEmpty(name, "Name: "); err != nil {
				return err
			}
			if email, err = promptIfEmpty(email, "Email: "); err != nil {
				return err
			}
			if password, err = promptIfEmpty(password, "Password: "); err != nil {
				return err
			}

			user, err := a.sessions.Register(cmd.Context(), name, email, password)
			if err != nil {
				return err
			}

			fmt.Printf("Account created for %s. Run `ragcli login` to sign in.\n", user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when omitted)")
	return cmd
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.sessions.Require()
			if err != nil {
				return err
			}

			// Confirm the token is still accepted server side.
			user, err := a.client.CurrentUser(cmd.Context(), sess.Token)
			if err != nil {
				return err
			}

			fmt.Printf("%s <%s>\n", user.Name, user.Email)
			if user.Role != "" {
				fmt.Printf("Role: %s\n", user.Role)
			}
			fmt.Printf("Session expires: %s\n", sess.ExpiresAt.Format("2006-01-02 15:04:05"))
			return nil
		},
	}
}

func promptIfEmpty(value, prompt string) (string, error) {
	if value != "" {
		return value, nil
	}
	fmt.Fprint(os.Stderr, prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
