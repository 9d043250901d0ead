package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session",
	Long: `Authenticate against the backend and persist the session locally.

Credentials come from flags, the DARABCTL_EMAIL / DARABCTL_PASSWORD
environment variables, or interactive prompts. The stored session is
reused by every later invocation until logout or expiry.

Examples:
  darabctl login                           # Prompt for credentials
  darabctl login --email admin@darab.ir    # Prompt for password only`,
	RunE: runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)

	loginCmd.Flags().String("email", "", "account email")
	loginCmd.Flags().String("password", "", "account password (prefer the prompt or DARABCTL_PASSWORD)")
}

func runLogin(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	printer := newPrinter()

	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")
	if email == "" {
		email = os.Getenv("DARABCTL_EMAIL")
	}
	if password == "" {
		password = os.Getenv("DARABCTL_PASSWORD")
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	var err error
	if email == "" {
		if email, err = promptLine(reader, "Email: "); err != nil {
			return err
		}
	}
	if password == "" {
		if password, err = promptLine(reader, "Password: "); err != nil {
			return err
		}
	}
	if email == "" || password == "" {
		return fmt.Errorf("email and password are required")
	}

	profile, err := services.Auth.Login(cmd.Context(), email, password)
	if err != nil {
		return failure(err, "signing in")
	}

	printer.Success("Signed in as %s", printer.Bold(profile.Email))
	if profile.Role != "" {
		printer.Info("Role: %s", profile.Role)
	}
	printer.PrintHints("login")
	return nil
}

func promptLine(r *bufio.Reader, label string) (string, error) {
	fmt.Fprint(os.Stderr, label)
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
