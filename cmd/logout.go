package cmd

import (
	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and discard the stored session",
	Long: `Tell the backend to drop the session, then remove the local
session file. Local credentials are cleared even when the backend is
unreachable, so logout always leaves a clean slate.`,
	RunE: runLogout,
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

func runLogout(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	printer := newPrinter()

	if !store.IsAuthenticated() {
		printer.Info("Not signed in")
		return nil
	}

	if err := services.Auth.Logout(cmd.Context()); err != nil {
		return failure(err, "signing out")
	}

	printer.Success("Signed out")
	printer.PrintHints("logout")
	return nil
}
