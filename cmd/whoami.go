package cmd

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"github.com/arashgl/darabctl/internal/guard"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in profile",
	Long: `Display the stored profile after verifying the session token
against the backend.

Examples:
  darabctl whoami          # Show profile and token expiry
  darabctl whoami --json   # Output as JSON`,
	PreRunE: requireAuth,
	RunE:    runWhoami,
}

func init() {
	rootCmd.AddCommand(whoamiCmd)

	whoamiCmd.Flags().Bool("json", false, "output as JSON")
}

func runWhoami(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	printer := newPrinter()

	profile := store.Profile()
	expiry, hasExpiry := guard.TokenExpiry(store.Token())

	if jsonOutput {
		out := map[string]any{
			"id":       profile.ID,
			"email":    profile.Email,
			"username": profile.Username,
			"role":     profile.Role,
		}
		if hasExpiry {
			out["tokenExpiresAt"] = expiry.Format(time.RFC3339)
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	printer.Print("%s %s", printer.StatusBadge("authorized"), printer.Bold(profile.Email))
	if profile.Username != "" {
		printer.Print("Username: %s", profile.Username)
	}
	if profile.Role != "" {
		printer.Print("Role:     %s", profile.Role)
	}
	if hasExpiry {
		printer.Print("Token expires %s (%s)", expiry.Format(time.RFC3339), printer.Dim(time.Until(expiry).Round(time.Minute).String()))
	}
	printer.PrintHints("whoami")
	return nil
}
