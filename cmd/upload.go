package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arashgl/darabctl/internal/output"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a file to the backend",
	Long: `Stream a file to one of the backend's upload endpoints. Each
target expects its own multipart field name, so the target decides
where the file lands and which listings go stale.

Uploads may be long-running; Ctrl-C aborts the transfer.

Examples:
  darabctl upload banner.jpg                        # Media library
  darabctl upload lead.png --target post-lead       # Post lead picture
  darabctl upload photo.jpg --target personnel-image --meta personnelId=7
  darabctl upload --list                            # Show targets`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)

	uploadCmd.Flags().StringP("target", "t", "media", "upload target (see --list)")
	uploadCmd.Flags().StringArray("meta", nil, "extra form field as key=value (repeatable)")
	uploadCmd.Flags().Bool("list", false, "list upload targets and exit")
	uploadCmd.Flags().Bool("json", false, "output as JSON")
}

func runUpload(cmd *cobra.Command, args []string) error {
	listTargets, _ := cmd.Flags().GetBool("list")

	// Listing targets is static metadata, no session needed
	if listTargets {
		if err := ensureServices(); err != nil {
			return err
		}
		table := output.NewQuietTable([]string{"TARGET", "FIELD", "PATH", "DESCRIPTION"}, quiet)
		for _, t := range services.Uploads.Targets() {
			table.AddRow([]string{t.Name, t.Field, t.Path, t.Description})
		}
		table.Render()
		return nil
	}

	if err := requireAuth(cmd, args); err != nil {
		return err
	}
	printer := newPrinter()

	if len(args) != 1 {
		return &output.CLIError{
			Summary:    "a file argument is required",
			Suggestion: "Run 'darabctl upload --list' to see the available targets",
			ExitCode:   output.ExitUsageError,
		}
	}

	target, _ := cmd.Flags().GetString("target")
	metaPairs, _ := cmd.Flags().GetStringArray("meta")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	extra := make(map[string]string, len(metaPairs))
	for _, pair := range metaPairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return fmt.Errorf("invalid --meta %q: expected key=value", pair)
		}
		extra[key] = value
	}

	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening %s: %w", args[0], err)
	}
	defer file.Close()

	logger.Debug("uploading", "file", args[0], "target", target)

	result, err := services.Uploads.Upload(cmd.Context(), target, filepath.Base(args[0]), file, extra)
	if err != nil {
		return failure(err, "uploading "+filepath.Base(args[0]))
	}

	if jsonOutput {
		return printJSON(cmd, result)
	}

	printer.Success("Uploaded %s", printer.Bold(filepath.Base(args[0])))
	if result.Path != "" {
		printer.Print("URL: %s", services.Media.ResolveURL(result.Path))
	}
	printer.PrintHints("upload")
	return nil
}
