package cmd

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"github.com/arashgl/darabctl/internal/output"
	"github.com/arashgl/darabctl/internal/resources"
)

// printJSON writes an indented JSON document to the command's stdout
func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printPageFooter summarizes a listing's pagination below its table
func printPageFooter(printer *output.Printer, pg resources.Pagination) {
	printer.Info("Page %d/%d, %d item(s) total", pg.CurrentPage, pg.TotalPages, pg.TotalItems)
}

// errRequiredFlag reports a missing required flag as a usage error
func errRequiredFlag(name string) error {
	return &output.CLIError{
		Summary:  "--" + name + " is required",
		ExitCode: output.ExitUsageError,
	}
}

// shortDate formats a timestamp for table cells
func shortDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}

// truncate shortens long text for table cells without splitting runes
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
