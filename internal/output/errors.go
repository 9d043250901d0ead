package output

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/arashgl/darabctl/internal/api"
)

// Exit code constants
const (
	ExitSuccess     = 0
	ExitGeneral     = 1
	ExitUsageError  = 2
	ExitAuthError   = 3
	ExitAPIError    = 4
	ExitConfigError = 5
)

// CLIError is a structured error with user-facing context
type CLIError struct {
	Summary    string
	Detail     string
	Suggestion string
	ExitCode   int
}

// Error implements the error interface, returning the summary
func (e *CLIError) Error() string {
	return e.Summary
}

// FromAPIError maps a transport failure onto a CLIError with the right
// exit code and a next step where one exists. The raw technical error
// stays out of the summary.
func FromAPIError(err error, operation string) *CLIError {
	cliErr := &CLIError{
		Summary:  fmt.Sprintf("%s: %s", operation, api.Message(err)),
		ExitCode: ExitAPIError,
	}

	switch api.ErrorKind(err) {
	case api.KindAuth:
		cliErr.Summary = operation + ": not authenticated"
		cliErr.Suggestion = "Run 'darabctl login' to sign in"
		cliErr.ExitCode = ExitAuthError
	case api.KindForbidden:
		cliErr.Suggestion = "Your account lacks permission for this operation"
		cliErr.ExitCode = ExitAuthError
	case api.KindNetwork:
		cliErr.Summary = operation + ": backend unreachable"
		cliErr.Suggestion = "Check api.base_url in .darabctl.yaml and your connection"
	case api.KindNotFound:
		cliErr.Suggestion = "Check the id; the item may have been deleted"
	case api.KindConflict, api.KindValidation:
		// Backend message already says what to fix
	default:
		cliErr.Suggestion = "Re-run with --verbose for details"
	}

	return cliErr
}

// FormatError prints a structured error message to stderr
func (p *Printer) FormatError(e *CLIError) {
	if p.useColors {
		color.New(color.FgRed, color.Bold).Fprintf(p.err, "Error: %s\n", e.Summary)
		if e.Detail != "" {
			fmt.Fprintf(p.err, "  Cause: %s\n", e.Detail)
		}
		if e.Suggestion != "" {
			color.New(color.FgCyan).Fprintf(p.err, "  Suggestion: %s\n", e.Suggestion)
		}
	} else {
		fmt.Fprintf(p.err, "[ERROR] %s\n", e.Summary)
		if e.Detail != "" {
			fmt.Fprintf(p.err, "  Cause: %s\n", e.Detail)
		}
		if e.Suggestion != "" {
			fmt.Fprintf(p.err, "  Suggestion: %s\n", e.Suggestion)
		}
	}
}
