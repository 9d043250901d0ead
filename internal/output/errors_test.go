package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/arashgl/darabctl/internal/api"
)

func TestCLIError_Error(t *testing.T) {
	err := &CLIError{
		Summary:    "something failed",
		Detail:     "because of reasons",
		Suggestion: "try again",
		ExitCode:   ExitGeneral,
	}

	if err.Error() != "something failed" {
		t.Errorf("Error() = %q, want %q", err.Error(), "something failed")
	}
}

func TestFromAPIError_Auth(t *testing.T) {
	apiErr := &api.APIError{Status: 401, Kind: api.KindAuth, Message: "token expired"}

	cliErr := FromAPIError(apiErr, "listing posts")

	if cliErr.ExitCode != ExitAuthError {
		t.Errorf("ExitCode = %d, want %d", cliErr.ExitCode, ExitAuthError)
	}
	if !strings.Contains(cliErr.Suggestion, "darabctl login") {
		t.Errorf("auth errors should point at login, got: %q", cliErr.Suggestion)
	}
}

func TestFromAPIError_Validation(t *testing.T) {
	apiErr := &api.APIError{Status: 400, Kind: api.KindValidation, Message: "title is required"}

	cliErr := FromAPIError(apiErr, "creating post")

	if !strings.Contains(cliErr.Summary, "title is required") {
		t.Errorf("backend message must surface, got: %q", cliErr.Summary)
	}
	if cliErr.ExitCode != ExitAPIError {
		t.Errorf("ExitCode = %d, want %d", cliErr.ExitCode, ExitAPIError)
	}
}

func TestFromAPIError_Network(t *testing.T) {
	apiErr := &api.APIError{Kind: api.KindNetwork, Message: "dial tcp: connection refused"}

	cliErr := FromAPIError(apiErr, "listing posts")

	if strings.Contains(cliErr.Summary, "dial tcp") {
		t.Errorf("raw technical error leaked into summary: %q", cliErr.Summary)
	}
	if !strings.Contains(cliErr.Suggestion, "api.base_url") {
		t.Errorf("network errors should point at configuration, got: %q", cliErr.Suggestion)
	}
}

func TestFormatError_AllFields(t *testing.T) {
	var stderr bytes.Buffer
	p := NewPrinterWithOptions(PrinterOptions{
		ColorMode:    ColorNever,
		ConfigColors: false,
	})
	p.err = &stderr

	cliErr := &CLIError{
		Summary:    "creating category: a category with this slug already exists",
		Detail:     "slug 'cement' is taken",
		Suggestion: "Pick a different slug",
		ExitCode:   ExitAPIError,
	}

	p.FormatError(cliErr)

	out := stderr.String()
	for _, want := range []string{"already exists", "Cause:", "Suggestion:"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output, got: %q", want, out)
		}
	}
}
