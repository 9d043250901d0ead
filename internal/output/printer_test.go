package output

import (
	"bytes"
	"testing"
)

func TestParseColorMode_Valid(t *testing.T) {
	tests := []struct {
		input string
		want  ColorMode
	}{
		{"auto", ColorAuto},
		{"always", ColorAlways},
		{"never", ColorNever},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseColorMode(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseColorMode(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseColorMode_Invalid(t *testing.T) {
	_, err := ParseColorMode("invalid")
	if err == nil {
		t.Error("expected error for invalid color mode, got nil")
	}
}

func TestResolveColors_Always(t *testing.T) {
	// Even with NO_COLOR set, ColorAlways should return true
	t.Setenv("NO_COLOR", "1")
	got := ResolveColors(ColorAlways, false)
	if !got {
		t.Error("ResolveColors(ColorAlways, false) with NO_COLOR=1 should return true")
	}
}

func TestResolveColors_Never(t *testing.T) {
	// Even with config=true, ColorNever should return false
	got := ResolveColors(ColorNever, true)
	if got {
		t.Error("ResolveColors(ColorNever, true) should return false")
	}
}

func TestResolveColors_NoColorEnv(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	got := ResolveColors(ColorAuto, true)
	if got {
		t.Error("ResolveColors(ColorAuto, true) with NO_COLOR set should return false")
	}
}

func TestPrinter_QuietSuppressesOutput(t *testing.T) {
	var stdout bytes.Buffer
	p := NewPrinterWithOptions(PrinterOptions{ColorMode: ColorNever, Quiet: true})
	p.out = &stdout

	p.Info("info line")
	p.Success("done")
	p.Print("plain")

	if stdout.Len() != 0 {
		t.Errorf("quiet printer wrote output: %q", stdout.String())
	}
}

func TestPrinter_ErrorAlwaysPrints(t *testing.T) {
	var stderr bytes.Buffer
	p := NewPrinterWithOptions(PrinterOptions{ColorMode: ColorNever, Quiet: true})
	p.err = &stderr

	p.Error("it broke")

	if stderr.Len() == 0 {
		t.Error("errors must print even in quiet mode")
	}
}

func TestStatusBadge_NoColors(t *testing.T) {
	p := NewPrinter(false)
	if got := p.StatusBadge("open"); got != "[open]" {
		t.Errorf("StatusBadge(open) = %q, want [open]", got)
	}
}
