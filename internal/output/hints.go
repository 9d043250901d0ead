package output

import (
	"fmt"
	"strings"
)

// CommandHints maps command names to related commands users might want to run next
var CommandHints = map[string][]string{
	"login":       {"whoami", "posts list"},
	"logout":      {"login"},
	"whoami":      {"logout"},
	"posts":       {"categories list", "upload <file> --target post-lead"},
	"categories":  {"posts list"},
	"products":    {"upload <file> --target product-gallery", "categories list"},
	"personnel":   {"upload <file> --target personnel-image"},
	"media":       {"upload <file>"},
	"tickets":     {"tickets list --status open"},
	"landing":     {"media list"},
	"upload":      {"media list"},
	"cache stats": {"cache clear"},
	"cache clear": {"cache stats"},
}

// PrintHints prints "See also" hints for a command. No-op in quiet mode or if command has no hints.
func (p *Printer) PrintHints(command string) {
	if p.quiet {
		return
	}
	hints, ok := CommandHints[command]
	if !ok || len(hints) == 0 {
		return
	}

	cmds := make([]string, len(hints))
	for i, h := range hints {
		cmds[i] = "darabctl " + h
	}
	fmt.Fprintf(p.out, "\nSee also: %s\n", strings.Join(cmds, ", "))
}
