package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"fieldmap/internal/diagnostic"
	"fieldmap/internal/match"
)

var (
	// fatih/color disables these when stdout is not a terminal
	successColor = color.New(color.FgGreen, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	infoColor    = color.New(color.FgCyan)
	headerColor  = color.New(color.FgBlue, color.Bold)
	dimColor     = color.New(color.FgHiBlack)
)

func severityColor(s diagnostic.DiagnosticSeverity) *color.Color {
	switch s {
	case diagnostic.DiagnosticError:
		return errorColor
	case diagnostic.DiagnosticWarning:
		return warningColor
	default:
		return infoColor
	}
}

// printDiagnostics writes one line per diagnostic. Infos are only written when
// withInfos is set.
func printDiagnostics(w io.Writer, res *diagnostic.Diagnostics, withInfos bool) {
	for _, d := range res.All() {
		if d.Severity == diagnostic.DiagnosticInfo && !withInfos {
			continue
		}

		_, _ = fmt.Fprintf(w, "  %s %s\n", severityColor(d.Severity).Sprintf("%-7s", d.Severity), d)
	}
}

// summary returns e.g. "2 rules, 1 error, 0 warnings".
func summary(rules int, res *diagnostic.Diagnostics) string {
	return strings.Join([]string{
		plural(rules, "rule"),
		plural(len(res.Errors), "error"),
		plural(len(res.Warnings), "warning"),
	}, ", ")
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}

	return fmt.Sprintf("%d %ss", n, noun)
}

func printHeader(w io.Writer, format string, args ...any) {
	_, _ = headerColor.Fprintf(w, "▸ "+format+"\n", args...)
}

func didYouMean(name string, known []string) string {
	suggestions := match.Suggest(name, known, match.DefaultSuggestions)
	if len(suggestions) == 0 {
		return ""
	}

	return " (did you mean " + strings.Join(suggestions, ", ") + "?)"
}
