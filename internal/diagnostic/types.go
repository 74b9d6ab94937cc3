package diagnostic

import (
	"errors"
	"strings"

	"fieldmap/internal/common"
)

// DiagnosticSeverity represents the severity level of a diagnostic.
type DiagnosticSeverity int

const (
	DiagnosticInfo DiagnosticSeverity = iota
	DiagnosticWarning
	DiagnosticError
)

// String returns a human-readable severity name.
func (s DiagnosticSeverity) String() string {
	switch s {
	case DiagnosticInfo:
		return "info"
	case DiagnosticWarning:
		return "warning"
	case DiagnosticError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// Diagnostic is a single problem or note about a rule file, a rule or one of
// its fields.
type Diagnostic struct {
	Severity DiagnosticSeverity
	// Code is a stable identifier such as "unknown_template".
	Code    string
	Message string
	// Rule is the rule, template or schema the diagnostic is about, if any.
	Rule string
	// Field is the field or step location, if any.
	Field string
	// Suggestions are known names close to a misspelled one.
	Suggestions []string
}

// String formats the diagnostic as "[rule] field: [code] message (did you mean ...?)".
func (d Diagnostic) String() string {
	var b strings.Builder

	var location []string
	if d.Rule != "" {
		location = append(location, "["+d.Rule+"]")
	}

	if d.Field != "" {
		location = append(location, d.Field)
	}

	if len(location) > 0 {
		b.WriteString(strings.Join(location, " "))
		b.WriteString(": ")
	}

	if d.Code != "" {
		b.WriteString("[" + d.Code + "] ")
	}

	b.WriteString(d.Message)

	if len(d.Suggestions) > 0 {
		b.WriteString(" (did you mean " + strings.Join(d.Suggestions, ", ") + "?)")
	}

	return b.String()
}

// Diagnostics collects diagnostics by severity. The zero value is ready to use.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

func (d *Diagnostics) add(diag Diagnostic) {
	switch diag.Severity {
	case DiagnosticError:
		d.Errors = append(d.Errors, diag)
	case DiagnosticWarning:
		d.Warnings = append(d.Warnings, diag)
	default:
		d.Infos = append(d.Infos, diag)
	}
}

// AddError records an error.
func (d *Diagnostics) AddError(code, message, rule, field string, suggestions ...string) {
	d.add(Diagnostic{Severity: DiagnosticError, Code: code, Message: message, Rule: rule, Field: field, Suggestions: suggestions})
}

// AddWarning records a warning.
func (d *Diagnostics) AddWarning(code, message, rule, field string, suggestions ...string) {
	d.add(Diagnostic{Severity: DiagnosticWarning, Code: code, Message: message, Rule: rule, Field: field, Suggestions: suggestions})
}

// AddInfo records an informational note.
func (d *Diagnostics) AddInfo(code, message, rule, field string) {
	d.add(Diagnostic{Severity: DiagnosticInfo, Code: code, Message: message, Rule: rule, Field: field})
}

// Merge appends every diagnostic of other.
func (d *Diagnostics) Merge(other Diagnostics) {
	for _, diag := range other.All() {
		d.add(diag)
	}
}

// HasErrors returns true if any error was recorded.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// IsValid returns true if no error was recorded.
func (d *Diagnostics) IsValid() bool {
	return !d.HasErrors()
}

// All returns errors, then warnings, then infos.
func (d *Diagnostics) All() []Diagnostic {
	all := make([]Diagnostic, 0, len(d.Errors)+len(d.Warnings)+len(d.Infos))
	all = append(all, d.Errors...)
	all = append(all, d.Warnings...)

	return append(all, d.Infos...)
}

// Codes returns the code of every diagnostic, in All order.
func (d *Diagnostics) Codes() []string {
	all := d.All()

	codes := make([]string, 0, len(all))
	for _, diag := range all {
		codes = append(codes, diag.Code)
	}

	return codes
}

// Filter returns the diagnostics carrying code, in All order.
func (d *Diagnostics) Filter(code string) []Diagnostic {
	var found []Diagnostic

	for _, diag := range d.All() {
		if diag.Code == code {
			found = append(found, diag)
		}
	}

	return found
}

// Error combines the recorded errors into one, or returns nil when valid.
func (d *Diagnostics) Error() error {
	if d.IsValid() {
		return nil
	}

	msgs := make([]string, 0, len(d.Errors))
	for _, e := range d.Errors {
		msgs = append(msgs, e.String())
	}

	return errors.New(strings.Join(msgs, "; "))
}
