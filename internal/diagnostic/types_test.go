package diagnostic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnostic_String(t *testing.T) {
	d := Diagnostic{
		Code:        "unknown_template",
		Message:     `template "adress" is not defined`,
		Rule:        "users",
		Field:       "address",
		Suggestions: []string{"address"},
	}

	assert.Equal(t,
		`[users] address: [unknown_template] template "adress" is not defined (did you mean address?)`,
		d.String())

	assert.Equal(t, "plain", Diagnostic{Message: "plain"}.String())
}

func TestDiagnostics_ErrorAndMerge(t *testing.T) {
	var d Diagnostics
	assert.True(t, d.IsValid())
	require.NoError(t, d.Error())

	d.AddWarning("pending_field", "field is still pending", "users", "nickname")
	d.AddInfo("default", "unlisted fields are copied", "users", "")
	assert.True(t, d.IsValid())

	var other Diagnostics
	other.AddError("rule_build_failed", "boom", "accounts", "")
	d.Merge(other)

	assert.True(t, d.HasErrors())
	assert.Equal(t, []string{"rule_build_failed", "pending_field", "default"}, d.Codes())

	err := d.Error()
	require.Error(t, err)
	assert.Equal(t, "[accounts]: [rule_build_failed] boom", err.Error())
}

func TestDiagnostics_Filter(t *testing.T) {
	var d Diagnostics
	d.AddInfo("default_action", "to fields resolve as copy", "users", "")
	d.AddWarning("pending_field", "never paired", "users", "nickname")
	d.AddInfo("default_action", "from fields resolve as copy", "users", "")

	found := d.Filter("default_action")
	require.Len(t, found, 2)
	assert.Equal(t, DiagnosticInfo, found[0].Severity)
	assert.Empty(t, d.Filter("unknown_schema"))
}

func TestDiagnosticSeverity_String(t *testing.T) {
	assert.Equal(t, "error", DiagnosticError.String())
	assert.Equal(t, "warning", DiagnosticWarning.String())
	assert.Equal(t, "info", DiagnosticInfo.String())
	assert.Equal(t, "unknown", DiagnosticSeverity(42).String())
}
