package mapping

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldmap/internal/rule"
)

func TestExamples_Compile(t *testing.T) {
	t.Parallel()

	files, err := filepath.Glob(filepath.Join("..", "..", "examples", "*", "rules.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, path := range files {
		t.Run(filepath.Base(filepath.Dir(path)), func(t *testing.T) {
			t.Parallel()

			f, err := LoadFile(path)
			require.NoError(t, err)

			out, res := Compile(f, CompileConfig{Strict: true})
			require.NotNil(t, out, "diagnostics: %v", res.Error())
			assert.True(t, res.IsValid(), "unexpected errors: %v", res.Error())
			assert.Empty(t, res.Warnings)
			assert.Len(t, out.Rules, len(f.Rules))
		})
	}
}

func TestExamples_Transforms(t *testing.T) {
	f, err := LoadFile(filepath.Join("..", "..", "examples", "transforms", "rules.yaml"))
	require.NoError(t, err)

	out, res := Compile(f, DefaultCompileConfig())
	require.True(t, res.IsValid(), "unexpected errors: %v", res.Error())

	r, ok := out.Rule("event")
	require.True(t, ok)

	title, _ := r.Table(rule.To).Lookup("title")
	v, err := title.(rule.Pair).Transform("  disk full ")
	require.NoError(t, err)
	assert.Equal(t, "DISK FULL", v)

	severity, _ := r.Table(rule.To).Lookup("severity")
	v, err = severity.(rule.Pair).Transform(" 3 ")
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	assert.Equal(t, []any{"source", "kind"}, r.Finder().Args)

	payload, _ := r.Table(rule.From).Lookup("payload")
	assert.Equal(t, rule.ActionDiscard, payload)
}
