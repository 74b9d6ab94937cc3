package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const validRules = `
templates:
  - name: address
    steps:
      - to: street
      - from: line1
rules:
  - name: users
    steps:
      - to: full_name
      - from: name
      - to: address
      - using: address
      - to: nickname
      - done: true
      - otherwise: copy
      - find: id
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	color.NoColor = true

	cmd := newRootCmd()

	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestVersion(t *testing.T) {
	SetVersion("1.2.3")
	t.Cleanup(func() { version = "dev" })

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "fieldmap version 1.2.3\n", out)

	SetVersion("")
	assert.Equal(t, "1.2.3", version, "empty versions are ignored")
}

func TestRoot_UnknownCommand(t *testing.T) {
	_, err := execute(t, "compile")
	assert.Error(t, err)
}

func TestRoot_InvalidLogLevel(t *testing.T) {
	_, err := execute(t, "--log-level", "loud", "version")
	assert.ErrorContains(t, err, "invalid log level")
}

func TestCheck_Valid(t *testing.T) {
	path := writeFile(t, t.TempDir(), "rules.yaml", validRules)

	out, err := execute(t, "check", path)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ "+path+": 1 rule, 0 errors, 1 warning")
	assert.Contains(t, out, "[pending_field]")
	assert.NotContains(t, out, "default_action", "infos need --verbose")
}

func TestCheck_Verbose(t *testing.T) {
	path := writeFile(t, t.TempDir(), "rules.yaml", validRules)

	out, err := execute(t, "check", "-v", path)
	require.NoError(t, err)
	assert.Contains(t, out, "[default_action]")
	assert.Contains(t, out, "[delegate]")
}

func TestCheck_Strict(t *testing.T) {
	path := writeFile(t, t.TempDir(), "rules.yaml", validRules)

	out, err := execute(t, "check", "--strict", path)
	require.ErrorIs(t, err, errCheckFailed)
	assert.Contains(t, out, "✗ "+path+": 1 rule, 1 error, 0 warnings")
	assert.Contains(t, out, "error   [users] nickname: [pending_field]")
}

func TestCheck_MultipleFiles(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.yaml", validRules)
	bad := writeFile(t, dir, "bad.yaml", "rules:\n  - name: users\n    steps:\n      - like: adress\n")
	missing := filepath.Join(dir, "missing.yaml")

	out, err := execute(t, "check", good, bad, missing)
	require.ErrorIs(t, err, errCheckFailed)
	assert.ErrorContains(t, err, "2 of 3 files")

	lines := strings.Split(out, "\n")

	var order []string
	for _, line := range lines {
		if !strings.HasPrefix(line, "✓ ") && !strings.HasPrefix(line, "✗ ") {
			continue
		}

		switch {
		case strings.Contains(line, good+":"):
			order = append(order, "good")
		case strings.Contains(line, bad+":"):
			order = append(order, "bad")
		case strings.Contains(line, missing+":"):
			order = append(order, "missing")
		}
	}

	assert.Equal(t, []string{"good", "bad", "missing"}, order)
	assert.Contains(t, out, "[unknown_template]")
	assert.Contains(t, out, "[load_failed]")
}

func TestCheck_RequiresFiles(t *testing.T) {
	_, err := execute(t, "check")
	assert.Error(t, err)
}

func TestExplain(t *testing.T) {
	path := writeFile(t, t.TempDir(), "rules.yaml", validRules)

	out, err := execute(t, "explain", path)
	require.NoError(t, err)

	assert.Contains(t, out, "▸ rule users\n")
	assert.Regexp(t, `\n    full_name\s+"name"\n`, out)
	assert.Regexp(t, `\n    address\s+delegate\(users\.address\)\n`, out)
	assert.Regexp(t, `\n    nickname\s+pending\n`, out)
	assert.Contains(t, out, "    rule users.address\n")
	assert.Regexp(t, `\n        street\s+"line1"\n`, out)
	assert.Regexp(t, `\n  from:\n    \*\s+copy\n`, out)
	assert.Contains(t, out, "  find: id\n")
	assert.NotContains(t, out, "rule.Strategy")
}

func TestExplain_Dump(t *testing.T) {
	path := writeFile(t, t.TempDir(), "rules.yaml", validRules)

	out, err := execute(t, "explain", "--dump", "--rule", "users", path)
	require.NoError(t, err)
	assert.Contains(t, out, "(*rule.Strategy)")
}

func TestExplain_UnknownRule(t *testing.T) {
	path := writeFile(t, t.TempDir(), "rules.yaml", validRules)

	_, err := execute(t, "explain", "--rule", "user", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did you mean users")
}

func TestExplain_CompileErrors(t *testing.T) {
	path := writeFile(t, t.TempDir(), "rules.yaml", "rules:\n  - name: users\n    steps:\n      - to: a\n      - to: b\n")

	out, err := execute(t, "explain", path)
	require.ErrorIs(t, err, errCheckFailed)
	assert.Contains(t, out, "[rule_build_failed]")
}

func TestTrace(t *testing.T) {
	path := writeFile(t, t.TempDir(), "data.yaml", `
name: ada
address:
  street: 1 Main St
  city: Paris
billing:
  address:
    city: Lyon
`)

	out, err := execute(t, "trace", path)
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"address",
		"address.city",
		"address.street",
		"billing",
		"billing.address",
		"billing.address.city",
		"name",
	}, "\n")+"\n", out)

	out, err = execute(t, "trace", "--key", "city", path)
	require.NoError(t, err)
	assert.Equal(t, "address.city\nbilling.address.city\n", out)

	_, err = execute(t, "trace", "--key", "streat", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did you mean street")
}

func TestTrace_InvalidDocument(t *testing.T) {
	path := writeFile(t, t.TempDir(), "data.yaml", "- a\n- b\n")

	_, err := execute(t, "trace", path)
	assert.ErrorContains(t, err, "expected a mapping")
}

func TestWatchFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "rules.yaml", validRules)
	writeFile(t, dir, "other.yaml", "")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan []string, 4)
	done := make(chan error, 1)

	go func() {
		done <- watchFiles(ctx, []string{path}, 20*time.Millisecond, zap.NewNop(), func(changed []string) {
			changes <- changed
		})
	}()

	// the watcher is registered asynchronously; keep writing until it reports
	deadline := time.After(5 * time.Second)

	var got []string

wait:
	for {
		writeFile(t, dir, "other.yaml", "ignored: true\n")
		writeFile(t, dir, "rules.yaml", validRules+"\n")

		select {
		case got = <-changes:
			break wait
		case <-time.After(100 * time.Millisecond):
		case <-deadline:
			t.Fatal("no change reported")
		}
	}

	assert.Equal(t, []string{path}, got)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
