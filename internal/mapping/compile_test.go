package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"fieldmap/internal/model"
	"fieldmap/internal/rule"
)

func compile(t *testing.T, doc string, cfg CompileConfig) (*Compiled, error) {
	t.Helper()

	f, err := Parse([]byte(doc))
	require.NoError(t, err)

	out, res := Compile(f, cfg)

	return out, res.Error()
}

func TestCompile_Users(t *testing.T) {
	f, err := Parse([]byte(usersYAML))
	require.NoError(t, err)

	out, res := Compile(f, DefaultCompileConfig())
	require.NotNil(t, out)
	require.True(t, res.IsValid(), "unexpected errors: %v", res.Error())
	assert.Empty(t, res.Warnings)

	r, ok := out.Rule("legacy_user")
	require.True(t, ok)
	assert.Equal(t, []string{"legacy_user"}, out.Names())

	to := r.Table(rule.To)
	assert.Equal(t, []rule.Field{"full_name", "active", "display", "address"}, to.Fields())

	e, _ := to.Lookup("full_name")
	assert.Equal(t, rule.Rename{Field: "name"}, e)

	e, _ = to.Lookup("active")
	pair, ok := e.(rule.Pair)
	require.True(t, ok)
	assert.Equal(t, rule.Field("status"), pair.Field)

	v, err := pair.Transform("on")
	require.NoError(t, err)
	assert.Equal(t, true, v)

	e, _ = to.Lookup("display")
	pair, ok = e.(rule.Pair)
	require.True(t, ok)

	v, err = pair.Transform(" ada ")
	require.NoError(t, err)
	assert.Equal(t, "ADA", v, "through runs the source schema method")

	e, _ = to.Lookup("address")
	d, ok := e.(*rule.Delegate)
	require.True(t, ok)
	assert.Equal(t, "legacy_user.address", d.Name())
	assert.Equal(t, []rule.Field{"street", "city"}, d.Strategy().To().Fields())

	from := r.Table(rule.From)
	assert.Equal(t, []rule.Field{"password", "created_by", "deleted_by", "updated_by"}, from.Fields())

	for _, field := range from.Fields() {
		e, _ := from.Lookup(field)
		assert.Equal(t, rule.ActionDiscard, e, "field %s", field)
	}

	e, ok = r.Resolve(rule.To, "unlisted")
	require.True(t, ok)
	assert.Equal(t, rule.ActionDiscard, e)

	assert.Equal(t, "LegacyUser", r.SourceSchema().Name)
	assert.Equal(t, "Account", r.DestinationSchema().Name)
	assert.Equal(t, "Record", r.SourceModel().Name)

	assert.ElementsMatch(t, []string{"default_action", "default_action", "delegate"}, res.Codes())
}

// The same declarations written in Go produce the same tables.
func TestCompile_MatchesGoBuiltRule(t *testing.T) {
	out, err := compile(t, `
templates:
  - name: audit
    args: [updated_by]
    steps:
      - delete: $*
rules:
  - name: users
    steps:
      - from: name
      - to: full_name
      - to: nickname
      - from: alias
      - like: audit
        args: [deleted_by]
`, DefaultCompileConfig())
	require.NoError(t, err)

	got, _ := out.Rule("users")

	reg := rule.NewRegistry()
	require.NoError(t, reg.Register("audit", func(b *rule.Builder, args ...any) {
		for _, a := range args {
			b.Delete(rule.Field(a.(string)))
		}
	}, "updated_by"))

	want, err := rule.New("users", func(b *rule.Builder, _ ...any) {
		b.From("name").To("full_name")
		b.To("nickname").From("alias")
		b.Like("audit", "deleted_by")
	}, rule.WithRegistry(reg))
	require.NoError(t, err)

	for _, dir := range []rule.Direction{rule.To, rule.From} {
		assert.Equal(t, want.Table(dir).Fields(), got.Table(dir).Fields(), "%s fields", dir)

		for _, f := range want.Table(dir).Fields() {
			we, _ := want.Table(dir).Lookup(f)
			ge, _ := got.Table(dir).Lookup(f)
			assert.Equal(t, we, ge, "%s %s", dir, f)
		}
	}
}

func TestCompile_ArgumentsAndInlineUsing(t *testing.T) {
	out, err := compile(t, `
rules:
  - name: orders
    args: [shipping, line1]
    steps:
      - to: $1
      - using:
          steps:
            - to: street
            - from: $1
        args: [$2]
      - set: {currency: EUR}
      - find: [id, $1]
`, DefaultCompileConfig())
	require.NoError(t, err)

	r, _ := out.Rule("orders")

	e, ok := r.Table(rule.To).Lookup("shipping")
	require.True(t, ok)

	d, ok := e.(*rule.Delegate)
	require.True(t, ok)

	nested, _ := d.Resolve(rule.To, "street")
	assert.Equal(t, rule.Rename{Field: "line1"}, nested)

	v, ok := d.Lookup("currency")
	require.True(t, ok)
	assert.Equal(t, "EUR", v)

	finder := r.Finder()
	require.NotNil(t, finder)
	assert.Equal(t, []any{"id", "shipping"}, finder.Args)
	assert.True(t, finder.Match(map[string]any{"id": 1, "shipping": "x"}, finder.Args...))
	assert.False(t, finder.Match(map[string]any{"id": 1}, finder.Args...))
}

func TestCompile_DestinationAndThroughTransform(t *testing.T) {
	out, err := compile(t, `
rules:
  - name: events
    steps:
      - destination: {field: table, router: downcase}
      - to: code
      - through: {transform: upcase}
`, DefaultCompileConfig())
	require.NoError(t, err)

	r, _ := out.Rule("events")

	route, ok := r.Router()
	require.True(t, ok)
	assert.Equal(t, rule.Field("table"), route.Field)

	v, err := route.Router("AUDIT")
	require.NoError(t, err)
	assert.Equal(t, "audit", v)

	e, _ := r.Table(rule.To).Lookup("code")
	pair := e.(rule.Pair)
	v, err = pair.Transform("x")
	require.NoError(t, err)
	assert.Equal(t, "X", v)
}

func TestCompile_RuleBuildFailure(t *testing.T) {
	f, err := Parse([]byte(`
rules:
  - name: broken
    steps:
      - to: a
      - to: b
  - name: fine
    steps:
      - to: a
      - from: b
`))
	require.NoError(t, err)

	out, res := Compile(f, DefaultCompileConfig())
	require.NotNil(t, out)
	require.True(t, res.HasErrors())

	assert.Equal(t, "rule_build_failed", res.Errors[0].Code)
	assert.Equal(t, "broken", res.Errors[0].Rule)
	assert.Contains(t, res.Errors[0].Message, "invalid transition")
	assert.Equal(t, []string{"fine"}, out.Names())
}

func TestCompile_ValidationFailureStops(t *testing.T) {
	out, err := compile(t, `
rules:
  - name: users
    steps:
      - like: missing
`, DefaultCompileConfig())
	assert.Nil(t, out)
	assert.ErrorContains(t, err, "unknown_template")
}

func TestCompile_ArgumentOutOfRange(t *testing.T) {
	_, err := compile(t, `
rules:
  - name: users
    steps:
      - to: $2
`, DefaultCompileConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestCompile_Strict(t *testing.T) {
	doc := `
rules:
  - name: users
    steps:
      - to: nickname
`
	_, err := compile(t, doc, DefaultCompileConfig())
	require.NoError(t, err, "pending fields are warnings by default")

	cfg := DefaultCompileConfig()
	cfg.Strict = true

	f, perr := Parse([]byte(doc))
	require.NoError(t, perr)

	_, res := Compile(f, cfg)
	require.True(t, res.HasErrors())
	assert.Equal(t, "pending_field", res.Errors[0].Code)
	assert.Equal(t, "nickname", res.Errors[0].Field)
	assert.Empty(t, res.Warnings)
}

func TestCompile_SchemaOrderAndMethods(t *testing.T) {
	f, err := Parse([]byte(`
schemas:
  - name: LegacyUser
    parent: Record
    methods:
      label: upcase
  - name: Record
    methods:
      id_string: string
`))
	require.NoError(t, err)

	out, res := Compile(f, DefaultCompileConfig())
	require.True(t, res.IsValid(), "unexpected errors: %v", res.Error())

	user, ok := out.Catalog.Lookup("legacy_user")
	require.True(t, ok)

	record, ok := out.Catalog.Lookup("Record")
	require.True(t, ok)
	assert.Same(t, record, user.Parent)
	assert.True(t, user.IsA(record))
	assert.Equal(t, []string{"id_string", "label"}, user.MethodNames())

	var m model.Method
	m, ok = user.Method("id_string")
	require.True(t, ok)

	v, err := m(7)
	require.NoError(t, err)
	assert.Equal(t, "7", v)
}

func TestCompile_Logs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	cfg := DefaultCompileConfig()
	cfg.Logger = zap.New(core)

	_, err := compile(t, "rules:\n  - name: users\n    steps:\n      - to: a\n      - from: b\n", cfg)
	require.NoError(t, err)

	compiled := logs.FilterMessage("compiled rule").All()
	require.Len(t, compiled, 1)
	assert.Equal(t, "users", compiled[0].ContextMap()["rule"])
	assert.NotEmpty(t, logs.FilterMessage("transition").All())
}

func TestHasFields(t *testing.T) {
	assert.True(t, HasFields(map[string]any{"id": 1}, "id"))
	assert.False(t, HasFields(map[string]any{"id": nil}, "id"))
	assert.False(t, HasFields("not a record", "id"))
	assert.True(t, HasFields(map[string]any{}))
}
