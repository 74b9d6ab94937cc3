package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardArgs(b *Builder, args ...any) {
	for _, a := range args {
		b.Delete(Field(a.(string)))
	}
}

func TestRegistry_Register(t *testing.T) {
	reg := NewRegistry()

	require.NoError(t, reg.Register("audit", discardArgs, "updated_by"))
	assert.True(t, reg.Has("audit"))

	tpl, ok := reg.Lookup("audit")
	require.True(t, ok)
	assert.Equal(t, "audit", tpl.Name)
	assert.Equal(t, []any{"updated_by"}, tpl.Args)

	err := reg.Register("audit", discardArgs)
	assert.ErrorIs(t, err, ErrArgument)

	assert.ErrorIs(t, reg.Register("", discardArgs), ErrArgument)
	assert.ErrorIs(t, reg.Register("nobody", nil), ErrArgument)
}

func TestRegistry_Names(t *testing.T) {
	reg := NewRegistry()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, reg.Register(name, discardArgs))
	}

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, reg.Names())
}

func TestRegistry_Instantiate(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("audit", discardArgs, "updated_by"))

	r, err := reg.Instantiate("audit", []any{"deleted_by"})
	require.NoError(t, err)

	assert.Equal(t, "audit", r.Name())
	assert.Equal(t, []Field{"deleted_by", "updated_by"}, r.Table(From).Fields())

	_, err = reg.Instantiate("audti", nil)
	assert.ErrorIs(t, err, ErrUnknownTemplate)
}

func TestRegistry_InstantiateReplaysOthers(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("audit", discardArgs, "created_by"))
	require.NoError(t, reg.Register("user", func(b *Builder, _ ...any) {
		b.To("full_name").From("name")
		b.Like("audit")
	}))

	r, err := reg.Instantiate("user", nil)
	require.NoError(t, err)

	e, ok := r.Table(To).Lookup("full_name")
	require.True(t, ok)
	assert.Equal(t, Rename{Field: "name"}, e)

	e, ok = r.Table(From).Lookup("created_by")
	require.True(t, ok)
	assert.Equal(t, ActionDiscard, e)
}

func TestDelegate_Forwarding(t *testing.T) {
	byID := func(candidate any, args ...any) bool { return true }
	route := func(any) (any, error) { return "shipping", nil }

	r, err := New("orders", func(b *Builder, _ ...any) {
		b.Set("currency", "EUR")
		b.To("shipping").Using(func(nb *Builder, _ ...any) {
			nb.Find(byID, "code")
			nb.Destination("", route)
			nb.To("line").From("street")
		})
	})
	require.NoError(t, err)

	e, _ := r.Table(To).Lookup("shipping")
	d, ok := e.(*Delegate)
	require.True(t, ok)

	var m Mapping = d
	assert.Equal(t, "orders.shipping", m.Name())
	assert.Equal(t, []any{"code"}, m.Finder().Args)

	_, ok = m.Router()
	assert.True(t, ok)

	got, ok := m.Resolve(To, "line")
	require.True(t, ok)
	assert.Equal(t, Rename{Field: "street"}, got)

	v, ok := m.Lookup("currency")
	require.True(t, ok)
	assert.Equal(t, "EUR", v)

	_, ok = m.Lookup("missing")
	assert.False(t, ok)

	assert.NotNil(t, d.Parent())
	assert.Equal(t, "delegate(orders.shipping)", Describe(d))
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		entry Entry
		want  string
	}{
		{nil, "<none>"},
		{ActionCopy, "copy"},
		{Transform(upcase), "transform"},
		{Pair{Field: "status"}, "{status: transform}"},
		{Rename{Field: "name"}, `"name"`},
		{Route{Field: "account"}, "route(account)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Describe(tt.entry))
		})
	}
}
