package ordered

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParse(t *testing.T) {
	doc := `
name: users
address:
  street: 1 Main St
  geo:
    lat: 1.5
tags: [a, b]
`
	root, err := Parse([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "address", "tags"}, root.Keys())

	entries := root.Order().Entries()
	paths := make([][]string, 0, len(entries))
	for _, e := range entries {
		paths = append(paths, e.Path)
	}

	assert.Equal(t, [][]string{
		{"address"},
		{"address", "geo"},
		{"address", "geo", "lat"},
		{"address", "street"},
		{"name"},
		{"tags"},
	}, paths)

	v, ok := root.Get("tags")
	require.True(t, ok)
	assert.Equal(t, []any{"a", "b"}, v)
}

func TestParse_Alias(t *testing.T) {
	doc := `
base: &base
  region: eu
copy: *base
`
	root, err := Parse([]byte(doc))
	require.NoError(t, err)

	v, ok := root.Get("copy")
	require.True(t, ok)

	m, ok := v.(*Map)
	require.True(t, ok)

	got, ok := m.Trace("region")
	require.True(t, ok)
	assert.Equal(t, []string{"copy", "region"}, got)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte("- a\n- b\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("a: [b"))
	assert.Error(t, err)

	root, err := Parse(nil)
	require.NoError(t, err)
	assert.Zero(t, root.Len())

	_, err = FromYAML(nil)
	assert.Error(t, err)

	_, err = FromYAML(&yaml.Node{Kind: yaml.ScalarNode, Value: "x"})
	assert.Error(t, err)
}
