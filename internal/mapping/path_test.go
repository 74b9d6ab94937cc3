package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseField(t *testing.T) {
	tests := []struct {
		input   string
		want    FieldRef
		wantErr bool
	}{
		{input: "name", want: FieldRef{Name: "name"}},
		{input: "_hidden2", want: FieldRef{Name: "_hidden2"}},
		{input: "$1", want: FieldRef{Arg: 1}},
		{input: "$12", want: FieldRef{Arg: 12}},
		{input: "$*", want: FieldRef{AllArgs: true}},
		{input: "", wantErr: true},
		{input: "$0", wantErr: true},
		{input: "$x", wantErr: true},
		{input: "2fa", wantErr: true},
		{input: "first name", wantErr: true},
		{input: "address.street", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseField(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.input, got.String())
		})
	}
}

func TestFieldRef_Expand(t *testing.T) {
	args := []any{"deleted_by", 7}

	got, err := FieldRef{Name: "name"}.Expand(args)
	require.NoError(t, err)
	assert.Equal(t, []string{"name"}, got)

	got, err = FieldRef{Arg: 2}.Expand(args)
	require.NoError(t, err)
	assert.Equal(t, []string{"7"}, got)

	got, err = FieldRef{AllArgs: true}.Expand(args)
	require.NoError(t, err)
	assert.Equal(t, []string{"deleted_by", "7"}, got)

	_, err = FieldRef{Arg: 3}.Expand(args)
	assert.Error(t, err)
}

func TestExpandArgs(t *testing.T) {
	got, err := expandArgs([]any{"$2", "literal", 3, "$*"}, []any{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []any{"b", "literal", 3, "a", "b"}, got)

	_, err = expandArgs([]any{"$3"}, []any{"a"})
	assert.Error(t, err)

	_, err = expandArgs([]any{"$bad"}, nil)
	assert.Error(t, err)
}

func TestExpandField_RejectsAllArgs(t *testing.T) {
	_, err := expandField("$*", []any{"a"})
	assert.Error(t, err)

	got, err := expandField("$1", []any{"a"})
	require.NoError(t, err)
	assert.Equal(t, "a", got)
}
