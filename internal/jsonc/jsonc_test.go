package jsonc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripLineAndBlockComments(t *testing.T) {
	src := []byte(`{
		// a comment
		"a": 1, /* inline */
		"b": "keep // this"
	}`)
	got := Strip(src)
	assert.Contains(t, string(got), `"b": "keep // this"`)
	assert.NotContains(t, string(got), "a comment")
	assert.NotContains(t, string(got), "inline")
}

func TestUnmarshalStrictRejectsUnknown(t *testing.T) {
	var v struct {
		A int `json:"a"`
	}
	err := UnmarshalStrict([]byte(`{"a": 1, "b": 2}`), &v)
	require.Error(t, err)
}

func TestUnmarshalStrictOK(t *testing.T) {
	var v struct {
		A int `json:"a"`
	}
	require.NoError(t, UnmarshalStrict([]byte(`{ // hi
		"a": 5 }`), &v))
	assert.Equal(t, 5, v.A)
}
