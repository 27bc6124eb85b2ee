package pkgid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRangeFromExpandsToNextMajor(t *testing.T) {
	r, err := RangeFrom("1.2.3")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", r.Low)
	assert.Equal(t, "2.0.0", r.High)
}

func TestRangeStringRoundTrip(t *testing.T) {
	r, err := NewRange("1.0.0", "2.0.0")
	require.NoError(t, err)
	assert.Equal(t, "[1.0.0,2.0.0)", r.String())

	r2, err := ParseRange(r.String())
	require.NoError(t, err)
	assert.Equal(t, r, r2)
}

func TestRangeContains(t *testing.T) {
	r, err := NewRange("1.0.0", "2.0.0")
	require.NoError(t, err)

	assert.True(t, r.Contains("1.0.0"))
	assert.True(t, r.Contains("1.9.9"))
	assert.False(t, r.Contains("2.0.0"))
	assert.False(t, r.Contains("0.9.9"))
}

func TestRangeEmpty(t *testing.T) {
	r, err := NewRange("2.0.0", "1.0.0")
	require.NoError(t, err)
	assert.True(t, r.Empty())

	r2, err := NewRange("1.0.0", "1.0.0")
	require.NoError(t, err)
	assert.True(t, r2.Empty())
}

func TestParseRangeStringShorthand(t *testing.T) {
	r, err := ParseRangeString("^1.2.0")
	require.NoError(t, err)
	assert.Equal(t, "1.2.0", r.Low)
	assert.Equal(t, "2.0.0", r.High)

	r2, err := ParseRangeString("1.2.0")
	require.NoError(t, err)
	assert.Equal(t, r, r2)

	r3, err := ParseRangeString("[1.0.0,2.0.0)")
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", r3.Low)
}

func TestRangeIntersect(t *testing.T) {
	a, _ := NewRange("1.0.0", "3.0.0")
	b, _ := NewRange("2.0.0", "4.0.0")

	got, ok := a.Intersect(b)
	require.True(t, ok)
	assert.Equal(t, "2.0.0", got.Low)
	assert.Equal(t, "3.0.0", got.High)

	c, _ := NewRange("5.0.0", "6.0.0")
	_, ok = a.Intersect(c)
	assert.False(t, ok)
}
