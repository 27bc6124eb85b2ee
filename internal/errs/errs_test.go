package errs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessageAndExplanation(t *testing.T) {
	e := New(InvalidPkgName, "Has_Upper")
	assert.Equal(t, "invalid package name", e.Error())
	assert.Contains(t, e.Explanation(), "Has_Upper")
	assert.Equal(t, "invalid-pkg-name", e.Slug())
}

func TestErrorIsMatchesByKindOnly(t *testing.T) {
	a := New(SdistExists, "/tmp/a@1.0.0")
	b := New(SdistExists, "/tmp/other@2.0.0")
	assert.True(t, errors.Is(a, b))

	c := New(CompileFailure, "x.cpp")
	assert.False(t, errors.Is(a, c))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 2, New(UserCancelled).ExitCode())
	assert.Equal(t, 2, New(CorruptedCatalogDB, "/p", "boom").ExitCode())
	assert.Equal(t, 1, New(InvalidPkgName, "x").ExitCode())
}

func TestNewPanicsOnUnknownKind(t *testing.T) {
	assert.Panics(t, func() {
		New(Kind("not_a_real_kind"))
	})
}
