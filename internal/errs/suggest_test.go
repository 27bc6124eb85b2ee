package errs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggestClosestMatch(t *testing.T) {
	got := Suggest("boots", []string{"boost", "zlib", "openssl"})
	assert.Equal(t, `did you mean "boost"?`, got)
}

func TestSuggestNoneWhenTooFar(t *testing.T) {
	got := Suggest("zzz", []string{"boost", "openssl"})
	assert.Equal(t, "", got)
}

func TestSuggestEmptyCandidates(t *testing.T) {
	assert.Equal(t, "", Suggest("boost", nil))
}
