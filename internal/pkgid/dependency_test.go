package pkgid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDependencyShorthand(t *testing.T) {
	d, err := ParseDependency("zlib@1.2.3")
	require.NoError(t, err)
	assert.Equal(t, "zlib", d.Name)
	assert.Equal(t, "1.2.3", d.Range.Low)
	assert.Equal(t, "2.0.0", d.Range.High)
	assert.Equal(t, "zlib@[1.2.3,2.0.0)", d.String())
}

func TestParseDependencyInvalid(t *testing.T) {
	for _, s := range []string{"", "noat", "@1.0.0", "name@", "name@bogus"} {
		_, err := ParseDependency(s)
		assert.Errorf(t, err, "expected error for %q", s)
	}
}

func TestNewDependencyExplicitRange(t *testing.T) {
	d, err := NewDependency("boost", "1.70.0", "1.80.0")
	require.NoError(t, err)
	assert.Equal(t, "boost@[1.70.0,1.80.0)", d.String())
}
