package pkgid

import (
	"fmt"
	"strings"
)

// Dependency is a named requirement on a range of versions.
type Dependency struct {
	Name  string
	Range VersionRange
}

// ParseDependency parses the "name@low" shorthand, expanding it to
// [low, next_major(low)). This is the form the `add` CLI verb accepts.
func ParseDependency(s string) (Dependency, error) {
	name, low, ok := strings.Cut(s, "@")
	if !ok || name == "" || low == "" {
		return Dependency{}, fmt.Errorf("invalid dependency string: %q", s)
	}
	if err := ValidateName(name); err != nil {
		return Dependency{}, fmt.Errorf("invalid dependency string %q: %w", s, err)
	}
	r, err := RangeFrom(low)
	if err != nil {
		return Dependency{}, fmt.Errorf("invalid dependency string %q: %w", s, err)
	}
	return Dependency{Name: name, Range: r}, nil
}

// NewDependency builds a Dependency from an explicit low/high pair, for a
// range narrower or wider than the "@low" shorthand can express.
func NewDependency(name, low, high string) (Dependency, error) {
	if err := ValidateName(name); err != nil {
		return Dependency{}, err
	}
	r, err := NewRange(low, high)
	if err != nil {
		return Dependency{}, err
	}
	return Dependency{Name: name, Range: r}, nil
}

// String renders "name@[low,high)".
func (d Dependency) String() string {
	return d.Name + "@" + d.Range.String()
}
