package pkgid

import (
	"fmt"
	"strings"
)

// VersionRange is a half-open interval [Low, High) over semver-ordered
// versions. An empty range (Low >= High) carries no information other than
// "unsatisfiable" and is never produced by ParseRange.
type VersionRange struct {
	Low  string
	High string
}

// NewRange builds a VersionRange from an explicit low/high pair, validating
// both endpoints are semver.
func NewRange(low, high string) (VersionRange, error) {
	l, err := ParseVersion(low)
	if err != nil {
		return VersionRange{}, err
	}
	h, err := ParseVersion(high)
	if err != nil {
		return VersionRange{}, err
	}
	return VersionRange{Low: l, High: h}, nil
}

// RangeFrom builds the range [low, next_major(low)) that a bare "name@low"
// dependency string expands to.
func RangeFrom(low string) (VersionRange, error) {
	l, err := ParseVersion(low)
	if err != nil {
		return VersionRange{}, err
	}
	h, err := NextMajor(l)
	if err != nil {
		return VersionRange{}, err
	}
	return VersionRange{Low: l, High: h}, nil
}

// String renders the canonical "[low,high)" textual form.
func (r VersionRange) String() string {
	return fmt.Sprintf("[%s,%s)", r.Low, r.High)
}

// ParseRange parses the "[low,high)" textual form String produces.
func ParseRange(s string) (VersionRange, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, ")") {
		return VersionRange{}, fmt.Errorf("invalid version range string: %q", s)
	}
	body := s[1 : len(s)-1]
	low, high, ok := strings.Cut(body, ",")
	if !ok {
		return VersionRange{}, fmt.Errorf("invalid version range string: %q", s)
	}
	r, err := NewRange(low, high)
	if err != nil {
		return VersionRange{}, err
	}
	if r.Empty() {
		return VersionRange{}, fmt.Errorf("invalid version range string: %q is empty", s)
	}
	return r, nil
}

// ParseRangeString parses either the canonical "[low,high)" form or the
// shorthand a manifest or catalog import document's "depends" values use: an
// optional leading "^" followed by a bare version, expanding to
// [version, next_major(version)) exactly as RangeFrom does.
func ParseRangeString(s string) (VersionRange, error) {
	if strings.HasPrefix(s, "[") {
		return ParseRange(s)
	}
	return RangeFrom(strings.TrimPrefix(s, "^"))
}

// Empty reports whether the range can never be satisfied.
func (r VersionRange) Empty() bool {
	return CompareVersions(r.Low, r.High) >= 0
}

// Contains reports whether v falls within [Low, High).
func (r VersionRange) Contains(v string) bool {
	return CompareVersions(v, r.Low) >= 0 && CompareVersions(v, r.High) < 0
}

// Intersect returns the intersection of r and other. The second return
// value is false if the intersection is empty.
func (r VersionRange) Intersect(other VersionRange) (VersionRange, bool) {
	low := r.Low
	if CompareVersions(other.Low, low) > 0 {
		low = other.Low
	}
	high := r.High
	if CompareVersions(other.High, high) < 0 {
		high = other.High
	}
	result := VersionRange{Low: low, High: high}
	return result, !result.Empty()
}
