package pkgid

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// canon rewrites a bare "x.y.z[-pre][+meta]" version into the "vX.Y.Z..."
// form golang.org/x/mod/semver expects, without disturbing an already
// canonical string.
func canon(v string) string {
	if strings.HasPrefix(v, "v") {
		return v
	}
	return "v" + v
}

// uncanon strips the "v" prefix canon added, for external round-tripping.
func uncanon(v string) string {
	return strings.TrimPrefix(v, "v")
}

// ParseVersion validates a version string and returns its canonical textual
// form (without a "v" prefix, matching this domain's `name@x.y.z` spelling).
func ParseVersion(v string) (string, error) {
	c := canon(v)
	if !semver.IsValid(c) {
		return "", &InvalidVersionError{Raw: v}
	}
	return uncanon(semver.Canonical(c)), nil
}

// InvalidVersionError reports a version string that is not valid semver.
type InvalidVersionError struct {
	Raw string
}

func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf("invalid version string: %q", e.Raw)
}

// CompareVersions orders two version strings by semver precedence.
// Both must already be valid; use ParseVersion to check first.
func CompareVersions(a, b string) int {
	return semver.Compare(canon(a), canon(b))
}

// NextMajor returns the version at which the major component of v
// increments and everything else resets to zero: NextMajor("1.2.3") ==
// "2.0.0". A leading "0" major is treated as its own major line
// (NextMajor("0.3.1") == "0.4.0"), matching the convention most range
// shorthands ("^0.3.1") use for pre-1.0 packages.
func NextMajor(v string) (string, error) {
	c := canon(v)
	if !semver.IsValid(c) {
		return "", &InvalidVersionError{Raw: v}
	}
	major := semver.Major(c) // "vX"
	if major == "v0" {
		minor := semver.MajorMinor(c) // "v0.Y"
		var y int
		if _, err := fmt.Sscanf(minor, "v0.%d", &y); err != nil {
			return "", fmt.Errorf("pkgid: cannot compute next major of %q: %w", v, err)
		}
		return fmt.Sprintf("0.%d.0", y+1), nil
	}
	var x int
	if _, err := fmt.Sscanf(major, "v%d", &x); err != nil {
		return "", fmt.Errorf("pkgid: cannot compute next major of %q: %w", v, err)
	}
	return fmt.Sprintf("%d.0.0", x+1), nil
}
