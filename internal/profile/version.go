package profile

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// normalizedSemver pads a two-component "X.Y" registry version number to
// "X.Y.0" before constructing a semver.Version, so that mixed "X.Y" and
// "X.Y.Z" strings compare numerically instead of lexically.
func normalizedSemver(v string) (*semver.Version, error) {
	full := v
	if strings.Count(v, ".") == 1 {
		full = v + ".0"
	}
	return semver.NewVersion(full)
}
