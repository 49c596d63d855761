package mapfile

import (
	"github.com/Masterminds/semver/v3"

	"github.com/teranos/bindgen/errors"
)

const (
	// DefaultVersion is assumed when a typemap file has no version key
	DefaultVersion = "1.0"
	// SupportedVersions is the range of typemap format versions this loader reads
	SupportedVersions = ">= 1.0, < 2.0"
)

var supported = mustConstraint(SupportedVersions)

func mustConstraint(expr string) *semver.Constraints {
	c, err := semver.NewConstraint(expr)
	if err != nil {
		panic(errors.NewAssertionErrorWithWrappedErrf(err, "bad constraint %q", expr))
	}
	return c
}

// CheckVersion parses a typemap format version and checks it is supported.
// An empty string means DefaultVersion.
func CheckVersion(s string) (*semver.Version, error) {
	if s == "" {
		s = DefaultVersion
	}
	v, err := semver.NewVersion(s)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "invalid typemap version %q: %v", s, err)
	}
	if !supported.Check(v) {
		return v, errors.Wrapf(errors.ErrUnsupportedVersion,
			"typemap version %s is not supported (want %s)", v, SupportedVersions)
	}
	return v, nil
}
