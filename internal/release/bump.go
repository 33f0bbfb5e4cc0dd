package release

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// BumpKind selects which field of the version to increment.
type BumpKind string

const (
	BumpPatch BumpKind = "patch"
	BumpMinor BumpKind = "minor"
	BumpMajor BumpKind = "major"
)

// DefaultBumpKind is used when no bump type is given on the command line.
const DefaultBumpKind = BumpPatch

// ParseBumpKind validates a bump type argument. An unrecognized value is a
// usage error; the caller must leave the manifest untouched.
func ParseBumpKind(s string) (BumpKind, error) {
	switch BumpKind(s) {
	case BumpPatch, BumpMinor, BumpMajor:
		return BumpKind(s), nil
	default:
		return "", fmt.Errorf("invalid bump type %q (expected patch, minor or major)", s)
	}
}

// Bump returns the incremented version. Minor and major bumps zero the
// subordinate fields.
func Bump(v *semver.Version, kind BumpKind) (*semver.Version, error) {
	var next semver.Version
	switch kind {
	case BumpPatch:
		next = v.IncPatch()
	case BumpMinor:
		next = v.IncMinor()
	case BumpMajor:
		next = v.IncMajor()
	default:
		return nil, fmt.Errorf("invalid bump type %q (expected patch, minor or major)", kind)
	}
	return &next, nil
}

// BumpManifest reads the manifest version, bumps it, and rewrites the version
// line in place. Returns the old and new versions.
func BumpManifest(path string, kind BumpKind) (*semver.Version, *semver.Version, error) {
	current, err := ReadVersion(path)
	if err != nil {
		return nil, nil, err
	}
	next, err := Bump(current, kind)
	if err != nil {
		return nil, nil, err
	}
	if err := WriteVersion(path, next); err != nil {
		return nil, nil, err
	}
	return current, next, nil
}
