// Package release implements the bump-and-publish pipeline: increment the
// semantic version recorded in the project manifest, build a distributable
// archive, and upload it to a package registry.
package release

import (
	"fmt"
	"os"
	"regexp"

	"github.com/Masterminds/semver/v3"
)

// DefaultManifestPath is the manifest file holding the version line.
const DefaultManifestPath = "manifest.yaml"

// versionLine matches the fixed-format version line of the manifest,
// capturing the prefix and quote style so a rewrite changes nothing else.
var versionLine = regexp.MustCompile(`(?m)^(\s*version:\s*)(["']?)(\d+\.\d+\.\d+)(["']?)\s*$`)

// ReadVersion parses the version from the first version line of the manifest.
func ReadVersion(path string) (*semver.Version, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	m := versionLine.FindSubmatch(data)
	if m == nil {
		return nil, fmt.Errorf("no version line found in %s", path)
	}
	v, err := semver.NewVersion(string(m[3]))
	if err != nil {
		return nil, fmt.Errorf("invalid version %q in %s: %w", m[3], path, err)
	}
	return v, nil
}

// WriteVersion rewrites only the version line of the manifest, preserving
// every other byte of the file including the line's quoting style.
func WriteVersion(path string, v *semver.Version) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read manifest: %w", err)
	}
	if !versionLine.Match(data) {
		return fmt.Errorf("no version line found in %s", path)
	}
	replaced := false
	out := versionLine.ReplaceAllFunc(data, func(line []byte) []byte {
		if replaced {
			return line
		}
		replaced = true
		m := versionLine.FindSubmatch(line)
		return []byte(string(m[1]) + string(m[2]) + v.String() + string(m[4]))
	})

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, out, info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
