// Package release implements the version-bump helper: it advances the
// semver in the VERSION file, records the release message in CHANGELOG.md,
// and suggests the matching git tag command.
package release

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Part selects which semver component a bump advances.
type Part string

const (
	Major Part = "major"
	Minor Part = "minor"
	Patch Part = "patch"
)

// Version is a parsed semantic version.
type Version struct {
	Major int
	Minor int
	Patch int
}

// String renders the version without a "v" prefix, matching the VERSION
// file format.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Tag renders the git tag name for the version.
func (v Version) Tag() string { return "v" + v.String() }

// Bump returns the version advanced by part, zeroing the lower components.
func (v Version) Bump(part Part) (Version, error) {
	switch part {
	case Major:
		return Version{Major: v.Major + 1}, nil
	case Minor:
		return Version{Major: v.Major, Minor: v.Minor + 1}, nil
	case Patch:
		return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}, nil
	default:
		return Version{}, fmt.Errorf("unknown bump part %q", part)
	}
}

// Parse reads "X.Y.Z" (an optional leading "v" is tolerated).
func Parse(s string) (Version, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "v"))
	fields := strings.Split(s, ".")
	if len(fields) != 3 {
		return Version{}, fmt.Errorf("invalid version %q", s)
	}
	var nums [3]int
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("invalid version %q", s)
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// Release is the outcome of one bump.
type Release struct {
	Previous Version
	Version  Version
	Message  string
}

// TagCommand returns the git invocation that creates the annotated tag
// for this release.
func (r Release) TagCommand() string {
	return fmt.Sprintf("git tag -a %s -m %q", r.Version.Tag(), r.Message)
}

const versionFile = "VERSION"
const changelogFile = "CHANGELOG.md"

// Bump advances the version recorded in dir's VERSION file by part and
// prepends a dated entry to CHANGELOG.md. A missing VERSION file starts
// from 0.0.0.
func Bump(dir string, part Part, message string, now time.Time) (Release, error) {
	if strings.TrimSpace(message) == "" {
		return Release{}, fmt.Errorf("release message is required")
	}

	current := Version{}
	versionPath := filepath.Join(dir, versionFile)
	if data, err := os.ReadFile(versionPath); err == nil {
		current, err = Parse(string(data))
		if err != nil {
			return Release{}, fmt.Errorf("%s: %w", versionPath, err)
		}
	} else if !os.IsNotExist(err) {
		return Release{}, err
	}

	next, err := current.Bump(part)
	if err != nil {
		return Release{}, err
	}

	if err := os.WriteFile(versionPath, []byte(next.String()+"\n"), 0o644); err != nil {
		return Release{}, fmt.Errorf("write VERSION: %w", err)
	}
	if err := prependChangelog(filepath.Join(dir, changelogFile), next, message, now); err != nil {
		return Release{}, err
	}

	return Release{Previous: current, Version: next, Message: message}, nil
}

// prependChangelog inserts the new entry above previous entries, keeping
// an existing "# Changelog" heading at the top.
func prependChangelog(path string, v Version, message string, now time.Time) error {
	entry := fmt.Sprintf("## %s - %s\n\n- %s\n", v.Tag(), now.Format("2006-01-02"), message)

	existing, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		content := "# Changelog\n\n" + entry
		return os.WriteFile(path, []byte(content), 0o644)
	}
	if err != nil {
		return err
	}

	text := string(existing)
	if idx := strings.Index(text, "\n## "); idx >= 0 {
		text = text[:idx+1] + entry + "\n" + text[idx+1:]
	} else {
		text = strings.TrimRight(text, "\n") + "\n\n" + entry
	}
	return os.WriteFile(path, []byte(text), 0o644)
}
