// Package config holds conversion options: defaults matching the desktop
// app this tool grew out of, validation, and JSON settings persistence.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Options are the knobs for one batch run. Immutable once the run starts.
type Options struct {
	Quality           int    `mapstructure:"quality"`
	PreserveExif      bool   `mapstructure:"preserve_exif"`
	PreserveStructure bool   `mapstructure:"preserve_structure"`
	Recursive         bool   `mapstructure:"recursive"`
	RenamePattern     string `mapstructure:"rename_pattern"`
	MaxWidth          int    `mapstructure:"max_width"`
	AutoOrient        bool   `mapstructure:"auto_orient"`
}

// Default returns the option set the original desktop app shipped with.
func Default() Options {
	return Options{
		Quality:           90,
		PreserveExif:      true,
		PreserveStructure: true,
		Recursive:         false,
		RenamePattern:     "{name}",
		MaxWidth:          0,
		AutoOrient:        false,
	}
}

// validPlaceholders are the rename-pattern substitutions we expand.
var validPlaceholders = map[string]bool{
	"name":      true,
	"timestamp": true,
	"counter":   true,
}

// Validate checks option ranges and the rename pattern.
func (o *Options) Validate() error {
	if o.Quality < 1 || o.Quality > 100 {
		return fmt.Errorf("quality must be 1-100, got %d", o.Quality)
	}
	if o.MaxWidth < 0 {
		return fmt.Errorf("max-width must be >= 0, got %d", o.MaxWidth)
	}
	return validatePattern(o.RenamePattern)
}

// validatePattern rejects unknown {placeholder} names and unbalanced
// braces so typos fail up front instead of leaking into filenames.
func validatePattern(pattern string) error {
	rest := pattern
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			if strings.IndexByte(rest, '}') >= 0 {
				return errors.New("rename pattern has unbalanced braces")
			}
			return nil
		}
		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			return errors.New("rename pattern has unbalanced braces")
		}
		name := rest[open+1 : open+end]
		if !validPlaceholders[name] {
			return fmt.Errorf("unknown rename placeholder {%s} (use {name}, {timestamp}, {counter})", name)
		}
		rest = rest[open+end+1:]
	}
}

// ValidatePaths rejects an output directory nested inside the input tree,
// which would make the walk re-discover its own outputs.
func ValidatePaths(inputAbs, outputAbs string) error {
	if inputAbs == "" {
		return nil
	}
	rel, err := filepath.Rel(inputAbs, outputAbs)
	if err != nil {
		return nil
	}
	if rel == "." || (!strings.HasPrefix(rel, "..") && !filepath.IsAbs(rel)) {
		return fmt.Errorf("output directory %s is inside input directory %s", outputAbs, inputAbs)
	}
	return nil
}
