// Package scan discovers HEIF source files under an input directory.
package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"hif2jpeg/internal/codec"
)

// Discover collects HEIF files under root. With recursive set it walks the
// whole tree; otherwise only the top level is listed. Paths are returned
// sorted lexicographically for deterministic processing order.
func Discover(root string, recursive bool) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("input directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("input is not a directory: %s", root)
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if !recursive && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if codec.IsHEIF(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// Expand resolves a mixed list of file and directory arguments into source
// files, preserving argument order. Directories are discovered (honoring
// recursive); explicit files are not filtered by extension, so the batch
// can report them as unsupported instead of silently dropping them.
func Expand(args []string, recursive bool) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("input: %w", err)
		}
		if info.IsDir() {
			found, err := Discover(arg, recursive)
			if err != nil {
				return nil, err
			}
			files = append(files, found...)
			continue
		}
		files = append(files, arg)
	}
	return files, nil
}
