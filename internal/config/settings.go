package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Load reads a JSON settings file into an Options value, starting from
// defaults so older files with missing keys still load. The file format
// matches what [Save] writes (and what the original app's Save Settings
// menu produced).
func Load(path string) (Options, error) {
	opts := Default()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	v.SetDefault("quality", opts.Quality)
	v.SetDefault("preserve_exif", opts.PreserveExif)
	v.SetDefault("preserve_structure", opts.PreserveStructure)
	v.SetDefault("recursive", opts.Recursive)
	v.SetDefault("rename_pattern", opts.RenamePattern)
	v.SetDefault("max_width", opts.MaxWidth)
	v.SetDefault("auto_orient", opts.AutoOrient)

	if err := v.ReadInConfig(); err != nil {
		return opts, fmt.Errorf("read settings: %w", err)
	}
	if err := v.Unmarshal(&opts); err != nil {
		return opts, fmt.Errorf("parse settings: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return opts, fmt.Errorf("settings file %s: %w", path, err)
	}
	return opts, nil
}

// Save writes opts as a JSON settings file, creating parent directories
// as needed.
func Save(path string, opts Options) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}

	v := viper.New()
	v.SetConfigType("json")
	v.Set("quality", opts.Quality)
	v.Set("preserve_exif", opts.PreserveExif)
	v.Set("preserve_structure", opts.PreserveStructure)
	v.Set("recursive", opts.Recursive)
	v.Set("rename_pattern", opts.RenamePattern)
	v.Set("max_width", opts.MaxWidth)
	v.Set("auto_orient", opts.AutoOrient)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
