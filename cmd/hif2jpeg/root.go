package main

import (
	"github.com/spf13/cobra"

	"hif2jpeg/internal/config"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	flagVerbose bool
	flagLogFile string
)

// optionFlags mirrors config.Options onto CLI flags. Shared by the
// convert and settings commands so "settings save" captures exactly the
// options a convert invocation would use.
var optionFlags = config.Default()

var rootCmd = &cobra.Command{
	Use:   "hif2jpeg",
	Short: "Convert HEIF/HEIC images to JPEG in batches",
	Long: `hif2jpeg converts HEIF/HEIC/HIF images to JPEG with control over
quality, EXIF preservation, and folder-structure handling.

Point it at files or directories; each input is converted independently
and failures never abort the batch. Results are reported per file.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "also write JSON logs to this file")
}

// addOptionFlags registers the conversion option flags on cmd, bound to
// optionFlags.
func addOptionFlags(cmd *cobra.Command) {
	defaults := config.Default()
	cmd.Flags().IntVarP(&optionFlags.Quality, "quality", "q", defaults.Quality, "JPEG quality (1-100)")
	cmd.Flags().BoolVar(&optionFlags.PreserveExif, "preserve-exif", defaults.PreserveExif, "copy EXIF metadata into the JPEG")
	cmd.Flags().BoolVar(&optionFlags.PreserveStructure, "preserve-structure", defaults.PreserveStructure, "mirror the input folder structure under the output directory")
	cmd.Flags().BoolVarP(&optionFlags.Recursive, "recursive", "r", defaults.Recursive, "descend into subdirectories of directory inputs")
	cmd.Flags().StringVar(&optionFlags.RenamePattern, "rename", defaults.RenamePattern, "rename pattern with {name}, {timestamp}, {counter} placeholders")
	cmd.Flags().IntVar(&optionFlags.MaxWidth, "max-width", defaults.MaxWidth, "downscale outputs wider than this many pixels (0 = off)")
	cmd.Flags().BoolVar(&optionFlags.AutoOrient, "auto-orient", defaults.AutoOrient, "bake EXIF orientation into pixels")
}

// applySettingsFile loads a settings file into optionFlags, keeping any
// flag the user set explicitly on the command line.
func applySettingsFile(cmd *cobra.Command, path string) error {
	loaded, err := config.Load(path)
	if err != nil {
		return err
	}

	if !cmd.Flags().Changed("quality") {
		optionFlags.Quality = loaded.Quality
	}
	if !cmd.Flags().Changed("preserve-exif") {
		optionFlags.PreserveExif = loaded.PreserveExif
	}
	if !cmd.Flags().Changed("preserve-structure") {
		optionFlags.PreserveStructure = loaded.PreserveStructure
	}
	if !cmd.Flags().Changed("recursive") {
		optionFlags.Recursive = loaded.Recursive
	}
	if !cmd.Flags().Changed("rename") {
		optionFlags.RenamePattern = loaded.RenamePattern
	}
	if !cmd.Flags().Changed("max-width") {
		optionFlags.MaxWidth = loaded.MaxWidth
	}
	if !cmd.Flags().Changed("auto-orient") {
		optionFlags.AutoOrient = loaded.AutoOrient
	}
	return nil
}
