package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"hif2jpeg/internal/release"
)

var (
	flagBumpMajor      bool
	flagBumpMinor      bool
	flagBumpPatch      bool
	flagReleaseMessage string
	flagReleaseDir     string
)

var releaseCmd = &cobra.Command{
	Use:   "release",
	Short: "Bump the release version and record a changelog entry",
	Long: `Release advances the semantic version in the VERSION file, prepends a
dated entry to CHANGELOG.md, and prints the git tag command for the new
version. It does not run git itself.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		part := release.Patch
		switch {
		case flagBumpMajor:
			part = release.Major
		case flagBumpMinor:
			part = release.Minor
		case flagBumpPatch:
			part = release.Patch
		default:
			return fmt.Errorf("choose one of --major, --minor, --patch")
		}

		rel, err := release.Bump(flagReleaseDir, part, flagReleaseMessage, time.Now())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Version: %s -> %s\n", rel.Previous, rel.Version)
		fmt.Fprintf(out, "Tag with: %s\n", rel.TagCommand())
		return nil
	},
}

func init() {
	releaseCmd.Flags().BoolVar(&flagBumpMajor, "major", false, "bump the major version")
	releaseCmd.Flags().BoolVar(&flagBumpMinor, "minor", false, "bump the minor version")
	releaseCmd.Flags().BoolVar(&flagBumpPatch, "patch", false, "bump the patch version")
	releaseCmd.MarkFlagsMutuallyExclusive("major", "minor", "patch")
	releaseCmd.Flags().StringVarP(&flagReleaseMessage, "message", "m", "", "release message (required)")
	releaseCmd.MarkFlagRequired("message")
	releaseCmd.Flags().StringVar(&flagReleaseDir, "dir", ".", "repository root holding VERSION and CHANGELOG.md")

	rootCmd.AddCommand(releaseCmd)
}
