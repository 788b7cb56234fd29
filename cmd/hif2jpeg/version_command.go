package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hif2jpeg/internal/codec"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of hif2jpeg",
	Run: func(cmd *cobra.Command, args []string) {
		heif := "with HEIF support"
		if !codec.HEIFSupported() {
			heif = "without HEIF support (noheif build)"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "hif2jpeg %s (%s)\n", version, heif)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
