// Package main is the entry point for the hif2jpeg CLI, a batch
// HEIF/HEIC to JPEG converter.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
