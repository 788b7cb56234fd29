package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"hif2jpeg/internal/config"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Save or inspect conversion settings files",
}

var settingsSaveCmd = &cobra.Command{
	Use:   "save <file>",
	Short: "Write the given conversion options to a JSON settings file",
	Long: `Save captures the conversion option flags into a JSON settings file
that convert --settings can load later. Flags left unset are saved at
their defaults.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := optionFlags
		if err := opts.Validate(); err != nil {
			return err
		}
		if err := config.Save(args[0], opts); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Settings written to %s\n", args[0])
		return nil
	},
}

var settingsShowCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Print the options a settings file resolves to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := config.Load(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "quality:            %d\n", opts.Quality)
		fmt.Fprintf(out, "preserve_exif:      %t\n", opts.PreserveExif)
		fmt.Fprintf(out, "preserve_structure: %t\n", opts.PreserveStructure)
		fmt.Fprintf(out, "recursive:          %t\n", opts.Recursive)
		fmt.Fprintf(out, "rename_pattern:     %s\n", opts.RenamePattern)
		fmt.Fprintf(out, "max_width:          %d\n", opts.MaxWidth)
		fmt.Fprintf(out, "auto_orient:        %t\n", opts.AutoOrient)
		return nil
	},
}

func init() {
	addOptionFlags(settingsSaveCmd)
	settingsCmd.AddCommand(settingsSaveCmd)
	settingsCmd.AddCommand(settingsShowCmd)
	rootCmd.AddCommand(settingsCmd)
}
