package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"hif2jpeg/internal/batch"
	"hif2jpeg/internal/codec"
	"hif2jpeg/internal/config"
	"hif2jpeg/internal/logging"
	"hif2jpeg/internal/scan"
)

var (
	flagOutputDir  string
	flagSettings   string
	flagNoProgress bool
)

var convertCmd = &cobra.Command{
	Use:   "convert [files or directories...]",
	Short: "Convert HEIF images to JPEG",
	Long: `Convert decodes each HEIF/HEIC/HIF input and re-encodes it as JPEG in
the output directory. Directory arguments are scanned for HEIF files;
pass --recursive to descend into subdirectories.

A file that fails to convert is reported and the batch continues. The
batch only halts when the output directory itself is unusable.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&flagOutputDir, "out", "o", "", "output directory (required)")
	convertCmd.MarkFlagRequired("out")
	convertCmd.Flags().StringVar(&flagSettings, "settings", "", "load options from a JSON settings file")
	convertCmd.Flags().BoolVar(&flagNoProgress, "no-progress", false, "disable the progress bar")
	addOptionFlags(convertCmd)

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	if flagSettings != "" {
		if err := applySettingsFile(cmd, flagSettings); err != nil {
			return err
		}
	}
	opts := optionFlags
	if err := opts.Validate(); err != nil {
		return err
	}

	if !codec.HEIFSupported() {
		return fmt.Errorf("this binary was built without HEIF support")
	}

	inputRoot := batchInputRoot(args)
	if err := checkNesting(inputRoot, flagOutputDir); err != nil {
		return err
	}

	sources, err := scan.Expand(args, opts.Recursive)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No HEIF files found.")
		return nil
	}

	log, closeLog, err := logging.New(cmd.ErrOrStderr(), flagVerbose, flagLogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := batch.New(log)
	if !flagNoProgress {
		bar := progressbar.NewOptions(len(sources),
			progressbar.OptionSetDescription("converting"),
			progressbar.OptionSetWriter(cmd.ErrOrStderr()),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		runner.Progress = func(done, total int, path string) {
			_ = bar.Add(1)
		}
	}

	results, stats, runErr := runner.Run(ctx, sources, inputRoot, flagOutputDir, opts)
	if runErr != nil {
		var fatal *batch.FatalOutputError
		if errors.As(runErr, &fatal) {
			return fatal
		}
		// Interrupted: report the partial batch before failing.
		log.Warn("conversion cancelled", "reason", runErr.Error())
	}

	renderResults(cmd.OutOrStdout(), results, stats)

	if runErr != nil {
		return runErr
	}
	if stats.Failed > 0 {
		return fmt.Errorf("%d of %d files failed", stats.Failed, stats.Total)
	}
	return nil
}

// batchInputRoot returns the single directory argument, if that is what
// the caller gave us. Structure preservation is anchored there; mixed or
// multiple inputs flatten instead.
func batchInputRoot(args []string) string {
	if len(args) != 1 {
		return ""
	}
	info, err := os.Stat(args[0])
	if err != nil || !info.IsDir() {
		return ""
	}
	return args[0]
}

// checkNesting refuses an output directory inside the input tree.
func checkNesting(inputRoot, outputDir string) error {
	if inputRoot == "" {
		return nil
	}
	inAbs, err := filepath.Abs(inputRoot)
	if err != nil {
		return err
	}
	outAbs, err := filepath.Abs(outputDir)
	if err != nil {
		return err
	}
	return config.ValidatePaths(inAbs, outAbs)
}
