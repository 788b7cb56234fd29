// Package batch is the conversion orchestrator: it turns an ordered list
// of source files into JPEG outputs, one file at a time, collecting a
// per-file Result without aborting the run on individual failures.
package batch

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"hif2jpeg/internal/codec"
	"hif2jpeg/internal/config"
	"hif2jpeg/internal/naming"
)

// ProgressFunc is called after each file with the number of files done so
// far, the batch size, and the path just processed.
type ProgressFunc func(done, total int, path string)

// Runner executes batches against a codec pair. The zero Decoder/Encoder
// are replaced with the production HEIF/JPEG implementations by [New];
// tests inject fakes directly.
type Runner struct {
	Decoder  codec.Decoder
	Encoder  codec.Encoder
	Log      *slog.Logger
	Progress ProgressFunc
}

// New returns a Runner wired to the production codec.
func New(log *slog.Logger) *Runner {
	return &Runner{
		Decoder: codec.NewDecoder(),
		Encoder: codec.NewEncoder(),
		Log:     log,
	}
}

// Run converts sources into outputRoot. inputRoot anchors relative paths
// for structure preservation and may be empty for explicit file lists.
//
// Results come back in source order, one per file, failures included.
// The returned error is non-nil only for the fatal cases: an unusable
// output root (nothing processed) or context cancellation (partial
// results are still returned). Cancellation is cooperative and checked
// between files, never mid-file.
func (r *Runner) Run(ctx context.Context, sources []string, inputRoot, outputRoot string, opts config.Options) ([]Result, Stats, error) {
	stats := Stats{Total: len(sources)}

	if err := ensureOutputRoot(outputRoot); err != nil {
		return nil, stats, err
	}

	planner := naming.NewPlanner(inputRoot, outputRoot, opts.PreserveStructure, opts.RenamePattern)

	results := make([]Result, 0, len(sources))
	for i, src := range sources {
		if err := ctx.Err(); err != nil {
			r.Log.Warn("batch interrupted", "done", i, "total", len(sources))
			return results, stats, err
		}

		job := planner.Plan(src)
		res := r.convertOne(job, opts)
		results = append(results, res)

		if res.Ok() {
			stats.Converted++
			stats.SourceBytes += res.SourceBytes
			stats.OutputBytes += res.OutputBytes
			r.Log.Info("converted",
				"source", job.SourcePath,
				"dest", job.DestPath,
				"bytes", res.OutputBytes)
		} else {
			stats.Failed++
			r.Log.Error("conversion failed",
				"source", job.SourcePath,
				"kind", string(KindOf(res.Err)),
				"reason", res.Reason())
		}

		if r.Progress != nil {
			r.Progress(i+1, len(sources), src)
		}
	}

	return results, stats, nil
}

// convertOne decodes, transforms, and encodes a single job. Every error
// is wrapped into the Result; nothing panics or escalates.
func (r *Runner) convertOne(job naming.Job, opts config.Options) Result {
	res := Result{Job: job}

	srcInfo, err := os.Stat(job.SourcePath)
	if err != nil {
		res.Err = fmt.Errorf("%w: %v", codec.ErrUnreadableFile, err)
		return res
	}
	res.SourceBytes = srcInfo.Size()

	decoded, err := r.Decoder.Decode(job.SourcePath)
	if err != nil {
		res.Err = err
		return res
	}

	img := decoded.Image
	var exif []byte
	if opts.PreserveExif {
		exif = decoded.Exif
	}

	if opts.AutoOrient {
		if o := codec.Orientation(decoded.Exif); o != 1 {
			img = codec.ApplyOrientation(img, o)
			if exif != nil {
				exif = codec.ClearOrientation(exif)
			}
		}
	}

	img = codec.ClampWidth(img, opts.MaxWidth)

	if err := os.MkdirAll(filepath.Dir(job.DestPath), 0o755); err != nil {
		res.Err = fmt.Errorf("%w: %v", ErrWriteFailure, err)
		return res
	}

	outBytes, err := r.writeOutput(job.DestPath, img, opts.Quality, exif)
	if err != nil && exif != nil {
		// Metadata copy failure is non-fatal: drop the EXIF block and
		// retry the encode so the pixels still make it out.
		r.Log.Warn("EXIF copy failed, writing without metadata",
			"source", job.SourcePath, "reason", err.Error())
		outBytes, err = r.writeOutput(job.DestPath, img, opts.Quality, nil)
	}
	if err != nil {
		res.Err = fmt.Errorf("%w: %v", ErrWriteFailure, err)
		return res
	}
	res.OutputBytes = outBytes

	// Carry the source timestamp onto the output; ordering tools sort by
	// mtime when EXIF is absent.
	if err := os.Chtimes(job.DestPath, srcInfo.ModTime(), srcInfo.ModTime()); err != nil {
		r.Log.Debug("cannot set output mtime", "dest", job.DestPath, "reason", err.Error())
	}

	return res
}

// writeOutput encodes into a temp file next to dest and renames it into
// place, so re-runs overwrite deterministically and a failed encode never
// leaves a truncated JPEG behind.
func (r *Runner) writeOutput(dest string, img image.Image, quality int, exif []byte) (int64, error) {
	tmp := fmt.Sprintf("%s.%s.tmp", dest, uuid.NewString()[:8])

	f, err := os.Create(tmp)
	if err != nil {
		return 0, err
	}

	if err := r.Encoder.Encode(f, img, quality, exif); err != nil {
		f.Close()
		os.Remove(tmp)
		return 0, err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return 0, err
	}

	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return 0, err
	}

	info, err := os.Stat(dest)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// ensureOutputRoot verifies the output root exists and is writable by
// creating and removing a probe file. Failure here is the one condition
// that halts the whole batch.
func ensureOutputRoot(outputRoot string) error {
	if outputRoot == "" {
		return &FatalOutputError{Dir: outputRoot, Err: fmt.Errorf("no output directory given")}
	}
	if err := os.MkdirAll(outputRoot, 0o755); err != nil {
		return &FatalOutputError{Dir: outputRoot, Err: err}
	}

	probe := filepath.Join(outputRoot, ".hif2jpeg-probe-"+uuid.NewString()[:8])
	f, err := os.Create(probe)
	if err != nil {
		return &FatalOutputError{Dir: outputRoot, Err: err}
	}
	f.Close()
	os.Remove(probe)
	return nil
}
