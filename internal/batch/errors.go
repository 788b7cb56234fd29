package batch

import (
	"errors"
	"fmt"

	"hif2jpeg/internal/codec"
)

// ErrWriteFailure wraps any failure to create, write, or rename the
// output file for a single job.
var ErrWriteFailure = errors.New("write failure")

// FatalOutputError means the output root itself is unusable. It halts the
// batch before any file is processed; per-file errors never escalate to it.
type FatalOutputError struct {
	Dir string
	Err error
}

func (e *FatalOutputError) Error() string {
	return fmt.Sprintf("output directory %s is not writable: %v", e.Dir, e.Err)
}

func (e *FatalOutputError) Unwrap() error { return e.Err }

// FailureKind buckets a per-file error for display.
type FailureKind string

const (
	KindUnsupported FailureKind = "unsupported format"
	KindUnreadable  FailureKind = "unreadable file"
	KindWrite       FailureKind = "write failure"
	KindDecode      FailureKind = "decode failure"
)

// KindOf classifies a per-file error.
func KindOf(err error) FailureKind {
	switch {
	case errors.Is(err, codec.ErrUnsupportedFormat), errors.Is(err, codec.ErrHEIFDisabled):
		return KindUnsupported
	case errors.Is(err, codec.ErrUnreadableFile):
		return KindUnreadable
	case errors.Is(err, ErrWriteFailure):
		return KindWrite
	default:
		return KindDecode
	}
}
