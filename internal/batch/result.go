package batch

import "hif2jpeg/internal/naming"

// Result is the outcome of one conversion job. Err is nil on success.
type Result struct {
	Job         naming.Job
	Err         error
	SourceBytes int64
	OutputBytes int64
}

// Ok reports whether the job converted successfully.
func (r Result) Ok() bool { return r.Err == nil }

// Reason returns the human-readable failure reason, empty on success.
func (r Result) Reason() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Stats aggregates counters and byte totals across one batch run.
type Stats struct {
	Total       int
	Converted   int
	Failed      int
	SourceBytes int64
	OutputBytes int64
}

// SpaceSaved returns the byte difference between sources and outputs for
// converted files. Positive means the JPEGs are smaller.
func (s Stats) SpaceSaved() int64 {
	return s.SourceBytes - s.OutputBytes
}
