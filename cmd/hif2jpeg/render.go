package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"hif2jpeg/internal/batch"
)

// renderResults prints the per-file outcome table and the batch summary.
func renderResults(w io.Writer, results []batch.Result, stats batch.Stats) {
	if len(results) == 0 {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Source", "Destination", "Status", "Size"})

	for i, res := range results {
		status := "ok"
		dest := filepath.Base(res.Job.DestPath)
		size := humanize.Bytes(uint64(res.OutputBytes))
		if !res.Ok() {
			status = fmt.Sprintf("%s: %s", batch.KindOf(res.Err), res.Reason())
			dest = "-"
			size = "-"
		}
		t.AppendRow(table.Row{i + 1, res.Job.SourcePath, dest, status, size})
	}
	t.Render()

	fmt.Fprintf(w, "\nDone: %d converted, %d failed (of %d)\n",
		stats.Converted, stats.Failed, stats.Total)

	if stats.Converted > 0 {
		saved := stats.SpaceSaved()
		if saved >= 0 {
			fmt.Fprintf(w, "Space saved: %s (input %s -> output %s)\n",
				humanize.Bytes(uint64(saved)),
				humanize.Bytes(uint64(stats.SourceBytes)),
				humanize.Bytes(uint64(stats.OutputBytes)))
		} else {
			fmt.Fprintf(w, "Output grew by %s (input %s -> output %s)\n",
				humanize.Bytes(uint64(-saved)),
				humanize.Bytes(uint64(stats.SourceBytes)),
				humanize.Bytes(uint64(stats.OutputBytes)))
		}
	}
}
