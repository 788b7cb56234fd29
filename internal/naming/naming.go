// Package naming derives JPEG destination paths from source paths: folder
// structure mirroring or flattening, rename pattern expansion, and
// collision renaming within one batch.
package naming

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Job pairs one source file with its derived destination path.
type Job struct {
	SourcePath string
	DestPath   string
}

// Planner derives destination paths for a batch. It is stateful: the
// flatten-mode collision counter and the {counter} placeholder advance as
// jobs are planned, so one Planner serves exactly one run.
type Planner struct {
	InputRoot         string
	OutputRoot        string
	PreserveStructure bool
	Pattern           string

	now      func() time.Time
	claimed  map[string]bool
	sequence int
}

// NewPlanner returns a Planner for one batch run. inputRoot may be empty
// when sources were given as explicit files; structure preservation then
// falls back to flattening for sources outside the root.
func NewPlanner(inputRoot, outputRoot string, preserveStructure bool, pattern string) *Planner {
	return &Planner{
		InputRoot:         inputRoot,
		OutputRoot:        outputRoot,
		PreserveStructure: preserveStructure,
		Pattern:           pattern,
		now:               time.Now,
		claimed:           make(map[string]bool),
	}
}

// Plan derives the destination for src and claims it against collisions.
func (p *Planner) Plan(src string) Job {
	p.sequence++

	stem := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	stem = ExpandPattern(p.Pattern, stem, p.sequence, p.now())

	var dest string
	if rel, ok := p.relToInput(src); ok && p.PreserveStructure {
		dest = filepath.Join(p.OutputRoot, filepath.Dir(rel), stem+".jpg")
	} else {
		dest = filepath.Join(p.OutputRoot, stem+".jpg")
	}

	return Job{SourcePath: src, DestPath: p.claim(dest)}
}

// relToInput returns src relative to the input root, when there is a root
// and src lives under it.
func (p *Planner) relToInput(src string) (string, bool) {
	if p.InputRoot == "" {
		return "", false
	}
	rel, err := filepath.Rel(p.InputRoot, src)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return rel, true
}

// claim reserves dest, appending _2, _3, ... before the extension when a
// previous job in this batch already owns it.
func (p *Planner) claim(dest string) string {
	if !p.claimed[dest] {
		p.claimed[dest] = true
		return dest
	}

	ext := filepath.Ext(dest)
	base := strings.TrimSuffix(dest, ext)
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s_%d%s", base, n, ext)
		if !p.claimed[candidate] {
			p.claimed[candidate] = true
			return candidate
		}
	}
}

// ExpandPattern substitutes rename-pattern placeholders into a filename
// stem. Supported placeholders: {name} (original stem), {timestamp}
// (YYYYMMDD_HHMMSS of now), {counter} (1-based position in the batch).
// An empty pattern means {name}.
func ExpandPattern(pattern, stem string, counter int, now time.Time) string {
	if pattern == "" || pattern == "{name}" {
		return stem
	}
	out := strings.ReplaceAll(pattern, "{name}", stem)
	out = strings.ReplaceAll(out, "{timestamp}", now.Format("20060102_150405"))
	out = strings.ReplaceAll(out, "{counter}", fmt.Sprintf("%d", counter))
	return out
}
