package models

import (
	"sort"

	"github.com/oklog/ulid/v2"
)

// ReviewableFile is a snapshot of one staged or new file eligible for review.
type ReviewableFile struct {
	Path      string
	Extension string
	Content   string
}

// Report collects the verdicts of a single commit attempt, keyed by path.
// It lives for one pipeline run and is never persisted.
type Report struct {
	RunID    string
	Verdicts map[string]*Verdict
}

// NewReport creates an empty report with a fresh run ID.
func NewReport() *Report {
	return &Report{
		RunID:    ulid.Make().String(),
		Verdicts: make(map[string]*Verdict),
	}
}

// Add records a verdict, replacing any previous verdict for the same path.
func (r *Report) Add(v *Verdict) {
	r.Verdicts[v.Path] = v
}

// Paths returns the reviewed paths in lexical order for reproducible output.
func (r *Report) Paths() []string {
	paths := make([]string, 0, len(r.Verdicts))
	for p := range r.Verdicts {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// AverageScore is the mean score across all verdicts, 0 for an empty report.
func (r *Report) AverageScore() float64 {
	if len(r.Verdicts) == 0 {
		return 0
	}
	var sum int
	for _, v := range r.Verdicts {
		sum += v.Score
	}
	return float64(sum) / float64(len(r.Verdicts))
}

// GateResult is the threshold decision derived from a report.
type GateResult struct {
	Passed bool
	Failed []string // paths below threshold, lexical order
}
