// Package gate applies the score threshold across a review report.
package gate

import "github.com/joescharf/reviewgate/internal/models"

// Gate is the pass/fail threshold policy.
type Gate struct {
	// Threshold is the minimum passing score, inclusive.
	Threshold int
	// FailOpen lets files whose review could not be obtained pass instead
	// of blocking the commit. Off by default: a broken review must not let
	// bad code through.
	FailOpen bool
}

// FileFails reports whether a single verdict falls below the gate.
func (g Gate) FileFails(v *models.Verdict) bool {
	if v.ReviewFailed {
		return !g.FailOpen
	}
	return v.Score < g.Threshold
}

// Evaluate applies the gate to every verdict. The overall result fails if
// any file fails; one bad file blocks the whole commit.
func (g Gate) Evaluate(report *models.Report) models.GateResult {
	res := models.GateResult{Passed: true}
	for _, path := range report.Paths() {
		if g.FileFails(report.Verdicts[path]) {
			res.Passed = false
			res.Failed = append(res.Failed, path)
		}
	}
	return res
}
