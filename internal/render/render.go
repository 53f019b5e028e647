// Package render formats a review report for the terminal. It is purely
// presentational; gating decisions are made elsewhere.
package render

import (
	"fmt"
	"strings"

	"github.com/joescharf/reviewgate/internal/models"
	"github.com/joescharf/reviewgate/internal/output"
)

// Renderer writes human-readable review reports through the shared UI.
type Renderer struct {
	ui *output.UI
}

// New creates a Renderer.
func New(ui *output.UI) *Renderer {
	return &Renderer{ui: ui}
}

// Render prints the per-file summary table, issue details grouped by
// severity, and the overall result. Output is always produced, pass or
// fail, so the committer sees full feedback either way.
func (r *Renderer) Render(report *models.Report, res models.GateResult, threshold int) {
	fmt.Fprintf(r.ui.Out, "Code review (run %s, threshold %d)\n", report.RunID, threshold)
	fmt.Fprintln(r.ui.Out, strings.Repeat("─", 60))

	table := r.ui.Table([]string{"File", "Score", "Issues", "Result"})
	for _, path := range report.Paths() {
		v := report.Verdicts[path]
		table.Append([]string{
			path,
			output.ScoreColor(v.Score, threshold),
			fmt.Sprintf("%d", len(v.Issues)),
			output.PassFail(!fileFailed(res, path)),
		})
	}
	_ = table.Render()

	for _, path := range report.Paths() {
		v := report.Verdicts[path]
		if len(v.Issues) == 0 {
			continue
		}
		fmt.Fprintf(r.ui.Out, "\n%s\n", output.Cyan(path))
		r.renderIssues(v)
	}

	fmt.Fprintln(r.ui.Out)
	fmt.Fprintf(r.ui.Out, "Average score: %.1f/100\n", report.AverageScore())
	if res.Passed {
		r.ui.Success("All files passed review")
	} else {
		r.ui.Error("Commit blocked: %s below threshold", strings.Join(res.Failed, ", "))
	}
}

// renderIssues prints a verdict's issues, already ordered by severity then
// line by the parser.
func (r *Renderer) renderIssues(v *models.Verdict) {
	for _, iss := range v.Issues {
		loc := ""
		if iss.Line > 0 {
			loc = fmt.Sprintf(" L%d", iss.Line)
		}
		fmt.Fprintf(r.ui.Out, "  [%s] %s%s: %s\n",
			output.SeverityColor(iss.Severity), iss.Category, loc, iss.Description)
		if iss.Suggestion != "" {
			fmt.Fprintf(r.ui.Out, "      fix: %s\n", iss.Suggestion)
		}
	}
}

func fileFailed(res models.GateResult, path string) bool {
	for _, p := range res.Failed {
		if p == path {
			return true
		}
	}
	return false
}
