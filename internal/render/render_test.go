package render

import (
	"bytes"
	"regexp"
	"strconv"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joescharf/reviewgate/internal/gate"
	"github.com/joescharf/reviewgate/internal/models"
	"github.com/joescharf/reviewgate/internal/output"
)

func testRenderer() (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return New(&output.UI{Out: out, ErrOut: errOut}), out, errOut
}

func sampleReport() *models.Report {
	r := models.NewReport()
	r.Add(&models.Verdict{Path: "a.py", Score: 85})
	b := &models.Verdict{
		Path:  "b.ts",
		Score: 60,
		Issues: []models.Issue{
			{Severity: models.SeverityLow, Category: models.CategoryQuality, Description: "long function"},
			{Severity: models.SeverityHigh, Category: models.CategorySecurity, Line: 4,
				Description: "token logged in plaintext", Suggestion: "redact the token"},
		},
	}
	b.SortIssues()
	r.Add(b)
	return r
}

func TestRender_BlockedReport(t *testing.T) {
	color.NoColor = true
	r, out, errOut := testRenderer()

	report := sampleReport()
	res := gate.Gate{Threshold: 70}.Evaluate(report)
	r.Render(report, res, 70)

	text := out.String()
	assert.Contains(t, text, "a.py")
	assert.Contains(t, text, "85/100")
	assert.Contains(t, text, "PASS")
	assert.Contains(t, text, "b.ts")
	assert.Contains(t, text, "60/100")
	assert.Contains(t, text, "FAIL")
	assert.Contains(t, text, "token logged in plaintext")
	assert.Contains(t, text, "fix: redact the token")
	assert.Contains(t, text, "Average score: 72.5/100")

	// The failing file is named on stderr
	assert.Contains(t, errOut.String(), "b.ts")

	// High severity issue listed before low within the file
	high := regexp.MustCompile(`\[high\]`).FindStringIndex(text)
	low := regexp.MustCompile(`\[low\]`).FindStringIndex(text)
	require.NotNil(t, high)
	require.NotNil(t, low)
	assert.Less(t, high[0], low[0])
}

func TestRender_PassingReportStillPrints(t *testing.T) {
	color.NoColor = true
	r, out, _ := testRenderer()

	report := models.NewReport()
	report.Add(&models.Verdict{Path: "ok.py", Score: 95})
	res := gate.Gate{Threshold: 70}.Evaluate(report)
	r.Render(report, res, 70)

	assert.Contains(t, out.String(), "ok.py")
	assert.Contains(t, out.String(), "95/100")
	assert.Contains(t, out.String(), "All files passed review")
}

// Rendering preserves each file's score and issue count: re-reading the
// summary rows recovers them exactly.
func TestRender_RoundTrip(t *testing.T) {
	color.NoColor = true
	r, out, _ := testRenderer()

	report := sampleReport()
	res := gate.Gate{Threshold: 70}.Evaluate(report)
	r.Render(report, res, 70)

	rowRe := regexp.MustCompile(`(?m)^(\S+\.\w+)\s+(\d+)/100\s+(\d+)\s+(PASS|FAIL)`)
	rows := rowRe.FindAllStringSubmatch(out.String(), -1)
	require.Len(t, rows, len(report.Verdicts))

	for _, row := range rows {
		path := row[1]
		score, _ := strconv.Atoi(row[2])
		issues, _ := strconv.Atoi(row[3])

		v, ok := report.Verdicts[path]
		require.True(t, ok, "rendered unknown path %s", path)
		assert.Equal(t, v.Score, score)
		assert.Equal(t, len(v.Issues), issues)
	}
}
