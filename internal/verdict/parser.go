// Package verdict decodes raw model output into structured verdicts.
// The model response is untrusted free text: the decode is strict about the
// score (missing or out-of-range fails the file's review) but forgiving
// about issue labels (unknown severity or category falls back to a default,
// never dropping the issue).
package verdict

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/joescharf/reviewgate/internal/models"
)

// FormatError is a model response that fails schema validation. It rejects
// that file's review, not the whole run.
type FormatError struct {
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed verdict: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed verdict: %s", e.Reason)
}

func (e *FormatError) Unwrap() error { return e.Err }

// rawVerdict is the wire shape the model is instructed to return.
type rawVerdict struct {
	Score  *int       `json:"score"`
	Issues []rawIssue `json:"issues"`
}

type rawIssue struct {
	Severity    string `json:"severity"`
	Category    string `json:"category"`
	Line        int    `json:"line"`
	Description string `json:"description"`
	Suggestion  string `json:"suggestion"`
}

// Parse validates and decodes one raw model response into a Verdict for path.
// Parsing an already-valid response is idempotent.
func Parse(path, raw string) (*models.Verdict, error) {
	cleaned := stripFences(raw)
	if cleaned == "" {
		return nil, &FormatError{Reason: "empty response"}
	}

	var rv rawVerdict
	if err := json.Unmarshal([]byte(cleaned), &rv); err != nil {
		return nil, &FormatError{Reason: "response is not a JSON verdict", Err: err}
	}
	if rv.Score == nil {
		return nil, &FormatError{Reason: "score field missing"}
	}
	if *rv.Score < 0 || *rv.Score > 100 {
		return nil, &FormatError{Reason: fmt.Sprintf("score %d out of range [0,100]", *rv.Score)}
	}

	v := &models.Verdict{
		Path:  path,
		Score: *rv.Score,
	}
	for _, ri := range rv.Issues {
		line := ri.Line
		if line < 0 {
			line = 0
		}
		v.Issues = append(v.Issues, models.Issue{
			Severity:    models.ParseSeverity(ri.Severity),
			Category:    models.ParseCategory(ri.Category),
			Line:        line,
			Description: ri.Description,
			Suggestion:  ri.Suggestion,
		})
	}
	v.SortIssues()
	return v, nil
}

// stripFences removes a surrounding markdown code fence, if present.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	lines := strings.SplitN(text, "\n", 2)
	if len(lines) > 1 {
		text = lines[1]
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}
