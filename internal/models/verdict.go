package models

import (
	"sort"
	"strings"
)

// Severity is the weight of a single review issue.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Rank returns a numeric rank for sorting (higher = more severe).
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// ParseSeverity normalizes a model-supplied severity label.
// Unknown labels fall back to low rather than dropping the issue.
func ParseSeverity(label string) Severity {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "high", "critical":
		return SeverityHigh
	case "medium", "moderate":
		return SeverityMedium
	case "low", "minor":
		return SeverityLow
	default:
		return SeverityLow
	}
}

// Category is the dimension a review issue belongs to.
type Category string

const (
	CategorySecurity      Category = "security"
	CategoryPerformance   Category = "performance"
	CategoryQuality       Category = "quality"
	CategoryTypeSafety    Category = "type_safety"
	CategoryErrorHandling Category = "error_handling"
)

// ParseCategory normalizes a model-supplied category label.
// Unknown labels fall back to quality rather than dropping the issue.
func ParseCategory(label string) Category {
	normalized := strings.ToLower(strings.TrimSpace(label))
	normalized = strings.ReplaceAll(normalized, " ", "_")
	normalized = strings.ReplaceAll(normalized, "-", "_")
	switch normalized {
	case "security":
		return CategorySecurity
	case "performance":
		return CategoryPerformance
	case "quality", "style", "maintainability":
		return CategoryQuality
	case "type_safety", "typesafety", "types":
		return CategoryTypeSafety
	case "error_handling", "errorhandling", "errors":
		return CategoryErrorHandling
	default:
		return CategoryQuality
	}
}

// Issue is a single finding within a file's verdict.
// Line is 1-based; 0 means the model did not tie it to a line.
type Issue struct {
	Severity    Severity `json:"severity"`
	Category    Category `json:"category"`
	Line        int      `json:"line,omitempty"`
	Description string   `json:"description"`
	Suggestion  string   `json:"suggestion,omitempty"`
}

// Verdict is the structured review outcome for one file.
// Score is always present; an empty issue list does not imply 100.
type Verdict struct {
	Path         string  `json:"path"`
	Score        int     `json:"score"`
	Issues       []Issue `json:"issues,omitempty"`
	ReviewFailed bool    `json:"review_failed,omitempty"`
}

// SortIssues orders issues by severity (high first), then line ascending,
// with line-less issues last within their severity.
func (v *Verdict) SortIssues() {
	sort.SliceStable(v.Issues, func(i, j int) bool {
		a, b := v.Issues[i], v.Issues[j]
		if a.Severity.Rank() != b.Severity.Rank() {
			return a.Severity.Rank() > b.Severity.Rank()
		}
		if (a.Line > 0) != (b.Line > 0) {
			return a.Line > 0
		}
		return a.Line < b.Line
	})
}

// NewFailedVerdict builds the synthetic score-0 verdict substituted when a
// file's review could not be obtained.
func NewFailedVerdict(path string, cause error) *Verdict {
	return &Verdict{
		Path:  path,
		Score: 0,
		Issues: []Issue{{
			Severity:    SeverityHigh,
			Category:    CategoryQuality,
			Description: "review failed: " + cause.Error(),
			Suggestion:  "re-run the commit once the review service is reachable",
		}},
		ReviewFailed: true,
	}
}
