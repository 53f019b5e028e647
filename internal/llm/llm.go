package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/joescharf/reviewgate/internal/models"
)

// ServiceError is a failed call to the review service for one file:
// credential, network, or timeout. It never aborts the whole run; the
// pipeline converts it into a synthetic failing verdict.
type ServiceError struct {
	Path string
	Err  error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("review service call for %s: %v", e.Path, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// Client wraps the Anthropic API for per-file code review.
type Client struct {
	api   *anthropic.Client
	model anthropic.Model
}

// NewClient creates a review client with the given API key and model.
func NewClient(apiKey, model string) *Client {
	opts := []option.RequestOption{}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	client := anthropic.NewClient(opts...)
	return &Client{
		api:   &client,
		model: anthropic.Model(model),
	}
}

// languageTag maps a supported extension to the language name used in prompts.
func languageTag(ext string) string {
	switch strings.ToLower(ext) {
	case ".py":
		return "Python"
	case ".ts":
		return "TypeScript"
	case ".mjs":
		return "JavaScript (ES module)"
	default:
		return strings.TrimPrefix(strings.ToLower(ext), ".")
	}
}

// buildReviewPrompt constructs the system and user prompts for one file.
func buildReviewPrompt(file models.ReviewableFile) (system string, user string) {
	system = `You are a strict, expert code reviewer gating a git commit. Review the single source file provided and return ONLY a JSON object with these fields:
- "score": integer 0-100, the overall code quality score for the file
- "issues": array of objects, one per problem found, each with:
  - "severity": one of "high", "medium", "low"
  - "category": one of "security", "performance", "quality", "type_safety", "error_handling"
  - "line": 1-based line number the problem is on (omit if not tied to a line)
  - "description": what is wrong and why it matters
  - "suggestion": a concrete fix

Review for:
1. Clean code: naming, structure, duplication, documentation
2. Security: input validation, sensitive data handling, common vulnerabilities
3. Performance: algorithmic complexity, memory use
4. Type safety: correct type usage, annotations, validation
5. Error handling: appropriate handling, descriptive messages, logging

Rules:
- Be concise and actionable; every issue must include a concrete suggestion
- The score reflects the whole file; it may be below 100 even with no itemized issues
- If there are no issues, return {"score": <n>, "issues": []}
- Return valid JSON only, no markdown fencing or explanation`

	var sb strings.Builder
	sb.WriteString("Language: ")
	sb.WriteString(languageTag(file.Extension))
	sb.WriteString("\nFile: ")
	sb.WriteString(file.Path)
	sb.WriteString("\n\n")
	sb.WriteString(file.Content)
	user = sb.String()
	return
}

// Review sends one file to the model and returns the raw textual response
// verbatim. Parsing is the verdict package's job; this is only the network
// boundary.
func (c *Client) Review(ctx context.Context, file models.ReviewableFile) (string, error) {
	systemPrompt, userPrompt := buildReviewPrompt(file)

	msg, err := c.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 4096,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		return "", &ServiceError{Path: file.Path, Err: err}
	}

	var text string
	for _, block := range msg.Content {
		if block.Type == "text" {
			text = block.Text
			break
		}
	}
	if text == "" {
		return "", &ServiceError{Path: file.Path, Err: fmt.Errorf("no text content in API response")}
	}
	return text, nil
}
