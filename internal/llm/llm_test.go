package llm

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joescharf/reviewgate/internal/models"
)

func TestBuildReviewPrompt(t *testing.T) {
	t.Run("system prompt specifies the verdict contract", func(t *testing.T) {
		system, _ := buildReviewPrompt(models.ReviewableFile{Path: "a.py", Extension: ".py"})

		assert.Contains(t, system, `"score"`)
		assert.Contains(t, system, `"issues"`)
		assert.Contains(t, system, `"severity"`)
		assert.Contains(t, system, `"category"`)
		assert.Contains(t, system, `"line"`)
		assert.Contains(t, system, `"description"`)
		assert.Contains(t, system, `"suggestion"`)
		assert.Contains(t, system, "0-100")
	})

	t.Run("system prompt covers all review dimensions", func(t *testing.T) {
		system, _ := buildReviewPrompt(models.ReviewableFile{Path: "a.py", Extension: ".py"})

		assert.Contains(t, system, `"security"`)
		assert.Contains(t, system, `"performance"`)
		assert.Contains(t, system, `"quality"`)
		assert.Contains(t, system, `"type_safety"`)
		assert.Contains(t, system, `"error_handling"`)
		assert.Contains(t, system, `"high"`)
		assert.Contains(t, system, `"medium"`)
		assert.Contains(t, system, `"low"`)
	})

	t.Run("user prompt embeds path, language, and full content", func(t *testing.T) {
		content := "def f():\n    return 1\n" + strings.Repeat("# pad\n", 500)
		_, user := buildReviewPrompt(models.ReviewableFile{
			Path:      "lib/calc.py",
			Extension: ".py",
			Content:   content,
		})

		assert.Contains(t, user, "Language: Python")
		assert.Contains(t, user, "File: lib/calc.py")
		assert.Contains(t, user, content)
	})
}

func TestLanguageTag(t *testing.T) {
	assert.Equal(t, "Python", languageTag(".py"))
	assert.Equal(t, "TypeScript", languageTag(".ts"))
	assert.Equal(t, "JavaScript (ES module)", languageTag(".mjs"))
	assert.Equal(t, "rb", languageTag(".RB"))
}

func TestServiceError(t *testing.T) {
	cause := errors.New("connection refused")
	err := &ServiceError{Path: "a.py", Err: cause}

	assert.Contains(t, err.Error(), "a.py")
	assert.Contains(t, err.Error(), "connection refused")
	assert.ErrorIs(t, err, cause)
}
