package generation

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/phrazzld/promptgen-api/internal/domain"
)

// FallbackTitle is the title of a result built from unparseable model output.
const FallbackTitle = "Untitled"

// Extract parses rawText as a JSON object with title, prompt and category
// fields. When rawText is not such an object, the whole text becomes the
// prompt of a fallback result in fallbackCategory. Extract never fails.
func Extract(rawText, fallbackCategory string) domain.GenerationResult {
	result, _ := ExtractWithOutcome(rawText, fallbackCategory)
	return result
}

// ExtractWithOutcome is Extract that also reports whether the fallback
// result was used.
func ExtractWithOutcome(rawText, fallbackCategory string) (domain.GenerationResult, bool) {
	candidate := stripCodeFence(strings.TrimSpace(rawText))

	if !gjson.Valid(candidate) {
		return fallbackResult(rawText, fallbackCategory), true
	}

	parsed := gjson.Parse(candidate)
	if !parsed.IsObject() {
		return fallbackResult(rawText, fallbackCategory), true
	}

	return domain.GenerationResult{
		Title:    parsed.Get("title").String(),
		Prompt:   parsed.Get("prompt").String(),
		Category: parsed.Get("category").String(),
	}, false
}

func fallbackResult(rawText, fallbackCategory string) domain.GenerationResult {
	return domain.GenerationResult{
		Title:    FallbackTitle,
		Prompt:   rawText,
		Category: fallbackCategory,
	}
}

// stripCodeFence removes a single Markdown code fence wrapping s, such as
// "```json\n{...}\n```". Text without a complete fence is returned unchanged.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}

	body := strings.TrimSuffix(s[3:], "```")
	newline := strings.IndexByte(body, '\n')
	if newline < 0 {
		return s
	}

	// Drop the info string ("json") on the opening fence line.
	return strings.TrimSpace(body[newline+1:])
}
