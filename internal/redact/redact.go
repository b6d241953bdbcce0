// Package redact strips credentials, endpoints, and other sensitive fragments
// from strings before they are logged or returned to clients. Gateway error
// descriptions reach the client verbatim, so every one of them passes
// through String first.
package redact

import (
	"regexp"
)

// Placeholders substituted for redacted fragments.
const (
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedURLPlaceholder        = "[REDACTED_URL]"
	RedactedEmailPlaceholder      = "[REDACTED_EMAIL]"
	RedactedPathPlaceholder       = "[REDACTED_PATH]"
	RedactedStackPlaceholder      = "[STACK_TRACE_REDACTED]"
)

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// rules are applied in order; earlier rules see the raw input.
var rules = []rule{
	// Stack traces swallow the rest of the message.
	{regexp.MustCompile(`(?:goroutine \d+|panic:)[\s\S]*`), RedactedStackPlaceholder},

	// userinfo in database connection strings
	{regexp.MustCompile(`(?i)\b(?:postgres(?:ql)?|mysql|mongodb)://[^@\s]+@`), RedactedCredentialPlaceholder},

	// Provider endpoints, including any query string carrying a key.
	{regexp.MustCompile(`\bhttps?://[^\s"']+`), RedactedURLPlaceholder},

	{regexp.MustCompile(`(?i)\bbearer\s+[A-Za-z0-9_\-.~+/=]+`), RedactedKeyPlaceholder},

	// Anthropic, OpenAI and Google API keys.
	{regexp.MustCompile(`\b(?:sk-(?:ant-)?[A-Za-z0-9_\-]{16,}|AIza[0-9A-Za-z_\-]{30,})`), RedactedKeyPlaceholder},

	{regexp.MustCompile(`(?i)\b(api[_-]?key|key|token|secret|password)=[^&\s"']+`), "${1}=" + RedactedKeyPlaceholder},

	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), RedactedEmailPlaceholder},

	{regexp.MustCompile(`(?:/[\w.-]+){2,}`), RedactedPathPlaceholder},
}

// String redacts sensitive information from the input string
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.replacement)
	}

	return result
}

// Error redacts sensitive information from an error's Error() output
func Error(err error) string {
	if err == nil {
		return ""
	}

	return String(err.Error())
}
