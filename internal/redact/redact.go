// Package redact scrubs sensitive information from strings before they are
// logged or returned in error responses: credentials, provider API keys,
// bearer tokens, connection strings, file paths, email addresses and SQL.
package redact

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Placeholders substituted for redacted content.
const (
	RedactionPlaceholder          = "[REDACTED]"
	RedactedPathPlaceholder       = "[REDACTED_PATH]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedJWTPlaceholder        = "[REDACTED_JWT]"
	RedactedEmailPlaceholder      = "[REDACTED_EMAIL]"
	RedactedSQLPlaceholder        = "[REDACTED_SQL]"
)

// maxValueLength bounds the rendered size of redacted values.
const maxValueLength = 2048

type rule struct {
	pattern     *regexp.Regexp
	placeholder string
}

// rules run in order; earlier rules win when patterns overlap. Labelled
// secrets keep their label so the message still says what was removed.
var rules = []rule{
	{regexp.MustCompile(`(?i)(postgres|postgresql|mysql|redis|mongodb)://[^@\s]+@`), RedactedCredentialPlaceholder},
	{regexp.MustCompile(`(?i)(password|passwd|pwd)([=:\s]?['"]?)[^'"&\s]{3,}`), RedactedCredentialPlaceholder},
	{regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9_\-.~+/=]{8,}`), "Bearer " + RedactedKeyPlaceholder},
	{regexp.MustCompile(`\bsk-(?:or-)?(?:v1-)?[A-Za-z0-9_\-]{16,}`), RedactedKeyPlaceholder},
	{regexp.MustCompile(`\bAIza[0-9A-Za-z_\-]{30,}`), RedactedKeyPlaceholder},
	{regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`), RedactedJWTPlaceholder},
	{regexp.MustCompile(`(?i)(api[_-]?key|token|secret|authorization)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`), "$1$2" + RedactedKeyPlaceholder},
	{regexp.MustCompile(`(?:^|\s)(/[\w.-]+){2,}`), " " + RedactedPathPlaceholder},
	{regexp.MustCompile(`[A-Za-z]:\\[^\\]+(\\[^\\]+)+`), RedactedPathPlaceholder},
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), RedactedEmailPlaceholder},
	{regexp.MustCompile(`(?i)\b(SELECT|INSERT|UPDATE|DELETE)\b[\s\w,*()."]+\b(FROM|INTO|SET)\b[\s\w,*()='".$]*`), RedactedSQLPlaceholder},
}

// String redacts sensitive patterns from input.
func String(input string) string {
	if input == "" {
		return input
	}
	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.placeholder)
	}
	return strings.TrimSpace(result)
}

// Error redacts an error's message.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}

// Secrets replaces every occurrence of the given literal secrets, then applies
// the pattern rules. Empty secrets are ignored.
func Secrets(input string, secrets ...string) string {
	for _, s := range secrets {
		if strings.TrimSpace(s) == "" {
			continue
		}
		input = strings.ReplaceAll(input, s, RedactedKeyPlaceholder)
	}
	return String(input)
}

// Value renders v as compact JSON, truncated, with secrets and sensitive
// patterns removed. It is meant for structured diagnostic payloads.
func Value(v any, secrets ...string) string {
	if v == nil {
		return ""
	}
	var rendered string
	switch t := v.(type) {
	case string:
		rendered = t
	case error:
		rendered = t.Error()
	default:
		b, err := json.Marshal(v)
		if err != nil {
			rendered = fmt.Sprintf("%v", v)
		} else {
			rendered = string(b)
		}
	}
	rendered = Secrets(rendered, secrets...)
	if len(rendered) > maxValueLength {
		rendered = rendered[:maxValueLength] + "...(truncated)"
	}
	return rendered
}
