// Package redact removes sensitive information from strings before they are
// logged, stored on a task record or returned in an error response. Upstream
// LLM client errors can echo request URLs carrying the API key, and file
// system errors name absolute paths of the output directory.
package redact

import "regexp"

// Redaction placeholders
const (
	RedactedPathPlaceholder  = "[REDACTED_PATH]"
	RedactedKeyPlaceholder   = "[REDACTED_KEY]"
	RedactedEmailPlaceholder = "[REDACTED_EMAIL]"
	RedactedStackPlaceholder = "[STACK_TRACE_REDACTED]"
)

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

var (
	stackTraceRule = rule{
		pattern:     regexp.MustCompile(`(?:goroutine \d+|panic:)[\s\S]*?(\n\t.*)+`),
		replacement: RedactedStackPlaceholder,
	}
	googleKeyRule = rule{
		pattern:     regexp.MustCompile(`AIza[0-9A-Za-z_\-]{35}`),
		replacement: RedactedKeyPlaceholder,
	}
	queryKeyRule = rule{
		pattern:     regexp.MustCompile(`([?&](?:key|api_key|token)=)[^&\s"']+`),
		replacement: "${1}" + RedactedKeyPlaceholder,
	}
	bearerRule = rule{
		pattern:     regexp.MustCompile(`(?i)(bearer\s+)[A-Za-z0-9._~+/\-]+=*`),
		replacement: "${1}" + RedactedKeyPlaceholder,
	}
	credentialRule = rule{
		pattern: regexp.MustCompile(
			`(?i)(api[_-]?key|token|secret|key|access|auth)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`,
		),
		replacement: RedactedKeyPlaceholder,
	}
	unixPathRule = rule{
		pattern:     regexp.MustCompile(`(/[\w.-]+){2,}`),
		replacement: RedactedPathPlaceholder,
	}
	winPathRule = rule{
		pattern:     regexp.MustCompile(`[A-Za-z]:\\[^\\]+(\\[^\\]+)+`),
		replacement: RedactedPathPlaceholder,
	}
	emailRule = rule{
		pattern:     regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
		replacement: RedactedEmailPlaceholder,
	}
)

// logRules are applied in order; key patterns run before the path pattern so
// a key embedded in a URL is still recognised.
var logRules = []rule{
	stackTraceRule,
	googleKeyRule,
	queryKeyRule,
	bearerRule,
	credentialRule,
	unixPathRule,
	winPathRule,
	emailRule,
}

// messageRules only target concrete secrets and paths, leaving ordinary
// words in a failure message readable.
var messageRules = []rule{
	googleKeyRule,
	queryKeyRule,
	bearerRule,
	unixPathRule,
	winPathRule,
}

func apply(rules []rule, input string) string {
	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.replacement)
	}
	return result
}

// String redacts sensitive information from the input string
func String(input string) string {
	if input == "" {
		return input
	}

	return apply(logRules, input)
}

// Message redacts API keys, bearer tokens and file paths from a failure
// message kept on a task record.
func Message(input string) string {
	if input == "" {
		return input
	}
	return apply(messageRules, input)
}

// Error redacts sensitive information from an error's Error() output
func Error(err error) string {
	if err == nil {
		return ""
	}

	return String(err.Error())
}
