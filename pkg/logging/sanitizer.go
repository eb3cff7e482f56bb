package logging

import (
	"regexp"
)

// RedactedText is the replacement text for sensitive data.
const RedactedText = "[REDACTED]"

var (
	// Matches api_key=xxx, apikey=xxx, key=xxx query or form parameters.
	apiKeyPattern = regexp.MustCompile(`(?i)(api[_-]?key|apikey|key)=[A-Za-z0-9-_]{8,}`)

	// Matches bearer tokens in error text bubbled up from HTTP clients.
	bearerPattern = regexp.MustCompile(`(?i)Bearer\s+[A-Za-z0-9-_.]+`)

	// Matches user:pass@host credentials embedded in URLs.
	urlCredsPattern = regexp.MustCompile(`://[^:/\s]+:[^@/\s]+@[^/\s]+`)

	// Matches password fields in JSON-RPC request dumps.
	passwordFieldPattern = regexp.MustCompile(`(?i)"(password|api_key)"\s*:\s*"[^"]*"`)
)

// SanitizeURL removes embedded credentials and key parameters from a URL
// before it reaches a log line.
func SanitizeURL(url string) string {
	if url == "" {
		return ""
	}
	sanitized := urlCredsPattern.ReplaceAllString(url, "://"+RedactedText+"@"+RedactedText)
	return apiKeyPattern.ReplaceAllString(sanitized, "${1}="+RedactedText)
}

// SanitizeError sanitizes error messages that might echo credentials.
// CRM and classifier errors can quote the request that failed.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	sanitized := err.Error()
	sanitized = passwordFieldPattern.ReplaceAllString(sanitized, `"${1}":"`+RedactedText+`"`)
	sanitized = bearerPattern.ReplaceAllString(sanitized, "Bearer "+RedactedText)
	sanitized = apiKeyPattern.ReplaceAllString(sanitized, "${1}="+RedactedText)
	sanitized = urlCredsPattern.ReplaceAllString(sanitized, "://"+RedactedText+"@"+RedactedText)
	return sanitized
}

// TruncateString truncates a string to maxLen and adds ellipsis if needed.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
