package learning

import "regexp"

// sensitivePatterns match content that must never be marked cacheable:
// credential-like tokens, government-id-like and payment-card-like
// numbers, private-key markers, and self-disclosed contact details.
var sensitivePatterns = []*regexp.Regexp{
	// API keys and bearer-style tokens.
	regexp.MustCompile(`\bsk-[A-Za-z0-9_-]{16,}`),
	regexp.MustCompile(`(?i)\b(api[_ ]?key|secret[_ ]?key|access[_ ]?token|bearer)\b[^\n]{0,20}[A-Za-z0-9_-]{16,}`),
	// US social security number shape.
	regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),
	// Payment card number shape, with optional separators.
	regexp.MustCompile(`\b(?:\d[ -]?){13,16}\b`),
	// PEM private key markers.
	regexp.MustCompile(`-----BEGIN [A-Z ]*PRIVATE KEY-----`),
	// Self-disclosed contact details.
	regexp.MustCompile(`(?i)\bmy (phone( number)?|email( address)?|home address|address) is\b`),
	regexp.MustCompile(`(?i)\b(password|passwd|pwd)\b[^\n]{0,10}(is|[:=])`),
}

// containsSensitive reports whether the text matches any sensitive
// content pattern.
func containsSensitive(text string) bool {
	for _, re := range sensitivePatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
