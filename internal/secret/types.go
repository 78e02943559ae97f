// Package secret resolves credential values from layered sources, in
// order: a secrets-mount file, an alternate secrets path, then a process
// environment variable.
package secret

import "strings"

// placeholderPrefixes are sentinel values treated as absent.
var placeholderPrefixes = []string{"your_", "changeme", "replace_me"}

// isPlaceholder reports whether value is empty or an obvious placeholder
// sentinel rather than a real credential.
func isPlaceholder(value string) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return true
	}
	lower := strings.ToLower(trimmed)
	for _, prefix := range placeholderPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	if strings.HasSuffix(lower, "_here") {
		return true
	}
	return false
}
