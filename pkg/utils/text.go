// Package utils holds small helpers shared across the service: logger
// construction, log-snippet truncation and embedding vector math.
package utils

// Truncate caps s at maxLen bytes and appends "..." when trimmed. Used
// to keep recognizer stderr and response bodies short in logs and error
// messages. A non-positive maxLen disables truncation.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
