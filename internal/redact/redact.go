package redact

import "strings"

// LastN returns the last n bytes of s, or s itself when shorter.
func LastN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

// Token masks an opaque payment token for logs, keeping only the last four
// characters. Tokens of up to eight characters are fully masked.
func Token(token string) string {
	token = strings.TrimSpace(token)
	n := len(token)
	if n == 0 {
		return ""
	}
	if n <= 8 {
		return strings.Repeat("*", n)
	}
	return strings.Repeat("*", 8) + LastN(token, 4)
}
