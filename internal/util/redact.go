package util

import (
	"net/url"
	"regexp"
	"sort"
	"strings"
)

var (
	reEmail = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	reToken = regexp.MustCompile(`(?i)(?:api|secret|token|key|password)[=:]\s*([^\s&,]{1,})`)
)

const redacted = "[redacted]"

func RedactPII(s string) string {
	s = reEmail.ReplaceAllString(s, "[redacted-email]")
	s = reToken.ReplaceAllStringFunc(s, func(m string) string {
		i := strings.IndexAny(m, "=:")
		return m[:i+1] + redacted
	})
	return s
}

// RedactForm renders form values for logging with secret-looking fields masked.
// Keys are sorted so the output is stable.
func RedactForm(v url.Values) string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		val := strings.Join(v[k], ",")
		if secretKey(k) && val != "" {
			val = redacted
		}
		parts = append(parts, k+"="+val)
	}
	return strings.Join(parts, " ")
}

// Mask hides a secret for display, keeping its length readable.
func Mask(s string) string {
	if s == "" {
		return ""
	}
	n := len([]rune(s))
	if n > 8 {
		n = 8
	}
	return strings.Repeat("•", n)
}

func secretKey(k string) bool {
	k = strings.ToLower(k)
	return strings.Contains(k, "password") || strings.Contains(k, "secret") || strings.Contains(k, "token")
}
