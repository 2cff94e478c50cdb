package ui

import (
	"encoding/base64"
	"fmt"
	"os"
	"regexp"
	"strings"
)

func overlay(base, overlay string) string {
	// Draw overlay on top of base by replacing lines where overlay has content.
	bLines := strings.Split(base, "\n")
	oLines := strings.Split(overlay, "\n")
	maxLen := len(bLines)
	if len(oLines) > maxLen {
		maxLen = len(oLines)
	}
	for len(bLines) < maxLen {
		bLines = append(bLines, "")
	}
	for len(oLines) < maxLen {
		oLines = append(oLines, "")
	}
	out := make([]string, maxLen)
	for i := 0; i < maxLen; i++ {
		// whitespace-only overlay lines are transparent
		if strings.TrimSpace(oLines[i]) != "" {
			out[i] = oLines[i]
		} else {
			out[i] = bLines[i]
		}
	}
	return strings.Join(out, "\n")
}

// copyToClipboard tries to copy text using OSC52 (works in many terminals).
func copyToClipboard(s string) {
	s = stripANSI(s)
	enc := base64.StdEncoding.EncodeToString([]byte(s))
	payload := fmt.Sprintf("\x1b]52;c;%s\x07", enc)
	// Write to /dev/tty to avoid clobbering the program's stdout buffer
	if f, err := os.OpenFile("/dev/tty", os.O_WRONLY, 0); err == nil {
		defer f.Close()
		_, _ = f.WriteString(payload)
		return
	}
	fmt.Fprint(os.Stdout, payload)
}

var ansiRE = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]`)

func stripANSI(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}

func runeLen(s string) int { return len([]rune(s)) }

func padRight(s string, w int) string {
	rs := []rune(s)
	if len(rs) >= w {
		return s
	}
	return s + strings.Repeat(" ", w-len(rs))
}

func truncateRunes(s string, w int) string {
	rs := []rune(s)
	if len(rs) <= w {
		return s
	}
	if w <= 0 {
		return ""
	}
	if w == 1 {
		return string(rs[:1])
	}
	return string(rs[:w-1]) + "…"
}
