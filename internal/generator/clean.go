package generator

import (
	"regexp"
	"strings"
)

var fencePattern = regexp.MustCompile("(?s)^```[\\w-]*\\n(.*?)\\n?```$")

// Clean normalizes a raw model response into a candidate commit message:
// line endings are unified, surrounding whitespace is trimmed, and a
// wrapping code fence or pair of quotes is removed.
func Clean(raw string) string {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = strings.TrimSpace(text)

	if m := fencePattern.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}

	for _, quote := range []string{`"`, `'`, "`"} {
		if len(text) >= 2 && strings.HasPrefix(text, quote) && strings.HasSuffix(text, quote) {
			inner := text[1 : len(text)-1]
			if !strings.Contains(inner, quote) {
				text = strings.TrimSpace(inner)
			}
			break
		}
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
