package domain

import (
	"regexp"
	"strings"
)

var (
	repeatedSpaces   = regexp.MustCompile(`[ \t]{2,}`)
	repeatedNewlines = regexp.MustCompile(`\n{3,}`)
	controlRunes     = regexp.MustCompile("[\x00-\x08\x0b\x0c\x0e-\x1f]")
)

// CleanText normalizes whitespace and strips conversion artifacts from chunk
// text before embedding. The cleaning is conservative: it never changes word
// order or drops printable content.
func CleanText(text string) string {
	cleaned := strings.ReplaceAll(text, "\r\n", "\n")
	cleaned = strings.ReplaceAll(cleaned, "\r", "\n")
	cleaned = controlRunes.ReplaceAllString(cleaned, "")
	cleaned = repeatedSpaces.ReplaceAllString(cleaned, " ")
	cleaned = repeatedNewlines.ReplaceAllString(cleaned, "\n\n")

	lines := strings.Split(cleaned, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
