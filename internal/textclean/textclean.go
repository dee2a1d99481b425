// Package textclean normalizes raw transcription and translation text.
package textclean

import (
	"regexp"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Clean collapses whitespace runs to single spaces, trims the ends, and
// removes the stray space speech services emit before closing punctuation
// ("mot ." becomes "mot."). Case and accents are left untouched. Clean is
// pure and idempotent.
func Clean(text string) string {
	text = strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))

	for _, p := range []string{".", ",", "?", "!"} {
		text = strings.ReplaceAll(text, " "+p, p)
	}

	return text
}
