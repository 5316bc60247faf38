package generation

import "strings"

// MaxWords is the word limit applied to generated text.
const MaxWords = 50

// Ellipsis is appended when text is truncated.
const Ellipsis = "..."

// CleanText trims the text, collapses every run of whitespace (including
// newlines) into a single space, and truncates to MaxWords words, appending
// Ellipsis when words were dropped. Text already within the limit is returned
// unchanged apart from whitespace normalization, so the function is idempotent
// on short input.
func CleanText(text string) string {
	words := strings.Fields(text)
	if len(words) <= MaxWords {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:MaxWords], " ") + Ellipsis
}
