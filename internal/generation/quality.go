package generation

import (
	"regexp"
	"strings"
)

// MinQualityChars is the shortest generated text accepted by the quality gate.
const MinQualityChars = 60

var (
	selfReferencePattern = regexp.MustCompile(`(?i)\b(as an ai|i am an ai|i[’']m an ai|ai language model)\b`)
	preamblePattern      = regexp.MustCompile(`(?i)^\s*here([’']s| is| are)\b`)
)

// IsLowQualityGeneration reports whether generated text should be rejected:
// it is shorter than MinQualityChars, talks about being an AI, or opens with
// a throat-clearing "here's ..." preamble.
func IsLowQualityGeneration(text string) bool {
	trimmed := strings.TrimSpace(text)
	if len([]rune(trimmed)) < MinQualityChars {
		return true
	}
	if selfReferencePattern.MatchString(trimmed) {
		return true
	}
	return preamblePattern.MatchString(trimmed)
}
