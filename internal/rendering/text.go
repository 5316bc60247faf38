package rendering

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PlainText extracts readable text from rendered resume HTML, one line per
// visible block.
func PlainText(html []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return "", &RenderError{Format: "text", Message: "failed to parse HTML", Cause: err}
	}

	doc.Find("head, style, script, noscript").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("h2").Each(func(_ int, s *goquery.Selection) {
		s.SetText(strings.ToUpper(strings.TrimSpace(s.Text())))
	})
	doc.Find("[title]").Each(func(_ int, s *goquery.Selection) {
		if title, ok := s.Attr("title"); ok && strings.TrimSpace(s.Text()) == "" {
			s.SetText(" (" + title + ")")
		}
	})

	return cleanWhitespace(doc.Find("body").Text()), nil
}

// cleanWhitespace trims each line and drops empty ones.
func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
