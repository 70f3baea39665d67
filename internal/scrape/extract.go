package scrape

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/unicode/norm"
)

// ExtractText pulls the title and article text out of an HTML document.
//
// Paragraph text is preferred, one paragraph per line. When the paragraphs
// hold fewer than minChars characters (after trimming) the whole body text
// is used instead.
func ExtractText(r io.Reader, minChars int) (title, text string, err error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", "", fmt.Errorf("parse html: %w", err)
	}

	title = strings.TrimSpace(doc.Find("title").First().Text())

	doc.Find("script, style, noscript").Remove()

	var sb strings.Builder
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		sb.WriteString(s.Text())
		sb.WriteString("\n")
	})
	text = sb.String()

	if utf8.RuneCountInString(strings.TrimSpace(text)) < minChars {
		text = doc.Find("body").Text()
	}

	return norm.NFC.String(title), norm.NFC.String(text), nil
}
