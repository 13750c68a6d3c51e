package news

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

const blockSelector = "p, li, h1, h2, h3, h4, blockquote, pre"

// htmlToText strips markup and collapses whitespace, keeping paragraph breaks
// as blank lines so long bodies can be chunked on them later.
func htmlToText(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	if !strings.Contains(raw, "<") {
		return cleanText(raw)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return cleanText(raw)
	}

	doc.Find("script, style, noscript").Remove()

	var paragraphs []string
	doc.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		// The outermost block already carries the text of nested ones.
		if s.ParentsFiltered(blockSelector).Length() > 0 {
			return
		}
		if text := cleanText(s.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	if len(paragraphs) == 0 {
		return cleanText(doc.Text())
	}

	return strings.Join(paragraphs, "\n\n")
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}

// firstImage returns the src of the first <img> in an HTML fragment.
func firstImage(raw string) string {
	if !strings.Contains(raw, "<img") {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return ""
	}

	src, _ := doc.Find("img[src]").First().Attr("src")
	return strings.TrimSpace(src)
}

// normalizeLanguage maps feed language values such as "en-US" to a base code.
func normalizeLanguage(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}

	tag, err := language.Parse(value)
	if err != nil {
		return strings.ToLower(value)
	}

	base, _ := tag.Base()
	return base.String()
}
