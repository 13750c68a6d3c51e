package translate

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var paragraphBreak = regexp.MustCompile(`\n\s*\n`)

// chunker greedily packs units into chunks no longer than size runes.
type chunker struct {
	size   int
	chunks []string
	cur    strings.Builder
}

func (c *chunker) add(unit, sep string) {
	if unit == "" {
		return
	}

	if c.cur.Len() == 0 {
		c.cur.WriteString(unit)
		return
	}

	if utf8.RuneCountInString(c.cur.String())+utf8.RuneCountInString(sep)+utf8.RuneCountInString(unit) <= c.size {
		c.cur.WriteString(sep)
		c.cur.WriteString(unit)
		return
	}

	c.flush()
	c.cur.WriteString(unit)
}

func (c *chunker) flush() {
	if c.cur.Len() > 0 {
		c.chunks = append(c.chunks, c.cur.String())
		c.cur.Reset()
	}
}

// SplitChunks splits text into chunks of at most size runes. Paragraphs are
// kept whole when they fit, otherwise they are split into sentences, and
// sentences that still do not fit are cut at the last space before the limit.
func SplitChunks(text string, size int) []string {
	c := &chunker{size: size}

	for _, paragraph := range paragraphBreak.Split(text, -1) {
		paragraph = strings.TrimSpace(paragraph)
		if paragraph == "" {
			continue
		}

		if utf8.RuneCountInString(paragraph) <= size {
			c.add(paragraph, "\n\n")
			continue
		}

		sep := "\n\n"
		for _, sentence := range splitSentences(paragraph) {
			if utf8.RuneCountInString(sentence) <= size {
				c.add(sentence, sep)
			} else {
				for _, piece := range hardSplit(sentence, size) {
					c.add(piece, sep)
					sep = " "
				}
			}
			sep = " "
		}
	}

	c.flush()
	return c.chunks
}

// splitSentences cuts after '.', '!' or '?' when followed by whitespace.
func splitSentences(text string) []string {
	runes := []rune(text)

	var sentences []string
	start := 0
	for i := 0; i < len(runes)-1; i++ {
		if !isSentenceEnd(runes[i]) || !unicode.IsSpace(runes[i+1]) {
			continue
		}
		if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
			sentences = append(sentences, s)
		}
		start = i + 1
	}

	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// hardSplit cuts text into pieces of at most size runes, preferring the last
// space before each boundary.
func hardSplit(text string, size int) []string {
	runes := []rune(text)

	var pieces []string
	for len(runes) > size {
		cut := lastSpace(runes[:size+1])
		next := cut + 1
		if cut <= 0 {
			cut, next = size, size
		}

		if piece := strings.TrimSpace(string(runes[:cut])); piece != "" {
			pieces = append(pieces, piece)
		}
		runes = runes[next:]
	}

	if piece := strings.TrimSpace(string(runes)); piece != "" {
		pieces = append(pieces, piece)
	}

	return pieces
}

func lastSpace(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if unicode.IsSpace(runes[i]) {
			return i
		}
	}
	return -1
}
