package translate

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitChunksMergesParagraphs(t *testing.T) {
	text := "First paragraph.\n\nSecond paragraph.\n\n\n\nThird."

	chunks := SplitChunks(text, 1500)

	if len(chunks) != 1 {
		t.Fatalf("Expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != "First paragraph.\n\nSecond paragraph.\n\nThird." {
		t.Errorf("Unexpected chunk %q", chunks[0])
	}
}

func TestSplitChunksFallsBackToSentences(t *testing.T) {
	sentence := strings.Repeat("word ", 19) + "end."
	paragraph := strings.Repeat(sentence+" ", 30)

	chunks := SplitChunks(paragraph, 500)

	if len(chunks) < 2 {
		t.Fatalf("Expected several chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if utf8.RuneCountInString(chunk) > 500 {
			t.Errorf("Chunk %d exceeds limit: %d", i, utf8.RuneCountInString(chunk))
		}
		if !strings.HasSuffix(chunk, "end.") {
			t.Errorf("Chunk %d should end on a sentence boundary, got %q", i, chunk[len(chunk)-10:])
		}
	}
}

func TestSplitChunksHardSplitsAtLastSpace(t *testing.T) {
	text := strings.Repeat("abcd ", 100)

	chunks := SplitChunks(text, 48)

	for i, chunk := range chunks {
		if utf8.RuneCountInString(chunk) > 48 {
			t.Errorf("Chunk %d exceeds limit: %d", i, utf8.RuneCountInString(chunk))
		}
		for _, word := range strings.Fields(chunk) {
			if word != "abcd" {
				t.Errorf("Chunk %d split a word: %q", i, word)
			}
		}
	}
	if strings.Join(strings.Fields(strings.Join(chunks, " ")), " ") != strings.TrimSpace(text) {
		t.Error("Expected chunks to reproduce the text")
	}
}

func TestSplitChunksHardSplitsWithoutSpaces(t *testing.T) {
	text := strings.Repeat("가", 1000)

	chunks := SplitChunks(text, 300)

	if len(chunks) != 4 {
		t.Fatalf("Expected 4 chunks, got %d", len(chunks))
	}
	if utf8.RuneCountInString(chunks[0]) != 300 || utf8.RuneCountInString(chunks[3]) != 100 {
		t.Errorf("Unexpected chunk sizes %d and %d", utf8.RuneCountInString(chunks[0]), utf8.RuneCountInString(chunks[3]))
	}
	if strings.Join(chunks, "") != text {
		t.Error("Expected exact boundary cuts to reproduce the text")
	}
}

func TestSplitSentences(t *testing.T) {
	got := splitSentences("One. Two! Three? v1.2 stays whole.")
	expected := []string{"One.", "Two!", "Three?", "v1.2 stays whole."}

	if len(got) != len(expected) {
		t.Fatalf("Expected %d sentences, got %d: %v", len(expected), len(got), got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("Sentence %d: expected %q, got %q", i, expected[i], got[i])
		}
	}
}
