package news

import (
	"strings"
	"unicode/utf8"
)

const (
	MinAcceptableLength = 100
	MinValidLength      = 200
)

var restrictionPhrases = []string{
	"password protected",
	"please enter your password",
	"this content is password protected",
}

// IsAcceptable is the storage gate: bodies that are too short or look
// access-restricted are rejected.
func IsAcceptable(body, title string) bool {
	if utf8.RuneCountInString(body) < MinAcceptableLength {
		return false
	}

	lowered := strings.ToLower(body)
	for _, phrase := range restrictionPhrases {
		if strings.Contains(lowered, phrase) {
			return false
		}
	}

	return true
}

// IsValid reports whether the body is long enough to be shown as a complete article.
func IsValid(body string) bool {
	return utf8.RuneCountInString(body) >= MinValidLength
}
