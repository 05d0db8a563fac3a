package model

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var labelSeparators = regexp.MustCompile(`[_\-.\s]+`)

// DefaultLabeler turns a widget identifier such as "first_name" or
// "submitButton" into a display label ("First Name", "Submit Button").
// Non-ASCII identifiers are kept as written.
func DefaultLabeler(id string) string {
	if id == "" {
		return ""
	}
	var words []string
	for _, chunk := range labelSeparators.Split(id, -1) {
		for _, word := range splitCamelWords(chunk) {
			words = append(words, capitalise(word))
		}
	}
	return strings.Join(words, " ")
}

func splitCamelWords(chunk string) []string {
	if chunk == "" {
		return nil
	}
	var (
		words []string
		start int
		prev  rune
	)
	for idx, r := range chunk {
		if idx > 0 && wordBoundary(prev, r) {
			words = append(words, chunk[start:idx])
			start = idx
		}
		prev = r
	}
	return append(words, chunk[start:])
}

func wordBoundary(prev, next rune) bool {
	switch {
	case unicode.IsLower(prev) && unicode.IsUpper(next):
		return true
	case unicode.IsLetter(prev) && unicode.IsDigit(next):
		return true
	case unicode.IsDigit(prev) && unicode.IsLetter(next):
		return true
	}
	return false
}

func capitalise(word string) string {
	first, size := utf8.DecodeRuneInString(word)
	if first == utf8.RuneError {
		return word
	}
	return string(unicode.ToUpper(first)) + strings.ToLower(word[size:])
}
