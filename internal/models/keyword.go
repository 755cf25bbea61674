package models

import "strings"

// MaxKeywordLength matches the server's title column width.
const MaxKeywordLength = 255

// NormalizeKeyword trims surrounding whitespace. An empty result means the
// submission should be ignored.
func NormalizeKeyword(text string) string {
	return strings.TrimSpace(text)
}

// ValidateKeyword checks a keyword before it is sent to the server.
func ValidateKeyword(text string) error {
	kw := NormalizeKeyword(text)
	if kw == "" {
		return ErrEmptyKeyword
	}

	if len(kw) > MaxKeywordLength {
		return ErrFieldTooLong("keyword", MaxKeywordLength)
	}

	return nil
}
