package validate

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	minQuoteLen = 5
	maxQuoteLen = 500
)

var (
	ErrEmpty      = errors.New("empty input")
	ErrTooShort   = errors.New("quote too short (min 5 chars)")
	ErrTooLong    = errors.New("quote too long (max 500 chars)")
	ErrLowQuality = errors.New("input doesn't appear to be a meaningful quote")
)

// Quote checks a raw input line and returns the trimmed quote text.
func Quote(input string) (string, error) {
	if strings.TrimSpace(input) == "" {
		return "", ErrEmpty
	}

	// Bounds count characters, not bytes, so CJK and accented quotes
	// measure at their visible length.
	cleaned := strings.TrimSpace(input)
	if utf8.RuneCountInString(cleaned) < minQuoteLen {
		return "", ErrTooShort
	}
	if utf8.RuneCountInString(cleaned) > maxQuoteLen {
		return "", ErrTooLong
	}
	if isLowQuality(cleaned) {
		return "", ErrLowQuality
	}

	return cleaned, nil
}

// isLowQuality flags inputs with almost no character variety, or trivially
// short plain-word runs like "hello there".
func isLowQuality(text string) bool {
	distinct := map[rune]bool{}
	for _, r := range text {
		distinct[r] = true
	}
	if len(distinct) < 5 {
		return true
	}

	if isAlphaSpace(text) && len(strings.Fields(text)) < 3 {
		return true
	}

	return false
}

func isAlphaSpace(text string) bool {
	for _, r := range text {
		if !unicode.IsLetter(r) && !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
