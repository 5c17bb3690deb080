package bot

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	maxCityRunes = 64
	maxCityWords = 5
)

// LooksLikeCity decides whether freeform chat text is plausibly a place name
// worth a provider call.
func LooksLikeCity(text string) bool {
	text = strings.TrimSpace(text)
	n := utf8.RuneCountInString(text)
	if n == 0 || n > maxCityRunes {
		return false
	}
	if len(strings.Fields(text)) > maxCityWords {
		return false
	}

	hasLetter := false
	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.Is(unicode.Mn, r):
			hasLetter = hasLetter || unicode.IsLetter(r)
		case r == ' ', r == '-', r == '.', r == ',',
			r == '\'', r == '’', r == 'ʻ', r == 'ʼ':
		default:
			return false
		}
	}
	return hasLetter
}
