package words

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball"
	"github.com/kljensen/snowball/english"
)

func isASCII(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// Keywords reduces a search title to unique lowercase keywords in order of
// appearance. English words are stemmed and stop words dropped, anything
// else (romaji, kana, numbers) is kept as is.
func Keywords(title string) []string {
	raw := strings.FieldsFunc(title, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := make([]string, 0, len(raw))
	seen := make(map[string]bool, len(raw))

	for _, word := range raw {
		w := strings.ToLower(word)

		if !isDigits(w) && isASCII(w) {
			// "the", "of", "a" в названиях только шум
			if english.IsStopWord(w) {
				continue
			}
			if stem, err := snowball.Stem(w, "english", true); err == nil && stem != "" {
				w = stem
			}
		}

		if !seen[w] {
			out = append(out, w)
			seen[w] = true
		}
	}
	return out
}
