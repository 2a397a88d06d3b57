package ranker

import (
	"strings"
	"unicode"
)

// Similarity is the Sørensen–Dice coefficient over character bigrams of a
// and b, ignoring case and whitespace. It returns a value in [0, 1].
func Similarity(a, b string) float64 {
	ra, rb := squash(a), squash(b)
	if string(ra) == string(rb) {
		if len(ra) == 0 {
			return 0
		}
		return 1
	}
	if len(ra) < 2 || len(rb) < 2 {
		return 0
	}

	type bigram [2]rune
	counts := make(map[bigram]int, len(ra)-1)
	for i := 0; i < len(ra)-1; i++ {
		counts[bigram{ra[i], ra[i+1]}]++
	}

	shared := 0
	for i := 0; i < len(rb)-1; i++ {
		bg := bigram{rb[i], rb[i+1]}
		if counts[bg] > 0 {
			counts[bg]--
			shared++
		}
	}
	return 2 * float64(shared) / float64(len(ra)+len(rb)-2)
}

func squash(s string) []rune {
	out := make([]rune, 0, len(s))
	for _, r := range strings.ToLower(s) {
		if !unicode.IsSpace(r) {
			out = append(out, r)
		}
	}
	return out
}
