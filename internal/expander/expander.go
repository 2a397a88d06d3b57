// Package expander turns a free-text role description into the set of terms
// used for retrieval, filtering and ranking.
package expander

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	minTermLen    = 3
	maxComboTerms = 3
)

var synonymIndex = buildSynonymIndex(synonymGroups)

func buildSynonymIndex(groups [][]string) map[string][]string {
	idx := make(map[string][]string)
	for _, g := range groups {
		for _, term := range g {
			for _, other := range g {
				if other != term {
					idx[term] = append(idx[term], other)
				}
			}
		}
	}
	return idx
}

var reverseTranslations = func() map[string][]string {
	rev := make(map[string][]string)
	// Sorted insertion keeps the reverse lists deterministic.
	keys := make([]string, 0, len(translations))
	for k := range translations {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := translations[k]
		rev[v] = append(rev[v], k)
	}
	return rev
}()

// Tokenize lowercases role, collapses intra-word hyphens, splits on every
// other non letter/digit rune and drops short tokens and stop-words. Order
// of first occurrence is kept.
func Tokenize(role string) []string {
	role = strings.ToLower(role)

	var b strings.Builder
	rs := []rune(role)
	for i, r := range rs {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '-' && i > 0 && i < len(rs)-1 && isAlnum(rs[i-1]) && isAlnum(rs[i+1]):
			// front-end -> frontend
		default:
			b.WriteRune(' ')
		}
	}

	seen := make(map[string]struct{})
	var out []string
	for _, tok := range strings.Fields(b.String()) {
		if utf8.RuneCountInString(tok) < minTermLen {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}

// ExtractTerms expands role into search terms. Original tokens come first,
// followed by spelling variants, synonyms, translations, related terms and
// pairwise combinations of the first three tokens. Additions shorter than
// three runes are dropped like short tokens. The result is
// deterministic and free of duplicates; an empty result means the role was
// made only of stop-words and should match everything.
func ExtractTerms(role string) []string {
	tokens := Tokenize(role)
	set := newOrderedSet(len(tokens) * 8)
	for _, t := range tokens {
		set.add(t)
	}

	for _, t := range tokens {
		set.add(spellingVariants(t)...)
		set.add(synonymIndex[t]...)
		set.add(translate(t)...)
		set.add(related[t]...)
	}

	head := tokens
	if len(head) > maxComboTerms {
		head = head[:maxComboTerms]
	}
	for i := 0; i < len(head); i++ {
		for j := i + 1; j < len(head); j++ {
			set.add(head[i] + " " + head[j])
		}
	}

	return set.items
}

func spellingVariants(term string) []string {
	var out []string
	if hyphenated, ok := compounds[term]; ok {
		out = append(out, hyphenated, strings.ReplaceAll(hyphenated, "-", " "))
	}
	out = append(out, pluralToggle(term))
	if _, ok := techTerms[term]; ok {
		out = append(out, term+" developer", term+" desenvolvedor")
	}
	return out
}

// pluralToggle returns the singular of a plural term or the plural of a
// singular one, covering the regular Portuguese and English forms.
func pluralToggle(term string) string {
	switch {
	case strings.HasSuffix(term, "ões"):
		return strings.TrimSuffix(term, "ões") + "ão"
	case strings.HasSuffix(term, "ão"):
		return strings.TrimSuffix(term, "ão") + "ões"
	case strings.HasSuffix(term, "res") || strings.HasSuffix(term, "zes"):
		return strings.TrimSuffix(term, "es")
	case strings.HasSuffix(term, "r") || strings.HasSuffix(term, "z"):
		return term + "es"
	case strings.HasSuffix(term, "ss"):
		return term + "es"
	case strings.HasSuffix(term, "s") && utf8.RuneCountInString(term) > 3:
		return strings.TrimSuffix(term, "s")
	default:
		return term + "s"
	}
}

func translate(term string) []string {
	var out []string
	if en, ok := translations[term]; ok && en != term {
		out = append(out, en)
	}
	for _, pt := range reverseTranslations[term] {
		if pt != term {
			out = append(out, pt)
		}
	}
	return out
}

func isAlnum(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }

type orderedSet struct {
	seen  map[string]struct{}
	items []string
}

func newOrderedSet(capacity int) *orderedSet {
	return &orderedSet{seen: make(map[string]struct{}, capacity), items: make([]string, 0, capacity)}
}

func (s *orderedSet) add(terms ...string) {
	for _, t := range terms {
		if utf8.RuneCountInString(t) < minTermLen {
			continue
		}
		if _, ok := s.seen[t]; ok {
			continue
		}
		s.seen[t] = struct{}{}
		s.items = append(s.items, t)
	}
}
