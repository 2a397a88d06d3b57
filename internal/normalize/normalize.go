// Package normalize canonicalizes titles, merges duplicate postings and
// computes the enrichment fields every posting carries into tagging.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"jobmate/search-service/internal/model"
)

type titleRule struct {
	re   *regexp.Regexp
	repl string
}

// titleRules run in order, after title casing.
var titleRules = []titleRule{
	{regexp.MustCompile(`\bDesenvolvedor De Software\b`), "Desenvolvedor de Software"},
	{regexp.MustCompile(`\bProgramador\s+(\p{L}+)`), "Desenvolvedor $1"},
	{regexp.MustCompile(`\bDev\s+(\p{L}+)`), "Desenvolvedor $1"},
	{regexp.MustCompile(`\bEngenheiro De Software\b`), "Engenheiro de Software"},
	{regexp.MustCompile(`\bFront[-\s]?End\b`), "Frontend"},
	{regexp.MustCompile(`\bBack[-\s]?End\b`), "Backend"},
	{regexp.MustCompile(`\bFull[-\s]?Stack\b`), "Fullstack"},
}

// TitleCase upper-cases the first letter of every word and lower-cases the
// rest. A word starts after any rune that is not a letter or digit.
func TitleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	start := true
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if start {
				b.WriteRune(unicode.ToTitle(r))
			} else {
				b.WriteRune(unicode.ToLower(r))
			}
			start = false
			continue
		}
		start = r != '\''
		b.WriteRune(r)
	}
	return b.String()
}

// Title normalizes one title.
func Title(title string) string {
	t := TitleCase(strings.Join(strings.Fields(title), " "))
	for _, rule := range titleRules {
		t = rule.re.ReplaceAllString(t, rule.repl)
	}
	return t
}

// Titles normalizes every title in place and returns the slice.
func Titles(postings []model.JobPosting) []model.JobPosting {
	for i := range postings {
		postings[i].Title = Title(postings[i].Title)
	}
	return postings
}

// Dedup keeps one posting per (title, company) fold key: the one with the
// latest PostedAt, at the position where the key first appeared. A posting
// with an unknown date never displaces one with a known date.
func Dedup(postings []model.JobPosting) []model.JobPosting {
	index := make(map[string]int, len(postings))
	out := make([]model.JobPosting, 0, len(postings))
	for _, p := range postings {
		key := model.DedupKey(p.Title, p.Company)
		if i, seen := index[key]; seen {
			if p.PostedAt.After(out[i].PostedAt) {
				out[i] = p
			}
			continue
		}
		index[key] = len(out)
		out = append(out, p)
	}
	return out
}
