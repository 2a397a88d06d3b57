// Package tagger attaches heuristic metadata to postings: categories, tech
// stack, seniority and an initial relevance signal against the job type.
package tagger

import (
	"strings"

	"jobmate/search-service/internal/model"
	"jobmate/search-service/internal/textutil"
)

// shortKeyword is the rune length at or below which category keywords need
// a word-boundary match ("ui" must not hit "build").
const shortKeyword = 3

// Tag returns a copy of p with Metadata populated. Matching is case and
// accent insensitive over title, company and description.
func Tag(p model.JobPosting, jobType string) model.JobPosting {
	text := textutil.Fold(p.Title + " " + p.Company + " " + p.Description)
	p.Metadata = &model.Metadata{
		Categories:     Categories(text),
		TechStack:      TechStack(text),
		SeniorityLevel: Seniority(text),
		RelevanceScore: Relevance(text, jobType),
	}
	return p
}

// TagAll tags every posting and returns a new slice.
func TagAll(postings []model.JobPosting, jobType string) []model.JobPosting {
	out := make([]model.JobPosting, len(postings))
	for i, p := range postings {
		out[i] = Tag(p, jobType)
	}
	return out
}

// Categories returns every category with at least one keyword in text.
// text must already be folded.
func Categories(text string) []string {
	found := []string{}
	for _, c := range categories {
		for _, kw := range c.keywords {
			if matchCategoryKeyword(text, textutil.Fold(kw)) {
				found = append(found, c.name)
				break
			}
		}
	}
	return found
}

func matchCategoryKeyword(text, kw string) bool {
	if textutil.RuneLen(kw) <= shortKeyword {
		return textutil.ContainsWord(text, kw)
	}
	return strings.Contains(text, kw)
}

// TechStack returns every technology keyword found on word boundaries.
func TechStack(text string) []string {
	found := []string{}
	for _, tech := range techKeywords {
		if textutil.ContainsWord(text, tech) {
			found = append(found, tech)
		}
	}
	return found
}

// Seniority returns the first level whose keywords appear in text.
func Seniority(text string) model.Seniority {
	for _, lvl := range seniorityLevels {
		for _, kw := range lvl.keywords {
			if textutil.ContainsWord(text, textutil.Fold(kw)) {
				return lvl.level
			}
		}
	}
	return model.SeniorityNotSpecified
}

// Relevance scores text against the job type: +10 per whitespace token of
// at least 3 runes found as a substring, +5 more when it is a whole word.
func Relevance(text, jobType string) float64 {
	var score float64
	for _, term := range strings.Fields(textutil.Fold(jobType)) {
		if textutil.RuneLen(term) < 3 {
			continue
		}
		if strings.Contains(text, term) {
			score += 10
			if textutil.ContainsWord(text, term) {
				score += 5
			}
		}
	}
	return score
}
