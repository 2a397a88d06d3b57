// Package ranker orders postings by a lexical relevance score and reranks
// the head of the list by query similarity blended with freshness.
package ranker

import (
	"sort"
	"strings"
	"time"

	"jobmate/search-service/internal/model"
	"jobmate/search-service/internal/textutil"
)

const (
	// RerankHead is how many leading postings Rerank reorders.
	RerankHead = 100

	rerankDescLen   = 300
	recencyDays     = 30
	rerankFreshDays = 60.0
)

// Score sums the per-term matches of p against terms plus the recency,
// tech-stack, quality and relevance contributions. Terms are expected in
// lower case; matching also ignores accents.
func Score(p model.JobPosting, terms []string, now time.Time) float64 {
	title := strings.TrimSpace(textutil.Fold(p.Title))
	company := strings.TrimSpace(textutil.Fold(p.Company))
	desc := textutil.Fold(p.Description)

	var score float64
	termSet := make(map[string]bool, len(terms))
	for _, raw := range terms {
		term := strings.TrimSpace(textutil.Fold(raw))
		if term == "" {
			continue
		}
		termSet[term] = true

		switch {
		case title == term:
			score += 50
		case strings.Contains(title, term):
			score += 20
			if textutil.ContainsWord(title, term) {
				score += 15
			}
		}

		if strings.Contains(company, term) {
			score += 10
			if company == term {
				score += 15
			}
		}

		if n := strings.Count(desc, term); n > 0 {
			score += 5 + float64(min(n-1, 5))
		}
	}

	if days, ok := p.DaysOld(now); ok {
		score += float64(max(0, recencyDays-days))
	}

	if p.Metadata != nil {
		for _, tech := range p.Metadata.TechStack {
			if termSet[tech] {
				score += 3
			}
		}
		score += 0.7 * p.Metadata.RelevanceScore
	}
	score += 0.5 * p.QualityScore
	return score
}

// Rank scores every posting, stores the result in Score and sorts by score
// descending, then by PostedAt descending. Equal pairs keep their input
// order.
func Rank(postings []model.JobPosting, terms []string, now time.Time) []model.JobPosting {
	for i := range postings {
		postings[i].Score = Score(postings[i], terms, now)
	}
	sort.SliceStable(postings, func(i, j int) bool {
		a, b := postings[i], postings[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.PostedAt.After(b.PostedAt)
	})
	return postings
}

// Rerank reorders the first head postings by 0.7×similarity to the joined
// terms plus 0.3×freshness. Postings past the head keep their order. A
// non-positive head means RerankHead.
func Rerank(postings []model.JobPosting, terms []string, now time.Time, head int) []model.JobPosting {
	if head <= 0 {
		head = RerankHead
	}
	if head > len(postings) {
		head = len(postings)
	}
	if head < 2 {
		return postings
	}

	query := strings.Join(terms, " ")
	blended := make([]float64, head)
	slice := postings[:head]
	order := make([]int, head)
	for i, p := range slice {
		order[i] = i
		text := p.Title + " " + p.Company + " " + textutil.Truncate(p.Description, rerankDescLen)
		blended[i] = 0.7*Similarity(query, text) + 0.3*freshness(p, now)
	}
	sort.SliceStable(order, func(i, j int) bool {
		return blended[order[i]] > blended[order[j]]
	})

	reordered := make([]model.JobPosting, head)
	for i, idx := range order {
		reordered[i] = slice[idx]
	}
	copy(slice, reordered)
	return postings
}

func freshness(p model.JobPosting, now time.Time) float64 {
	days, ok := p.DaysOld(now)
	if !ok {
		return 0
	}
	return max(0, 1-float64(days)/rerankFreshDays)
}
