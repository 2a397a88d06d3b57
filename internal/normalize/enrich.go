package normalize

import (
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"jobmate/search-service/internal/model"
	"jobmate/search-service/internal/textutil"
)

// MaxDescriptionLen is the rune limit applied to descriptions.
const MaxDescriptionLen = 2000

// Enrich strips markup from descriptions, truncates them and computes each
// posting's QualityScore relative to now. The score uses the description
// length before truncation.
func Enrich(postings []model.JobPosting, now time.Time) []model.JobPosting {
	for i := range postings {
		p := &postings[i]
		p.Description = StripHTML(p.Description)
		p.QualityScore = QualityScore(*p, now)
		if textutil.RuneLen(p.Description) > MaxDescriptionLen {
			p.Description = textutil.Truncate(p.Description, MaxDescriptionLen) + "..."
		}
	}
	return postings
}

// StripHTML returns the text content of s with whitespace collapsed. Plain
// text passes through with only whitespace collapsed.
func StripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.Join(strings.Fields(s), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		slog.Debug("description is not parseable html, keeping raw text", "err", err)
		return strings.Join(strings.Fields(s), " ")
	}
	doc.Find("script, style").Remove()
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// QualityScore rates how complete and fresh a posting is, 0 to 60.
func QualityScore(p model.JobPosting, now time.Time) float64 {
	var score float64

	if n := textutil.RuneLen(p.Title); n >= 10 && n <= 100 {
		score += 10
	}

	if n := textutil.RuneLen(p.Description); n > 200 {
		score += min(20, float64(n/100))
	}

	if days, ok := p.DaysOld(now); ok {
		switch {
		case days < 7:
			score += 20
		case days < 14:
			score += 15
		case days < 30:
			score += 10
		}
	}

	if textutil.RuneLen(strings.TrimSpace(p.Location)) > 3 {
		score += 5
	}
	if strings.Contains(p.URL, "http") {
		score += 5
	}
	return score
}
