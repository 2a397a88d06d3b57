// Package filter narrows a posting list with independent AND-ed predicates.
// Unset criteria are skipped, and postings whose date or salary cannot be
// read are kept rather than dropped.
package filter

import (
	"strings"
	"time"

	"jobmate/search-service/internal/model"
	"jobmate/search-service/internal/textutil"
)

const (
	minTokenLen    = 3
	minKeywordLen  = 3
	jobTypeQuorum  = 0.6
	locationSplits = " \t\n,-/"
)

// Criteria is the full filter set. Zero values mean "not filtered".
type Criteria struct {
	Location        string
	Country         string
	JobType         string
	MaxDaysOld      int
	Keywords        []string
	ExcludeKeywords []string
	MinSalary       *float64
	MaxSalary       *float64
	Seniority       []string
	RemoteOnly      bool

	// Now anchors the age check; the zero value means time.Now().
	Now time.Time
}

// Apply returns the postings that satisfy every set criterion, in input
// order.
func Apply(postings []model.JobPosting, c Criteria) []model.JobPosting {
	if c.Now.IsZero() {
		c.Now = time.Now()
	}
	m := newMatcher(c)

	out := make([]model.JobPosting, 0, len(postings))
	for _, p := range postings {
		if m.match(p) {
			out = append(out, p)
		}
	}
	return out
}

// matcher holds criteria folded once per Apply call.
type matcher struct {
	c           Criteria
	location    string
	locTokens   []string
	country     string
	jobType     string
	jobTokens   []string
	keywords    []string
	excludes    []string
	seniorities map[string]bool
}

func newMatcher(c Criteria) *matcher {
	m := &matcher{
		c:        c,
		location: strings.TrimSpace(textutil.Fold(c.Location)),
		country:  strings.TrimSpace(textutil.Fold(c.Country)),
		jobType:  strings.TrimSpace(textutil.Fold(c.JobType)),
		keywords: foldKeywords(c.Keywords),
		excludes: foldKeywords(c.ExcludeKeywords),
	}
	m.locTokens = longTokens(textutil.SplitAny(m.location, locationSplits))
	m.jobTokens = strings.Fields(m.jobType)
	if len(c.Seniority) > 0 {
		m.seniorities = make(map[string]bool, len(c.Seniority))
		for _, s := range c.Seniority {
			m.seniorities[strings.ToLower(strings.TrimSpace(s))] = true
		}
	}
	return m
}

func (m *matcher) match(p model.JobPosting) bool {
	if m.location != "" && !m.matchLocation(p) {
		return false
	}
	if m.country != "" && !m.matchCountry(p) {
		return false
	}
	if m.jobType != "" && !m.matchJobType(p) {
		return false
	}
	if m.c.MaxDaysOld > 0 {
		if days, ok := p.DaysOld(m.c.Now); ok && days > m.c.MaxDaysOld {
			return false
		}
	}

	if len(m.keywords) > 0 || len(m.excludes) > 0 {
		text := textutil.Fold(p.Title + " " + p.Company + " " + p.Description)
		if len(m.keywords) > 0 && !containsAny(text, m.keywords) {
			return false
		}
		if containsAny(text, m.excludes) {
			return false
		}
	}

	if (m.c.MinSalary != nil || m.c.MaxSalary != nil) && !m.matchSalary(p) {
		return false
	}
	if m.seniorities != nil && !m.seniorities[string(seniorityOf(p))] {
		return false
	}
	if m.c.RemoteOnly && !IsRemote(p) {
		return false
	}
	return true
}

// matchLocation tries a substring match, then any shared token of at least
// three runes.
func (m *matcher) matchLocation(p model.JobPosting) bool {
	loc := textutil.Fold(p.Location)
	if strings.Contains(loc, m.location) {
		return true
	}
	if len(m.locTokens) == 0 {
		return false
	}
	have := make(map[string]bool)
	for _, t := range longTokens(textutil.SplitAny(loc, locationSplits)) {
		have[t] = true
	}
	for _, t := range m.locTokens {
		if have[t] {
			return true
		}
	}
	return false
}

func (m *matcher) matchCountry(p model.JobPosting) bool {
	country := strings.TrimSpace(textutil.Fold(p.Country))
	if strings.Contains(country, m.country) {
		return true
	}
	want, ok := countryGroup(m.country)
	if !ok {
		return false
	}
	got, ok := countryGroup(country)
	return ok && got == want
}

func countryGroup(name string) (int, bool) {
	for i, g := range countryGroups {
		for _, alias := range g {
			if alias == name {
				return i, true
			}
		}
	}
	return 0, false
}

// matchJobType accepts the whole phrase as a substring, then a quorum of
// its long words, then an overlap between the posting's categories and the
// categories the phrase's words imply.
func (m *matcher) matchJobType(p model.JobPosting) bool {
	text := textutil.Fold(p.Title + " " + p.Description)
	if strings.Contains(text, m.jobType) {
		return true
	}

	long := longTokens(m.jobTokens)
	if len(long) > 0 {
		hits := 0
		for _, t := range long {
			if strings.Contains(text, t) {
				hits++
			}
		}
		if float64(hits)/float64(len(long)) >= jobTypeQuorum {
			return true
		}
	}

	if p.Metadata == nil || len(p.Metadata.Categories) == 0 {
		return false
	}
	for _, t := range m.jobTokens {
		for _, want := range jobTypeCategories[t] {
			for _, got := range p.Metadata.Categories {
				if got == want {
					return true
				}
			}
		}
	}
	return false
}

// matchSalary checks the posting's range against the bounds. Postings
// without a readable salary pass.
func (m *matcher) matchSalary(p model.JobPosting) bool {
	lo, hi, ok := ParseSalary(p.Salary)
	if !ok {
		return true
	}
	if m.c.MinSalary != nil && hi < *m.c.MinSalary {
		return false
	}
	if m.c.MaxSalary != nil && lo > *m.c.MaxSalary {
		return false
	}
	return true
}

func seniorityOf(p model.JobPosting) model.Seniority {
	if p.Metadata == nil || p.Metadata.SeniorityLevel == "" {
		return model.SeniorityNotSpecified
	}
	return p.Metadata.SeniorityLevel
}

// IsRemote reports whether the title, location or description mentions
// remote work.
func IsRemote(p model.JobPosting) bool {
	text := textutil.Fold(p.Title + " " + p.Location + " " + p.Description)
	for _, kw := range remoteKeywords {
		if textutil.ContainsWord(text, kw) {
			return true
		}
	}
	return false
}

func foldKeywords(in []string) []string {
	var out []string
	for _, k := range in {
		k = strings.TrimSpace(textutil.Fold(k))
		if textutil.RuneLen(k) >= minKeywordLen {
			out = append(out, k)
		}
	}
	return out
}

func longTokens(in []string) []string {
	var out []string
	for _, t := range in {
		if textutil.RuneLen(t) >= minTokenLen {
			out = append(out, t)
		}
	}
	return out
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
