// Package model defines shared data structures for the search service.
package model

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Source records where a posting came from. Informational only.
type Source string

const (
	SourceDatabase Source = "database"
	SourceSynonym  Source = "synonym"
	SourceLocation Source = "location"
	SourceMock     Source = "mock" // reserved, never produced
)

// ExternalSource returns the source tag for an external provider, e.g.
// "external:adzuna".
func ExternalSource(provider string) Source {
	return Source("external:" + provider)
}

// Seniority mirrors the levels detected by the tagger.
type Seniority string

const (
	SeniorityJunior       Seniority = "junior"
	SeniorityMid          Seniority = "mid"
	SenioritySenior       Seniority = "senior"
	SeniorityLead         Seniority = "lead"
	SeniorityNotSpecified Seniority = "not_specified"
)

// Metadata is attached by the tagger before a posting reaches the ranker.
type Metadata struct {
	Categories     []string  `json:"categories"`
	TechStack      []string  `json:"techStack"`
	SeniorityLevel Seniority `json:"seniorityLevel"`
	RelevanceScore float64   `json:"relevanceScore"`
}

// JobPosting is one job advertisement, whatever its origin.
//
// PostedAt is normalized at ingestion; the zero value means the source date
// could not be parsed and every date-based rule treats it as unknown.
type JobPosting struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Company      string    `json:"company"`
	Location     string    `json:"location"`
	Country      string    `json:"country"`
	Description  string    `json:"description"`
	URL          string    `json:"url"`
	PostedAt     time.Time `json:"postedAt"`
	Source       Source    `json:"source"`
	Salary       string    `json:"salary,omitempty"`
	QualityScore float64   `json:"qualityScore"`
	Metadata     *Metadata `json:"metadata,omitempty"`
	Score        float64   `json:"score,omitempty"`
}

// HasPostedAt reports whether the posting carries a known publication date.
func (p JobPosting) HasPostedAt() bool { return !p.PostedAt.IsZero() }

// DaysOld returns whole days elapsed between PostedAt and now. ok is false
// when the date is unknown.
func (p JobPosting) DaysOld(now time.Time) (days int, ok bool) {
	if p.PostedAt.IsZero() {
		return 0, false
	}
	days = int(now.Sub(p.PostedAt).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return days, true
}

// DedupKey folds title and company into the key used for deduplication:
// lowercased, trimmed, inner whitespace collapsed.
func DedupKey(title, company string) string {
	return foldSpaces(title) + "\x00" + foldSpaces(company)
}

func foldSpaces(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// ParsePostedAt normalizes a source date string. Unparsable or empty input
// yields the zero time.
func ParsePostedAt(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	t, err := dateparse.ParseAny(raw)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

// Tier controls provider access, the default age window and the result cap.
type Tier string

const (
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
)

// IsPremium reports whether the tier unlocks premium behaviour.
func (t Tier) IsPremium() bool { return t == TierPremium }

// Filters are the optional, caller-supplied narrowing criteria.
type Filters struct {
	MaxDaysOld      int      `json:"maxDaysOld,omitempty"`
	MinSalary       *float64 `json:"minSalary,omitempty"`
	MaxSalary       *float64 `json:"maxSalary,omitempty"`
	SeniorityLevel  []string `json:"seniorityLevel,omitempty"`
	RemoteOnly      bool     `json:"remoteOnly,omitempty"`
	ExcludeKeywords []string `json:"excludeKeywords,omitempty"`
}

// SearchQuery is built per request by the caller.
type SearchQuery struct {
	Location string
	Country  string
	JobType  string
	Filters  Filters
	Tier     Tier
	Page     int
	PageSize int
	UseCache bool
}

// CacheEntry is one cached pipeline run: ranked, filtered, not paginated.
type CacheEntry struct {
	Key       string       `json:"key"`
	Postings  []JobPosting `json:"jobs"`
	CreatedAt time.Time    `json:"createdAt"`
}

// IngestTarget is one configured ingestion job: every title is fetched for
// every location, and postings mentioning a red flag are discarded.
type IngestTarget struct {
	Name      string   `yaml:"name"`
	JobTitles []string `yaml:"job_titles"`
	Locations []string `yaml:"locations"`
	Country   string   `yaml:"country"`
	RedFlags  []string `yaml:"red_flags"`
}
