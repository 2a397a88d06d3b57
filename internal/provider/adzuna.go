package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"jobmate/search-service/internal/model"
)

const (
	adzunaBaseURL  = "https://api.adzuna.com/v1/api/jobs"
	adzunaPageSize = 50
	adzunaMaxPages = 3 // at most 150 results per query
)

// adzunaProvider fetches offers from the Adzuna public API.
type adzunaProvider struct {
	baseURL string
	appID   string
	appKey  string
	client  *http.Client
}

func newAdzuna(s Settings, client *http.Client) (Provider, error) {
	if s.AppID == "" || s.APIKey == "" {
		return nil, fmt.Errorf("adzuna: %w (ADZUNA_APP_ID / ADZUNA_APP_KEY)", ErrMissingCredentials)
	}
	base := s.BaseURL
	if base == "" {
		base = adzunaBaseURL
	}
	return &adzunaProvider{baseURL: strings.TrimRight(base, "/"), appID: s.AppID, appKey: s.APIKey, client: client}, nil
}

func (a *adzunaProvider) ID() ID { return Adzuna }

// adzunaResponse mirrors the top-level Adzuna JSON response.
type adzunaResponse struct {
	Results []adzunaResult `json:"results"`
	Count   int            `json:"count"`
}

// adzunaResult mirrors a single Adzuna job listing.
type adzunaResult struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Company     adzunaCompany  `json:"company"`
	Location    adzunaLocation `json:"location"`
	SalaryMin   float64        `json:"salary_min"`
	SalaryMax   float64        `json:"salary_max"`
	RedirectURL string         `json:"redirect_url"`
	Created     string         `json:"created"`
}

type adzunaCompany struct {
	DisplayName string `json:"display_name"`
}

type adzunaLocation struct {
	DisplayName string `json:"display_name"`
}

// Fetch pages through results until the limit, a short page or
// adzunaMaxPages is reached.
func (a *adzunaProvider) Fetch(ctx context.Context, q Query) ([]model.JobPosting, error) {
	want := q.limit()
	country := CountryCode(q.Country)

	var postings []model.JobPosting
	for page := 1; page <= adzunaMaxPages && len(postings) < want; page++ {
		batch, err := a.fetchPage(ctx, q, country, page)
		if err != nil {
			return nil, fmt.Errorf("adzuna page %d: %w", page, err)
		}
		for _, r := range batch {
			postings = append(postings, mapAdzunaResult(r, q.Country))
		}
		if len(batch) < adzunaPageSize {
			break
		}
	}

	if len(postings) > want {
		postings = postings[:want]
	}
	return postings, nil
}

func (a *adzunaProvider) fetchPage(ctx context.Context, q Query, country string, page int) ([]adzunaResult, error) {
	endpoint := fmt.Sprintf("%s/%s/search/%d", a.baseURL, country, page)

	params := url.Values{}
	params.Set("app_id", a.appID)
	params.Set("app_key", a.appKey)
	params.Set("results_per_page", strconv.Itoa(adzunaPageSize))
	params.Set("what", q.Keyword)
	if q.Location != "" {
		params.Set("where", q.Location)
	}
	params.Set("content-type", "application/json")
	params.Set("sort_by", "date")

	var resp adzunaResponse
	if err := getJSON(ctx, a.client, endpoint, params, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

func mapAdzunaResult(r adzunaResult, country string) model.JobPosting {
	return model.JobPosting{
		ID:          r.ID,
		Title:       r.Title,
		Company:     r.Company.DisplayName,
		Location:    r.Location.DisplayName,
		Country:     country,
		Description: r.Description,
		URL:         r.RedirectURL,
		PostedAt:    model.ParsePostedAt(r.Created),
		Source:      model.ExternalSource(string(Adzuna)),
		Salary:      formatSalary(r.SalaryMin, r.SalaryMax),
	}
}

// formatSalary renders numeric bounds as the free-text range stored on
// postings.
func formatSalary(min, max float64) string {
	switch {
	case min > 0 && max > 0 && min != max:
		return fmt.Sprintf("%.0f - %.0f", min, max)
	case min > 0:
		return fmt.Sprintf("%.0f", min)
	case max > 0:
		return fmt.Sprintf("%.0f", max)
	}
	return ""
}
