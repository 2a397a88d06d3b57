package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"jobmate/search-service/internal/model"
)

const indeedBaseURL = "https://api.indeed.com/ads/apisearch"

type indeedProvider struct {
	baseURL   string
	publisher string
	client    *http.Client
}

func newIndeed(s Settings, client *http.Client) (Provider, error) {
	if s.PublisherID == "" {
		return nil, fmt.Errorf("indeed: %w (INDEED_PUBLISHER_ID)", ErrMissingCredentials)
	}
	base := s.BaseURL
	if base == "" {
		base = indeedBaseURL
	}
	return &indeedProvider{baseURL: base, publisher: s.PublisherID, client: client}, nil
}

func (p *indeedProvider) ID() ID { return Indeed }

type indeedResponse struct {
	TotalResults int            `json:"totalResults"`
	Results      []indeedResult `json:"results"`
}

type indeedResult struct {
	JobKey            string `json:"jobkey"`
	JobTitle          string `json:"jobtitle"`
	Company           string `json:"company"`
	FormattedLocation string `json:"formattedLocation"`
	Snippet           string `json:"snippet"`
	URL               string `json:"url"`
	Date              string `json:"date"`
}

func (p *indeedProvider) Fetch(ctx context.Context, q Query) ([]model.JobPosting, error) {
	params := url.Values{}
	params.Set("publisher", p.publisher)
	params.Set("q", q.Keyword)
	params.Set("l", q.Location)
	params.Set("co", CountryCode(q.Country))
	params.Set("format", "json")
	params.Set("v", "2")
	params.Set("limit", strconv.Itoa(q.limit()))
	params.Set("highlight", "0")
	params.Set("filter", "1")
	params.Set("sort", "date")

	var resp indeedResponse
	if err := getJSON(ctx, p.client, p.baseURL, params, &resp); err != nil {
		return nil, fmt.Errorf("indeed: %w", err)
	}

	postings := make([]model.JobPosting, 0, len(resp.Results))
	for _, r := range resp.Results {
		postings = append(postings, mapIndeedResult(r, q.Country))
	}
	return postings, nil
}

func mapIndeedResult(r indeedResult, country string) model.JobPosting {
	return model.JobPosting{
		ID:          r.JobKey,
		Title:       r.JobTitle,
		Company:     r.Company,
		Location:    r.FormattedLocation,
		Country:     country,
		Description: r.Snippet,
		URL:         r.URL,
		PostedAt:    model.ParsePostedAt(r.Date),
		Source:      model.ExternalSource(string(Indeed)),
	}
}
