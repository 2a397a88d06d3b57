package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"jobmate/search-service/internal/model"
)

const githubBaseURL = "https://jobs.github.com/positions.json"

// githubProvider talks to the GitHub Jobs positions endpoint, which needs
// no credentials.
type githubProvider struct {
	baseURL string
	client  *http.Client
}

func newGitHub(s Settings, client *http.Client) (Provider, error) {
	base := s.BaseURL
	if base == "" {
		base = githubBaseURL
	}
	return &githubProvider{baseURL: base, client: client}, nil
}

func (p *githubProvider) ID() ID { return GitHub }

type githubJob struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Description string `json:"description"`
	URL         string `json:"url"`
	CreatedAt   string `json:"created_at"`
}

func (p *githubProvider) Fetch(ctx context.Context, q Query) ([]model.JobPosting, error) {
	params := url.Values{}
	params.Set("description", q.Keyword)
	params.Set("location", strings.Trim(q.Location+", "+q.Country, ", "))
	params.Set("full_time", "true")

	var jobs []githubJob
	if err := getJSON(ctx, p.client, p.baseURL, params, &jobs); err != nil {
		return nil, fmt.Errorf("github: %w", err)
	}
	if len(jobs) > q.limit() {
		jobs = jobs[:q.limit()]
	}

	postings := make([]model.JobPosting, 0, len(jobs))
	for _, j := range jobs {
		postings = append(postings, mapGithubJob(j, q.Country))
	}
	return postings, nil
}

func mapGithubJob(j githubJob, country string) model.JobPosting {
	return model.JobPosting{
		ID:          j.ID,
		Title:       j.Title,
		Company:     j.Company,
		Location:    j.Location,
		Country:     country,
		Description: j.Description,
		URL:         j.URL,
		PostedAt:    model.ParsePostedAt(j.CreatedAt),
		Source:      model.ExternalSource(string(GitHub)),
	}
}
