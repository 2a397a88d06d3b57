// Package provider adapts external job boards to the canonical JobPosting
// shape and fans searches out to them through the Gateway.
package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"jobmate/search-service/internal/model"
)

// ID identifies an external provider.
type ID string

const (
	Adzuna    ID = "adzuna"
	Indeed    ID = "indeed"
	GitHub    ID = "github"
	Glassdoor ID = "glassdoor"
)

// order fixes the position of every provider in the gateway union.
var order = []ID{Adzuna, Indeed, GitHub, Glassdoor}

const (
	httpTimeout  = 15 * time.Second
	defaultLimit = 50
)

// ErrMissingCredentials is returned by a Factory when an enabled provider
// lacks the keys it needs.
var ErrMissingCredentials = errors.New("provider credentials missing")

// Query is what every provider receives.
type Query struct {
	Keyword  string
	Location string
	Country  string
	Limit    int
}

func (q Query) limit() int {
	if q.Limit <= 0 {
		return defaultLimit
	}
	return q.Limit
}

// Provider fetches postings from one external source.
type Provider interface {
	ID() ID
	Fetch(ctx context.Context, q Query) ([]model.JobPosting, error)
}

// Settings configures one provider. Unused credential fields are ignored.
type Settings struct {
	ID          ID
	Enabled     bool
	BaseURL     string
	AppID       string
	APIKey      string
	PublisherID string
	PartnerID   string
}

// Factory builds a provider from its settings.
type Factory func(s Settings, client *http.Client) (Provider, error)

// Registry maps every known provider to its constructor.
var Registry = map[ID]Factory{
	Adzuna:    newAdzuna,
	Indeed:    newIndeed,
	GitHub:    newGitHub,
	Glassdoor: newGlassdoor,
}

// Build returns the enabled providers in registry order. Providers that are
// enabled but misconfigured are skipped with a warning; unknown IDs are an
// error.
func Build(settings []Settings, client *http.Client) ([]Provider, error) {
	if client == nil {
		client = &http.Client{Timeout: httpTimeout}
	}

	byID := make(map[ID]Settings, len(settings))
	for _, s := range settings {
		if _, ok := Registry[s.ID]; !ok {
			return nil, fmt.Errorf("unknown provider %q", s.ID)
		}
		byID[s.ID] = s
	}

	var out []Provider
	for _, id := range order {
		s, ok := byID[id]
		if !ok || !s.Enabled {
			continue
		}
		p, err := Registry[id](s, client)
		if err != nil {
			slog.Warn("provider disabled", "provider", id, "err", err)
			continue
		}
		out = append(out, p)
	}
	return out, nil
}
