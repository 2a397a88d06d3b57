package provider

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"jobmate/search-service/internal/model"
)

const glassdoorBaseURL = "https://api.glassdoor.com/api/api.htm"

type glassdoorProvider struct {
	baseURL   string
	partnerID string
	apiKey    string
	client    *http.Client
	now       func() time.Time
}

func newGlassdoor(s Settings, client *http.Client) (Provider, error) {
	if s.PartnerID == "" || s.APIKey == "" {
		return nil, fmt.Errorf("glassdoor: %w (GLASSDOOR_PARTNER_ID / GLASSDOOR_API_KEY)", ErrMissingCredentials)
	}
	base := s.BaseURL
	if base == "" {
		base = glassdoorBaseURL
	}
	return &glassdoorProvider{
		baseURL:   base,
		partnerID: s.PartnerID,
		apiKey:    s.APIKey,
		client:    client,
		now:       time.Now,
	}, nil
}

func (p *glassdoorProvider) ID() ID { return Glassdoor }

type glassdoorResponse struct {
	Success  bool `json:"success"`
	Response struct {
		JobListings []glassdoorListing `json:"jobListings"`
	} `json:"response"`
}

type glassdoorListing struct {
	JobListingID        int64             `json:"jobListingId"`
	JobTitle            string            `json:"jobTitle"`
	Employer            glassdoorEmployer `json:"employer"`
	Location            string            `json:"location"`
	DescriptionFragment string            `json:"descriptionFragment"`
	JobViewURL          string            `json:"jobViewUrl"`
	PostingDatePST      string            `json:"postingDatePst"`
}

type glassdoorEmployer struct {
	Name string `json:"name"`
}

// sign returns the hex HMAC-SHA1 of partnerID+timestamp keyed by the API key.
func (p *glassdoorProvider) sign(timestamp string) string {
	mac := hmac.New(sha1.New, []byte(p.apiKey))
	mac.Write([]byte(p.partnerID + timestamp))
	return hex.EncodeToString(mac.Sum(nil))
}

func (p *glassdoorProvider) Fetch(ctx context.Context, q Query) ([]model.JobPosting, error) {
	ts := strconv.FormatInt(p.now().Unix(), 10)

	params := url.Values{}
	params.Set("v", "1")
	params.Set("format", "json")
	params.Set("t.p", p.partnerID)
	params.Set("t.k", p.apiKey)
	params.Set("userip", "0.0.0.0")
	params.Set("useragent", randomUserAgent())
	params.Set("action", "jobs")
	params.Set("keyword", q.Keyword)
	params.Set("location", q.Location)
	params.Set("countryId", GlassdoorCountryID(q.Country))
	params.Set("fromAge", "30")
	params.Set("jobType", "fulltime")
	params.Set("t.ts", ts)
	params.Set("t.sig", p.sign(ts))

	var resp glassdoorResponse
	if err := getJSON(ctx, p.client, p.baseURL, params, &resp); err != nil {
		return nil, fmt.Errorf("glassdoor: %w", err)
	}

	listings := resp.Response.JobListings
	if len(listings) > q.limit() {
		listings = listings[:q.limit()]
	}
	postings := make([]model.JobPosting, 0, len(listings))
	for _, l := range listings {
		postings = append(postings, mapGlassdoorListing(l, q.Country))
	}
	return postings, nil
}

func mapGlassdoorListing(l glassdoorListing, country string) model.JobPosting {
	return model.JobPosting{
		ID:          strconv.FormatInt(l.JobListingID, 10),
		Title:       l.JobTitle,
		Company:     l.Employer.Name,
		Location:    l.Location,
		Country:     country,
		Description: l.DescriptionFragment,
		URL:         l.JobViewURL,
		PostedAt:    model.ParsePostedAt(l.PostingDatePST),
		Source:      model.ExternalSource(string(Glassdoor)),
	}
}
