package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"jobmate/search-service/internal/model"
)

// ChannelSearchCompleted is the pub/sub channel for finished searches.
const ChannelSearchCompleted = "EVENT_SEARCH_COMPLETED"

// Publisher announces finished searches on Redis so other services can pick
// them up.
type Publisher struct {
	rdb *redis.Client
}

// NewPublisher wraps a Redis client.
func NewPublisher(rdb *redis.Client) *Publisher {
	return &Publisher{rdb: rdb}
}

// searchEvent is the published payload.
type searchEvent struct {
	Type      string   `json:"type"`
	Recipient string   `json:"recipient"`
	Location  string   `json:"location"`
	Country   string   `json:"country"`
	JobType   string   `json:"jobType"`
	JobCount  int      `json:"jobCount"`
	JobIDs    []string `json:"jobIds"`
}

func newSearchEvent(recipient string, postings []model.JobPosting, q Descriptor) searchEvent {
	ids := make([]string, 0, len(postings))
	for _, p := range postings {
		ids = append(ids, p.ID)
	}
	return searchEvent{
		Type:      ChannelSearchCompleted,
		Recipient: recipient,
		Location:  q.Location,
		Country:   q.Country,
		JobType:   q.JobType,
		JobCount:  len(postings),
		JobIDs:    ids,
	}
}

func (p *Publisher) Deliver(ctx context.Context, recipient string, postings []model.JobPosting, q Descriptor) error {
	event, err := json.Marshal(newSearchEvent(recipient, postings, q))
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := p.rdb.Publish(ctx, ChannelSearchCompleted, event).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", ChannelSearchCompleted, err)
	}
	return nil
}
