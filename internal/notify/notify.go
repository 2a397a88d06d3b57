// Package notify delivers a finished search page to the person who asked
// for it.
package notify

import (
	"context"
	"errors"

	"jobmate/search-service/internal/model"
)

// Descriptor is the query summary shown to the recipient.
type Descriptor struct {
	Location string
	Country  string
	JobType  string
}

// Deliverer sends postings to a recipient.
type Deliverer interface {
	Deliver(ctx context.Context, recipient string, postings []model.JobPosting, q Descriptor) error
}

// Multi delivers through every deliverer and joins their errors.
type Multi []Deliverer

func (m Multi) Deliver(ctx context.Context, recipient string, postings []model.JobPosting, q Descriptor) error {
	var errs []error
	for _, d := range m {
		if err := d.Deliver(ctx, recipient, postings, q); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
