// Package entitlement answers the tier questions asked before a search
// runs: is the user premium, and has a free user already used the day's
// search.
package entitlement

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Search is what gets recorded for each accepted search.
type Search struct {
	Email    string
	Location string
	Country  string
	JobType  string
}

// Checker is consulted by the HTTP layer before the pipeline runs.
type Checker interface {
	IsPremium(ctx context.Context, email string) (bool, error)
	HasSearchedToday(ctx context.Context, email string) (bool, error)
	RecordSearch(ctx context.Context, s Search) error
}

// startOfDay returns local midnight for t.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Memory is an in-process Checker for local runs without Postgres. Premium
// users come from configuration; searches are forgotten on restart.
type Memory struct {
	mu       sync.Mutex
	premium  map[string]bool
	searches map[string]time.Time
	now      func() time.Time
}

// NewMemory returns a Memory checker that treats premiumEmails as premium.
func NewMemory(premiumEmails []string) *Memory {
	m := &Memory{
		premium:  make(map[string]bool, len(premiumEmails)),
		searches: make(map[string]time.Time),
		now:      time.Now,
	}
	for _, e := range premiumEmails {
		if e = normalizeEmail(e); e != "" {
			m.premium[e] = true
		}
	}
	return m
}

func (m *Memory) IsPremium(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.premium[normalizeEmail(email)], nil
}

func (m *Memory) HasSearchedToday(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	last, ok := m.searches[normalizeEmail(email)]
	return ok && !last.Before(startOfDay(m.now())), nil
}

func (m *Memory) RecordSearch(_ context.Context, s Search) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searches[normalizeEmail(s.Email)] = m.now()
	return nil
}
