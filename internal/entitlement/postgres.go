package entitlement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id               BIGSERIAL PRIMARY KEY,
	email            TEXT NOT NULL UNIQUE,
	is_premium       BOOLEAN NOT NULL DEFAULT FALSE,
	premium_until    TIMESTAMPTZ,
	searches_count   INTEGER NOT NULL DEFAULT 0,
	last_search_date TIMESTAMPTZ,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS searches (
	id         BIGSERIAL PRIMARY KEY,
	user_id    BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	location   TEXT NOT NULL,
	country    TEXT NOT NULL,
	job_type   TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS searches_user_created_idx ON searches (user_id, created_at DESC);`

// PostgresChecker reads users and searches through a pgx pool. Unknown
// e-mails are free users that have not searched.
type PostgresChecker struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewPostgresChecker wraps an already verified pool.
func NewPostgresChecker(pool *pgxpool.Pool) *PostgresChecker {
	return &PostgresChecker{pool: pool, now: time.Now}
}

// Migrate creates the users and searches tables when missing.
func (c *PostgresChecker) Migrate(ctx context.Context) error {
	if _, err := c.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate users/searches: %w", err)
	}
	return nil
}

// IsPremium reports whether the user is premium and the subscription has
// not expired.
func (c *PostgresChecker) IsPremium(ctx context.Context, email string) (bool, error) {
	var (
		premium bool
		until   *time.Time
	)
	err := c.pool.QueryRow(ctx,
		`SELECT is_premium, premium_until FROM users WHERE email = $1`,
		normalizeEmail(email),
	).Scan(&premium, &until)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query premium status: %w", err)
	}
	if !premium {
		return false, nil
	}
	return until == nil || !until.Before(c.now()), nil
}

// HasSearchedToday reports whether a search was recorded since midnight.
func (c *PostgresChecker) HasSearchedToday(ctx context.Context, email string) (bool, error) {
	var searched bool
	err := c.pool.QueryRow(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM searches s
		   JOIN users u ON u.id = s.user_id
		   WHERE u.email = $1 AND s.created_at >= $2
		 )`,
		normalizeEmail(email), startOfDay(c.now()),
	).Scan(&searched)
	if err != nil {
		return false, fmt.Errorf("query searches: %w", err)
	}
	return searched, nil
}

// RecordSearch upserts the user, bumps its counter and stores the search in
// one transaction.
func (c *PostgresChecker) RecordSearch(ctx context.Context, s Search) error {
	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	now := c.now()
	var userID int64
	err = tx.QueryRow(ctx,
		`INSERT INTO users (email, searches_count, last_search_date)
		 VALUES ($1, 1, $2)
		 ON CONFLICT (email) DO UPDATE
		   SET searches_count = users.searches_count + 1,
		       last_search_date = EXCLUDED.last_search_date
		 RETURNING id`,
		normalizeEmail(s.Email), now,
	).Scan(&userID)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO searches (user_id, location, country, job_type, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		userID, s.Location, s.Country, s.JobType, now,
	); err != nil {
		return fmt.Errorf("insert search: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
