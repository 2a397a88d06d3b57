package store

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"jobmate/search-service/internal/model"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS job_postings (
	id          BIGSERIAL PRIMARY KEY,
	external_id TEXT,
	title       TEXT NOT NULL,
	company     TEXT NOT NULL DEFAULT '',
	location    TEXT NOT NULL DEFAULT '',
	country     TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	url         TEXT NOT NULL UNIQUE,
	salary      TEXT NOT NULL DEFAULT '',
	source      TEXT NOT NULL DEFAULT 'database',
	posted_at   TIMESTAMPTZ,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS job_postings_posted_at_idx ON job_postings (posted_at DESC);`

// PostgresStore reads and writes job_postings through a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
	sb   sq.StatementBuilderType
}

// NewPostgresStore wraps an already verified pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{
		pool: pool,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Migrate creates the job_postings table when missing.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("migrate job_postings: %w", err)
	}
	return nil
}

func postgresLike(column, value string) sq.Sqlizer {
	return sq.ILike{column: "%" + value + "%"}
}

// QueryPostings implements Reader.
func (s *PostgresStore) QueryPostings(ctx context.Context, q Query) ([]model.JobPosting, int, error) {
	where := whereClauses(q, postgresLike)

	countSQL, countArgs, err := applyWhere(s.sb.Select("COUNT(*)").From("job_postings"), where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}
	var total int
	if err := s.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count job_postings: %w", err)
	}

	cols := append([]string{"id::text"}, postingColumns[1:]...)
	sel := applyWhere(s.sb.Select(cols...).From("job_postings"), where).
		OrderBy("posted_at DESC NULLS LAST").
		Limit(uint64(q.limit())).
		Offset(q.offset())
	query, args, err := sel.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build select query: %w", err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query job_postings: %w", err)
	}
	defer rows.Close()

	postings := make([]model.JobPosting, 0)
	for rows.Next() {
		var (
			p        model.JobPosting
			postedAt *time.Time
		)
		if err := rows.Scan(
			&p.ID, &p.Title, &p.Company, &p.Location, &p.Country,
			&p.Description, &p.URL, &p.Salary, &postedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan job_postings: %w", err)
		}
		if postedAt != nil {
			p.PostedAt = postedAt.UTC()
		}
		p.Source = model.SourceDatabase
		postings = append(postings, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate job_postings: %w", err)
	}
	return postings, total, nil
}

// InsertPostings implements Writer, skipping rows whose URL already exists.
func (s *PostgresStore) InsertPostings(ctx context.Context, postings []model.JobPosting) (inserted, duplicates int, err error) {
	for _, p := range postings {
		var postedAt *time.Time
		if p.HasPostedAt() {
			t := p.PostedAt
			postedAt = &t
		}

		tag, err := s.pool.Exec(ctx,
			`INSERT INTO job_postings (external_id, title, company, location, country, description, url, salary, source, posted_at)
			 SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10
			 WHERE NOT EXISTS (
			   SELECT 1 FROM job_postings WHERE url = $7
			 )`,
			p.ID, p.Title, p.Company, p.Location, p.Country, p.Description,
			syntheticURL(p), p.Salary, string(p.Source), postedAt,
		)
		if err != nil {
			return inserted, duplicates, fmt.Errorf("insert job_postings: %w", err)
		}
		if tag.RowsAffected() == 0 {
			duplicates++
		} else {
			inserted++
		}
	}
	return inserted, duplicates, nil
}
