package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"jobmate/search-service/internal/model"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS job_postings (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	external_id TEXT,
	title       TEXT NOT NULL,
	company     TEXT NOT NULL DEFAULT '',
	location    TEXT NOT NULL DEFAULT '',
	country     TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	url         TEXT NOT NULL UNIQUE,
	salary      TEXT NOT NULL DEFAULT '',
	source      TEXT NOT NULL DEFAULT 'database',
	posted_at   TEXT,
	created_at  TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS job_postings_posted_at_idx ON job_postings (posted_at);`

// SQLiteStore is the single-file store used for local runs and tests.
type SQLiteStore struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

// NewSQLiteStore wraps a database opened with db.OpenSQLite.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}
}

// Migrate creates the job_postings table when missing.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("migrate job_postings: %w", err)
	}
	return nil
}

func sqliteLike(column, value string) sq.Sqlizer {
	return sq.Expr("lower("+column+") LIKE ?", "%"+strings.ToLower(value)+"%")
}

// QueryPostings implements Reader.
func (s *SQLiteStore) QueryPostings(ctx context.Context, q Query) ([]model.JobPosting, int, error) {
	where := whereClauses(q, sqliteLike)

	countSQL, countArgs, err := applyWhere(s.sb.Select("COUNT(*)").From("job_postings"), where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}
	var total int
	if err := s.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count job_postings: %w", err)
	}

	sel := applyWhere(s.sb.Select(postingColumns...).From("job_postings"), where).
		OrderBy("posted_at DESC").
		Limit(uint64(q.limit())).
		Offset(q.offset())
	query, args, err := sel.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build select query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query job_postings: %w", err)
	}
	defer rows.Close()

	postings := make([]model.JobPosting, 0)
	for rows.Next() {
		var (
			p        model.JobPosting
			postedAt sql.NullString
		)
		if err := rows.Scan(
			&p.ID, &p.Title, &p.Company, &p.Location, &p.Country,
			&p.Description, &p.URL, &p.Salary, &postedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan job_postings: %w", err)
		}
		if postedAt.Valid {
			p.PostedAt = model.ParsePostedAt(postedAt.String)
		}
		p.Source = model.SourceDatabase
		postings = append(postings, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate job_postings: %w", err)
	}
	return postings, total, nil
}

// InsertPostings implements Writer inside one transaction.
func (s *SQLiteStore) InsertPostings(ctx context.Context, postings []model.JobPosting) (inserted, duplicates int, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("begin: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	for _, p := range postings {
		var postedAt sql.NullString
		if p.HasPostedAt() {
			postedAt = sql.NullString{String: p.PostedAt.UTC().Format(time.RFC3339), Valid: true}
		}
		url := syntheticURL(p)

		res, err := tx.ExecContext(ctx,
			`INSERT INTO job_postings (external_id, title, company, location, country, description, url, salary, source, posted_at)
			 SELECT ?, ?, ?, ?, ?, ?, ?, ?, ?, ?
			 WHERE NOT EXISTS (SELECT 1 FROM job_postings WHERE url = ?)`,
			p.ID, p.Title, p.Company, p.Location, p.Country, p.Description,
			url, p.Salary, string(p.Source), postedAt, url,
		)
		if err != nil {
			return 0, 0, fmt.Errorf("insert job_postings: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, 0, fmt.Errorf("rows affected: %w", err)
		}
		if n == 0 {
			duplicates++
		} else {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("commit: %w", err)
	}
	committed = true
	return inserted, duplicates, nil
}
