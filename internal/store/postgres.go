package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS summaries (
	id                 UUID PRIMARY KEY,
	url                TEXT NOT NULL,
	summary_en         TEXT NOT NULL,
	summary_translated TEXT NOT NULL DEFAULT '',
	language           TEXT NOT NULL DEFAULT '',
	created_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS summaries_created_at_idx ON summaries (created_at DESC);
`

// Postgres stores summary records in a Postgres table.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to connStr and verifies the connection.
func NewPostgres(ctx context.Context, connStr string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// Migrate creates the summaries table if it does not exist.
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate summaries: %w", err)
	}
	return nil
}

func (p *Postgres) SaveSummary(ctx context.Context, rec *Record) error {
	prepare(rec, time.Now())
	_, err := p.pool.Exec(ctx, `
		INSERT INTO summaries (id, url, summary_en, summary_translated, language, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, rec.URL, rec.SummaryEN, rec.SummaryTranslated, rec.Language, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert summary: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first. A limit of zero or less
// returns every record.
func (p *Postgres) Recent(ctx context.Context, limit int) ([]Record, error) {
	var lim any // LIMIT NULL means no limit
	if limit > 0 {
		lim = limit
	}
	rows, err := p.pool.Query(ctx, `
		SELECT id::text, url, summary_en, summary_translated, language, created_at
		FROM summaries
		ORDER BY created_at DESC
		LIMIT $1`, lim)
	if err != nil {
		return nil, fmt.Errorf("query recent summaries: %w", err)
	}
	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Record, error) {
		var r Record
		err := row.Scan(&r.ID, &r.URL, &r.SummaryEN, &r.SummaryTranslated, &r.Language, &r.CreatedAt)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan recent summaries: %w", err)
	}
	return records, nil
}

func (p *Postgres) Close() {
	p.pool.Close()
}
