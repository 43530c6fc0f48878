package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jusunglee/kanadeck/internal/dict"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS entries (
    ent_seq    BIGINT PRIMARY KEY,
    expression TEXT NOT NULL,
    reading    TEXT,
    gloss1     TEXT,
    gloss2     TEXT,
    gloss3     TEXT,
    pos        TEXT,
    common     BOOLEAN NOT NULL DEFAULT FALSE
);
CREATE INDEX IF NOT EXISTS idx_entries_expression ON entries(expression);
CREATE INDEX IF NOT EXISTS idx_entries_reading    ON entries(reading);
`

// Repository implements dict.Repository using PostgreSQL via pgx,
// for deployments where one imported dictionary serves several bots.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new PostgreSQL repository
func New(ctx context.Context, databaseURL string) (*Repository, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database URL: %w", err)
	}

	// Dictionary lookups are cheap point reads; a small pool is plenty.
	config.MaxConns = 5
	config.MinConns = 2
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = 30 * time.Second
	config.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return &Repository{pool: pool}, nil
}

func (r *Repository) Close() error {
	r.pool.Close()
	return nil
}

func (r *Repository) Lookup(ctx context.Context, term string) (dict.Entry, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT ent_seq, expression, reading, gloss1, gloss2, gloss3, pos, common
		FROM entries
		WHERE expression = $1 OR reading = $1
		ORDER BY common DESC
		LIMIT 1
	`, term)

	var e dict.Entry
	var reading, g1, g2, g3, pos *string
	err := row.Scan(&e.EntSeq, &e.Expression, &reading, &g1, &g2, &g3, &pos, &e.Common)
	if errors.Is(err, pgx.ErrNoRows) {
		return dict.Entry{}, dict.ErrNoRows
	}
	if err != nil {
		return dict.Entry{}, err
	}
	e.Reading = deref(reading)
	e.Pos = deref(pos)
	for _, g := range []*string{g1, g2, g3} {
		if g != nil && *g != "" {
			e.Glosses = append(e.Glosses, *g)
		}
	}
	return e, nil
}

func (r *Repository) InsertEntries(ctx context.Context, entries []dict.Entry) error {
	batch := &pgx.Batch{}
	for _, e := range entries {
		glosses := make([]*string, 3)
		for i := 0; i < len(e.Glosses) && i < 3; i++ {
			glosses[i] = &e.Glosses[i]
		}
		batch.Queue(`
			INSERT INTO entries (ent_seq, expression, reading, gloss1, gloss2, gloss3, pos, common)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (ent_seq) DO UPDATE SET
				expression = EXCLUDED.expression,
				reading    = EXCLUDED.reading,
				gloss1     = EXCLUDED.gloss1,
				gloss2     = EXCLUDED.gloss2,
				gloss3     = EXCLUDED.gloss3,
				pos        = EXCLUDED.pos,
				common     = EXCLUDED.common
		`, e.EntSeq, e.Expression, nilIfEmpty(e.Reading),
			glosses[0], glosses[1], glosses[2], nilIfEmpty(e.Pos), e.Common)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()
	for range entries {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("batch insert: %w", err)
		}
	}
	return nil
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM entries`).Scan(&count)
	return count, err
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
