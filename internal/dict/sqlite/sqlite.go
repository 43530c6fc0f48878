package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/jusunglee/kanadeck/internal/dict"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// Repository implements dict.Repository using SQLite
type Repository struct {
	db *sql.DB
}

// New opens (creating if necessary) a SQLite dictionary at dbPath.
func New(ctx context.Context, dbPath string) (*Repository, error) {
	// Strip sqlite:// prefix if present
	dbPath = strings.TrimPrefix(dbPath, "sqlite://")

	isNew := dbPath == ":memory:"
	if !isNew {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			isNew = true
		}
	}

	sqliteDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening SQLite database: %w", err)
	}

	// WAL lets the bot read while an import writes
	if _, err := sqliteDB.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		sqliteDB.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	if _, err := sqliteDB.ExecContext(ctx, schemaSQL); err != nil {
		sqliteDB.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	if isNew {
		slog.Info("created new SQLite dictionary", "path", dbPath)
	}

	return &Repository{db: sqliteDB}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) Lookup(ctx context.Context, term string) (dict.Entry, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT ent_seq, expression, reading, gloss1, gloss2, gloss3, pos, common
		FROM entries
		WHERE expression = ? OR reading = ?
		ORDER BY common DESC
		LIMIT 1
	`, term, term)

	return scanEntry(row)
}

func (r *Repository) InsertEntries(ctx context.Context, entries []dict.Entry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO entries (ent_seq, expression, reading, gloss1, gloss2, gloss3, pos, common)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		g1, g2, g3 := glossColumns(e.Glosses)
		_, err := stmt.ExecContext(ctx,
			e.EntSeq, e.Expression, nullIfEmpty(e.Reading),
			g1, g2, g3, nullIfEmpty(e.Pos), e.Common,
		)
		if err != nil {
			return fmt.Errorf("inserting entry %d: %w", e.EntSeq, err)
		}
	}

	return tx.Commit()
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries`).Scan(&count)
	return count, err
}

func scanEntry(row *sql.Row) (dict.Entry, error) {
	var e dict.Entry
	var reading, g1, g2, g3, pos sql.NullString
	err := row.Scan(&e.EntSeq, &e.Expression, &reading, &g1, &g2, &g3, &pos, &e.Common)
	if err == sql.ErrNoRows {
		return dict.Entry{}, dict.ErrNoRows
	}
	if err != nil {
		return dict.Entry{}, err
	}
	e.Reading = reading.String
	e.Pos = pos.String
	for _, g := range []sql.NullString{g1, g2, g3} {
		if g.Valid && g.String != "" {
			e.Glosses = append(e.Glosses, g.String)
		}
	}
	return e, nil
}

func glossColumns(glosses []string) (sql.NullString, sql.NullString, sql.NullString) {
	var cols [3]sql.NullString
	for i := 0; i < len(glosses) && i < 3; i++ {
		cols[i] = sql.NullString{String: glosses[i], Valid: true}
	}
	return cols[0], cols[1], cols[2]
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
