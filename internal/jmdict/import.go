package jmdict

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jusunglee/kanadeck/internal/dict"
)

const (
	batchSize   = 1000
	logInterval = 50000
)

// Import streams entries from r into repo in batches and returns how many
// were written.
func Import(ctx context.Context, log *slog.Logger, repo dict.Repository, r io.Reader) (int64, error) {
	var (
		batch []dict.Entry
		total int64
	)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := repo.InsertEntries(ctx, batch); err != nil {
			return fmt.Errorf("inserting batch at entry %d: %w", total, err)
		}
		total += int64(len(batch))
		batch = batch[:0]
		return nil
	}

	err := Parse(r, func(e dict.Entry) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		batch = append(batch, e)
		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return err
			}
			if total%logInterval == 0 {
				log.Info("import progress", "entries", total)
			}
		}
		return nil
	})
	if err != nil {
		return total, err
	}

	if err := flush(); err != nil {
		return total, err
	}
	return total, nil
}
