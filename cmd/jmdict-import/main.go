// jmdict-import converts the JMdict_e XML distribution (plain or gzipped)
// into the dictionary database kanadeck reads from.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jusunglee/kanadeck/internal/dict"
	"github.com/jusunglee/kanadeck/internal/dict/postgres"
	"github.com/jusunglee/kanadeck/internal/dict/sqlite"
	"github.com/jusunglee/kanadeck/internal/jmdict"
	"github.com/jusunglee/kanadeck/internal/logger"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
)

func main() {
	if err := mainE(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func mainE() error {
	_ = godotenv.Load()

	fs := ff.NewFlagSet("jmdict-import")

	var (
		input       = fs.StringLong("input", "", "path to JMdict_e or JMdict_e.gz")
		databaseURL = fs.StringLong("database-url", "sqlite://jmdict.db", "dictionary database (sqlite://path or postgres://...)")
	)

	if err := ff.Parse(fs, os.Args[1:], ff.WithEnvVars()); err != nil {
		fmt.Printf("%s\n", ffhelp.Flags(fs))
		return fmt.Errorf("parsing flags: %w", err)
	}

	if *input == "" {
		return errors.New("input is required")
	}

	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := openRepo(ctx, *databaseURL)
	if err != nil {
		return err
	}
	defer repo.Close()

	r, err := jmdict.Open(*input)
	if err != nil {
		return err
	}
	defer r.Close()

	log.Info("importing", "input", *input, "database", *databaseURL)
	start := time.Now()

	n, err := jmdict.Import(ctx, log, repo, r)
	if err != nil {
		return fmt.Errorf("import failed after %d entries: %w", n, err)
	}

	log.Info("import complete", "entries", n, "took", time.Since(start).Round(time.Millisecond))
	return nil
}

func openRepo(ctx context.Context, databaseURL string) (dict.Repository, error) {
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		return postgres.New(ctx, databaseURL)
	}
	return sqlite.New(ctx, databaseURL)
}
