// bot runs the Discord dictionary bot (/define, /romaji) against an
// imported JMdict database.
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

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	"github.com/jusunglee/kanadeck/internal/bot"
	"github.com/jusunglee/kanadeck/internal/dict"
	"github.com/jusunglee/kanadeck/internal/dict/postgres"
	"github.com/jusunglee/kanadeck/internal/dict/sqlite"
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

	fs := ff.NewFlagSet("kanadeck-bot")

	var (
		databaseURL  = fs.StringLong("database-url", "sqlite://jmdict.db", "dictionary database (sqlite://path or postgres://...)")
		discordToken = fs.StringLong("discord-token", "", "Discord bot token")
		guildID      = fs.StringLong("discord-guild-id", "", "guild to register commands in (empty = global)")
	)

	if err := ff.Parse(fs, os.Args[1:], ff.WithEnvVars()); err != nil {
		fmt.Printf("%s\n", ffhelp.Flags(fs))
		return fmt.Errorf("parsing flags: %w", err)
	}

	if *discordToken == "" {
		return errors.New("discord-token is required")
	}

	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := openRepo(ctx, *databaseURL)
	if err != nil {
		return err
	}
	defer repo.Close()

	if n, err := repo.Count(ctx); err != nil {
		return fmt.Errorf("checking dictionary: %w", err)
	} else if n == 0 {
		return errors.New("dictionary is empty; run jmdict-import first")
	} else {
		log.Info("dictionary ready", "entries", n)
	}

	session, err := discordgo.New("Bot " + *discordToken)
	if err != nil {
		return fmt.Errorf("creating Discord session: %w", err)
	}

	return bot.New(log, session, repo, bot.Config{GuildID: *guildID}).Run(ctx)
}

func openRepo(ctx context.Context, databaseURL string) (dict.Repository, error) {
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		return postgres.New(ctx, databaseURL)
	}
	return sqlite.New(ctx, databaseURL)
}
