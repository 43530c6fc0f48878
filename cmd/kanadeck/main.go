// kanadeck builds Anki vocabulary cards in bulk from a JMdict dictionary:
// look each word up, fill mapped fields (expression, reading, romaji,
// glosses, audio, optional LLM example sentences), and push notes through
// AnkiConnect. Runs as an interactive wizard by default, or headless with
// --words.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/jusunglee/kanadeck/internal/anki"
	"github.com/jusunglee/kanadeck/internal/anthropic"
	"github.com/jusunglee/kanadeck/internal/audio"
	"github.com/jusunglee/kanadeck/internal/cards"
	"github.com/jusunglee/kanadeck/internal/dict"
	"github.com/jusunglee/kanadeck/internal/dict/postgres"
	"github.com/jusunglee/kanadeck/internal/dict/sqlite"
	"github.com/jusunglee/kanadeck/internal/google"
	"github.com/jusunglee/kanadeck/internal/llm"
	"github.com/jusunglee/kanadeck/internal/logger"
	"github.com/jusunglee/kanadeck/internal/romaji"
	"github.com/jusunglee/kanadeck/internal/sentences"
	"github.com/jusunglee/kanadeck/internal/tui"
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

	fs := ff.NewFlagSet("kanadeck")

	var (
		databaseURL = fs.StringLong("database-url", "sqlite://jmdict.db", "dictionary database (sqlite://path or postgres://...)")
		ankiURL     = fs.StringLong("anki-url", anki.DefaultURL, "AnkiConnect endpoint")
		mediaDir    = fs.StringLong("media-dir", "media", "local directory for downloaded audio")
		noAudio     = fs.BoolLong("no-audio", "skip pronunciation audio entirely")

		wordsPath = fs.StringLong("words", "", "word list file for headless mode, one per line (- for stdin)")
		deck      = fs.StringLong("deck", "", "target deck (headless mode)")
		model     = fs.StringLong("model", "", "note type (headless mode)")
		mapping   = fs.StringLong("map", "", "field mapping, e.g. Front=expression,Back=glossary,Romaji=romaji")

		macrons   = fs.BoolLong("macrons", "write long vowels with macrons (tōkyō)")
		nBeforeBM = fs.BoolLong("n-before-bmp", "write syllabic n as n (not m) before b/m/p")

		llmProvider     = fs.StringEnumLong("llm-provider", "LLM provider for example sentences", "none", "anthropic", "google")
		llmModel        = fs.StringLong("llm-model", "", "LLM model name")
		anthropicAPIKey = fs.StringLong("anthropic-api-key", "", "Anthropic API key")
		googleAPIKey    = fs.StringLong("google-api-key", "", "Google API key")
	)

	if err := ff.Parse(fs, os.Args[1:], ff.WithEnvVars()); err != nil {
		fmt.Printf("%s\n", ffhelp.Flags(fs))
		return fmt.Errorf("parsing flags: %w", err)
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
	}

	ankiClient := anki.NewClient(*ankiURL)
	if err := ankiClient.Ping(ctx); err != nil {
		return err
	}

	builder := &cards.Builder{
		Log:      log,
		Dict:     repo,
		Notes:    ankiClient,
		MediaDir: *mediaDir,
		RomajiOpts: romaji.Options{
			Macrons:    *macrons,
			MBeforeBMP: !*nBeforeBM,
		},
	}
	if !*noAudio {
		builder.Audio = audio.NewStore(*mediaDir)
	}

	generator, err := newGenerator(ctx, *llmProvider, *llmModel, *anthropicAPIKey, *googleAPIKey)
	if err != nil {
		return err
	}
	if generator != nil {
		builder.Examples = generator
	}

	if *wordsPath != "" {
		return runHeadless(ctx, log, builder, ankiClient, *wordsPath, *deck, *model, *mapping)
	}

	return tui.Run(ctx, ankiClient, func(ctx context.Context, deck, model string, mapping cards.Mapping, terms []string) (cards.Result, error) {
		builder.Deck = deck
		builder.Model = model
		builder.Mapping = mapping
		return builder.Run(ctx, terms)
	})
}

func runHeadless(ctx context.Context, log *slog.Logger, builder *cards.Builder, ankiClient *anki.Client, wordsPath, deck, model, mappingStr string) error {
	if deck == "" || model == "" || mappingStr == "" {
		return errors.New("headless mode needs --deck, --model, and --map")
	}

	mapping, err := cards.ParseMapping(mappingStr)
	if err != nil {
		return err
	}
	fields, err := ankiClient.ModelFieldNames(ctx, model)
	if err != nil {
		return err
	}
	if err := mapping.Validate(fields); err != nil {
		return err
	}

	terms, err := readWords(wordsPath)
	if err != nil {
		return err
	}

	builder.Deck = deck
	builder.Model = model
	builder.Mapping = mapping
	builder.OnProgress = func(done, total int) {
		log.Info("progress", "done", done, "total", total)
	}

	result, err := builder.Run(ctx, terms)
	if err != nil {
		return err
	}

	log.Info("build finished",
		"created", result.Created,
		"not_found", len(result.NotFound),
		"errors", len(result.Errors),
	)
	if len(result.NotFound) > 0 {
		log.Warn("no dictionary entry", "terms", strings.Join(result.NotFound, ", "))
	}
	for _, te := range result.Errors {
		log.Error("term failed", "term", te.Term, "error", te.Err)
	}
	return nil
}

func readWords(path string) ([]string, error) {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening word list: %w", err)
		}
		defer f.Close()
		r = f
	}

	var words []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		words = append(words, sc.Text())
	}
	return words, sc.Err()
}

func newGenerator(ctx context.Context, provider, model, anthropicKey, googleKey string) (*sentences.Generator, error) {
	var client llm.Client
	switch provider {
	case "none":
		return nil, nil
	case "anthropic":
		if anthropicKey == "" {
			return nil, errors.New("anthropic-api-key is required when using anthropic provider")
		}
		client = anthropic.NewClient(anthropicKey, anthropic.Model(model))
	case "google":
		if googleKey == "" {
			return nil, errors.New("google-api-key is required when using google provider")
		}
		var err error
		client, err = google.NewClient(ctx, googleKey, google.Model(model))
		if err != nil {
			return nil, fmt.Errorf("creating Google client: %w", err)
		}
	}
	return sentences.NewGenerator(client), nil
}

func openRepo(ctx context.Context, databaseURL string) (dict.Repository, error) {
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		return postgres.New(ctx, databaseURL)
	}
	return sqlite.New(ctx, databaseURL)
}
