// Package bot is a Discord front end for the dictionary: /define looks a
// word up and /romaji transliterates arbitrary kana.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/jusunglee/kanadeck/internal/dict"
	"github.com/jusunglee/kanadeck/internal/romaji"
)

type Config struct {
	// GuildID scopes command registration to one server; empty registers
	// globally (propagation can take up to an hour).
	GuildID string
}

type Bot struct {
	log     *slog.Logger
	session *discordgo.Session
	dict    dict.Repository
	limiter *RateLimiter
	config  Config
}

func New(log *slog.Logger, session *discordgo.Session, repo dict.Repository, config Config) *Bot {
	return &Bot{
		log:     log,
		session: session,
		dict:    repo,
		limiter: NewRateLimiter(5, 60*time.Second),
		config:  config,
	}
}

var commands = []*discordgo.ApplicationCommand{
	{
		Name:        "define",
		Description: "Look a Japanese word up in the dictionary",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "word",
				Description: "Word or reading, e.g. 学校 or がっこう",
				Required:    true,
			},
		},
	},
	{
		Name:        "romaji",
		Description: "Transliterate kana to Hepburn romaji",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "text",
				Description: "Hiragana or katakana text",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionBoolean,
				Name:        "macrons",
				Description: "Write long vowels with macrons (tōkyō)",
			},
			{
				Type:        discordgo.ApplicationCommandOptionBoolean,
				Name:        "m_before_bmp",
				Description: "Write syllabic n as m before b/m/p (shimbun)",
			},
		},
	},
}

func (b *Bot) Run(ctx context.Context) error {
	b.session.AddHandler(b.handleInteraction)
	b.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		b.log.InfoContext(ctx, "connected to Discord", "username", r.User.Username)
	})

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("opening Discord connection: %w", err)
	}

	if err := b.registerCommands(ctx); err != nil {
		return fmt.Errorf("registering commands: %w", err)
	}

	b.log.InfoContext(ctx, "bot is running, press Ctrl+C to stop")
	<-ctx.Done()

	b.log.Info("shutdown signal received")
	b.session.Close()
	b.log.Info("shut down complete")
	return nil
}

func (b *Bot) registerCommands(ctx context.Context) error {
	guildID := b.config.GuildID
	if guildID == "" {
		b.log.InfoContext(ctx, "registering commands globally (may take up to 1 hour to propagate)")
	} else {
		b.log.InfoContext(ctx, "registering commands to guild", "guild_id", guildID)
	}

	_, err := b.session.ApplicationCommandBulkOverwrite(b.session.State.User.ID, guildID, commands)
	if err != nil {
		return fmt.Errorf("bulk overwrite commands: %w", err)
	}
	b.log.InfoContext(ctx, "registered commands", "count", len(commands))
	return nil
}

func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	if !b.limiter.Allow(interactionUserID(i)) {
		b.respondText(s, i, "Slow down a little — try again in a minute.")
		return
	}

	data := i.ApplicationCommandData()
	opts := optionMap(data.Options)

	switch data.Name {
	case "define":
		b.handleDefine(s, i, opts)
	case "romaji":
		b.handleRomaji(s, i, opts)
	}
}

func (b *Bot) handleDefine(s *discordgo.Session, i *discordgo.InteractionCreate, opts options) {
	word := opts.str("word")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	entry, err := b.dict.Lookup(ctx, word)
	if dict.IsNoRows(err) {
		b.respondText(s, i, fmt.Sprintf("No dictionary entry for **%s**.", word))
		return
	}
	if err != nil {
		b.log.Error("lookup failed", "word", word, "error", err)
		b.respondText(s, i, "Dictionary lookup failed, try again later.")
		return
	}

	b.respondEmbed(s, i, formatEntryEmbed(entry))
}

func (b *Bot) handleRomaji(s *discordgo.Session, i *discordgo.InteractionCreate, opts options) {
	text := opts.str("text")
	converted := romaji.Convert(text, romaji.Options{
		Macrons:    opts.boolOr("macrons", false),
		MBeforeBMP: opts.boolOr("m_before_bmp", true),
	})
	b.respondText(s, i, fmt.Sprintf("%s → **%s**", text, converted))
}

func (b *Bot) respondText(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content},
	})
	if err != nil {
		b.log.Error("failed to respond to interaction", "error", err)
	}
}

func (b *Bot) respondEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Embeds: []*discordgo.MessageEmbed{embed}},
	})
	if err != nil {
		b.log.Error("failed to respond to interaction", "error", err)
	}
}

func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

type options map[string]*discordgo.ApplicationCommandInteractionDataOption

func optionMap(opts []*discordgo.ApplicationCommandInteractionDataOption) options {
	m := make(options, len(opts))
	for _, o := range opts {
		m[o.Name] = o
	}
	return m
}

func (o options) str(name string) string {
	if opt, ok := o[name]; ok {
		return opt.StringValue()
	}
	return ""
}

func (o options) boolOr(name string, def bool) bool {
	if opt, ok := o[name]; ok {
		return opt.BoolValue()
	}
	return def
}
