package bot

import (
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/jusunglee/kanadeck/internal/dict"
	"github.com/jusunglee/kanadeck/internal/romaji"
)

func formatEntryEmbed(entry dict.Entry) *discordgo.MessageEmbed {
	fields := make([]*discordgo.MessageEmbedField, 0, 4)

	if entry.Reading != "" && entry.Reading != entry.Expression {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: "Reading", Value: entry.Reading, Inline: true,
		})
	}

	fields = append(fields, &discordgo.MessageEmbedField{
		Name:   "Romaji",
		Value:  romaji.Convert(entry.Key(), romaji.Options{Macrons: true, MBeforeBMP: true}),
		Inline: true,
	})

	if len(entry.Glosses) > 0 {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  "Meaning",
			Value: strings.Join(entry.Glosses, "\n"),
		})
	}

	footer := entry.Pos
	if entry.Common {
		if footer != "" {
			footer += " · "
		}
		footer += "common word"
	}

	embed := &discordgo.MessageEmbed{
		Title:  entry.Expression,
		Color:  0x5865F2,
		Fields: fields,
	}
	if footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: footer}
	}
	return embed
}
