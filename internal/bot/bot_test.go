package bot

import (
	"testing"
	"time"

	"github.com/jusunglee/kanadeck/internal/dict"
	"github.com/stretchr/testify/assert"
)

func TestFormatEntryEmbed(t *testing.T) {
	entry := dict.Entry{
		EntSeq:     1171270,
		Expression: "学校",
		Reading:    "がっこう",
		Glosses:    []string{"school", "academy"},
		Pos:        "n",
		Common:     true,
	}

	embed := formatEntryEmbed(entry)
	assert.Equal(t, "学校", embed.Title)
	assert.Equal(t, "n · common word", embed.Footer.Text)

	byName := map[string]string{}
	for _, f := range embed.Fields {
		byName[f.Name] = f.Value
	}
	assert.Equal(t, "がっこう", byName["Reading"])
	assert.Equal(t, "gakkō", byName["Romaji"])
	assert.Equal(t, "school\nacademy", byName["Meaning"])
}

func TestFormatEntryEmbedKanaOnly(t *testing.T) {
	entry := dict.Entry{
		EntSeq:     1577100,
		Expression: "ラーメン",
		Reading:    "ラーメン",
		Glosses:    []string{"ramen"},
	}

	embed := formatEntryEmbed(entry)
	assert.Equal(t, "ラーメン", embed.Title)
	assert.Nil(t, embed.Footer)
	for _, f := range embed.Fields {
		assert.NotEqual(t, "Reading", f.Name, "redundant reading field should be skipped")
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(3, 100*time.Millisecond)

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("user-1"), "request %d", i)
	}
	assert.False(t, rl.Allow("user-1"))
	assert.True(t, rl.Allow("user-2"), "limits are per user")

	time.Sleep(120 * time.Millisecond)
	assert.True(t, rl.Allow("user-1"), "window slides")
}
