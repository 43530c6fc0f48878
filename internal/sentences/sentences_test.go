package sentences

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLLM struct {
	lastSystem string
	lastPrompt string
	reply      string
	err        error
}

func (f *fakeLLM) Complete(ctx context.Context, system, prompt string) (string, error) {
	f.lastSystem = system
	f.lastPrompt = prompt
	return f.reply, f.err
}

func TestGenerate(t *testing.T) {
	fake := &fakeLLM{reply: `[
		{"japanese": "猫が好きです。", "reading": "ねこがすきです。", "english": "I like cats."}
	]`}
	g := NewGenerator(fake)

	examples, err := g.Generate(context.Background(), "猫", "ねこ", "cat")
	require.NoError(t, err)
	require.Len(t, examples, 1)
	assert.Equal(t, "猫が好きです。", examples[0].Japanese)
	assert.Equal(t, "I like cats.", examples[0].English)

	assert.Contains(t, fake.lastPrompt, "猫")
	assert.Contains(t, fake.lastPrompt, "(ねこ)")
	assert.Contains(t, fake.lastPrompt, "Meaning: cat")
}

func TestGenerateStripsFences(t *testing.T) {
	// The providers strip fences before we see the text; a raw fenced reply
	// reaching the parser is a provider bug we surface loudly.
	fake := &fakeLLM{reply: "```json\n[]\n```"}
	g := NewGenerator(fake)

	_, err := g.Generate(context.Background(), "猫", "", "")
	assert.Error(t, err)
}

func TestGenerateBadJSON(t *testing.T) {
	fake := &fakeLLM{reply: "Sure! Here are some sentences:"}
	g := NewGenerator(fake)

	_, err := g.Generate(context.Background(), "猫", "ねこ", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}
