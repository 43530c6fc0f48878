// Package sentences generates short example sentences for a vocabulary word
// through an LLM provider.
package sentences

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jusunglee/kanadeck/internal/llm"
)

type Generator struct {
	llm llm.Client
}

// Example is one generated sentence with its kana reading and translation.
type Example struct {
	Japanese string `json:"japanese"`
	Reading  string `json:"reading"`
	English  string `json:"english"`
}

func NewGenerator(client llm.Client) *Generator {
	return &Generator{llm: client}
}

const systemPrompt = `You are writing example sentences for Japanese vocabulary flashcards.

For the given word, write 2 short, natural sentences a learner around JLPT N4 level can read. Each sentence must use the word.

Respond ONLY with a JSON array, no other text. Example:
[
  {"japanese": "猫が好きです。", "reading": "ねこがすきです。", "english": "I like cats."},
  {"japanese": "黒い猫を見た。", "reading": "くろいねこをみた。", "english": "I saw a black cat."}
]`

// Generate returns example sentences for the word. gloss gives the LLM the
// intended sense when the word is ambiguous.
func (g *Generator) Generate(ctx context.Context, expression, reading, gloss string) ([]Example, error) {
	var sb strings.Builder
	sb.WriteString("Word: ")
	sb.WriteString(expression)
	if reading != "" && reading != expression {
		sb.WriteString(" (")
		sb.WriteString(reading)
		sb.WriteString(")")
	}
	if gloss != "" {
		sb.WriteString("\nMeaning: ")
		sb.WriteString(gloss)
	}

	text, err := g.llm.Complete(ctx, systemPrompt, sb.String())
	if err != nil {
		return nil, err
	}

	var examples []Example
	if err := json.Unmarshal([]byte(text), &examples); err != nil {
		return nil, fmt.Errorf("failed to parse sentence response: %w (response: %s)", err, text)
	}

	return examples, nil
}
