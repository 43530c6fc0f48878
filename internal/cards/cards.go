// Package cards turns dictionary entries into Anki notes: it maps note-type
// fields to logical roles, fills them (including romaji and audio), and runs
// the bulk build. A term that fails never aborts the rest of the batch.
package cards

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/jusunglee/kanadeck/internal/anki"
	"github.com/jusunglee/kanadeck/internal/dict"
	"github.com/jusunglee/kanadeck/internal/romaji"
	"github.com/jusunglee/kanadeck/internal/sentences"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// Role is the logical meaning assigned to a note-type field.
type Role string

const (
	RoleNone       Role = "none"
	RoleExpression Role = "expression"
	RoleReading    Role = "reading"
	RoleRomaji     Role = "romaji"
	RoleGlossary   Role = "glossary"
	RoleGlossary2  Role = "glossary2"
	RoleGlossary3  Role = "glossary3"
	RoleAudio      Role = "audio"
	RoleExample    Role = "example"
)

// Roles lists every assignable role, in the order pickers should offer them.
var Roles = []Role{
	RoleNone, RoleExpression, RoleReading, RoleRomaji,
	RoleGlossary, RoleGlossary2, RoleGlossary3, RoleAudio, RoleExample,
}

// ParseRole parses a user-supplied role name.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Roles {
		if r == known {
			return r, nil
		}
	}
	return RoleNone, fmt.Errorf("unknown field role %q", s)
}

// Mapping assigns a role to each note-type field it mentions.
type Mapping map[string]Role

// ParseMapping parses "Front=expression,Back=glossary" style flag values.
func ParseMapping(s string) (Mapping, error) {
	m := Mapping{}
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		field, roleStr, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("malformed mapping %q, want field=role", pair)
		}
		role, err := ParseRole(roleStr)
		if err != nil {
			return nil, err
		}
		m[strings.TrimSpace(field)] = role
	}
	if len(m) == 0 {
		return nil, fmt.Errorf("empty field mapping")
	}
	return m, nil
}

// Validate checks every mapped field exists on the note type and that at
// least one field carries a real role.
func (m Mapping) Validate(noteFields []string) error {
	for field := range m {
		if !lo.Contains(noteFields, field) {
			return fmt.Errorf("note type has no field %q (has: %s)", field, strings.Join(noteFields, ", "))
		}
	}
	if lo.EveryBy(lo.Values(m), func(r Role) bool { return r == RoleNone }) {
		return fmt.Errorf("field mapping assigns no roles")
	}
	return nil
}

// AudioStore materializes a pronunciation clip and returns its filename,
// or "" when none exists for the word.
type AudioStore interface {
	Ensure(ctx context.Context, kana, kanji string) (string, error)
}

// NoteStore persists notes and media; satisfied by *anki.Client.
type NoteStore interface {
	AddNote(ctx context.Context, note anki.Note) (int64, error)
	StoreMediaFile(ctx context.Context, name, path string) (string, error)
}

// ExampleGenerator produces example sentences; satisfied by
// *sentences.Generator.
type ExampleGenerator interface {
	Generate(ctx context.Context, expression, reading, gloss string) ([]sentences.Example, error)
}

// Builder holds everything one bulk build needs.
type Builder struct {
	Log      *slog.Logger
	Dict     dict.Repository
	Notes    NoteStore
	Audio    AudioStore       // nil disables audio fields
	Examples ExampleGenerator // nil disables example fields

	Deck       string
	Model      string
	Mapping    Mapping
	RomajiOpts romaji.Options
	MediaDir   string // where AudioStore writes, for StoreMediaFile

	// Concurrency bounds parallel term processing; 0 means 4.
	Concurrency int

	// OnProgress, when set, is called after each term completes.
	OnProgress func(done, total int)
}

// Result summarizes a bulk build.
type Result struct {
	Created  int
	NotFound []string
	Errors   []TermError
}

type TermError struct {
	Term string
	Err  error
}

// Run builds one note per term. Terms are trimmed and deduplicated first.
// Lookup misses and per-term failures are collected in the Result, never
// returned as an error; only context cancellation aborts the run.
func (b *Builder) Run(ctx context.Context, terms []string) (Result, error) {
	terms = lo.Uniq(lo.FilterMap(terms, func(t string, _ int) (string, bool) {
		t = strings.TrimSpace(t)
		return t, t != ""
	}))

	var (
		mu     sync.Mutex
		result Result
		done   int
	)
	total := len(terms)

	finish := func(update func(*Result)) {
		mu.Lock()
		update(&result)
		done++
		d := done
		mu.Unlock()
		if b.OnProgress != nil {
			b.OnProgress(d, total)
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency())

	for _, term := range terms {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			entry, err := b.Dict.Lookup(ctx, term)
			if dict.IsNoRows(err) {
				finish(func(r *Result) { r.NotFound = append(r.NotFound, term) })
				return nil
			}
			if err != nil {
				finish(func(r *Result) { r.Errors = append(r.Errors, TermError{term, fmt.Errorf("lookup: %w", err)}) })
				return nil
			}

			fields, err := b.BuildFields(ctx, entry)
			if err != nil {
				finish(func(r *Result) { r.Errors = append(r.Errors, TermError{term, err}) })
				return nil
			}
			if len(fields) == 0 {
				finish(func(r *Result) { r.NotFound = append(r.NotFound, term) })
				return nil
			}

			_, err = b.Notes.AddNote(ctx, anki.Note{Deck: b.Deck, Model: b.Model, Fields: fields})
			if err != nil {
				finish(func(r *Result) { r.Errors = append(r.Errors, TermError{term, fmt.Errorf("adding note: %w", err)}) })
				return nil
			}

			b.Log.Debug("created note", "term", term, "expression", entry.Expression)
			finish(func(r *Result) { r.Created++ })
			return nil
		})
	}

	err := g.Wait()
	sort.Strings(result.NotFound)
	return result, err
}

// BuildFields fills the mapped fields from one entry. Fields whose value
// comes out empty are omitted so Anki templates can tell absent from blank.
func (b *Builder) BuildFields(ctx context.Context, entry dict.Entry) (map[string]string, error) {
	fields := make(map[string]string)
	for field, role := range b.Mapping {
		value, err := b.fieldValue(ctx, entry, role)
		if err != nil {
			return nil, err
		}
		if value != "" {
			fields[field] = value
		}
	}
	return fields, nil
}

func (b *Builder) fieldValue(ctx context.Context, entry dict.Entry, role Role) (string, error) {
	switch role {
	case RoleExpression:
		return entry.Expression, nil

	case RoleReading:
		// Fall back to the expression for kana-only entries.
		return entry.Key(), nil

	case RoleRomaji:
		return romaji.Convert(entry.Key(), b.RomajiOpts), nil

	case RoleGlossary:
		return glossAt(entry, 0), nil
	case RoleGlossary2:
		return glossAt(entry, 1), nil
	case RoleGlossary3:
		return glossAt(entry, 2), nil

	case RoleAudio:
		if b.Audio == nil {
			return "", nil
		}
		kanji := ""
		if entry.Reading != "" && entry.Reading != entry.Expression {
			kanji = entry.Expression
		}
		name, err := b.Audio.Ensure(ctx, entry.Key(), kanji)
		if err != nil {
			return "", fmt.Errorf("fetching audio: %w", err)
		}
		if name == "" {
			return "", nil
		}
		if _, err := b.Notes.StoreMediaFile(ctx, name, filepath.Join(b.MediaDir, name)); err != nil {
			return "", fmt.Errorf("storing audio: %w", err)
		}
		return "[sound:" + name + "]", nil

	case RoleExample:
		if b.Examples == nil {
			return "", nil
		}
		examples, err := b.Examples.Generate(ctx, entry.Expression, entry.Reading, glossAt(entry, 0))
		if err != nil {
			return "", fmt.Errorf("generating examples: %w", err)
		}
		lines := lo.Map(examples, func(e sentences.Example, _ int) string {
			return e.Japanese + "<br>" + e.English
		})
		return strings.Join(lines, "<br><br>"), nil

	default:
		return "", nil
	}
}

func (b *Builder) concurrency() int {
	if b.Concurrency > 0 {
		return b.Concurrency
	}
	return 4
}

func glossAt(entry dict.Entry, i int) string {
	if i < len(entry.Glosses) {
		return entry.Glosses[i]
	}
	return ""
}
