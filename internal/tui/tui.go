// Package tui is the interactive bulk card builder: pick a deck and note
// type, map fields to roles, paste words, watch the build run.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jusunglee/kanadeck/internal/cards"
)

type step int

const (
	stepLoading step = iota
	stepDeck
	stepModel
	stepMapping
	stepWords
	stepBuilding
	stepDone
)

// AnkiMeta is the slice of the Anki client the wizard needs for pickers.
type AnkiMeta interface {
	DeckNames(ctx context.Context) ([]string, error)
	ModelNames(ctx context.Context) ([]string, error)
	ModelFieldNames(ctx context.Context, model string) ([]string, error)
}

// BuildFunc runs the bulk build once the wizard has collected everything.
type BuildFunc func(ctx context.Context, deck, model string, mapping cards.Mapping, terms []string) (cards.Result, error)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

type metaMsg struct {
	decks  []string
	models []string
	err    error
}

type fieldsMsg struct {
	fields []string
	err    error
}

type buildDoneMsg struct {
	result cards.Result
	err    error
}

type model struct {
	ctx   context.Context
	anki  AnkiMeta
	build BuildFunc

	step   step
	decks  []string
	models []string
	fields []string

	deck      string
	noteModel string
	mapping   cards.Mapping
	fieldIdx  int

	words textarea.Model

	input  string
	err    error
	result cards.Result
}

// Run drives the wizard to completion.
func Run(ctx context.Context, anki AnkiMeta, build BuildFunc) error {
	ta := textarea.New()
	ta.Placeholder = "one word per line"
	ta.SetHeight(10)
	ta.SetWidth(60)

	m := model{
		ctx:     ctx,
		anki:    anki,
		build:   build,
		step:    stepLoading,
		mapping: cards.Mapping{},
		words:   ta,
	}

	_, err := tea.NewProgram(m, tea.WithContext(ctx)).Run()
	return err
}

func (m model) Init() tea.Cmd {
	return m.loadMeta
}

func (m model) loadMeta() tea.Msg {
	decks, err := m.anki.DeckNames(m.ctx)
	if err != nil {
		return metaMsg{err: err}
	}
	models, err := m.anki.ModelNames(m.ctx)
	if err != nil {
		return metaMsg{err: err}
	}
	return metaMsg{decks: decks, models: models}
}

func (m model) loadFields() tea.Msg {
	fields, err := m.anki.ModelFieldNames(m.ctx, m.noteModel)
	return fieldsMsg{fields: fields, err: err}
}

func (m model) runBuild() tea.Msg {
	terms := strings.Split(m.words.Value(), "\n")
	result, err := m.build(m.ctx, m.deck, m.noteModel, m.mapping, terms)
	return buildDoneMsg{result: result, err: err}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case metaMsg:
		if msg.err != nil {
			m.err = msg.err
			m.step = stepDone
			return m, nil
		}
		m.decks = msg.decks
		m.models = msg.models
		m.step = stepDeck
		return m, nil

	case fieldsMsg:
		if msg.err != nil {
			m.err = msg.err
			m.step = stepDone
			return m, nil
		}
		m.fields = msg.fields
		m.fieldIdx = 0
		m.step = stepMapping
		return m, nil

	case buildDoneMsg:
		m.result = msg.result
		m.err = msg.err
		m.step = stepDone
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.step == stepWords {
		var cmd tea.Cmd
		m.words, cmd = m.words.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.step == stepWords {
		switch msg.Type {
		case tea.KeyCtrlD:
			m.step = stepBuilding
			return m, m.runBuild
		default:
			var cmd tea.Cmd
			m.words, cmd = m.words.Update(msg)
			return m, cmd
		}
	}

	switch msg.Type {
	case tea.KeyEnter:
		return m.handleEnter()
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	case tea.KeyRunes:
		m.input += string(msg.Runes)
	}
	return m, nil
}

func (m model) handleEnter() (tea.Model, tea.Cmd) {
	m.err = nil

	switch m.step {
	case stepDeck:
		i, ok := m.pick(len(m.decks))
		if !ok {
			return m, nil
		}
		m.deck = m.decks[i]
		m.input = ""
		m.step = stepModel

	case stepModel:
		i, ok := m.pick(len(m.models))
		if !ok {
			return m, nil
		}
		m.noteModel = m.models[i]
		m.input = ""
		return m, m.loadFields

	case stepMapping:
		i, ok := m.pick(len(cards.Roles))
		if !ok {
			return m, nil
		}
		if role := cards.Roles[i]; role != cards.RoleNone {
			m.mapping[m.fields[m.fieldIdx]] = role
		}
		m.input = ""
		m.fieldIdx++
		if m.fieldIdx >= len(m.fields) {
			if err := m.mapping.Validate(m.fields); err != nil {
				m.err = err
				m.fieldIdx = 0
				m.mapping = cards.Mapping{}
				return m, nil
			}
			m.step = stepWords
			return m, m.words.Focus()
		}

	case stepDone:
		return m, tea.Quit
	}

	return m, nil
}

// pick parses the numeric input as a 1-based choice among n options.
func (m *model) pick(n int) (int, bool) {
	i, err := strconv.Atoi(strings.TrimSpace(m.input))
	if err != nil || i < 1 || i > n {
		m.err = fmt.Errorf("enter a number between 1 and %d", n)
		return 0, false
	}
	return i - 1, true
}

func (m model) View() string {
	var s strings.Builder

	switch m.step {
	case stepLoading:
		s.WriteString(titleStyle.Render("kanadeck"))
		s.WriteString("\n\nConnecting to Anki…\n")
		s.WriteString(dimStyle.Render("Anki must be running with the AnkiConnect add-on."))

	case stepDeck:
		s.WriteString(titleStyle.Render("Step 1: Deck"))
		s.WriteString("\n\n")
		writeNumbered(&s, m.decks)
		s.WriteString("\n" + labelStyle.Render("Deck number:"))
		s.WriteString("\n> " + inputStyle.Render(m.input))

	case stepModel:
		s.WriteString(titleStyle.Render("Step 2: Note type"))
		s.WriteString("\n\n")
		writeNumbered(&s, m.models)
		s.WriteString("\n" + labelStyle.Render("Note type number:"))
		s.WriteString("\n> " + inputStyle.Render(m.input))

	case stepMapping:
		s.WriteString(titleStyle.Render("Step 3: Field mapping"))
		s.WriteString("\n\n")
		roleNames := make([]string, len(cards.Roles))
		for i, r := range cards.Roles {
			roleNames[i] = string(r)
		}
		writeNumbered(&s, roleNames)
		s.WriteString("\n" + labelStyle.Render(fmt.Sprintf("Role for field %q:", m.fields[m.fieldIdx])))
		s.WriteString("\n> " + inputStyle.Render(m.input))

	case stepWords:
		s.WriteString(titleStyle.Render("Step 4: Words"))
		s.WriteString("\n\n")
		s.WriteString("One word or reading per line. Entries not found in the\n")
		s.WriteString("dictionary are skipped, never fatal.\n\n")
		s.WriteString(m.words.View())
		s.WriteString("\n" + dimStyle.Render("Ctrl+D to build, Ctrl+C to quit"))

	case stepBuilding:
		s.WriteString(titleStyle.Render("Building cards…"))

	case stepDone:
		if m.err != nil {
			s.WriteString(errorStyle.Render("Failed: " + m.err.Error()))
		} else {
			s.WriteString(successStyle.Render(fmt.Sprintf("Created %d cards.", m.result.Created)))
			if len(m.result.NotFound) > 0 {
				s.WriteString("\n\nNo dictionary entry for:\n  ")
				s.WriteString(strings.Join(m.result.NotFound, ", "))
			}
			for _, te := range m.result.Errors {
				s.WriteString("\n" + errorStyle.Render(fmt.Sprintf("%s: %v", te.Term, te.Err)))
			}
		}
		s.WriteString("\n\n" + dimStyle.Render("Press Enter to exit"))
	}

	if m.err != nil && m.step != stepDone {
		s.WriteString("\n" + errorStyle.Render(m.err.Error()))
	}
	s.WriteString("\n")
	return s.String()
}

func writeNumbered(s *strings.Builder, items []string) {
	for i, item := range items {
		fmt.Fprintf(s, "  %d. %s\n", i+1, item)
	}
}
