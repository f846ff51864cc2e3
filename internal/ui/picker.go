// Package ui holds the interactive terminal menus.
package ui

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rohankatakam/merit/internal/contributors"
)

// ErrCancelled is returned when the user leaves a menu without choosing
var ErrCancelled = stderrors.New("selection cancelled")

// Option is one menu entry. Value is what the caller acts on.
type Option struct {
	Label  string
	Detail string
	Value  string
}

func (o Option) Title() string       { return o.Label }
func (o Option) Description() string { return o.Detail }
func (o Option) FilterValue() string { return o.Label + " " + o.Value }

// Model is a single-choice list. It is exported so the key handling can be
// driven without a terminal.
type Model struct {
	list     list.Model
	chosen   *Option
	quitting bool
}

// NewModel builds a picker titled title over options
func NewModel(title string, options []Option) Model {
	items := make([]list.Item, len(options))
	for i, o := range options {
		items[i] = o
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true

	l := list.New(items, delegate, 0, 0)
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(len(options) > 10)
	l.DisableQuitKeybindings()
	l.Styles.Title = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"})

	return Model{list: l}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "enter":
			if o, ok := m.list.SelectedItem().(Option); ok {
				m.chosen = &o
			}
			m.quitting = true
			return m, tea.Quit
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.list.View()
}

// Chosen returns the selected option, if any
func (m Model) Chosen() (Option, bool) {
	if m.chosen == nil {
		return Option{}, false
	}
	return *m.chosen, true
}

// Index returns the highlighted row
func (m Model) Index() int {
	return m.list.Index()
}

// Pick shows the menu on in/out and returns the chosen option. A single
// option is returned without prompting.
func Pick(ctx context.Context, in io.Reader, out io.Writer, title string, options []Option) (Option, error) {
	switch len(options) {
	case 0:
		return Option{}, fmt.Errorf("nothing to choose from")
	case 1:
		return options[0], nil
	}

	p := tea.NewProgram(NewModel(title, options),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if err != nil {
		return Option{}, fmt.Errorf("menu failed: %w", err)
	}

	chosen, ok := final.(Model).Chosen()
	if !ok {
		return Option{}, ErrCancelled
	}
	return chosen, nil
}

// ProviderOptions lists provider names for Pick
func ProviderOptions(names []string) []Option {
	options := make([]Option, len(names))
	for i, n := range names {
		options[i] = Option{Label: n, Value: n}
	}
	return options
}

// ContributorOptions lists contributors for Pick. Value is the
// "Name <email>" form of the identity.
func ContributorOptions(ranked []*contributors.Stats) []Option {
	options := make([]Option, len(ranked))
	for i, s := range ranked {
		options[i] = Option{
			Label:  s.Name,
			Detail: fmt.Sprintf("%s · %d commits · +%d -%d", s.Email, s.CommitCount, s.Additions, s.Deletions),
			Value:  s.Identity.String(),
		}
	}
	return options
}
