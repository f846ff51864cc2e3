package ui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohankatakam/merit/internal/contributors"
)

var testOptions = []Option{
	{Label: "openai", Value: "openai"},
	{Label: "claude", Value: "claude"},
	{Label: "gemini", Value: "gemini"},
}

func send(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()

	var cmd tea.Cmd
	for _, msg := range msgs {
		var updated tea.Model
		updated, cmd = m.Update(msg)
		m = updated.(Model)
	}
	return m, cmd
}

func isQuit(t *testing.T, cmd tea.Cmd) bool {
	t.Helper()
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestModel_EnterChoosesHighlighted(t *testing.T) {
	m := NewModel("Provider", testOptions)
	m, _ = send(t, m,
		tea.WindowSizeMsg{Width: 80, Height: 20},
		tea.KeyMsg{Type: tea.KeyDown},
	)
	assert.Equal(t, 1, m.Index())

	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, isQuit(t, cmd))

	chosen, ok := m.Chosen()
	require.True(t, ok)
	assert.Equal(t, "claude", chosen.Value)
	assert.Empty(t, m.View())
}

func TestModel_EscapeCancels(t *testing.T) {
	m := NewModel("Provider", testOptions)
	m, cmd := send(t, m,
		tea.WindowSizeMsg{Width: 80, Height: 20},
		tea.KeyMsg{Type: tea.KeyEsc},
	)
	assert.True(t, isQuit(t, cmd))

	_, ok := m.Chosen()
	assert.False(t, ok)
}

func TestModel_ViewListsOptions(t *testing.T) {
	m := NewModel("Provider", testOptions)
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 80, Height: 20})

	view := m.View()
	assert.Contains(t, view, "Provider")
	assert.Contains(t, view, "openai")
	assert.Contains(t, view, "claude")
}

func TestPick_ShortCircuits(t *testing.T) {
	_, err := Pick(context.Background(), nil, nil, "x", nil)
	assert.Error(t, err)

	only := Option{Label: "openai", Value: "openai"}
	chosen, err := Pick(context.Background(), nil, nil, "x", []Option{only})
	require.NoError(t, err)
	assert.Equal(t, only, chosen)
}

func TestContributorOptions(t *testing.T) {
	ranked := []*contributors.Stats{{
		Identity:    contributors.Identity{Name: "Alice", Email: "alice@example.com"},
		CommitCount: 3,
		Additions:   10,
		Deletions:   2,
	}}

	options := ContributorOptions(ranked)
	require.Len(t, options, 1)
	assert.Equal(t, "Alice", options[0].Label)
	assert.Equal(t, "Alice <alice@example.com>", options[0].Value)
	assert.Equal(t, "alice@example.com · 3 commits · +10 -2", options[0].Detail)
}

func TestProviderOptions(t *testing.T) {
	assert.Equal(t, testOptions, ProviderOptions([]string{"openai", "claude", "gemini"}))
}
