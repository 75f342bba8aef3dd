package tui

import (
	"testing"

	"github.com/IPDSnelting/velcom/internal/client"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRepos = []client.Repo{
	{ID: "r1", Name: "velcom"},
	{ID: "r2", Name: "backend"},
}

func send(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()

	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m, cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestPicker_SelectRepo(t *testing.T) {
	m := NewPicker(testRepos)
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})

	m, cmd := send(t, m,
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyEnter},
	)
	assert.True(t, isQuit(cmd))

	repo, ok, err := m.Selection()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, testRepos[0], repo)
}

func TestPicker_NoRepository(t *testing.T) {
	m := NewPicker(testRepos)
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})

	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, isQuit(cmd))

	_, ok, err := m.Selection()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPicker_Cancel(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
	}{
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}},
		{"q", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, cmd := send(t, NewPicker(testRepos), tt.msg)
			assert.True(t, isQuit(cmd))

			_, _, err := m.Selection()
			assert.ErrorIs(t, err, ErrCancelled)
		})
	}
}

func TestPicker_NotChosenYet(t *testing.T) {
	_, _, err := NewPicker(nil).Selection()
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestPicker_View(t *testing.T) {
	m, _ := send(t, NewPicker(testRepos), tea.WindowSizeMsg{Width: 80, Height: 24})
	view := m.View()
	assert.Contains(t, view, "Select a repository")
	assert.Contains(t, view, "velcom")
}
