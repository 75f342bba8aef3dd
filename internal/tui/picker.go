// Package tui provides the interactive repository picker.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/IPDSnelting/velcom/internal/client"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrCancelled is returned when the user leaves the picker without choosing.
var ErrCancelled = errors.New("repository selection cancelled")

// KeyMap defines keybindings
type KeyMap struct {
	Enter key.Binding
	Back  key.Binding
	Quit  key.Binding
}

// DefaultKeyMap returns the default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Enter, k.Back, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Enter, k.Back, k.Quit}}
}

type repoItem struct {
	repo client.Repo
	none bool
}

func (r repoItem) FilterValue() string { return r.repo.Name + " " + r.repo.ID }
func (r repoItem) Title() string {
	if r.none {
		return "(no repository)"
	}
	return r.repo.Name
}
func (r repoItem) Description() string {
	if r.none {
		return "upload without attaching the run to a repository"
	}
	return "id " + r.repo.ID
}

// Model is the picker state.
type Model struct {
	list     list.Model
	help     help.Model
	keyMap   KeyMap
	chosen   *repoItem
	canceled bool
}

// NewPicker creates a picker listing repos. The first entry always means
// "no repository".
func NewPicker(repos []client.Repo) Model {
	items := make([]list.Item, 0, len(repos)+1)
	items = append(items, repoItem{none: true})
	for _, r := range repos {
		items = append(items, repoItem{repo: r})
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Select a repository"
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.Styles.NoItems = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Padding(0, 2)

	return Model{
		list:   l,
		help:   help.New(),
		keyMap: DefaultKeyMap(),
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-2)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.canceled = true
			return m, tea.Quit
		}

		// While the filter input has focus keys belong to the list.
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch {
		case key.Matches(msg, m.keyMap.Enter):
			if item, ok := m.list.SelectedItem().(repoItem); ok {
				m.chosen = &item
				return m, tea.Quit
			}
			return m, nil

		case key.Matches(msg, m.keyMap.Back):
			if m.list.FilterState() == list.FilterApplied {
				break
			}
			m.canceled = true
			return m, tea.Quit

		case key.Matches(msg, m.keyMap.Quit):
			m.canceled = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the picker.
func (m Model) View() string {
	return m.list.View() + "\n" + m.help.View(m.keyMap)
}

// Selection returns the chosen repository. ok is false when the user chose
// the "no repository" entry.
func (m Model) Selection() (repo client.Repo, ok bool, err error) {
	if m.canceled || m.chosen == nil {
		return client.Repo{}, false, ErrCancelled
	}
	if m.chosen.none {
		return client.Repo{}, false, nil
	}
	return m.chosen.repo, true, nil
}

// PickRepo runs the picker on in/out until the user chooses or cancels.
func PickRepo(ctx context.Context, in io.Reader, out io.Writer, repos []client.Repo) (client.Repo, bool, error) {
	p := tea.NewProgram(NewPicker(repos),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if err != nil {
		if ctx.Err() != nil {
			return client.Repo{}, false, ctx.Err()
		}
		return client.Repo{}, false, fmt.Errorf("failed to run repository picker: %w", err)
	}

	m, ok := final.(Model)
	if !ok {
		return client.Repo{}, false, ErrCancelled
	}
	return m.Selection()
}
