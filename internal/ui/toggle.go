package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"shaderopt/internal/option"
)

type toggleItem struct {
	name       string
	comment    string
	enabled    bool // on-disk state at scan time
	referenced bool
	flip       bool
}

type toggleKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Accept key.Binding
	Quit   key.Binding
}

func (k toggleKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Accept, k.Quit}
}

func (k toggleKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Toggle, k.Accept, k.Quit}}
}

var toggleKeys = toggleKeyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Toggle: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
	Accept: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
	Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	onStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	offStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	commentStyle = lipgloss.NewStyle().Faint(true)
	unrefStyle   = lipgloss.NewStyle().Faint(true).Italic(true)
)

// ToggleModel is a Bubble Tea model that lets the user flip boolean options.
// The selection is read back with Flips after the program exits.
type ToggleModel struct {
	title    string
	items    []toggleItem
	cursor   int
	width    int
	help     help.Model
	accepted bool
}

// NewToggleModel builds the toggle list from a merged option set. Options are
// shown in sorted name order; unreferenced ones are listed but marked, since
// flipping them rarely has an effect.
func NewToggleModel(title string, set *option.Set) *ToggleModel {
	names := set.BooleanNames()
	items := make([]toggleItem, 0, len(names))
	for _, name := range names {
		merged := set.Booleans()[name]
		items = append(items, toggleItem{
			name:       name,
			comment:    merged.Option.Comment,
			enabled:    merged.Option.Enabled,
			referenced: merged.Referenced,
		})
	}
	return &ToggleModel{
		title: title,
		items: items,
		width: 80,
		help:  help.New(),
	}
}

func (m *ToggleModel) Init() tea.Cmd {
	return nil
}

func (m *ToggleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.help.Width = msg.Width
		}
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, toggleKeys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, toggleKeys.Down):
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case key.Matches(msg, toggleKeys.Toggle):
			if len(m.items) > 0 {
				m.items[m.cursor].flip = !m.items[m.cursor].flip
			}
		case key.Matches(msg, toggleKeys.Accept):
			m.accepted = true
			return m, tea.Quit
		case key.Matches(msg, toggleKeys.Quit):
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *ToggleModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")

	if len(m.items) == 0 {
		b.WriteString(commentStyle.Render("no boolean options discovered"))
		b.WriteString("\n")
	}

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}

		state := item.enabled != item.flip
		marker := offStyle.Render("[ ]")
		if state {
			marker = onStyle.Render("[x]")
		}
		if item.flip {
			marker = pendingStyle.Render(marker + "*")
		} else {
			marker += " "
		}

		line := fmt.Sprintf("%s%s %s", cursor, marker, item.name)
		if !item.referenced {
			line += " " + unrefStyle.Render("(unreferenced)")
		}
		if item.comment != "" {
			line += " " + commentStyle.Render(runewidth.Truncate(item.comment, max(m.width-lipgloss.Width(line)-1, 0), "…"))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(toggleKeys))
	b.WriteString("\n")

	return b.String()
}

// Accepted reports whether the user confirmed the selection rather than
// quitting out of it.
func (m *ToggleModel) Accepted() bool {
	return m.accepted
}

// Flips returns the names the user chose to toggle.
func (m *ToggleModel) Flips() option.NameSet {
	flips := make(option.NameSet)
	for _, item := range m.items {
		if item.flip {
			flips[item.name] = struct{}{}
		}
	}
	return flips
}
