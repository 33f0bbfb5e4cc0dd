package ui

import (
	"errors"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrAborted is returned when the user cancels a selection (esc/q/ctrl+c).
var ErrAborted = errors.New("selection aborted")

type selectItem string

func (i selectItem) Title() string       { return string(i) }
func (i selectItem) Description() string { return "" }
func (i selectItem) FilterValue() string { return string(i) }

type selectModel struct {
	list    list.Model
	choice  int
	aborted bool
}

func (m selectModel) Init() tea.Cmd { return nil }

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.aborted = true
			return m, tea.Quit
		case "enter":
			m.choice = m.list.Index()
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m selectModel) View() string { return m.list.View() }

// Select presents a list picker and returns the chosen index.
func Select(title string, options []string) (int, error) {
	items := make([]list.Item, len(options))
	for i, opt := range options {
		items[i] = selectItem(opt)
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	l := list.New(items, delegate, 0, 0)
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = TitleStyle

	final, err := tea.NewProgram(selectModel{list: l, choice: -1}).Run()
	if err != nil {
		return 0, err
	}
	m, ok := final.(selectModel)
	if !ok || m.aborted || m.choice < 0 {
		return 0, ErrAborted
	}
	return m.choice, nil
}
