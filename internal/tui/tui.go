package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

func NewApp(mode string, endpoints Endpoints) *Model {
	return &Model{
		state:     StateWelcome,
		mode:      mode,
		endpoints: endpoints,
		welcome:   NewWelcome(mode),
	}
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.closeFeed()
			return m, tea.Quit

		case "esc":
			// in the feed, esc goes back to welcome
			if m.state == StateFeed {
				m.closeFeed()
				m.state = StateWelcome
				return m, nil
			}

			m.err = nil
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case ErrorMsg:
		m.err = msg.err
		return m, nil

	case EnterFeedMsg:
		m.err = nil
		m.state = StateFeed
		m.feed = NewFeedModel(m.endpoints)

		var cmd tea.Cmd
		if m.width > 0 {
			m.feed, cmd = m.feed.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
		}

		return m, tea.Batch(cmd, m.feed.Init())
	}

	switch m.state {
	case StateWelcome:
		var cmd tea.Cmd
		m.welcome, cmd = m.welcome.Update(msg)
		return m, cmd

	case StateFeed:
		var cmd tea.Cmd
		m.feed, cmd = m.feed.Update(msg)
		return m, cmd

	default:
		return m, nil
	}
}

func (m *Model) View() string {
	if m.err != nil {
		return errorView(m.err)
	}

	switch m.state {
	case StateWelcome:
		return m.welcome.View()

	case StateFeed:
		return m.feed.View()

	default:
		return "Unknown state"
	}
}

func (m *Model) closeFeed() {
	if m.feed != nil {
		m.feed.Close()
		m.feed = nil
	}
}

func errorView(err error) string {
	return fmt.Sprintf("\n  %s\n\n  Press Esc to go back or Ctrl+C to exit\n", errorStyle.Render("Error: "+err.Error()))
}
