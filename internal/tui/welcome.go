package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
)

// returns a new welcome screen; start is only offered in development
func NewWelcome(mode string) *Welcome {
	all := []Command{
		{Name: "feed", Description: "watch AI usage and earnings live", Available: true},
		{Name: "start", Description: "build and run a local metastamp server", Available: mode == "development"},
		{Name: "quit", Description: "exit metastamp", Available: true},
	}

	return &Welcome{
		mode: mode,
		commands: lo.Filter(all, func(c Command, _ int) bool {
			return c.Available
		}),
	}
}

func (m *Welcome) Update(msg tea.Msg) (*Welcome, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEnter:
			return m, m.executeCommand()
		case tea.KeyUp:
			m.move(-1)
		case tea.KeyDown, tea.KeyTab:
			m.move(1)
		case tea.KeyBackspace:
			if len(m.input) > 0 {
				m.input = m.input[:len(m.input)-1]
			}
		case tea.KeyRunes:
			m.input += string(msg.Runes)
		}

	case ServerStartedMsg:
		m.input = ""
		m.started = true
	}

	return m, nil
}

// moves the highlighted command and mirrors it into the prompt
func (m *Welcome) move(delta int) {
	if len(m.commands) == 0 {
		return
	}

	m.cursor = (m.cursor + delta + len(m.commands)) % len(m.commands)
	m.input = m.commands[m.cursor].Name
}

func (m *Welcome) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(logo))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("get paid when AI touches your work"))
	b.WriteString("\n\n")

	status := "mode: " + strings.ToUpper(m.mode)
	if m.started {
		status += "  •  local server running"
	}
	b.WriteString(infoStyle.Render(status))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(colorWhite).Render("commands:"))
	b.WriteString("\n\n")

	for i, cmd := range m.commands {
		marker := "  "
		if i == m.cursor && m.input == cmd.Name {
			marker = promptStyle.Render("› ")
		}

		fmt.Fprintf(&b, "%s%s %s\n", marker, commandStyle.Render(cmd.Name), commandDescStyle.Render("- "+cmd.Description))
	}

	b.WriteString("\n")
	b.WriteString(promptStyle.Render("> ") + inputStyle.Render(m.input+"_"))
	b.WriteString("\n\n")

	b.WriteString(helpStyle.Render("type or pick a command with ↑/↓, then press enter. ctrl+c quits."))

	return b.String()
}

func (m *Welcome) executeCommand() tea.Cmd {
	name := strings.ToLower(strings.TrimSpace(m.input))
	m.input = ""

	if name == "" {
		return nil
	}

	if _, ok := lo.Find(m.commands, func(c Command) bool { return c.Name == name }); !ok {
		return errorCmd(fmt.Errorf("unknown command: %s", name))
	}

	switch name {
	case "quit":
		return tea.Quit
	case "start":
		return startServer
	default:
		return func() tea.Msg { return EnterFeedMsg{} }
	}
}

func errorCmd(err error) tea.Cmd {
	return func() tea.Msg { return ErrorMsg{err: err} }
}
