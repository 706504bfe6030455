package tui

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// returns a dashboard over the given endpoints
func NewFeedModel(endpoints Endpoints) *FeedModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(colorGreen)

	t := table.New(
		table.WithColumns(feedColumns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorGray).
		BorderBottom(true).
		Bold(false)
	styles.Selected = styles.Selected.
		Foreground(colorWhite).
		Background(colorDarkGray).
		Bold(false)
	t.SetStyles(styles)

	renderer, _ := glamour.NewTermRenderer( //nolint:errcheck // help falls back to raw markdown
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(80),
	)

	return &FeedModel{
		api:      NewAPIClient(endpoints.API, endpoints.Token),
		ws:       NewWSClient(endpoints.WS, endpoints.Token),
		spinner:  s,
		table:    t,
		renderer: renderer,
		status:   "connecting to " + endpoints.WS,
	}
}

func (m *FeedModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, m.ws.ConnectCmd()}

	if m.api.Authenticated() {
		cmds = append(cmds, m.api.SeedCmd(), m.api.SummaryCmd())
	}

	return tea.Batch(cmds...)
}

func (m *FeedModel) Update(msg tea.Msg) (*FeedModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case "r":
			if m.api.Authenticated() {
				return m, m.api.SummaryCmd()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if h := msg.Height - 16; h > 3 {
			m.table.SetHeight(h)
		}
		return m, nil

	case spinner.TickMsg:
		if m.connected {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case FeedConnectedMsg:
		m.connected = true
		m.channels = msg.channels
		m.status = "subscribed to " + strings.Join(msg.channels, ", ")
		return m, m.ws.WaitCmd()

	case FeedConnectErrorMsg:
		m.status = msg.err.Error()
		return m, nil

	case FeedClosedMsg:
		m.connected = false
		m.status = "feed disconnected"
		return m, nil

	case FeedEventMsg:
		m.apply(msg.msg)
		return m, m.ws.WaitCmd()

	case SeedMsg:
		m.seed(msg.events)
		return m, nil

	case SummaryMsg:
		m.summary = msg.summary
		return m, nil

	case RESTErrorMsg:
		m.status = msg.err.Error()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// folds one feed message into the dashboard
func (m *FeedModel) apply(msg wsMessage) {
	switch msg.Type {
	case typeUsageInserted:
		var p usageInsertedPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			m.status = "unreadable usage event"
			return
		}

		m.events++
		m.touches++
		m.earnings += p.Event.Earnings
		m.prepend(p.Event)

	case typeAchievementUnlocked:
		var a achievementPayload
		if err := json.Unmarshal(msg.Payload, &a); err == nil {
			m.unlocked = append(m.unlocked, a)
		}

	case typeError:
		var e errorResponse
		if err := json.Unmarshal(msg.Payload, &e); err == nil {
			m.status = e.Error + ": " + e.Message
		}

	case typeServerShutdown:
		m.status = "server shutting down"
	}
}

func (m *FeedModel) seed(events []usageEvent) {
	// keep events that arrived live ahead of the seeded history
	seen := make(map[string]bool, len(m.rows))
	for _, e := range m.rows {
		seen[e.ID] = true
	}

	for _, e := range events {
		if !seen[e.ID] && len(m.rows) < maxRows {
			m.rows = append(m.rows, e)
		}
	}

	m.syncTable()
}

func (m *FeedModel) prepend(e usageEvent) {
	m.rows = append([]usageEvent{e}, m.rows...)
	if len(m.rows) > maxRows {
		m.rows = m.rows[:maxRows]
	}

	m.syncTable()
}

func (m *FeedModel) syncTable() {
	rows := make([]table.Row, 0, len(m.rows))
	for _, e := range m.rows {
		rows = append(rows, eventRow(e))
	}

	m.table.SetRows(rows)
}

// closes the websocket feed
func (m *FeedModel) Close() {
	m.ws.Close()
}

func (m *FeedModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("meta-stamp live feed"))
	b.WriteString("\n")

	if !m.connected {
		b.WriteString(fmt.Sprintf("%s %s\n\n", m.spinner.View(), m.status))
	}

	b.WriteString(m.statsView())
	b.WriteString("\n")

	for _, a := range m.unlocked {
		b.WriteString(achievementStyle.Render(fmt.Sprintf("★ %s unlocked (%s)", a.Title, a.Reward)))
		b.WriteString("\n")
	}

	b.WriteString(borderStyle.Render(m.table.View()))
	b.WriteString("\n")

	if m.connected {
		b.WriteString(infoStyle.Render(m.status))
		b.WriteString("\n")
	}

	if m.showHelp {
		b.WriteString(m.helpView())
	}

	b.WriteString(helpStyle.Render("? help • r reload totals • esc back • ctrl+c quit"))

	return b.String()
}

func (m *FeedModel) statsView() string {
	stat := func(label, value string) string {
		return statStyle.Render(statValueStyle.Render(value) + "\n" + statLabelStyle.Render(label))
	}

	blocks := []string{
		stat("session earnings", formatEarnings(m.earnings)),
		stat("session events", fmt.Sprintf("%d", m.events)),
	}

	if m.summary != nil {
		blocks = append(blocks,
			stat("lifetime earnings", formatEarnings(m.summary.TotalEarnings)),
			stat("lifetime touches", fmt.Sprintf("%d", m.summary.TotalTouches)),
		)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, blocks...)
}

func (m *FeedModel) helpView() string {
	if m.renderer == nil {
		return helpMarkdown
	}

	out, err := m.renderer.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}

	return out
}
