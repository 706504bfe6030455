package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	colorWhite     = lipgloss.Color("#FFFFFF")
	colorLightGray = lipgloss.Color("#CCCCCC")
	colorGray      = lipgloss.Color("#888888")
	colorDarkGray  = lipgloss.Color("#444444")
	colorGreen     = lipgloss.Color("#3DDC84")
	colorGold      = lipgloss.Color("#F5C542")
	colorRed       = lipgloss.Color("#FF5555")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite).
			Align(lipgloss.Center).
			MarginTop(1).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(colorLightGray).
			Align(lipgloss.Center).
			MarginBottom(2)

	commandStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Bold(true)

	commandDescStyle = lipgloss.NewStyle().
				Foreground(colorGray).
				PaddingLeft(1)

	inputStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Bold(true)

	promptStyle = lipgloss.NewStyle().
			Foreground(colorLightGray)

	borderStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(colorGray).
			Padding(0)

	statStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorDarkGray).
			Padding(0, 2).
			MarginRight(1)

	statValueStyle = lipgloss.NewStyle().
			Foreground(colorGreen).
			Bold(true)

	statLabelStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	achievementStyle = lipgloss.NewStyle().
				Foreground(colorGold).
				Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(colorGray).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorDarkGray).
			Italic(true).
			MarginTop(1)
)

const logo = `
  ███╗   ███╗███████╗████████╗ █████╗ ███████╗████████╗ █████╗ ███╗   ███╗██████╗
  ████╗ ████║██╔════╝╚══██╔══╝██╔══██╗██╔════╝╚══██╔══╝██╔══██╗████╗ ████║██╔══██╗
  ██╔████╔██║█████╗     ██║   ███████║███████╗   ██║   ███████║██╔████╔██║██████╔╝
  ██║╚██╔╝██║██╔══╝     ██║   ██╔══██║╚════██║   ██║   ██╔══██║██║╚██╔╝██║██╔═══╝
  ██║ ╚═╝ ██║███████╗   ██║   ██║  ██║███████║   ██║   ██║  ██║██║ ╚═╝ ██║██║
  ╚═╝     ╚═╝╚══════╝   ╚═╝   ╚═╝  ╚═╝╚══════╝   ╚═╝   ╚═╝  ╚═╝╚═╝     ╚═╝╚═╝
`

const helpMarkdown = `
## Live feed

Every row is an AI usage event credited to watermarked content.

| key | action |
|-----|--------|
| ↑/↓ | scroll events |
| r   | reload totals |
| ?   | toggle this help |
| esc | back to menu |

Anonymous sessions follow the public **all** channel. Set ` + "`METASTAMP_TOKEN`" + ` to
also receive your own content updates and achievements.
`
