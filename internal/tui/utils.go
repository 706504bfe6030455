package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
)

const (
	typeUsageInserted       = "usage_inserted"
	typeContentUpdated      = "content_updated"
	typeAchievementUnlocked = "achievement_unlocked"
	typeSubscriptions       = "subscriptions"
	typeError               = "error"
	typeServerShutdown      = "server_shutdown"
)

const (
	requestTimeout = 15 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxRows        = 50
)

var feedColumns = []table.Column{
	{Title: "Detected", Width: 10},
	{Title: "Model", Width: 16},
	{Title: "Usage", Width: 11},
	{Title: "Duration", Width: 9},
	{Title: "Earnings", Width: 11},
	{Title: "Content", Width: 10},
}

func formatEarnings(amount float64) string {
	return fmt.Sprintf("$%.4f", amount)
}

func formatDuration(seconds int) string {
	return (time.Duration(seconds) * time.Second).String()
}

// first eight characters of an id
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func eventRow(e usageEvent) table.Row {
	return table.Row{
		e.DetectedAt.Local().Format("15:04:05"),
		e.Model,
		e.UsageType,
		formatDuration(e.DurationSeconds),
		formatEarnings(e.Earnings),
		shortID(e.ContentID),
	}
}
