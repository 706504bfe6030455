package tui

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/glamour"
	"github.com/gorilla/websocket"
)

// represents the current state of the TUI
type AppState int

const (
	StateWelcome AppState = iota
	StateFeed
)

// where the dashboard reaches the server
type Endpoints struct {
	API   string
	WS    string
	Token string
}

// main TUI application model
type Model struct {
	state     AppState
	mode      string
	width     int
	height    int
	err       error
	endpoints Endpoints
	welcome   *Welcome
	feed      *FeedModel
}

// sent when an error occurs
type ErrorMsg struct {
	err error
}

// sent to transition to the live feed
type EnterFeedMsg struct{}

// sent when the server starts
type ServerStartedMsg struct{}

// sent once the websocket subscription is live
type FeedConnectedMsg struct {
	channels []string
}

// sent when the websocket could not connect
type FeedConnectErrorMsg struct {
	err error
}

// carries one message received from the feed
type FeedEventMsg struct {
	msg wsMessage
}

// sent when the feed connection ends
type FeedClosedMsg struct{}

// carries recent events loaded over REST
type SeedMsg struct {
	events []usageEvent
}

// carries the creator's totals loaded over REST
type SummaryMsg struct {
	summary *usageSummary
}

// sent when a REST call fails; the feed keeps running
type RESTErrorMsg struct {
	err error
}

// live earnings dashboard
type FeedModel struct {
	api      *APIClient
	ws       *WSClient
	spinner  spinner.Model
	table    table.Model
	renderer *glamour.TermRenderer
	width    int
	height   int

	connected bool
	channels  []string
	status    string
	showHelp  bool

	events   int
	touches  int64
	earnings float64
	rows     []usageEvent
	unlocked []achievementPayload
	summary  *usageSummary
}

// welcome screen model
type Welcome struct {
	mode     string
	input    string
	cursor   int
	started  bool
	commands []Command
}

// represents an available TUI command
type Command struct {
	Name        string
	Description string
	Available   bool
}

// subscribes to the server's websocket feed
type WSClient struct {
	endpoint string
	token    string
	conn     *websocket.Conn
	mu       sync.Mutex
	events   chan wsMessage
}

// reads usage and summary data from the REST API
type APIClient struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

// wire types mirrored from the server's JSON

type wsMessage struct {
	Type      string          `json:"type"`
	Channel   string          `json:"channel,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Sequence  uint64          `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

type usageEvent struct {
	ID              string    `json:"id"`
	ContentID       string    `json:"content_id"`
	Model           string    `json:"ai_model"`
	UsageType       string    `json:"usage_type"`
	DurationSeconds int       `json:"duration_seconds"`
	Earnings        float64   `json:"earnings"`
	DetectedAt      time.Time `json:"detected_at"`
}

type contentRow struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	CreatorID string  `json:"creator_id"`
	Touches   int64   `json:"touches"`
	Earnings  float64 `json:"earnings"`
}

type usageInsertedPayload struct {
	Event   usageEvent `json:"event"`
	Content contentRow `json:"content"`
}

type achievementPayload struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Reward      string `json:"reward"`
}

type subscriptionsPayload struct {
	Channels []string `json:"channels"`
}

type usageSummary struct {
	TotalTouches  int64                `json:"total_touches"`
	TotalEarnings float64              `json:"total_earnings"`
	Events        int                  `json:"events"`
	Achievements  []achievementPayload `json:"achievements"`
}

type recentResponse struct {
	Events []usageEvent `json:"events"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}
