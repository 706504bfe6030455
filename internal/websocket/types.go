package websocket

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

// message type constants for websocket communication
const (
	// is sent when an AI usage event is recorded
	TypeUsageInserted = "usage_inserted"

	// is sent when a content row's counters or fields change
	TypeContentUpdated = "content_updated"

	// is sent when a creator unlocks an achievement
	TypeAchievementUnlocked = "achievement_unlocked"

	// is sent by clients to join a channel
	TypeSubscribe = "subscribe"

	// is sent by clients to leave a channel
	TypeUnsubscribe = "unsubscribe"

	// is sent to a client with its current subscriptions
	TypeSubscriptions = "subscriptions"

	// is sent when an error occurs
	TypeError = "error"

	// is sent by clients to keep the connection alive
	TypePing = "ping"

	// is sent by server in response to ping
	TypePong = "pong"

	// is sent by server before shutdown
	TypeServerShutdown = "server_shutdown"
)

// channel names
const (
	// public activity feed, every event
	ChannelAll = "all"

	// per-creator channel prefix, creator:{creatorID}
	channelCreatorPrefix = "creator:"
)

// client connection constants
const (
	// time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// maximum message size allowed from peer
	maxMessageSize = 4 * 1024

	// inbound messages per second and burst per client
	maxInboundPerSecond = 5
	maxInboundBurst     = 10

	// subscriptions a single client may hold
	maxChannelsPerClient = 16
)

// hub connection limit constants
const (
	maxConnectionsPerUser = 5
	maxConnectionsPerIP   = 10
)

// errors
var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidMessage     = errors.New("invalid message format")
	ErrInvalidChannel     = errors.New("invalid channel")
	ErrTooManyChannels    = errors.New("too many channels")
	ErrConnectionClosed   = errors.New("connection closed")
)

// represents a websocket message with typed payload
type Message struct {
	Type      string          `json:"type"`
	Channel   string          `json:"channel,omitempty"`
	ClientID  string          `json:"-"` // internal only, not sent to clients
	Timestamp time.Time       `json:"timestamp"`
	Sequence  uint64          `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// names the channel a subscribe or unsubscribe applies to
type ChannelPayload struct {
	Channel string `json:"channel"`
}

// lists a client's subscriptions
type SubscriptionsPayload struct {
	Channels []string `json:"channels"`
}

// contains information about server shutdown
type ServerShutdownPayload struct {
	Reason string `json:"reason"`
}

// represents a websocket client connection
type Client struct {
	// unique identifier for this client
	ID string

	// authenticated creator ID (empty for anonymous viewers)
	UserID string

	// IP address of the client (for connection tracking)
	IPAddress string

	// channels requested at connect time
	InitialChannels []string

	// subscribed channels
	channels map[string]struct{}

	// websocket connection
	conn *websocket.Conn

	// hub reference for message routing
	hub *Hub

	// buffered channel of outbound messages
	send chan []byte

	// mutex for thread-safe operations
	mu sync.RWMutex

	// flag indicating if client is closed
	closed bool

	// inbound message throttle
	limiter *rate.Limiter
}

// maintains active clients and fans published events out to channels
type Hub struct {
	// clients by ID
	clients map[string]*Client

	// subscribers by channel and client ID
	channels map[string]map[string]*Client

	// register requests from clients
	Register chan *Client

	// unregister requests from clients
	Unregister chan *Client

	// inbound messages from clients
	Inbound chan *Message

	// mutex for thread-safe access to clients and channels
	mu sync.RWMutex

	// message handlers for different message types
	handlers map[string]MessageHandler

	// flag indicating if hub is running
	running bool

	// channel to signal shutdown
	shutdown     chan struct{}
	shutdownOnce sync.Once

	// connection tracking: user ID -> count of connections
	userConnections map[string]int

	// connection tracking: IP address -> count of connections
	ipConnections map[string]int

	// sequence of published events for ordering
	sequence uint64
}

// processes a specific message type
type MessageHandler func(hub *Hub, client *Client, msg *Message) error
