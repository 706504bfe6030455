package tui

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"
)

// creates a feed client; token may be empty for the public channel only
func NewWSClient(endpoint, token string) *WSClient {
	return &WSClient{
		endpoint: endpoint,
		token:    token,
		events:   make(chan wsMessage, 64),
	}
}

// establishes the connection and waits for the subscription list
func (c *WSClient) Connect() ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return nil, fmt.Errorf("already connected")
	}

	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid websocket endpoint: %w", err)
	}

	if c.token != "" {
		q := u.Query()
		q.Set("token", c.token)
		u.RawQuery = q.Encode()
	}

	conn, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("failed to connect: %s", resp.Status)
		}
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	// set up ping/pong handlers to keep the connection alive
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck,gosec

	// the hub announces the channels the client was subscribed to
	var first wsMessage
	if err := conn.ReadJSON(&first); err != nil {
		conn.Close() //nolint:errcheck,gosec
		return nil, fmt.Errorf("failed to read subscriptions: %w", err)
	}

	var subs subscriptionsPayload
	if first.Type == typeSubscriptions {
		json.Unmarshal(first.Payload, &subs) //nolint:errcheck,gosec // empty list on bad payload
	}

	c.conn = conn

	go c.readPump(conn)
	go c.pingPump(conn)

	return subs.Channels, nil
}

// sends periodic pings to keep the connection alive
func (c *WSClient) pingPump(conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		if c.conn != conn {
			c.mu.Unlock()
			return
		}

		conn.SetWriteDeadline(time.Now().Add(10 * time.Second)) //nolint:errcheck,gosec
		err := conn.WriteMessage(websocket.PingMessage, nil)
		c.mu.Unlock()

		if err != nil {
			return
		}
	}
}

// forwards every message to the events channel until the connection drops
func (c *WSClient) readPump(conn *websocket.Conn) {
	defer func() {
		c.mu.Lock()
		if c.conn == conn {
			c.conn = nil
		}
		conn.Close() //nolint:errcheck,gosec
		c.mu.Unlock()
		close(c.events)
	}()

	for {
		conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck,gosec

		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}

		c.events <- msg
	}
}

// closes the connection; the read pump then closes the events channel
func (c *WSClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		c.conn.Close() //nolint:errcheck,gosec
		c.conn = nil
	}
}

// returns a tea.Cmd that connects to the websocket server
func (c *WSClient) ConnectCmd() tea.Cmd {
	return func() tea.Msg {
		channels, err := c.Connect()
		if err != nil {
			return FeedConnectErrorMsg{err: err}
		}

		return FeedConnectedMsg{channels: channels}
	}
}

// returns a tea.Cmd that blocks until the next feed message
func (c *WSClient) WaitCmd() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-c.events
		if !ok {
			return FeedClosedMsg{}
		}

		return FeedEventMsg{msg: msg}
	}
}
