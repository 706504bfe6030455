package websocket

import (
	"encoding/json"
	"slices"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"codeberg.org/metastamp/server/internal/errors"
	"codeberg.org/metastamp/server/internal/logger"
)

// creates a new webSocket client connection
func NewClient(id, userID, ipAddress string, channels []string, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		ID:              id,
		UserID:          userID,
		IPAddress:       ipAddress,
		InitialChannels: channels,
		channels:        make(map[string]struct{}),
		conn:            conn,
		hub:             hub,
		send:            make(chan []byte, 256),
		limiter:         newInboundLimiter(),
	}
}

func newInboundLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Limit(maxInboundPerSecond), maxInboundBurst)
}

// reads messages from the webSocket connection to the hub for processing
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister <- c
		c.conn.Close() //nolint:errcheck,gosec // G104: defer cleanup
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck,gosec // G104: websocket setup
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck,gosec // G104: pong handler
		return nil
	})

	for {
		_, messageBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("websocket error",
					"client_id", c.ID,
					"error", err,
				)
			}

			break
		}

		if !c.allowInbound() {
			c.SendError("too_many_requests", "too many messages, slow down", "")
			continue
		}

		// parse the message
		var msg Message
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			c.SendError("bad_request", "invalid message format", err.Error())
			continue
		}

		msg.ClientID = c.ID
		msg.Timestamp = time.Now()

		// forward to hub for processing
		c.hub.Inbound <- &msg
	}
}

// writes messages from the hub to the webSocket connection for sending to the client
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.conn.Close() //nolint:errcheck,gosec // G104: defer cleanup
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck,gosec // G104: websocket timing

			if !ok {
				// hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck,gosec // G104: close message
				return
			}

			// one frame per message so clients can decode each as JSON
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck,gosec // G104: websocket ping timing

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// sends a message to the client
func (c *Client) Send(msg *Message) (err error) {
	// recover from panic if channel is closed
	defer func() {
		if r := recover(); r != nil {
			err = ErrConnectionClosed
		}
	}()

	c.mu.RLock()

	if c.closed {
		c.mu.RUnlock()
		return ErrConnectionClosed
	}

	c.mu.RUnlock()

	messageBytes, marshalErr := json.Marshal(msg)
	if marshalErr != nil {
		return marshalErr
	}

	select {
	case c.send <- messageBytes:
		return nil
	default:
		// slow consumer; drop the connection rather than block the hub
		logger.Warn("client send buffer full, closing", "client_id", c.ID)
		c.Close()
		return ErrConnectionClosed
	}
}

// sends an error message to the client
func (c *Client) SendError(code, message, details string) {
	errorMsg, err := NewMessage(TypeError, "", errors.ErrorResponse{
		Error:   code,
		Message: message,
		Details: errors.SanitizeDetails(details),
	})
	if err != nil {
		return
	}

	c.Send(errorMsg) //nolint:errcheck,gosec // G104: best effort error notification
}

// closes the client connection
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// checks if the client is closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.closed
}

// checks if the client has an authenticated creator account
func (c *Client) IsAuthenticated() bool {
	return c.UserID != ""
}

// returns the subscribed channels in sorted order
func (c *Client) Channels() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, 0, len(c.channels))
	for channel := range c.channels {
		out = append(out, channel)
	}
	slices.Sort(out)

	return out
}

func (c *Client) addChannel(channel string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.channels == nil {
		c.channels = make(map[string]struct{})
	}

	if _, ok := c.channels[channel]; ok {
		return nil
	}

	if len(c.channels) >= maxChannelsPerClient {
		return ErrTooManyChannels
	}

	c.channels[channel] = struct{}{}
	return nil
}

func (c *Client) removeChannel(channel string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.channels, channel)
}

// checks the inbound throttle
func (c *Client) allowInbound() bool {
	c.mu.Lock()
	if c.limiter == nil {
		c.limiter = newInboundLimiter()
	}
	limiter := c.limiter
	c.mu.Unlock()

	return limiter.Allow()
}
