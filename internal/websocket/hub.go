package websocket

import (
	"slices"
	"time"

	"codeberg.org/metastamp/server/internal/logger"
)

func NewHub() *Hub {
	h := &Hub{
		clients:         make(map[string]*Client),
		channels:        make(map[string]map[string]*Client),
		Register:        make(chan *Client),
		Unregister:      make(chan *Client),
		Inbound:         make(chan *Message, 256),
		handlers:        make(map[string]MessageHandler),
		shutdown:        make(chan struct{}),
		userConnections: make(map[string]int),
		ipConnections:   make(map[string]int),
	}

	h.handlers[TypePing] = PingHandler
	h.handlers[TypeSubscribe] = SubscribeHandler
	h.handlers[TypeUnsubscribe] = UnsubscribeHandler

	return h
}

// registers a handler for a specific message type
func (h *Hub) RegisterHandler(messageType string, handler MessageHandler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handlers[messageType] = handler
}

// starts the hub's main loop
func (h *Hub) Run() {
	h.mu.Lock()
	h.running = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		h.running = false
		h.mu.Unlock()
	}()

	for {
		select {
		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.Unregister:
			h.unregisterClient(client)

		case message := <-h.Inbound:
			h.handleMessage(message)

		case <-h.shutdown:
			h.closeAllConnections()
			return
		}
	}
}

// adds a client to the hub and subscribes its initial channels
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()

	h.clients[client.ID] = client

	if client.UserID != "" {
		h.userConnections[client.UserID]++
	}

	for _, channel := range client.InitialChannels {
		if err := h.subscribeLocked(client, channel); err != nil {
			logger.Warn("dropped initial channel",
				"client_id", client.ID,
				"channel", channel,
				"error", err,
			)
		}
	}

	channels := client.Channels()
	h.mu.Unlock()

	logger.Info("client registered",
		"client_id", client.ID,
		"user_id", client.UserID,
		"channels", channels,
	)

	msg, err := NewMessage(TypeSubscriptions, "", SubscriptionsPayload{Channels: channels})
	if err == nil {
		client.Send(msg) //nolint:errcheck,gosec // best effort
	}
}

// removes a client from the hub
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.clients[client.ID]; !exists {
		return
	}

	delete(h.clients, client.ID)

	for _, channel := range client.Channels() {
		h.unsubscribeLocked(client, channel)
	}

	client.Close()

	if client.UserID != "" {
		h.userConnections[client.UserID]--

		if h.userConnections[client.UserID] <= 0 {
			delete(h.userConnections, client.UserID)
		}
	}

	if client.IPAddress != "" {
		h.ipConnections[client.IPAddress]--

		if h.ipConnections[client.IPAddress] <= 0 {
			delete(h.ipConnections, client.IPAddress)
		}
	}

	logger.Info("client unregistered", "client_id", client.ID)
}

// processes an incoming message
func (h *Hub) handleMessage(msg *Message) {
	h.mu.RLock()
	sender, exists := h.clients[msg.ClientID]
	handler, handled := h.handlers[msg.Type]
	h.mu.RUnlock()

	if !exists {
		logger.Warn("sender client not found for message",
			"client_id", msg.ClientID,
			"message_type", msg.Type,
		)
		return
	}

	if !handled {
		logger.Warn("unhandled message type received",
			"message_type", msg.Type,
			"client_id", sender.ID,
		)

		sender.SendError("bad_request", "unsupported message type", "message type not recognized")
		return
	}

	// run handler asynchronously to avoid blocking the hub
	go func() {
		if err := handler(h, sender, msg); err != nil {
			logger.Debug("handler rejected message",
				"message_type", msg.Type,
				"client_id", sender.ID,
				"error", err,
			)
		}
	}()
}

// adds a client to a channel after checking it may join
func (h *Hub) Subscribe(client *Client, channel string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.subscribeLocked(client, channel)
}

// must be called with lock held
func (h *Hub) subscribeLocked(client *Client, channel string) error {
	if err := CanSubscribe(client.UserID, channel); err != nil {
		return err
	}

	if err := client.addChannel(channel); err != nil {
		return err
	}

	if h.channels[channel] == nil {
		h.channels[channel] = make(map[string]*Client)
	}

	h.channels[channel][client.ID] = client
	return nil
}

// removes a client from a channel
func (h *Hub) Unsubscribe(client *Client, channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.unsubscribeLocked(client, channel)
}

// must be called with lock held
func (h *Hub) unsubscribeLocked(client *Client, channel string) {
	client.removeChannel(channel)

	subscribers, exists := h.channels[channel]
	if !exists {
		return
	}

	delete(subscribers, client.ID)

	if len(subscribers) == 0 {
		delete(h.channels, channel)
	}
}

// sends an event to every subscriber of the given channels, once per client.
// returns the number of clients the event was queued for.
func (h *Hub) Publish(msgType string, payload any, channels ...string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	recipients := make(map[string]*Client)
	for _, channel := range channels {
		for id, client := range h.channels[channel] {
			recipients[id] = client
		}
	}

	if len(recipients) == 0 {
		return 0
	}

	h.sequence++

	sent := 0
	for id, client := range recipients {
		// each client is told which of its channels matched
		msg, err := NewMessage(msgType, matchedChannel(client, channels), payload)
		if err != nil {
			logger.ErrorErr(err, "failed to create event message", "message_type", msgType)
			return sent
		}
		msg.Sequence = h.sequence

		if err := client.Send(msg); err != nil {
			logger.ErrorErr(err, "failed to send message to client", "client_id", id)
			continue
		}
		sent++
	}

	return sent
}

func matchedChannel(client *Client, channels []string) string {
	subscribed := client.Channels()

	for _, channel := range channels {
		if slices.Contains(subscribed, channel) {
			return channel
		}
	}

	return ""
}

// returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// returns the number of subscribers on a channel
func (h *Hub) SubscriberCount(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels[channel])
}

func (h *Hub) Shutdown() {
	h.shutdownOnce.Do(func() {
		close(h.shutdown)
	})
}

func (h *Hub) closeAllConnections() {
	h.mu.Lock()

	logger.Info("notifying clients of server shutdown")

	shutdownMsg, err := NewMessage(TypeServerShutdown, "", ServerShutdownPayload{
		Reason: "server is shutting down for maintenance",
	})

	if err == nil {
		for _, client := range h.clients {
			if err := client.Send(shutdownMsg); err != nil {
				logger.Debug("failed to send shutdown notification", "client_id", client.ID)
			}
		}
	}

	h.mu.Unlock()

	// give clients time to receive the shutdown message
	time.Sleep(500 * time.Millisecond)

	h.mu.Lock()
	defer h.mu.Unlock()

	logger.Info("closing all websocket connections")

	for _, client := range h.clients {
		client.Close()
	}

	// clear all clients and connection tracking
	h.clients = make(map[string]*Client)
	h.channels = make(map[string]map[string]*Client)
	h.userConnections = make(map[string]int)
	h.ipConnections = make(map[string]int)
}

// checks if a new connection should be allowed based on limits
func (h *Hub) CanAcceptConnection(userID, ipAddress string) (bool, string) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	// check per-user limit (only for authenticated users)
	if userID != "" {
		if h.userConnections[userID] >= maxConnectionsPerUser {
			return false, "Maximum connections per user exceeded"
		}
	}

	// check per-IP limit
	if h.ipConnections[ipAddress] >= maxConnectionsPerIP {
		return false, "Maximum connections per IP address exceeded"
	}

	return true, ""
}

// increments the connection count for an IP address
func (h *Hub) TrackIPConnection(ipAddress string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ipConnections[ipAddress]++
}
