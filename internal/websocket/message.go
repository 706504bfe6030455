package websocket

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// creates a message with a JSON-encoded payload
func NewMessage(msgType, channel string, payload any) (*Message, error) {
	msg := &Message{
		Type:      msgType,
		Channel:   channel,
		Timestamp: time.Now(),
	}

	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s payload: %w", msgType, err)
		}
		msg.Payload = raw
	}

	return msg, nil
}

// decodes the payload into v
func (m *Message) UnmarshalPayload(v any) error {
	if len(m.Payload) == 0 {
		return ErrInvalidMessage
	}

	return json.Unmarshal(m.Payload, v)
}

// returns the channel carrying one creator's events
func CreatorChannel(creatorID string) string {
	return channelCreatorPrefix + creatorID
}

// reports whether a client authenticated as userID may join channel
func CanSubscribe(userID, channel string) error {
	if channel == ChannelAll {
		return nil
	}

	creatorID, ok := strings.CutPrefix(channel, channelCreatorPrefix)
	if !ok || creatorID == "" {
		return ErrInvalidChannel
	}

	if userID == "" || userID != creatorID {
		return ErrUnauthorized
	}

	return nil
}
