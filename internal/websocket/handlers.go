package websocket

// answers keepalive pings
func PingHandler(_ *Hub, client *Client, _ *Message) error {
	msg, err := NewMessage(TypePong, "", nil)
	if err != nil {
		return err
	}

	return client.Send(msg)
}

// joins the channel named in the payload
func SubscribeHandler(hub *Hub, client *Client, msg *Message) error {
	var payload ChannelPayload
	if err := msg.UnmarshalPayload(&payload); err != nil {
		client.SendError("validation_error", "failed to parse subscribe", err.Error())
		return err
	}

	if err := hub.Subscribe(client, payload.Channel); err != nil {
		switch err {
		case ErrUnauthorized:
			client.SendError("forbidden", "you can only subscribe to your own creator channel", "")
		case ErrTooManyChannels:
			client.SendError("bad_request", "too many subscriptions", "")
		default:
			client.SendError("bad_request", "invalid channel", "")
		}
		return err
	}

	return sendSubscriptions(client)
}

// leaves the channel named in the payload
func UnsubscribeHandler(hub *Hub, client *Client, msg *Message) error {
	var payload ChannelPayload
	if err := msg.UnmarshalPayload(&payload); err != nil {
		client.SendError("validation_error", "failed to parse unsubscribe", err.Error())
		return err
	}

	hub.Unsubscribe(client, payload.Channel)
	return sendSubscriptions(client)
}

func sendSubscriptions(client *Client) error {
	msg, err := NewMessage(TypeSubscriptions, "", SubscriptionsPayload{Channels: client.Channels()})
	if err != nil {
		return err
	}

	return client.Send(msg)
}
