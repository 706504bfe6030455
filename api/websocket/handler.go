package websocket

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"codeberg.org/metastamp/server/internal/auth"
	"codeberg.org/metastamp/server/internal/errors"
	"codeberg.org/metastamp/server/internal/logger"
	ws "codeberg.org/metastamp/server/internal/websocket"
)

// resolves the channels a connection asked for
func requestedChannels(raw, creatorID string) []string {
	var channels []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			channels = append(channels, part)
		}
	}

	if len(channels) > 0 {
		return channels
	}

	if creatorID != "" {
		return []string{ws.ChannelAll, ws.CreatorChannel(creatorID)}
	}

	return []string{ws.ChannelAll}
}

// handles websocket connections for the live usage feed.
// anonymous viewers get the public feed; a creator token unlocks creator:{id}.
func WebSocketHandler(hub *ws.Hub, checkOrigin func(*http.Request) bool) gin.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     checkOrigin,
	}

	return func(c *gin.Context) {
		var params ConnectParams
		if err := c.ShouldBindQuery(&params); err != nil {
			errors.BadRequest(c, "invalid parameters", err)
			return
		}

		var creatorID string
		if params.Token != "" {
			claims, err := auth.ValidateJWT(params.Token)
			if err != nil {
				errors.Unauthorized(c, "invalid or expired token")
				return
			}

			creatorID = claims.UserID
		}

		channels := requestedChannels(params.Channels, creatorID)
		for _, channel := range channels {
			switch ws.CanSubscribe(creatorID, channel) {
			case nil:
			case ws.ErrUnauthorized:
				errors.Forbidden(c, "you can only subscribe to your own creator channel")
				return
			default:
				errors.BadRequest(c, "invalid channel: "+channel, nil)
				return
			}
		}

		// check connection limits before accepting new connection
		ipAddress := c.ClientIP()
		canAccept, reason := hub.CanAcceptConnection(creatorID, ipAddress)

		if !canAccept {
			errors.TooManyRequests(c, reason)
			return
		}

		clientID, err := ws.GenerateClientID()
		if err != nil {
			errors.InternalError(c, "failed to generate client ID", err)
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.ErrorErr(err, "failed to upgrade connection",
				"ip", ipAddress,
			)

			return
		}

		// track IP connection only after successful upgrade
		hub.TrackIPConnection(ipAddress)

		client := ws.NewClient(clientID, creatorID, ipAddress, channels, conn, hub)
		hub.Register <- client

		go client.WritePump()
		go client.ReadPump()

		logger.Info("websocket connection established",
			"client_id", clientID,
			"user_id", creatorID,
			"channels", channels,
			"ip", ipAddress,
		)
	}
}
