package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"

	ws "codeberg.org/metastamp/server/internal/websocket"
)

func RegisterRoutes(router *gin.RouterGroup, hub *ws.Hub, checkOrigin func(*http.Request) bool) {
	router.GET("/ws", WebSocketHandler(hub, checkOrigin))
}
