package notifications

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/metastamp/server/internal/auth"
)

func RegisterRoutes(router *gin.RouterGroup, svc Store) {
	group := router.Group("/notifications")
	group.Use(auth.AuthMiddleware())
	{
		group.GET("", ListHandler(svc))
		group.GET("/unread-count", UnreadCountHandler(svc))
		group.POST("/read-all", MarkAllReadHandler(svc))
		group.POST("/:id/read", MarkReadHandler(svc))
	}
}
