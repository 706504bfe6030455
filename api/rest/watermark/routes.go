package watermark

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/metastamp/server/internal/auth"
)

func RegisterRoutes(router *gin.RouterGroup, stamper Stamper, verifier Verifier) {
	group := router.Group("/watermark")
	{
		group.POST("/embed", auth.AuthMiddleware(), EmbedHandler(stamper))
		group.POST("/extract", ExtractHandler(verifier))
	}
}
