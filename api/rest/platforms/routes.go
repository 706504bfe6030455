package platforms

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/metastamp/server/internal/platforms"
)

func RegisterRoutes(router *gin.RouterGroup, catalog *platforms.Catalog) {
	group := router.Group("/platforms")
	{
		group.GET("", ListHandler(catalog))
		group.GET("/projections", ProjectionsHandler(catalog))
		group.POST("/validate", ValidateHandler(catalog))
	}
}
