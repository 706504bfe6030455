package content

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/metastamp/server/internal/auth"
	"codeberg.org/metastamp/server/internal/platforms"
)

func RegisterRoutes(router *gin.RouterGroup, registrar Registrar, store Store, usageRepo UsageLister, catalog *platforms.Catalog) {
	group := router.Group("/content")
	group.Use(auth.AuthMiddleware())
	{
		group.POST("", UploadHandler(registrar, catalog))
		group.GET("", ListHandler(store))
		group.GET("/:id", GetHandler(store))
		group.PATCH("/:id", UpdateHandler(store, catalog))
		group.GET("/:id/usage", UsageHandler(store, usageRepo))
	}
}
