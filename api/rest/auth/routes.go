package auth

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/metastamp/server/internal/auth"
)

// registers all authentication routes; providers lists the configured OAuth providers
func RegisterRoutes(router *gin.RouterGroup, creatorRepo CreatorStore, providers []string) {
	authGroup := router.Group("/auth")
	{
		authGroup.GET("/me", auth.AuthMiddleware(), GetCurrentCreatorHandler(creatorRepo))
		authGroup.PUT("/me", auth.AuthMiddleware(), UpdateProfileHandler(creatorRepo))
		authGroup.POST("/logout", LogoutHandler())
		authGroup.GET("/:provider", BeginAuthHandler(providers))
		authGroup.GET("/:provider/callback", CallbackHandler(creatorRepo, providers))
	}
}
