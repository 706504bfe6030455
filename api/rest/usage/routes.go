package usage

import (
	"github.com/gin-gonic/gin"

	"codeberg.org/metastamp/server/internal/auth"
)

// usageLog may be nil when no ledger is configured
func RegisterRoutes(router *gin.RouterGroup, repo Repository, contents ContentGetter, usageLog UsageLog) {
	group := router.Group("/usage")
	group.Use(auth.AuthMiddleware())
	{
		group.POST("", RecordHandler(repo, contents, usageLog))
		group.GET("/recent", RecentHandler(repo))
		group.GET("/summary", SummaryHandler(repo))
	}
}
