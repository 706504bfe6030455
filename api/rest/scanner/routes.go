package scanner

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"codeberg.org/metastamp/server/internal/errors"
)

// header carrying the shared scanner node key
const headerScannerKey = "X-Scanner-Key"

// touchRate is credited per detected touch
func RegisterRoutes(router *gin.RouterGroup, scanner FrameScanner, touches TouchRecorder, contents ContentGetter, touchRate float64, nodeKey string) {
	group := router.Group("/scan")
	group.Use(NodeKeyMiddleware(nodeKey))
	{
		group.POST("", ScanHandler(scanner, touches, touchRate))
		group.POST("/touches", TouchesHandler(touches, contents, touchRate))
	}
}

// rejects requests without the configured node key; an empty key disables the check
func NodeKeyMiddleware(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			c.Next()
			return
		}

		got := c.GetHeader(headerScannerKey)
		if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
			errors.Unauthorized(c, "valid scanner key required")
			c.Abort()
			return
		}

		c.Next()
	}
}
