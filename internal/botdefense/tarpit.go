package botdefense

import (
	"crypto/rand"
	"math/big"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// drips a plain text body one byte at a time until duration passes or the client leaves
func Tarpit(c *gin.Context, duration, delay time.Duration) {
	drip(c, "text/plain", "loading", duration, delay)
}

// same as Tarpit but looks like a JSON array that never closes
func TarpitJSON(c *gin.Context, duration, delay time.Duration) {
	drip(c, "application/json", `[{"id":`, duration, delay)
}

func drip(c *gin.Context, contentType, prefix string, duration, delay time.Duration) {
	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)

	if _, err := c.Writer.WriteString(prefix); err != nil {
		return
	}
	c.Writer.Flush()

	deadline := time.NewTimer(duration)
	defer deadline.Stop()

	ticker := time.NewTicker(delay)
	defer ticker.Stop()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case <-deadline.C:
			return
		case <-ticker.C:
			if _, err := c.Writer.WriteString(" "); err != nil {
				return
			}
			c.Writer.Flush()
		}
	}
}

// returns a uniform int in [0, n)
func cryptoRandInt(n int64) int64 {
	v, err := rand.Int(rand.Reader, big.NewInt(n))
	if err != nil {
		return 0
	}
	return v.Int64()
}
