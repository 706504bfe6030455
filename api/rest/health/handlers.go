package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const serviceName = "metastamp"

// reports whether a backing service is reachable
type Checker func(ctx context.Context) error

// Handler godoc
// @Summary Health check
// @Description Reports server health and the state of its backing services
// @Tags health
// @Produce json
// @Success 200 {object} Response
// @Failure 503 {object} Response
// @Router /health [get]
func Handler(version string, checks map[string]Checker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		resp := Response{
			Status:  "healthy",
			Service: serviceName,
			Version: version,
		}

		for name, check := range checks {
			if resp.Checks == nil {
				resp.Checks = make(map[string]string, len(checks))
			}

			if err := check(ctx); err != nil {
				resp.Status = "degraded"
				resp.Checks[name] = "unavailable"
				continue
			}

			resp.Checks[name] = "ok"
		}

		status := http.StatusOK
		if resp.Status != "healthy" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, resp)
	}
}

// PingHandler godoc
// @Summary Ping
// @Tags health
// @Produce json
// @Success 200 {object} PingResponse
// @Router /api/v1/ping [get]
func PingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, PingResponse{Message: "pong"})
}
