package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// reads limit and offset query parameters, ignoring values that don't parse
func FromQuery(c *gin.Context, defaultLimit, maxLimit int) Params {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	return DefaultParams(limit, offset, defaultLimit, maxLimit)
}
