package platforms

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"codeberg.org/metastamp/server/internal/errors"
	"codeberg.org/metastamp/server/internal/platforms"
)

// ListHandler godoc
// @Summary List platforms
// @Description Lists the publishing platforms content can be registered for
// @Tags platforms
// @Produce json
// @Param importable query bool false "Only platforms content can be imported from"
// @Success 200 {object} ListResponse
// @Router /api/v1/platforms [get]
func ListHandler(catalog *platforms.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		list := catalog.List()
		if c.Query("importable") == "true" {
			list = catalog.Importable()
		}

		c.JSON(http.StatusOK, ListResponse{Platforms: list})
	}
}

// ProjectionsHandler godoc
// @Summary Earnings projections
// @Description Estimates earnings of watermarked content over 3 to 36 months
// @Tags platforms
// @Produce json
// @Param views query int true "Total views"
// @Success 200 {object} ProjectionsResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /api/v1/platforms/projections [get]
func ProjectionsHandler(catalog *platforms.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		views, err := strconv.ParseInt(c.Query("views"), 10, 64)
		if err != nil || views < 0 {
			errors.BadRequest(c, "views must be a non-negative integer", err)
			return
		}

		c.JSON(http.StatusOK, ProjectionsResponse{
			TotalViews:  views,
			Projections: catalog.Projections(views),
		})
	}
}

// ValidateHandler godoc
// @Summary Validate a file for a platform
// @Description Checks a file's size and format against a platform's limits before upload
// @Tags platforms
// @Accept json
// @Produce json
// @Param request body ValidateRequest true "File to check"
// @Success 200 {object} ValidateResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/v1/platforms/validate [post]
func ValidateHandler(catalog *platforms.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ValidateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		err := catalog.Validate(req.Platform, req.Filename, req.SizeBytes)
		switch {
		case err == nil:
			c.JSON(http.StatusOK, ValidateResponse{Valid: true})
		case stderrors.Is(err, platforms.ErrUnknownPlatform):
			errors.NotFound(c, "platform")
		default:
			c.JSON(http.StatusOK, ValidateResponse{Reason: err.Error()})
		}
	}
}
