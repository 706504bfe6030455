package usage

import (
	stderrors "errors"
	"net/http"
	"time"

	"github.com/araddon/dateparse"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"codeberg.org/metastamp/server/api/rest/pagination"
	"codeberg.org/metastamp/server/internal/auth"
	"codeberg.org/metastamp/server/internal/errors"
	"codeberg.org/metastamp/server/internal/logger"
	"codeberg.org/metastamp/server/metastamp/content"
	"codeberg.org/metastamp/server/metastamp/usage"
)

// RecordHandler godoc
// @Summary Record AI usage
// @Description Records an AI model's use of the creator's content and credits its earnings in one transaction
// @Tags usage
// @Accept json
// @Produce json
// @Param request body usage.RecordRequest true "Usage event"
// @Success 201 {object} RecordResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/v1/usage [post]
// @Security BearerAuth
func RecordHandler(repo Repository, contents ContentGetter, usageLog UsageLog) gin.HandlerFunc {
	return func(c *gin.Context) {
		creatorID, ok := auth.GetUserID(c)
		if !ok {
			errors.Unauthorized(c, "")
			return
		}

		var req usage.RecordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		item, err := contents.Get(c.Request.Context(), req.ContentID)
		if err != nil {
			if stderrors.Is(err, content.ErrContentNotFound) {
				errors.NotFound(c, "content")
				return
			}

			errors.InternalError(c, "failed to fetch content", err)
			return
		}

		if item.CreatorID != creatorID {
			errors.NotFound(c, "content")
			return
		}

		event, updated, err := repo.Record(c.Request.Context(), req)
		if err != nil {
			switch {
			case stderrors.Is(err, usage.ErrInvalidDuration):
				errors.BadRequest(c, "duration must be positive", nil)
			case stderrors.Is(err, content.ErrContentNotFound):
				errors.NotFound(c, "content")
			default:
				errors.InternalError(c, "failed to record usage", err)
			}
			return
		}

		resp := RecordResponse{Event: event, Content: updated}

		if usageLog != nil {
			entry, err := usageLog.LogAIUsage(c.Request.Context(), event.ContentID, event.Model, event.UsageType, event.DurationSeconds)
			if err != nil {
				logger.ErrorErr(err, "failed to log usage event", "event_id", event.ID)
			} else {
				resp.LedgerEntry = entry
			}
		}

		c.JSON(http.StatusCreated, resp)
	}
}

// RecentHandler godoc
// @Summary Recent AI usage
// @Description Lists the most recent usage events on the creator's content, or across all creators with scope=all
// @Tags usage
// @Produce json
// @Param limit query int false "Max events (default 20, max 100)"
// @Param since query string false "Only events after this time (any common date format)"
// @Param scope query string false "mine (default) or all" Enums(mine, all)
// @Success 200 {object} RecentResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /api/v1/usage/recent [get]
// @Security BearerAuth
func RecentHandler(repo Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		creatorID, ok := auth.GetUserID(c)
		if !ok {
			errors.Unauthorized(c, "")
			return
		}

		var since time.Time
		if raw := c.Query("since"); raw != "" {
			parsed, err := dateparse.ParseAny(raw)
			if err != nil {
				errors.BadRequest(c, "invalid since", err)
				return
			}
			since = parsed
		}

		scope := creatorID
		switch c.DefaultQuery("scope", "mine") {
		case "mine":
		case "all":
			scope = ""
		default:
			errors.BadRequest(c, "scope must be mine or all", nil)
			return
		}

		params := pagination.FromQuery(c, 20, 100)

		events, err := repo.ListRecent(c.Request.Context(), scope, params.Limit)
		if err != nil {
			errors.InternalError(c, "failed to list usage", err)
			return
		}

		if !since.IsZero() {
			events = lo.Filter(events, func(e usage.Event, _ int) bool {
				return e.DetectedAt.After(since)
			})
		}

		c.JSON(http.StatusOK, RecentResponse{Events: events})
	}
}

// SummaryHandler godoc
// @Summary Usage summary
// @Description Totals the creator's touches and earnings, grouped by model, with achievement progress
// @Tags usage
// @Produce json
// @Success 200 {object} usage.Summary
// @Failure 401 {object} errors.ErrorResponse
// @Router /api/v1/usage/summary [get]
// @Security BearerAuth
func SummaryHandler(repo Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		creatorID, ok := auth.GetUserID(c)
		if !ok {
			errors.Unauthorized(c, "")
			return
		}

		summary, err := repo.Summary(c.Request.Context(), creatorID)
		if err != nil {
			errors.InternalError(c, "failed to summarize usage", err)
			return
		}

		c.JSON(http.StatusOK, summary)
	}
}
