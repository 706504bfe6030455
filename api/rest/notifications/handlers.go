package notifications

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"codeberg.org/metastamp/server/internal/auth"
	"codeberg.org/metastamp/server/internal/errors"
	"codeberg.org/metastamp/server/internal/logger"
	"codeberg.org/metastamp/server/internal/notifications"
)

const (
	defaultLimit = 50
	maxLimit     = 100
)

// ListHandler godoc
// @Summary List notifications
// @Description Lists the creator's earning, AI touch and achievement notifications, newest first
// @Tags notifications
// @Produce json
// @Param limit query int false "Max notifications (default 50, max 100)"
// @Param unread query bool false "Only unread notifications"
// @Success 200 {object} ListResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/v1/notifications [get]
// @Security BearerAuth
func ListHandler(svc Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		creatorID, ok := auth.GetUserID(c)
		if !ok {
			errors.Unauthorized(c, "authentication required")
			return
		}

		limit := defaultLimit
		if l := c.Query("limit"); l != "" {
			if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= maxLimit {
				limit = parsed
			}
		}

		unreadOnly := c.Query("unread") == "true"
		notifs, err := svc.ListForCreator(c.Request.Context(), creatorID, limit, unreadOnly)
		if err != nil {
			errors.InternalError(c, "failed to fetch notifications", err)
			return
		}

		unreadCount, err := svc.UnreadCount(c.Request.Context(), creatorID)
		if err != nil {
			logger.ErrorErr(err, "failed to count unread notifications", "user_id", creatorID)
			unreadCount = 0
		}

		c.JSON(http.StatusOK, ListResponse{
			Notifications: notifs,
			UnreadCount:   unreadCount,
		})
	}
}

// MarkReadHandler godoc
// @Summary Mark notification read
// @Tags notifications
// @Param id path string true "Notification ID"
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/v1/notifications/{id}/read [post]
// @Security BearerAuth
func MarkReadHandler(svc Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		creatorID, ok := auth.GetUserID(c)
		if !ok {
			errors.Unauthorized(c, "authentication required")
			return
		}

		notificationID, ok := errors.ValidatePathUUID(c, "id")
		if !ok {
			return
		}

		if err := svc.MarkRead(c.Request.Context(), creatorID, notificationID); err != nil {
			if stderrors.Is(err, notifications.ErrNotificationNotFound) {
				errors.NotFound(c, "notification")
				return
			}

			errors.InternalError(c, "failed to mark notification as read", err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

// MarkAllReadHandler godoc
// @Summary Mark all notifications read
// @Tags notifications
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Router /api/v1/notifications/read-all [post]
// @Security BearerAuth
func MarkAllReadHandler(svc Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		creatorID, ok := auth.GetUserID(c)
		if !ok {
			errors.Unauthorized(c, "authentication required")
			return
		}

		if err := svc.MarkAllRead(c.Request.Context(), creatorID); err != nil {
			errors.InternalError(c, "failed to mark notifications as read", err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

// UnreadCountHandler godoc
// @Summary Count unread notifications
// @Tags notifications
// @Produce json
// @Success 200 {object} UnreadCountResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /api/v1/notifications/unread-count [get]
// @Security BearerAuth
func UnreadCountHandler(svc Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		creatorID, ok := auth.GetUserID(c)
		if !ok {
			errors.Unauthorized(c, "authentication required")
			return
		}

		count, err := svc.UnreadCount(c.Request.Context(), creatorID)
		if err != nil {
			errors.InternalError(c, "failed to get unread count", err)
			return
		}

		c.JSON(http.StatusOK, UnreadCountResponse{Count: count})
	}
}
