package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/dr9911/CBDC-sub000/internal/core/ports/services"
	"github.com/dr9911/CBDC-sub000/internal/dto"
	"github.com/dr9911/CBDC-sub000/internal/middleware"
)

// notificationHandler exposes the per-recipient notification feed.
type notificationHandler struct {
	notifier portssvc.NotifierSvcFacade
}

func newNotificationHandler(ns portssvc.NotifierSvcFacade) *notificationHandler {
	return &notificationHandler{notifier: ns}
}

// registerNotificationRoutes registers routes related to notifications.
// Recipients only ever see their own feed; the recipient is always the
// authenticated account.
func registerNotificationRoutes(rg *gin.RouterGroup, notifier portssvc.NotifierSvcFacade) {
	h := newNotificationHandler(notifier)

	notifications := rg.Group("/notifications")
	{
		notifications.GET("", h.listNotifications)
		notifications.POST("/:notificationID/read", h.markRead)
	}
}

// listNotifications godoc
// @Summary List notifications for the authenticated account
// @Tags notifications
// @Produce  json
// @Param   unreadOnly query bool false "Only unread notifications"
// @Param   limit query int false "Page size" default(20)
// @Success 200 {array} dto.NotificationResponse
// @Security BearerAuth
// @Router /notifications [get]
func (h *notificationHandler) listNotifications(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetAccountIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var params dto.ListNotificationsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for listNotifications", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	notifications, err := h.notifier.ListNotifications(c.Request.Context(), userID, params.UnreadOnly, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToNotificationResponses(notifications))
}

// markRead godoc
// @Summary Mark a notification as read
// @Description Read state is monotonic; marking an already read notification is a no-op
// @Tags notifications
// @Produce  json
// @Param   notificationID path string true "Notification ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse "Notification not found for this account"
// @Security BearerAuth
// @Router /notifications/{notificationID}/read [post]
func (h *notificationHandler) markRead(c *gin.Context) {
	notificationID := c.Param("notificationID")

	userID, ok := middleware.GetAccountIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.notifier.MarkRead(c.Request.Context(), notificationID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
