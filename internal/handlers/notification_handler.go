package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"leadforge/internal/realtime"
	"leadforge/internal/services"
)

type NotificationHandler struct {
	Feed *services.ToastFeed
	Hub  *realtime.NotificationHub
}

func NewNotificationHandler(feed *services.ToastFeed, hub *realtime.NotificationHub) *NotificationHandler {
	return &NotificationHandler{Feed: feed, Hub: hub}
}

// @Summary      Active notifications
// @Tags         Notifications
// @Produce      json
// @Success      200  {array}  services.Notification
// @Security     BearerAuth
// @Router       /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.Feed.Active())
}

// @Summary      Dismiss notification
// @Tags         Notifications
// @Param        id   path  string  true  "Notification ID"
// @Success      204
// @Failure      404  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /notifications/{id} [delete]
func (h *NotificationHandler) Dismiss(c *gin.Context) {
	if !h.Feed.Dismiss(c.Param("id")) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "notification not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary      Notification stream
// @Description  Upgrades to a websocket that first replays the active notifications, then pushes new ones
// @Tags         Notifications
// @Param        access_token  query  string  false  "Bearer token for clients that cannot set headers"
// @Success      101
// @Security     BearerAuth
// @Router       /notifications/ws [get]
func (h *NotificationHandler) Stream(c *gin.Context) {
	conn, err := realtime.Upgrade(c.Writer, c.Request)
	if err != nil {
		return
	}
	for _, n := range h.Feed.Active() {
		if err := conn.WriteJSON(n); err != nil {
			_ = conn.Close()
			return
		}
	}
	h.Hub.Register(conn)
	defer h.Hub.Unregister(conn)
	_ = conn.Drain()
}
