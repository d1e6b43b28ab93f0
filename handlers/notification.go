package handlers

import (
	"io"
	"net/http"
	"strings"

	"datex/middleware"
	"datex/services/notification"
	"datex/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NotificationHandler exposes the in-app notification endpoints.
type NotificationHandler struct {
	Service notification.NotificationService
}

func NewNotificationHandler(svc notification.NotificationService) *NotificationHandler {
	return &NotificationHandler{Service: svc}
}

// ListNotificationsHandler handles GET /api/notifications.
func (h *NotificationHandler) ListNotificationsHandler(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
		return
	}

	notifications, err := h.Service.List(c.Request.Context(), userID)
	if err != nil {
		utils.GetLogger().Error("Failed to list notifications", zap.String("userId", userID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load notifications", err.Error())
		return
	}
	c.JSON(http.StatusOK, notifications)
}

// UnreadCountHandler handles GET /api/notifications/unread-count.
func (h *NotificationHandler) UnreadCountHandler(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
		return
	}

	count, err := h.Service.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load unread count", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": count})
}

// StreamUnreadCountHandler handles GET /api/notifications/stream. It
// pushes the unread count over SSE whenever notification state changes,
// replacing client-side polling.
func (h *NotificationHandler) StreamUnreadCountHandler(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
		return
	}

	counts := h.Service.Watch(c.Request.Context(), userID)

	c.Header("Cache-Control", "no-cache")
	c.Stream(func(w io.Writer) bool {
		count, open := <-counts
		if !open {
			return false
		}
		c.SSEvent("unread", count)
		return true
	})
}

// MarkSeenHandler handles PATCH /api/notifications/:id/seen.
func (h *NotificationHandler) MarkSeenHandler(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
		return
	}
	id := c.Param("id")

	if err := h.Service.MarkSeen(c.Request.Context(), userID, id); err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.JSONError(c, http.StatusNotFound, "Notification not found", err.Error())
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "Failed to update notification", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as seen"})
}

// MarkAllSeenHandler handles POST /api/notifications/seen-all.
func (h *NotificationHandler) MarkAllSeenHandler(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
		return
	}

	if err := h.Service.MarkAllSeen(c.Request.Context(), userID); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to update notifications", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as seen"})
}

// DeleteNotificationHandler handles DELETE /api/notifications/:id.
func (h *NotificationHandler) DeleteNotificationHandler(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
		return
	}
	id := c.Param("id")

	if err := h.Service.Delete(c.Request.Context(), userID, id); err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.JSONError(c, http.StatusNotFound, "Notification not found", err.Error())
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "Failed to delete notification", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted"})
}
