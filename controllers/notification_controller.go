package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ella-marsh/handyhub-api/config"
	"github.com/ella-marsh/handyhub-api/models"
	"github.com/ella-marsh/handyhub-api/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin is already constrained by the CORS middleware
	CheckOrigin: func(r *http.Request) bool { return true },
}

const streamPingInterval = 30 * time.Second

// ListMyNotifications handles GET /api/v1/notifications
func ListMyNotifications(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	db := config.GetDB()

	var notifications []models.Notification
	err := db.Where("user_id = ? OR user_id = 0", userID).
		Order("created_at DESC").
		Find(&notifications).Error
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    notifications,
	})
}

// MarkNotificationRead handles PUT /api/v1/notifications/:id/read
func MarkNotificationRead(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()

	var notification models.Notification
	if err := db.First(&notification, id).Error; err != nil {
		respondServiceError(c, &services.NotFoundError{Resource: "notification", ID: id})
		return
	}

	if notification.UserID != 0 && notification.UserID != userID {
		respondServiceError(c, &services.ForbiddenError{Message: "notification belongs to another user"})
		return
	}

	notification.Read = true
	if err := db.Save(&notification).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    notification,
	})
}

// StreamNotifications handles GET /api/v1/notifications/stream. It upgrades
// the connection to a websocket and forwards the user's notifications as
// JSON messages until the client disconnects.
func StreamNotifications(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	hub := services.GetNotificationHub()
	if hub == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STREAM_UNAVAILABLE",
				"message": "Notification streaming is not available",
			},
		})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		config.Log.Warn("websocket upgrade failed",
			zap.Uint("user_id", userID),
			zap.Error(err),
		)
		return
	}
	defer conn.Close()

	ch := hub.Subscribe(userID)
	defer hub.Unsubscribe(userID, ch)

	// Drain reads so close frames are processed; signals disconnect
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(streamPingInterval)
	defer ticker.Stop()

	for {
		select {
		case notification, open := <-ch:
			if !open {
				return
			}
			if err := conn.WriteJSON(notification); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
