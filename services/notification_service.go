package services

import (
	"fmt"
	"time"

	"github.com/ella-marsh/handyhub-api/config"
	"github.com/ella-marsh/handyhub-api/models"
)

// Notifier pushes user-facing notifications. Like event publishing it is
// fire-and-forget from the ledger's point of view: callers log and discard
// errors.
type Notifier interface {
	// Notify sends a notification to a single user
	Notify(userID uint, notificationType, title, message string) error

	// Broadcast sends a notification to every connected user
	Broadcast(notificationType, title, message string) error
}

// HubNotifier persists each notification and pushes it to the in-process hub
// for live delivery over websockets
type HubNotifier struct {
	hub *NotificationHub
}

var notifierInstance Notifier

// InitNotifier initializes the notifier backed by the given hub
func InitNotifier(hub *NotificationHub) Notifier {
	notifierInstance = &HubNotifier{hub: hub}
	return notifierInstance
}

// GetNotifier returns the initialized notifier instance
func GetNotifier() Notifier {
	return notifierInstance
}

// SetNotifier sets the notifier instance (primarily for testing)
func SetNotifier(n Notifier) {
	notifierInstance = n
}

// Notify stores the notification and pushes it to the user's subscriptions
func (n *HubNotifier) Notify(userID uint, notificationType, title, message string) error {
	notification := models.Notification{
		UserID:    userID,
		Type:      notificationType,
		Title:     title,
		Message:   message,
		Read:      false,
		CreatedAt: time.Now(),
	}

	db := config.GetDB()
	if err := db.Create(&notification).Error; err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}

	n.hub.Push(userID, notification)
	return nil
}

// Broadcast stores the notification with user id 0 and pushes it to every
// connected subscriber
func (n *HubNotifier) Broadcast(notificationType, title, message string) error {
	notification := models.Notification{
		UserID:    0,
		Type:      notificationType,
		Title:     title,
		Message:   message,
		Read:      false,
		CreatedAt: time.Now(),
	}

	db := config.GetDB()
	if err := db.Create(&notification).Error; err != nil {
		return fmt.Errorf("failed to store broadcast notification: %w", err)
	}

	n.hub.PushAll(notification)
	return nil
}
