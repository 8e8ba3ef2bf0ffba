package services

import (
	"sync"

	"go.uber.org/zap"

	"github.com/ella-marsh/handyhub-api/config"
	"github.com/ella-marsh/handyhub-api/models"
)

// subscriberBuffer is the per-subscriber channel capacity. Sends never block:
// when a subscriber's buffer is full the notification is dropped for that
// subscriber (it is still persisted and listable).
const subscriberBuffer = 16

// NotificationHub fans notifications out to connected subscribers. A user can
// have several subscriptions at once (multiple tabs/devices).
type NotificationHub struct {
	mu          sync.RWMutex
	subscribers map[uint][]chan models.Notification
}

// NewNotificationHub creates an empty hub
func NewNotificationHub() *NotificationHub {
	return &NotificationHub{
		subscribers: make(map[uint][]chan models.Notification),
	}
}

var hubInstance *NotificationHub

// InitNotificationHub initializes the shared hub instance
func InitNotificationHub() *NotificationHub {
	hubInstance = NewNotificationHub()
	return hubInstance
}

// GetNotificationHub returns the shared hub instance
func GetNotificationHub() *NotificationHub {
	return hubInstance
}

// Subscribe registers a channel receiving the given user's notifications
func (h *NotificationHub) Subscribe(userID uint) chan models.Notification {
	ch := make(chan models.Notification, subscriberBuffer)
	h.mu.Lock()
	h.subscribers[userID] = append(h.subscribers[userID], ch)
	h.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes a previously subscribed channel
func (h *NotificationHub) Unsubscribe(userID uint, ch chan models.Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()

	channels := h.subscribers[userID]
	for i, existing := range channels {
		if existing == ch {
			h.subscribers[userID] = append(channels[:i], channels[i+1:]...)
			close(ch)
			break
		}
	}
	if len(h.subscribers[userID]) == 0 {
		delete(h.subscribers, userID)
	}
}

// Push delivers a notification to all of a user's subscriptions without
// blocking
func (h *NotificationHub) Push(userID uint, notification models.Notification) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.subscribers[userID] {
		select {
		case ch <- notification:
		default:
			config.Log.Warn("notification dropped, subscriber buffer full",
				zap.Uint("user_id", userID),
				zap.String("type", notification.Type),
			)
		}
	}
}

// PushAll delivers a notification to every connected subscriber
func (h *NotificationHub) PushAll(notification models.Notification) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for userID, channels := range h.subscribers {
		for _, ch := range channels {
			select {
			case ch <- notification:
			default:
				config.Log.Warn("broadcast dropped, subscriber buffer full",
					zap.Uint("user_id", userID),
				)
			}
		}
	}
}

// SubscriberCount returns the number of open subscriptions for a user
func (h *NotificationHub) SubscriberCount(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[userID])
}
