package services

import (
	"errors"
	"sync"
)

// MockNotification is a single recorded call on the mock notifier
type MockNotification struct {
	UserID    uint
	Type      string
	Title     string
	Message   string
	Broadcast bool
}

// MockNotifier is a mock implementation of Notifier for testing
type MockNotifier struct {
	mu         sync.Mutex
	sent       []MockNotification
	shouldFail bool
}

// NewMockNotifier creates a new mock notifier
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

// SetAsMockForTesting sets this mock as the global notifier instance
func (m *MockNotifier) SetAsMockForTesting() {
	SetNotifier(m)
}

// FailNextNotifies makes every subsequent call return an error
func (m *MockNotifier) FailNextNotifies(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shouldFail = fail
}

// Notify records a single-user notification
func (m *MockNotifier) Notify(userID uint, notificationType, title, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.shouldFail {
		return errors.New("mock notifier failure")
	}
	m.sent = append(m.sent, MockNotification{
		UserID:  userID,
		Type:    notificationType,
		Title:   title,
		Message: message,
	})
	return nil
}

// Broadcast records a platform-wide notification
func (m *MockNotifier) Broadcast(notificationType, title, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.shouldFail {
		return errors.New("mock notifier failure")
	}
	m.sent = append(m.sent, MockNotification{
		Type:      notificationType,
		Title:     title,
		Message:   message,
		Broadcast: true,
	})
	return nil
}

// Sent returns a copy of all recorded notifications
func (m *MockNotifier) Sent() []MockNotification {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockNotification, len(m.sent))
	copy(out, m.sent)
	return out
}

// SentTo returns the notifications recorded for a specific user
func (m *MockNotifier) SentTo(userID uint) []MockNotification {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []MockNotification
	for _, n := range m.sent {
		if !n.Broadcast && n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

// Reset clears all recorded notifications
func (m *MockNotifier) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = nil
	m.shouldFail = false
}
