package services

import (
	"errors"
	"sync"

	"github.com/ella-marsh/handyhub-api/models"
)

// MockEventPublisher is a mock implementation of EventPublisher for testing.
// It records every published event and can be told to fail.
type MockEventPublisher struct {
	mu         sync.Mutex
	events     []models.OrderEvent
	shouldFail bool
}

// NewMockEventPublisher creates a new mock event publisher
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

// SetAsMockForTesting sets this mock as the global publisher instance
func (m *MockEventPublisher) SetAsMockForTesting() {
	SetEventPublisher(m)
}

// FailNextPublishes makes every subsequent Publish call return an error
func (m *MockEventPublisher) FailNextPublishes(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shouldFail = fail
}

// Publish records the event, or fails if the mock is set to fail
func (m *MockEventPublisher) Publish(event models.OrderEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.shouldFail {
		return errors.New("mock publisher failure")
	}
	m.events = append(m.events, event)
	return nil
}

// Close is a no-op for the mock
func (m *MockEventPublisher) Close() error {
	return nil
}

// Events returns a copy of the recorded events
func (m *MockEventPublisher) Events() []models.OrderEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.OrderEvent, len(m.events))
	copy(out, m.events)
	return out
}

// LastEvent returns the most recently recorded event, or nil
func (m *MockEventPublisher) LastEvent() *models.OrderEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.events) == 0 {
		return nil
	}
	event := m.events[len(m.events)-1]
	return &event
}

// Reset clears all recorded events
func (m *MockEventPublisher) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = nil
	m.shouldFail = false
}
