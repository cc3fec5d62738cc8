package mocks

import (
	"context"
	"sync"

	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/core/domain"
	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/core/ports"
)

// MockAppointmentEventPublisher records published events instead of sending them.
type MockAppointmentEventPublisher struct {
	mu sync.RWMutex

	PublishedEvents  []domain.AppointmentEvent
	PublishError     error
	PublishCallCount int
}

var _ ports.AppointmentEventPublisher = (*MockAppointmentEventPublisher)(nil)

func NewMockAppointmentEventPublisher() *MockAppointmentEventPublisher {
	return &MockAppointmentEventPublisher{
		PublishedEvents: make([]domain.AppointmentEvent, 0),
	}
}

func (m *MockAppointmentEventPublisher) PublishAppointmentEvent(ctx context.Context, evt domain.AppointmentEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PublishCallCount++
	if m.PublishError != nil {
		return m.PublishError
	}
	m.PublishedEvents = append(m.PublishedEvents, evt)
	return nil
}

// GetPublishedEvents returns a copy of the recorded events.
func (m *MockAppointmentEventPublisher) GetPublishedEvents() []domain.AppointmentEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := make([]domain.AppointmentEvent, len(m.PublishedEvents))
	copy(events, m.PublishedEvents)
	return events
}

func (m *MockAppointmentEventPublisher) GetPublishCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.PublishCallCount
}

func (m *MockAppointmentEventPublisher) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PublishedEvents = make([]domain.AppointmentEvent, 0)
	m.PublishError = nil
	m.PublishCallCount = 0
}
