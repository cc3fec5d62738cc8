package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/core/domain"
	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/mocks"
)

func newTestRelay(publisher *mocks.MockAppointmentEventPublisher) *Relay {
	return NewRelay(nil, "", publisher, prometheus.NewRegistry(), zerolog.Nop())
}

func TestRelay_DispatchPublishesAppointmentEvents(t *testing.T) {
	publisher := mocks.NewMockAppointmentEventPublisher()
	relay := newTestRelay(publisher)

	evt := mocks.CreateTestEvent()
	payload, _ := json.Marshal(evt)

	if err := relay.dispatch(context.Background(), evt.Type, payload); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	events := publisher.GetPublishedEvents()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].AppointmentID != evt.AppointmentID || !events[0].At.Equal(evt.At) {
		t.Errorf("event mismatch: %+v", events[0])
	}
	if got := testutil.ToFloat64(relay.published.WithLabelValues(evt.Type, "published")); got != 1 {
		t.Errorf("published counter = %v", got)
	}
}

func TestRelay_DispatchSkipsForeignEvents(t *testing.T) {
	publisher := mocks.NewMockAppointmentEventPublisher()
	relay := newTestRelay(publisher)

	if err := relay.dispatch(context.Background(), "user.created", []byte(`{}`)); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if publisher.GetPublishCount() != 0 {
		t.Error("foreign event should not be published")
	}
}

func TestRelay_DispatchInvalidPayload(t *testing.T) {
	publisher := mocks.NewMockAppointmentEventPublisher()
	relay := newTestRelay(publisher)

	err := relay.dispatch(context.Background(), domain.EventAppointmentBooked, []byte(`{not json`))
	if !errors.Is(err, errBadPayload) {
		t.Fatalf("expected errBadPayload, got %v", err)
	}
	if publisher.GetPublishCount() != 0 {
		t.Error("invalid payload should not be published")
	}
}

func TestRelay_DispatchPublishFailure(t *testing.T) {
	publisher := mocks.NewMockAppointmentEventPublisher()
	publisher.PublishError = errors.New("broker down")
	relay := newTestRelay(publisher)

	payload, _ := json.Marshal(mocks.CreateTestEvent())
	err := relay.dispatch(context.Background(), domain.EventAppointmentBooked, payload)
	if err == nil || errors.Is(err, errBadPayload) {
		t.Fatalf("expected publish error, got %v", err)
	}
	if got := testutil.ToFloat64(relay.published.WithLabelValues(domain.EventAppointmentBooked, "failed")); got != 1 {
		t.Errorf("failed counter = %v", got)
	}
}

func TestRelay_HealthState(t *testing.T) {
	relay := newTestRelay(mocks.NewMockAppointmentEventPublisher())
	if !relay.IsHealthy() || !relay.IsReady() {
		t.Error("new relay should be healthy and ready")
	}
	relay.healthy.Store(false)
	if relay.IsReady() {
		t.Error("unhealthy relay must not be ready")
	}
}
