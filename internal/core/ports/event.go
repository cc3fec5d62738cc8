package ports

import (
	"context"
	"time"

	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/core/domain"
)

// AppointmentEventPublisher hands appointment events to the broker.
type AppointmentEventPublisher interface {
	PublishAppointmentEvent(ctx context.Context, evt domain.AppointmentEvent) error
}

// SlotLocker serialises concurrent bookings of the same doctor and timestamp.
// When ok is false another booking currently holds the slot.
type SlotLocker interface {
	Acquire(ctx context.Context, doctorID int64, at time.Time) (release func(), ok bool, err error)
}
