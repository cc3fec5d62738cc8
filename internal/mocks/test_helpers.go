package mocks

import (
	"time"

	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/core/domain"
)

// CreateTestEvent returns a booked event for a fixed appointment.
func CreateTestEvent() domain.AppointmentEvent {
	return CreateTestEventWithData(domain.EventAppointmentBooked, 1, 2, 3)
}

func CreateTestEventWithData(eventType string, appointmentID, doctorID, patientID int64) domain.AppointmentEvent {
	return domain.AppointmentEvent{
		Type:          eventType,
		AppointmentID: appointmentID,
		DoctorID:      doctorID,
		PatientID:     patientID,
		Status:        domain.StatusPending.String(),
		At:            time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}
