package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// AppointmentDuration is the fixed length of every appointment.
const AppointmentDuration = time.Hour

type statusKind int

const (
	statusOther statusKind = iota
	statusPending
	statusCompleted
	statusCancelled
)

// Status is the lifecycle field of an appointment. Known values are recognised
// case-insensitively; anything else is kept verbatim so legacy rows round-trip.
type Status struct {
	kind statusKind
	raw  string
}

var (
	StatusPending   = Status{kind: statusPending, raw: "PENDING"}
	StatusCompleted = Status{kind: statusCompleted, raw: "COMPLETED"}
	StatusCancelled = Status{kind: statusCancelled, raw: "CANCELLED"}
)

// ParseStatus never fails; unknown values become an "other" status holding raw.
func ParseStatus(raw string) Status {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "PENDING":
		return Status{kind: statusPending, raw: raw}
	case "COMPLETED":
		return Status{kind: statusCompleted, raw: raw}
	case "CANCELLED":
		return Status{kind: statusCancelled, raw: raw}
	}
	return Status{kind: statusOther, raw: raw}
}

// String returns the raw value as stored.
func (s Status) String() string { return s.raw }

// IsZero reports an unset status.
func (s Status) IsZero() bool { return s.raw == "" }

// IsPending reports a PENDING status, matched case-insensitively.
func (s Status) IsPending() bool { return s.kind == statusPending }

// IsCompleted reports a COMPLETED status.
func (s Status) IsCompleted() bool { return s.kind == statusCompleted }

// IsCancelled reports a CANCELLED status.
func (s Status) IsCancelled() bool { return s.kind == statusCancelled }

// IsKnown is false for values outside PENDING/COMPLETED/CANCELLED.
func (s Status) IsKnown() bool { return s.kind != statusOther }

// TransitionTo is deliberately permissive: every transition between non-empty
// statuses is allowed, including leaving a terminal state.
func (s Status) TransitionTo(next Status) (Status, error) {
	if next.IsZero() {
		return s, ErrInvalidStatus
	}
	return next, nil
}

// MarshalJSON writes the raw status string.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.raw)
}

// UnmarshalJSON accepts any string, see ParseStatus.
func (s *Status) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*s = ParseStatus(raw)
	return nil
}

// Appointment is a one-hour booking of a doctor by a patient.
type Appointment struct {
	ID              int64     `json:"id"`
	DoctorID        int64     `json:"doctor_id"`
	PatientID       int64     `json:"patient_id"`
	AppointmentTime time.Time `json:"appointment_time"`
	Status          Status    `json:"status"`
	Notes           string    `json:"notes"`

	// Read-side joins, not persisted on the appointment row.
	DoctorName  string `json:"doctor_name,omitempty"`
	PatientName string `json:"patient_name,omitempty"`
}

// EndTime is the exclusive end of the booking.
func (a *Appointment) EndTime() time.Time {
	return a.AppointmentTime.Add(AppointmentDuration)
}

func (a *Appointment) Date() string {
	return a.AppointmentTime.Format(time.DateOnly)
}

func (a *Appointment) TimeOfDay() TimeOfDay {
	return TimeOfDayOf(a.AppointmentTime)
}

// AppointmentEvent is emitted for every appointment mutation and relayed to the broker.
type AppointmentEvent struct {
	Type          string    `json:"type"`
	AppointmentID int64     `json:"appointment_id"`
	DoctorID      int64     `json:"doctor_id,omitempty"`
	PatientID     int64     `json:"patient_id,omitempty"`
	Status        string    `json:"status,omitempty"`
	At            time.Time `json:"appointment_time"`
}

const (
	EventAppointmentBooked        = "appointment.booked"
	EventAppointmentUpdated       = "appointment.updated"
	EventAppointmentStatusChanged = "appointment.status_changed"
	EventAppointmentCancelled     = "appointment.cancelled"
)
