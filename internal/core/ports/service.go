package ports

import (
	"context"
	"time"

	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/core/domain"
)

type AuthService interface {
	LoginAdmin(ctx context.Context, username, password string) (string, error)
	LoginDoctor(ctx context.Context, email, password string) (string, error)
	LoginPatient(ctx context.Context, email, password string) (string, error)
}

// Principal is the caller identity established by the authorization gate.
type Principal struct {
	Subject string
	Role    domain.Role
}

// Authorizer resolves a bearer token to a Principal holding one of roles.
type Authorizer interface {
	Authorize(ctx context.Context, token string, roles ...domain.Role) (Principal, error)
}

type AvailabilityService interface {
	AvailableSlots(ctx context.Context, doctorID int64, date time.Time) ([]string, error)
}

// BookingService is the appointment write side.
type BookingService interface {
	ValidateAppointment(ctx context.Context, doctorID int64, at time.Time) (domain.SlotValidation, error)
	SaveAppointment(ctx context.Context, a *domain.Appointment) domain.Outcome
	UpdateAppointment(ctx context.Context, a *domain.Appointment) domain.Outcome
	CancelAppointment(ctx context.Context, id int64) domain.Outcome
	GetAppointment(ctx context.Context, id int64) (*domain.Appointment, error)
	DoctorAppointments(ctx context.Context, doctorEmail string, date time.Time, patientName string) ([]domain.Appointment, error)
	AllAppointments(ctx context.Context) ([]domain.Appointment, error)
}

// StatusService updates appointment status.
type StatusService interface {
	UpdateStatus(ctx context.Context, id int64, status string) domain.Outcome
}

type DoctorService interface {
	ListDoctors(ctx context.Context) ([]domain.Doctor, error)
	FilterDoctors(ctx context.Context, name, speciality, timeOfDay string) ([]domain.Doctor, error)
	SaveDoctor(ctx context.Context, d *domain.Doctor) domain.Outcome
	UpdateDoctor(ctx context.Context, d *domain.Doctor) domain.Outcome
	DeleteDoctor(ctx context.Context, id int64) domain.Outcome
}

type PatientService interface {
	RegisterPatient(ctx context.Context, p *domain.Patient) domain.Outcome
	PatientByEmail(ctx context.Context, email string) (*domain.Patient, error)
	PatientAppointments(ctx context.Context, patientID int64) ([]domain.Appointment, error)
	FilterAppointments(ctx context.Context, patientEmail, condition, doctorName string) ([]domain.Appointment, error)
	AllPatients(ctx context.Context) ([]domain.Patient, error)
}
