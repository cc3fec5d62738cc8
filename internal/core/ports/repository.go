package ports

import (
	"context"
	"time"

	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/core/domain"
)

// Directory resolves token subjects and login identities by business key.
// Lookups return domain.ErrNotFound when no record matches.
type Directory interface {
	AdminByUsername(ctx context.Context, username string) (*domain.Admin, error)
	DoctorByEmail(ctx context.Context, email string) (*domain.Doctor, error)
	PatientByEmail(ctx context.Context, email string) (*domain.Patient, error)
	PatientByPhone(ctx context.Context, phone string) (*domain.Patient, error)
}

type AdminRepository interface {
	CreateAdmin(ctx context.Context, admin *domain.Admin) error
}

type DoctorRepository interface {
	CreateDoctor(ctx context.Context, doctor *domain.Doctor) error
	FindDoctorByID(ctx context.Context, id int64) (*domain.Doctor, error)
	ListDoctors(ctx context.Context) ([]domain.Doctor, error)
	UpdateDoctor(ctx context.Context, doctor *domain.Doctor) error
	// DeleteDoctor removes the doctor and all of the doctor's appointments.
	DeleteDoctor(ctx context.Context, id int64) error
}

type PatientRepository interface {
	CreatePatient(ctx context.Context, patient *domain.Patient) error
	FindPatientByID(ctx context.Context, id int64) (*domain.Patient, error)
	ListPatients(ctx context.Context) ([]domain.Patient, error)
}

// AppointmentRepository persists appointments. Writes also record an outbox event.
type AppointmentRepository interface {
	CreateAppointment(ctx context.Context, a *domain.Appointment) error
	FindAppointmentByID(ctx context.Context, id int64) (*domain.Appointment, error)
	AppointmentExists(ctx context.Context, id int64) (bool, error)
	UpdateAppointment(ctx context.Context, a *domain.Appointment) error
	// UpdateAppointmentStatus returns domain.ErrNotFound when no row matched.
	UpdateAppointmentStatus(ctx context.Context, id int64, status domain.Status) error
	DeleteAppointment(ctx context.Context, id int64) error
	// ListDoctorAppointments returns appointments in [from, to). An empty
	// patientName disables the patient name filter.
	ListDoctorAppointments(ctx context.Context, doctorID int64, from, to time.Time, patientName string) ([]domain.Appointment, error)
	ListPatientAppointments(ctx context.Context, patientID int64) ([]domain.Appointment, error)
	ListAppointments(ctx context.Context) ([]domain.Appointment, error)
}
