package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/core/domain"
	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/core/services"
	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/mocks"
)

func TestPatientService_RegisterPatient(t *testing.T) {
	tests := []struct {
		name     string
		patient  domain.Patient
		setup    func(*mocks.MockRepository)
		expected domain.Outcome
	}{
		{
			name:     "registered",
			patient:  domain.Patient{Name: "New", Email: "new@x.com", Phone: "100", Password: "pw"},
			expected: domain.OutcomeOK,
		},
		{
			name:     "email_taken",
			patient:  domain.Patient{Name: "Dup", Email: "pat@x.com", Phone: "101", Password: "pw"},
			expected: domain.OutcomeConflict,
		},
		{
			name:     "phone_taken",
			patient:  domain.Patient{Name: "Dup", Email: "other@x.com", Phone: "555", Password: "pw"},
			expected: domain.OutcomeConflict,
		},
		{
			name:     "directory_failure",
			patient:  domain.Patient{Name: "New", Email: "new@x.com", Phone: "100", Password: "pw"},
			setup:    func(m *mocks.MockRepository) { m.DirectoryError = errors.New("timeout") },
			expected: domain.OutcomeFailed,
		},
		{
			name:     "persistence_failure",
			patient:  domain.Patient{Name: "New", Email: "new@x.com", Phone: "100", Password: "pw"},
			setup:    func(m *mocks.MockRepository) { m.CreateError = errors.New("db down") },
			expected: domain.OutcomeFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockRepository()
			repo.SeedPatient(domain.Patient{Name: "Pat", Email: "pat@x.com", Phone: "555"})
			if tt.setup != nil {
				tt.setup(repo)
			}
			svc := services.NewPatientService(repo, repo, repo, zerolog.Nop())

			p := tt.patient
			if got := svc.RegisterPatient(context.Background(), &p); got != tt.expected {
				t.Fatalf("got %d, want %d", got, tt.expected)
			}
			if tt.expected == domain.OutcomeOK {
				stored, _ := repo.Patient(p.ID)
				if stored.Password == "pw" {
					t.Error("password stored in plain text")
				}
			}
		})
	}
}

func TestPatientService_FilterAppointments(t *testing.T) {
	repo := mocks.NewMockRepository()
	patientID := repo.SeedPatient(domain.Patient{Name: "Pat", Email: "pat@x.com", Phone: "555"})
	jones := repo.SeedDoctor(domain.Doctor{Name: "Dr Jones", Email: "jones@x.com"})
	smith := repo.SeedDoctor(domain.Doctor{Name: "Dr Smith", Email: "smith@x.com"})
	repo.SeedAppointment(domain.Appointment{DoctorID: jones, PatientID: patientID, AppointmentTime: at(1, 9, 0), Status: domain.StatusCompleted})
	repo.SeedAppointment(domain.Appointment{DoctorID: smith, PatientID: patientID, AppointmentTime: at(2, 9, 0), Status: domain.StatusCompleted})
	repo.SeedAppointment(domain.Appointment{DoctorID: jones, PatientID: patientID, AppointmentTime: at(3, 9, 0), Status: domain.StatusPending})
	repo.SeedAppointment(domain.Appointment{DoctorID: jones, PatientID: patientID, AppointmentTime: at(4, 9, 0), Status: domain.StatusCancelled})

	svc := services.NewPatientService(repo, repo, repo, zerolog.Nop())

	tests := []struct {
		name      string
		condition string
		doctor    string
		expected  int
	}{
		{"past_is_completed", "past", "", 2},
		{"past_by_doctor", "PAST", "jones", 1},
		{"upcoming_is_pending", "future", "null", 1},
		{"upcoming_other_doctor", "future", "smith", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.FilterAppointments(context.Background(), "pat@x.com", tt.condition, tt.doctor)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != tt.expected {
				t.Errorf("got %d, want %d", len(got), tt.expected)
			}
		})
	}
}

func TestPatientService_Lookups(t *testing.T) {
	repo := mocks.NewMockRepository()
	id := repo.SeedPatient(domain.Patient{Name: "Pat", Email: "pat@x.com", Phone: "555"})
	repo.SeedAppointment(domain.Appointment{DoctorID: 1, PatientID: id, AppointmentTime: at(1, 9, 0)})
	svc := services.NewPatientService(repo, repo, repo, zerolog.Nop())
	ctx := context.Background()

	p, err := svc.PatientByEmail(ctx, "pat@x.com")
	if err != nil || p.ID != id {
		t.Fatalf("PatientByEmail = %+v, %v", p, err)
	}
	if _, err := svc.PatientByEmail(ctx, "ghost@x.com"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown patient: got %v", err)
	}
	appts, err := svc.PatientAppointments(ctx, id)
	if err != nil || len(appts) != 1 {
		t.Errorf("PatientAppointments = %v, %v", appts, err)
	}
	all, err := svc.AllPatients(ctx)
	if err != nil || len(all) != 1 {
		t.Errorf("AllPatients = %v, %v", all, err)
	}
}
