package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/core/domain"
	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/core/ports"
)

// ConditionPast selects completed appointments; any other condition selects pending ones.
const ConditionPast = "past"

// PatientService handles registration and patient-side queries.
type PatientService struct {
	patients     ports.PatientRepository
	appointments ports.AppointmentRepository
	directory    ports.Directory
	logger       zerolog.Logger
}

var _ ports.PatientService = (*PatientService)(nil)

func NewPatientService(
	patients ports.PatientRepository,
	appointments ports.AppointmentRepository,
	directory ports.Directory,
	logger zerolog.Logger,
) *PatientService {
	return &PatientService{
		patients:     patients,
		appointments: appointments,
		directory:    directory,
		logger:       logger.With().Str("component", "patient").Logger(),
	}
}

// RegisterPatient returns OutcomeConflict when the email or phone is taken.
func (s *PatientService) RegisterPatient(ctx context.Context, p *domain.Patient) domain.Outcome {
	if taken, err := s.taken(ctx, p); err != nil {
		s.logger.Error().Err(err).Msg("failed to check patient identity")
		return domain.OutcomeFailed
	} else if taken {
		return domain.OutcomeConflict
	}

	hash, err := hashPassword(p.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to hash patient password")
		return domain.OutcomeFailed
	}
	p.Password = hash

	if err := s.patients.CreatePatient(ctx, p); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return domain.OutcomeConflict
		}
		s.logger.Error().Err(err).Msg("failed to save patient")
		return domain.OutcomeFailed
	}
	return domain.OutcomeOK
}

func (s *PatientService) taken(ctx context.Context, p *domain.Patient) (bool, error) {
	if _, err := s.directory.PatientByEmail(ctx, p.Email); err == nil {
		return true, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return false, err
	}
	if _, err := s.directory.PatientByPhone(ctx, p.Phone); err == nil {
		return true, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return false, err
	}
	return false, nil
}

func (s *PatientService) PatientByEmail(ctx context.Context, email string) (*domain.Patient, error) {
	return s.directory.PatientByEmail(ctx, email)
}

func (s *PatientService) PatientAppointments(ctx context.Context, patientID int64) ([]domain.Appointment, error) {
	return s.appointments.ListPatientAppointments(ctx, patientID)
}

// FilterAppointments returns the caller's completed appointments for
// condition "past" and pending ones otherwise, optionally narrowed by a
// doctor name substring.
func (s *PatientService) FilterAppointments(ctx context.Context, patientEmail, condition, doctorName string) ([]domain.Appointment, error) {
	patient, err := s.directory.PatientByEmail(ctx, patientEmail)
	if err != nil {
		return nil, err
	}
	all, err := s.appointments.ListPatientAppointments(ctx, patient.ID)
	if err != nil {
		return nil, err
	}

	match := domain.Status.IsPending
	if strings.EqualFold(strings.TrimSpace(condition), ConditionPast) {
		match = domain.Status.IsCompleted
	}

	out := make([]domain.Appointment, 0, len(all))
	for _, a := range all {
		if !match(a.Status) {
			continue
		}
		if !containsFold(a.DoctorName, doctorName) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (s *PatientService) AllPatients(ctx context.Context) ([]domain.Patient, error) {
	return s.patients.ListPatients(ctx)
}
