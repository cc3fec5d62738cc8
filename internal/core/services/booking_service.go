package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/core/domain"
	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/core/ports"
)

// BookingService validates, saves, updates and cancels appointments.
type BookingService struct {
	appointments ports.AppointmentRepository
	doctors      ports.DoctorRepository
	patients     ports.PatientRepository
	directory    ports.Directory
	locker       ports.SlotLocker
	logger       zerolog.Logger
}

var _ ports.BookingService = (*BookingService)(nil)

// NewBookingService wires the booking flow. locker may be nil, in which case
// the database unique index is the only double-booking guard.
func NewBookingService(
	appointments ports.AppointmentRepository,
	doctors ports.DoctorRepository,
	patients ports.PatientRepository,
	directory ports.Directory,
	locker ports.SlotLocker,
	logger zerolog.Logger,
) *BookingService {
	return &BookingService{
		appointments: appointments,
		doctors:      doctors,
		patients:     patients,
		directory:    directory,
		locker:       locker,
		logger:       logger.With().Str("component", "booking").Logger(),
	}
}

// ValidateAppointment checks the requested time of day against the doctor's
// configured slots. Existing bookings are not consulted here.
func (s *BookingService) ValidateAppointment(ctx context.Context, doctorID int64, at time.Time) (domain.SlotValidation, error) {
	doctor, err := s.doctors.FindDoctorByID(ctx, doctorID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ValidationDoctorNotFound, nil
	}
	if err != nil {
		return domain.ValidationSlotUnavailable, fmt.Errorf("load doctor %d: %w", doctorID, err)
	}

	requested := domain.TimeOfDayOf(at)
	for _, slot := range doctor.AvailableTimes {
		tod, err := domain.ParseTimeOfDay(slot)
		if err != nil {
			continue
		}
		if tod == requested {
			return domain.ValidationOK, nil
		}
	}
	return domain.ValidationSlotUnavailable, nil
}

// SaveAppointment persists a new appointment. A taken slot or unknown
// doctor/patient returns OutcomeConflict.
func (s *BookingService) SaveAppointment(ctx context.Context, a *domain.Appointment) domain.Outcome {
	if a == nil || a.DoctorID == 0 || a.PatientID == 0 {
		return domain.OutcomeNotFound
	}
	if outcome, ok := s.checkReferences(ctx, a); !ok {
		return outcome
	}
	if a.Status.IsZero() {
		a.Status = domain.StatusPending
	}

	if s.locker != nil {
		release, ok, err := s.locker.Acquire(ctx, a.DoctorID, a.AppointmentTime)
		switch {
		case err != nil:
			s.logger.Warn().Err(err).Int64("doctor_id", a.DoctorID).Msg("slot lock unavailable, relying on database constraint")
		case !ok:
			s.logger.Info().Int64("doctor_id", a.DoctorID).Time("at", a.AppointmentTime).Msg("slot is being booked concurrently")
			return domain.OutcomeConflict
		default:
			defer release()
		}
	}

	if err := s.appointments.CreateAppointment(ctx, a); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			s.logger.Info().Int64("doctor_id", a.DoctorID).Time("at", a.AppointmentTime).Msg("slot already booked")
			return domain.OutcomeConflict
		}
		s.logger.Error().Err(err).Msg("failed to save appointment")
		return domain.OutcomeFailed
	}
	return domain.OutcomeOK
}

func (s *BookingService) checkReferences(ctx context.Context, a *domain.Appointment) (domain.Outcome, bool) {
	if _, err := s.doctors.FindDoctorByID(ctx, a.DoctorID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.OutcomeNotFound, false
		}
		s.logger.Error().Err(err).Int64("doctor_id", a.DoctorID).Msg("failed to load doctor")
		return domain.OutcomeFailed, false
	}
	if _, err := s.patients.FindPatientByID(ctx, a.PatientID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.OutcomeNotFound, false
		}
		s.logger.Error().Err(err).Int64("patient_id", a.PatientID).Msg("failed to load patient")
		return domain.OutcomeFailed, false
	}
	return domain.OutcomeOK, true
}

// UpdateAppointment fully replaces an existing appointment.
func (s *BookingService) UpdateAppointment(ctx context.Context, a *domain.Appointment) domain.Outcome {
	if a == nil || a.ID == 0 {
		return domain.OutcomeNotFound
	}
	exists, err := s.appointments.AppointmentExists(ctx, a.ID)
	if err != nil {
		s.logger.Error().Err(err).Int64("appointment_id", a.ID).Msg("failed to check appointment")
		return domain.OutcomeFailed
	}
	if !exists {
		return domain.OutcomeNotFound
	}
	if a.Status.IsZero() {
		a.Status = domain.StatusPending
	}

	if err := s.appointments.UpdateAppointment(ctx, a); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrConflict):
			return domain.OutcomeNotFound
		}
		s.logger.Error().Err(err).Int64("appointment_id", a.ID).Msg("failed to update appointment")
		return domain.OutcomeFailed
	}
	return domain.OutcomeOK
}

// CancelAppointment deletes the appointment row. Use StatusService to mark an
// appointment CANCELLED while keeping it.
func (s *BookingService) CancelAppointment(ctx context.Context, id int64) domain.Outcome {
	exists, err := s.appointments.AppointmentExists(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("appointment_id", id).Msg("failed to check appointment")
		return domain.OutcomeFailed
	}
	if !exists {
		return domain.OutcomeNotFound
	}
	if err := s.appointments.DeleteAppointment(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.OutcomeNotFound
		}
		s.logger.Error().Err(err).Int64("appointment_id", id).Msg("failed to delete appointment")
		return domain.OutcomeFailed
	}
	return domain.OutcomeOK
}

// GetAppointment returns domain.ErrNotFound for an unknown id.
func (s *BookingService) GetAppointment(ctx context.Context, id int64) (*domain.Appointment, error) {
	return s.appointments.FindAppointmentByID(ctx, id)
}

// DoctorAppointments lists the appointments of the doctor identified by
// doctorEmail on date. patientName narrows by substring unless it is "" or "null".
func (s *BookingService) DoctorAppointments(ctx context.Context, doctorEmail string, date time.Time, patientName string) ([]domain.Appointment, error) {
	doctor, err := s.directory.DoctorByEmail(ctx, doctorEmail)
	if err != nil {
		return nil, err
	}
	name := patientName
	if name == "null" {
		name = ""
	}
	from, to := domain.DayBounds(date)
	return s.appointments.ListDoctorAppointments(ctx, doctor.ID, from, to, name)
}

func (s *BookingService) AllAppointments(ctx context.Context) ([]domain.Appointment, error) {
	return s.appointments.ListAppointments(ctx)
}
