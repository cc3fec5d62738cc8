package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/core/domain"
	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/core/ports"
)

// StatusService changes an appointment's status in place.
type StatusService struct {
	appointments ports.AppointmentRepository
	logger       zerolog.Logger
}

var _ ports.StatusService = (*StatusService)(nil)

func NewStatusService(appointments ports.AppointmentRepository, logger zerolog.Logger) *StatusService {
	return &StatusService{
		appointments: appointments,
		logger:       logger.With().Str("component", "status").Logger(),
	}
}

// UpdateStatus overwrites the status of an appointment in place. No transition
// table is enforced; the record stays retrievable.
func (s *StatusService) UpdateStatus(ctx context.Context, id int64, raw string) domain.Outcome {
	current, err := s.appointments.FindAppointmentByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.OutcomeNotFound
	}
	if err != nil {
		s.logger.Error().Err(err).Int64("appointment_id", id).Msg("failed to load appointment")
		return domain.OutcomeFailed
	}

	next, err := current.Status.TransitionTo(domain.ParseStatus(raw))
	if err != nil {
		s.logger.Info().Err(err).Int64("appointment_id", id).Msg("status change rejected")
		return domain.OutcomeFailed
	}

	if err := s.appointments.UpdateAppointmentStatus(ctx, id, next); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.OutcomeNotFound
		}
		s.logger.Error().Err(err).Int64("appointment_id", id).Msg("failed to update status")
		return domain.OutcomeFailed
	}
	s.logger.Debug().Int64("appointment_id", id).
		Str("from", current.Status.String()).
		Str("to", next.String()).
		Msg("appointment status changed")
	return domain.OutcomeOK
}
