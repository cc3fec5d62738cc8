package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/core/domain"
	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/core/ports"
)

// DoctorService manages the doctor directory.
type DoctorService struct {
	doctors   ports.DoctorRepository
	directory ports.Directory
	logger    zerolog.Logger
}

var _ ports.DoctorService = (*DoctorService)(nil)

func NewDoctorService(doctors ports.DoctorRepository, directory ports.Directory, logger zerolog.Logger) *DoctorService {
	return &DoctorService{
		doctors:   doctors,
		directory: directory,
		logger:    logger.With().Str("component", "doctor").Logger(),
	}
}

func (s *DoctorService) ListDoctors(ctx context.Context) ([]domain.Doctor, error) {
	return s.doctors.ListDoctors(ctx)
}

// FilterDoctors applies a DoctorFilter to every doctor.
func (s *DoctorService) FilterDoctors(ctx context.Context, name, speciality, timeOfDay string) ([]domain.Doctor, error) {
	all, err := s.doctors.ListDoctors(ctx)
	if err != nil {
		return nil, err
	}
	return DoctorFilter{Name: name, Speciality: speciality, Time: timeOfDay}.Apply(all), nil
}

// SaveDoctor returns OutcomeConflict when the email is already registered.
func (s *DoctorService) SaveDoctor(ctx context.Context, d *domain.Doctor) domain.Outcome {
	_, err := s.directory.DoctorByEmail(ctx, d.Email)
	switch {
	case err == nil:
		return domain.OutcomeConflict
	case !errors.Is(err, domain.ErrNotFound):
		s.logger.Error().Err(err).Msg("failed to check doctor email")
		return domain.OutcomeFailed
	}

	hash, err := hashPassword(d.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to hash doctor password")
		return domain.OutcomeFailed
	}
	d.Password = hash

	if err := s.doctors.CreateDoctor(ctx, d); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return domain.OutcomeConflict
		}
		s.logger.Error().Err(err).Msg("failed to save doctor")
		return domain.OutcomeFailed
	}
	return domain.OutcomeOK
}

// UpdateDoctor replaces the profile of an existing doctor. An empty password
// keeps the stored hash.
func (s *DoctorService) UpdateDoctor(ctx context.Context, d *domain.Doctor) domain.Outcome {
	existing, err := s.doctors.FindDoctorByID(ctx, d.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.OutcomeNotFound
	}
	if err != nil {
		s.logger.Error().Err(err).Int64("doctor_id", d.ID).Msg("failed to load doctor")
		return domain.OutcomeFailed
	}

	if d.Password == "" {
		d.Password = existing.Password
	} else {
		hash, err := hashPassword(d.Password)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to hash doctor password")
			return domain.OutcomeFailed
		}
		d.Password = hash
	}

	if err := s.doctors.UpdateDoctor(ctx, d); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrConflict):
			return domain.OutcomeNotFound
		}
		s.logger.Error().Err(err).Int64("doctor_id", d.ID).Msg("failed to update doctor")
		return domain.OutcomeFailed
	}
	return domain.OutcomeOK
}

// DeleteDoctor removes the doctor together with the doctor's appointments.
func (s *DoctorService) DeleteDoctor(ctx context.Context, id int64) domain.Outcome {
	if err := s.doctors.DeleteDoctor(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.OutcomeNotFound
		}
		s.logger.Error().Err(err).Int64("doctor_id", id).Msg("failed to delete doctor")
		return domain.OutcomeFailed
	}
	return domain.OutcomeOK
}

func hashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
