package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/core/domain"
	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/core/ports"
)

// AuthService checks credentials and issues tokens per role.
type AuthService struct {
	directory ports.Directory
	tokens    *TokenService
	logger    zerolog.Logger
}

var _ ports.AuthService = (*AuthService)(nil)

func NewAuthService(directory ports.Directory, tokens *TokenService, logger zerolog.Logger) *AuthService {
	return &AuthService{
		directory: directory,
		tokens:    tokens,
		logger:    logger.With().Str("component", "auth").Logger(),
	}
}

func (s *AuthService) LoginAdmin(ctx context.Context, username, password string) (string, error) {
	admin, err := s.directory.AdminByUsername(ctx, username)
	if err != nil {
		return "", s.lookupFailed(err, domain.RoleAdmin)
	}
	return s.issue(admin.Password, password, admin.Username)
}

func (s *AuthService) LoginDoctor(ctx context.Context, email, password string) (string, error) {
	doctor, err := s.directory.DoctorByEmail(ctx, email)
	if err != nil {
		return "", s.lookupFailed(err, domain.RoleDoctor)
	}
	return s.issue(doctor.Password, password, doctor.Email)
}

func (s *AuthService) LoginPatient(ctx context.Context, email, password string) (string, error) {
	patient, err := s.directory.PatientByEmail(ctx, email)
	if err != nil {
		return "", s.lookupFailed(err, domain.RolePatient)
	}
	return s.issue(patient.Password, password, patient.Email)
}

func (s *AuthService) issue(hash, password, subject string) (string, error) {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return "", domain.ErrUnauthorized
	}
	token, err := s.tokens.Issue(subject)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to issue token")
		return "", domain.ErrInternal
	}
	return token, nil
}

// lookupFailed hides whether the identity exists.
func (s *AuthService) lookupFailed(err error, role domain.Role) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrUnauthorized
	}
	s.logger.Error().Err(err).Str("role", string(role)).Msg("login lookup failed")
	return domain.ErrInternal
}
