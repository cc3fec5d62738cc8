package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/core/domain"
	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/core/ports"
)

// TokenLifetime is fixed; tokens are neither refreshed nor revoked.
const TokenLifetime = 7 * 24 * time.Hour

// MinSecretLength is the HS256 key size in bytes.
const MinSecretLength = 32

// ErrWeakSecret rejects HS256 keys shorter than MinSecretLength.
var ErrWeakSecret = errors.New("jwt secret must be at least 32 bytes")

// TokenService issues and verifies HS256 bearer tokens.
type TokenService struct {
	key       []byte
	directory ports.Directory
	now       func() time.Time
	logger    zerolog.Logger
}

type TokenOption func(*TokenService)

// WithClock overrides the time source used for issuing and verifying.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

// NewTokenService copies secret; it fails with ErrWeakSecret when too short.
func NewTokenService(secret string, directory ports.Directory, logger zerolog.Logger, opts ...TokenOption) (*TokenService, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrWeakSecret
	}
	key := make([]byte, len(secret))
	copy(key, secret)

	s := &TokenService{
		key:       key,
		directory: directory,
		now:       time.Now,
		logger:    logger.With().Str("component", "token").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue signs a token for identity, valid for TokenLifetime.
func (s *TokenService) Issue(identity string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   identity,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenLifetime)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Subject verifies signature and expiry and returns the token subject.
func (s *TokenService) Subject(raw string) (string, error) {
	tok, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		// block alg confusion
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", err
	}
	claims, ok := tok.Claims.(*jwt.RegisteredClaims)
	if !ok || !tok.Valid {
		return "", domain.ErrUnauthorized
	}
	if claims.Subject == "" {
		return "", domain.ErrUnauthorized
	}
	return claims.Subject, nil
}

// Validate reports whether raw is a live token whose subject exists in the
// directory of role. It never returns an error: every failure is a false.
func (s *TokenService) Validate(ctx context.Context, raw string, role domain.Role) bool {
	_, _, ok := s.ValidateAny(ctx, raw, role)
	return ok
}

// ValidateAny verifies raw once and returns its subject together with the
// first of roles whose directory holds that subject.
func (s *TokenService) ValidateAny(ctx context.Context, raw string, roles ...domain.Role) (subject string, role domain.Role, valid bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Interface("panic", r).Msg("token validation panicked")
			subject, role, valid = "", "", false
		}
	}()

	subject, err := s.Subject(raw)
	if err != nil {
		s.logger.Debug().Err(err).Msg("token rejected")
		return "", "", false
	}
	for _, r := range roles {
		if s.inDirectory(ctx, subject, r) {
			return subject, r, true
		}
	}
	return "", "", false
}

func (s *TokenService) inDirectory(ctx context.Context, subject string, role domain.Role) bool {
	var err error
	switch role {
	case domain.RoleAdmin:
		_, err = s.directory.AdminByUsername(ctx, subject)
	case domain.RoleDoctor:
		_, err = s.directory.DoctorByEmail(ctx, subject)
	case domain.RolePatient:
		_, err = s.directory.PatientByEmail(ctx, subject)
	default:
		return false
	}
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error().Err(err).Str("role", string(role)).Msg("directory lookup failed")
		}
		return false
	}
	return true
}
