package services

import (
	"context"

	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/core/domain"
	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/core/ports"
)

// AuthorizationService gates operations on a token being valid for at least one of the accepted roles.
type AuthorizationService struct {
	tokens *TokenService
}

var _ ports.Authorizer = (*AuthorizationService)(nil)

// NewAuthorizationService wraps tokens.
func NewAuthorizationService(tokens *TokenService) *AuthorizationService {
	return &AuthorizationService{tokens: tokens}
}

// Authorize verifies the token once and returns the first role, in order, the subject holds.
func (s *AuthorizationService) Authorize(ctx context.Context, token string, roles ...domain.Role) (ports.Principal, error) {
	if token == "" {
		return ports.Principal{}, domain.ErrUnauthorized
	}
	subject, role, ok := s.tokens.ValidateAny(ctx, token, roles...)
	if !ok {
		return ports.Principal{}, domain.ErrUnauthorized
	}
	return ports.Principal{Subject: subject, Role: role}, nil
}
