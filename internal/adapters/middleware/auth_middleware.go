package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/core/domain"
	"github.com/AchilleasB/baby-kliniek/clinic-scheduling-service/internal/core/ports"
)

type AuthMiddleware struct {
	authorizer ports.Authorizer
	logger     zerolog.Logger
}

func NewAuthMiddleware(authorizer ports.Authorizer, logger zerolog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		authorizer: authorizer,
		logger:     logger.With().Str("component", "auth_middleware").Logger(),
	}
}

type contextKey string

const principalKey contextKey = "principal"

// PrincipalFrom returns the caller established by RequireRole.
func PrincipalFrom(ctx context.Context) (ports.Principal, bool) {
	p, ok := ctx.Value(principalKey).(ports.Principal)
	return p, ok
}

// WithPrincipal stores p in ctx the way RequireRole does.
func WithPrincipal(ctx context.Context, p ports.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// RequireRole admits the request when the bearer token is valid for any of roles.
func (m *AuthMiddleware) RequireRole(roles []domain.Role, next http.HandlerFunc) http.HandlerFunc {
	return m.RequireRoleFrom(func(*http.Request) []domain.Role { return roles }, next)
}

// RequireRoleFrom resolves the accepted roles per request, for routes where
// the caller names the role it acts under.
func (m *AuthMiddleware) RequireRoleFrom(roles func(*http.Request) []domain.Role, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			m.logger.Debug().Str("path", r.URL.Path).Msg("missing or malformed authorization header")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		accepted := roles(r)
		principal, err := m.authorizer.Authorize(r.Context(), token, accepted...)
		if err != nil {
			m.logger.Debug().Str("path", r.URL.Path).Interface("roles", accepted).Msg("authorization failed")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		next(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	}
}
