package transport

import (
	"net/http"
	"strings"

	"goa.design/goa/v3/security"

	"talentdesk/internal/domain"
	"talentdesk/internal/services"
	apperrors "talentdesk/pkg/errors"
)

const (
	scopeAdmin = "admin"
	scopeStaff = "staff"
)

// authenticate verifies the bearer token against the JWT scheme and returns
// the acting identity. required lists the scopes any one of which suffices;
// none means any active account.
func (s *Server) authenticate(r *http.Request, required ...string) (*http.Request, domain.Actor, error) {
	token, err := bearerToken(r)
	if err != nil {
		return r, domain.Actor{}, err
	}
	scheme := &security.JWTScheme{
		Name:           "jwt",
		Scopes:         []string{scopeAdmin, scopeStaff},
		RequiredScopes: required,
	}
	ctx, err := s.svc.Auth.JWTAuth(r.Context(), token, scheme)
	if err != nil {
		return r, domain.Actor{}, err
	}
	return r.WithContext(ctx), services.ActorFromContext(ctx), nil
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", apperrors.New(apperrors.ErrCodeUnauthorized, "authorization header required")
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", apperrors.New(apperrors.ErrCodeUnauthorized, "invalid authorization header format")
	}
	return strings.TrimSpace(token), nil
}
