package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/ruangpuisi/api/internal/common"
	"github.com/ruangpuisi/api/internal/server/auth"
	"github.com/ruangpuisi/api/internal/server/models"
)

type contextKey string

const userContextKey contextKey = "user"

// UserFromContext returns the authenticated user attached by the auth
// middleware, or nil when the request is anonymous.
func UserFromContext(ctx context.Context) *models.User {
	u, _ := ctx.Value(userContextKey).(*models.User)
	return u
}

// resolveUser extracts the bearer token, verifies it, and confirms the
// subject still exists. Every failure mode collapses into
// common.ErrInvalidToken; a missing header is reported as
// common.ErrorUnauthorized.
func (s *Server) resolveUser(r *http.Request) (*models.User, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, common.ErrorUnauthorized
	}

	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return nil, common.ErrInvalidToken
	}

	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	// The account may have been deleted after the token was issued.
	user, err := s.users.GetByID(r.Context(), claims.UserID)
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	return user, nil
}

// requireAuth rejects requests that do not carry a valid bearer token for an
// existing user, and attaches the resolved user to the request context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := s.resolveUser(r)
		if err != nil {
			if err == common.ErrorUnauthorized {
				writeError(w, http.StatusUnauthorized, "Token tidak ditemukan")
				return
			}
			writeError(w, http.StatusUnauthorized, "Token tidak valid")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// optionalAuth attaches the resolved user when a valid token is present and
// otherwise lets the request through anonymously. A stale or garbled token
// is treated the same as no token at all.
func (s *Server) optionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, err := s.resolveUser(r); err == nil {
			r = r.WithContext(context.WithValue(r.Context(), userContextKey, user))
		}
		next.ServeHTTP(w, r)
	})
}
