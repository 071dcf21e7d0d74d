// Movie Recommender - Content-Based Movie Recommendation Service
// Copyright 2026 Chethan C. (CHETHANCHARMANNAPK)
// SPDX-License-Identifier: MIT
// https://github.com/CHETHANCHARMANNAPK/movie-recommender

package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/CHETHANCHARMANNAPK/movie-recommender/internal/logging"
	"github.com/CHETHANCHARMANNAPK/movie-recommender/internal/models"
)

type contextKey string

// ClaimsContextKey is where validated token claims live in the request context.
const ClaimsContextKey contextKey = "claims"

// Middleware enforces bearer-token authentication on protected routes.
type Middleware struct {
	jwtManager *JWTManager
}

// NewMiddleware wraps a JWT manager for use as HTTP middleware.
func NewMiddleware(jwtManager *JWTManager) *Middleware {
	return &Middleware{jwtManager: jwtManager}
}

// RequireAuth rejects requests without a valid Authorization bearer token.
// Validated claims are stored in the request context.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := m.claimsFromRequest(r)
		if !ok {
			writeUnauthorized(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(contextWithClaims(r.Context(), claims)))
	})
}

// OptionalAuth attaches claims when a valid token is present but lets
// anonymous requests through. Used on read endpoints that annotate
// responses for signed-in users.
func (m *Middleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims, ok := m.claimsFromRequest(r); ok {
			r = r.WithContext(contextWithClaims(r.Context(), claims))
		}
		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) claimsFromRequest(r *http.Request) (*Claims, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, false
	}
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return nil, false
	}
	claims, err := m.jwtManager.ValidateToken(token)
	if err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Token validation failed")
		return nil, false
	}
	return claims, true
}

func contextWithClaims(ctx context.Context, claims *Claims) context.Context {
	ctx = context.WithValue(ctx, ClaimsContextKey, claims)
	return logging.ContextWithUser(ctx, claims.Username)
}

// ClaimsFromContext retrieves validated claims set by RequireAuth or
// OptionalAuth. The second return is false for anonymous requests.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*Claims)
	return claims, ok
}

func writeUnauthorized(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	resp := models.APIResponse{
		Status: "error",
		Error: &models.APIError{
			Code:    "UNAUTHORIZED",
			Message: "Authentication required",
		},
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to encode auth error response")
	}
}
