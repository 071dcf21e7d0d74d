// Movie Recommender - Content-Based Movie Recommendation Service
// Copyright 2026 Chethan C. (CHETHANCHARMANNAPK)
// SPDX-License-Identifier: MIT
// https://github.com/CHETHANCHARMANNAPK/movie-recommender

package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/CHETHANCHARMANNAPK/movie-recommender/internal/auth"
	"github.com/CHETHANCHARMANNAPK/movie-recommender/internal/logging"
	"github.com/CHETHANCHARMANNAPK/movie-recommender/internal/models"
)

// Register creates a new account. Username and email uniqueness is
// enforced by the store; violations surface as 409.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req models.RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Username:     req.Username,
		Email:        req.Email,
		CreatedAt:    time.Now().UTC(),
		PasswordHash: hash,
	}
	if err := h.store.CreateUser(r.Context(), user); err != nil {
		respondStoreError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().Str("username", user.Username).Msg("User registered")
	respondData(w, http.StatusCreated, user, start)
}

// Login verifies credentials and issues a session token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req models.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.store.UserByName(r.Context(), req.Username)
	if err != nil {
		// Same response as a bad password to avoid username probing.
		respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Invalid username or password")
		return
	}
	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Invalid username or password")
		return
	}

	token, err := h.jwt.GenerateToken(user.ID, user.Username)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Token generation failed")
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		return
	}

	respondData(w, http.StatusOK, models.LoginResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(h.jwt.Timeout()).UTC(),
		Username:  user.Username,
		UserID:    user.ID,
	}, start)
}

// Me returns the authenticated user's profile.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	user, err := h.store.UserByID(r.Context(), claims.Subject)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, user, start)
}
