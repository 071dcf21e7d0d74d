// Movie Recommender - Content-Based Movie Recommendation Service
// Copyright 2026 Chethan C. (CHETHANCHARMANNAPK)
// SPDX-License-Identifier: MIT
// https://github.com/CHETHANCHARMANNAPK/movie-recommender

package api

import (
	"net/http"
	"time"

	"github.com/CHETHANCHARMANNAPK/movie-recommender/internal/auth"
	"github.com/CHETHANCHARMANNAPK/movie-recommender/internal/models"
)

// requireClaims extracts claims set by the auth middleware. Returns nil
// after writing the error response for anonymous requests; protected
// routes should never hit that branch.
func requireClaims(w http.ResponseWriter, r *http.Request) *auth.Claims {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return nil
	}
	return claims
}

// Rate records or overwrites the caller's score for a movie.
func (h *Handler) Rate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	claims := requireClaims(w, r)
	if claims == nil {
		return
	}
	id := movieIDParam(w, r)
	if id < 0 {
		return
	}

	var req models.RateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	// Rating an unknown movie is rejected rather than stored.
	if _, err := h.engine.GetMovie(id); err != nil {
		respondEngineError(w, r, err)
		return
	}

	rating := &models.Rating{
		UserID:    claims.Subject,
		MovieID:   id,
		Score:     req.Score,
		UpdatedAt: time.Now().UTC(),
	}
	if err := h.store.UpsertRating(r.Context(), rating); err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, rating, start)
}

// Ratings lists the caller's ratings.
func (h *Handler) Ratings(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	claims := requireClaims(w, r)
	if claims == nil {
		return
	}

	ratings, err := h.store.RatingsForUser(r.Context(), claims.Subject)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, map[string]interface{}{"ratings": ratings}, start)
}

// WatchlistGet lists the caller's watchlist.
func (h *Handler) WatchlistGet(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	claims := requireClaims(w, r)
	if claims == nil {
		return
	}

	entries, err := h.store.Watchlist(r.Context(), claims.Subject)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, map[string]interface{}{"watchlist": entries}, start)
}

// WatchlistAdd saves a movie to the caller's watchlist. Duplicate adds
// are no-ops reported with added=false.
func (h *Handler) WatchlistAdd(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	claims := requireClaims(w, r)
	if claims == nil {
		return
	}
	id := movieIDParam(w, r)
	if id < 0 {
		return
	}

	if _, err := h.engine.GetMovie(id); err != nil {
		respondEngineError(w, r, err)
		return
	}

	entry := &models.WatchlistEntry{
		UserID:  claims.Subject,
		MovieID: id,
		AddedAt: time.Now().UTC(),
	}
	added, err := h.store.AddToWatchlist(r.Context(), entry)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, map[string]interface{}{"movie_id": id, "added": added}, start)
}

// WatchlistRemove drops a movie from the caller's watchlist.
func (h *Handler) WatchlistRemove(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	claims := requireClaims(w, r)
	if claims == nil {
		return
	}
	id := movieIDParam(w, r)
	if id < 0 {
		return
	}

	removed, err := h.store.RemoveFromWatchlist(r.Context(), claims.Subject, id)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, map[string]interface{}{"movie_id": id, "removed": removed}, start)
}
