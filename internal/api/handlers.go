// Movie Recommender - Content-Based Movie Recommendation Service
// Copyright 2026 Chethan C. (CHETHANCHARMANNAPK)
// SPDX-License-Identifier: MIT
// https://github.com/CHETHANCHARMANNAPK/movie-recommender

// Package api exposes the recommendation engine and user features over
// HTTP using the chi router. Responses use the models.APIResponse
// envelope; all errors carry structured codes.
package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/CHETHANCHARMANNAPK/movie-recommender/internal/auth"
	"github.com/CHETHANCHARMANNAPK/movie-recommender/internal/engine"
	"github.com/CHETHANCHARMANNAPK/movie-recommender/internal/models"
	"github.com/CHETHANCHARMANNAPK/movie-recommender/internal/store"
	"github.com/CHETHANCHARMANNAPK/movie-recommender/internal/tmdb"
)

// CorpusLoader reloads the movie corpus for model rebuilds.
type CorpusLoader func(ctx context.Context) ([]models.Movie, error)

// Handler carries the dependencies shared by all HTTP handlers.
type Handler struct {
	engine     *engine.Engine
	store      *store.Store
	tmdb       *tmdb.Client
	jwt        *auth.JWTManager
	loadCorpus CorpusLoader
}

// NewHandler wires the service dependencies into an HTTP handler set.
func NewHandler(eng *engine.Engine, st *store.Store, enricher *tmdb.Client, jwt *auth.JWTManager, loadCorpus CorpusLoader) *Handler {
	return &Handler{
		engine:     eng,
		store:      st,
		tmdb:       enricher,
		jwt:        jwt,
		loadCorpus: loadCorpus,
	}
}

// movieIDParam parses the {movieID} route parameter. Returns -1 after
// writing the error response when the parameter is not an integer.
func movieIDParam(w http.ResponseWriter, r *http.Request) int {
	raw := chi.URLParam(r, "movieID")
	id, err := strconv.Atoi(raw)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Movie ID must be an integer")
		return -1
	}
	return id
}
