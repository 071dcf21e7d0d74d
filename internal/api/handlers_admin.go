// Movie Recommender - Content-Based Movie Recommendation Service
// Copyright 2026 Chethan C. (CHETHANCHARMANNAPK)
// SPDX-License-Identifier: MIT
// https://github.com/CHETHANCHARMANNAPK/movie-recommender

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/CHETHANCHARMANNAPK/movie-recommender/internal/logging"
	"github.com/CHETHANCHARMANNAPK/movie-recommender/internal/models"
)

// rebuildTimeout bounds a background model rebuild, corpus load included.
const rebuildTimeout = 10 * time.Minute

// RebuildTrigger starts an asynchronous model rebuild. The response is
// 202 immediately; progress and failures are visible on the status
// endpoint. Overlapping triggers are rejected by the engine and logged.
func (h *Handler) RebuildTrigger(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := logging.RequestIDFromContext(r.Context())

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), rebuildTimeout)
		defer cancel()
		ctx = logging.ContextWithRequestID(ctx, requestID)

		corpus, err := h.loadCorpus(ctx)
		if err != nil {
			logging.Ctx(ctx).Error().Err(err).Msg("Corpus load for rebuild failed")
			return
		}
		if err := h.engine.Rebuild(ctx, corpus); err != nil {
			logging.Ctx(ctx).Error().Err(err).Msg("Model rebuild failed")
		}
	}()

	respondData(w, http.StatusAccepted, map[string]interface{}{"status": "rebuild started"}, start)
}

// RebuildStatus reports the engine lifecycle state and last build info.
func (h *Handler) RebuildStatus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	respondData(w, http.StatusOK, h.engine.Status(), start)
}

// HealthLive reports process liveness.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	respondData(w, http.StatusOK, map[string]interface{}{"status": "alive"}, start)
}

// HealthReady reports whether the service can answer recommendation
// queries, which requires a built model snapshot.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := h.engine.Status()
	if !h.engine.Ready() {
		respondJSON(w, http.StatusServiceUnavailable, &models.APIResponse{
			Status:   "error",
			Data:     map[string]interface{}{"model": status},
			Metadata: models.Metadata{Timestamp: time.Now().UTC()},
			Error:    &models.APIError{Code: "SERVICE_UNAVAILABLE", Message: "Model not built yet"},
		})
		return
	}
	respondData(w, http.StatusOK, map[string]interface{}{"status": "ready", "model": status}, start)
}
