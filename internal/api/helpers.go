// Movie Recommender - Content-Based Movie Recommendation Service
// Copyright 2026 Chethan C. (CHETHANCHARMANNAPK)
// SPDX-License-Identifier: MIT
// https://github.com/CHETHANCHARMANNAPK/movie-recommender

package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	json "github.com/goccy/go-json"

	"github.com/CHETHANCHARMANNAPK/movie-recommender/internal/engine"
	"github.com/CHETHANCHARMANNAPK/movie-recommender/internal/logging"
	"github.com/CHETHANCHARMANNAPK/movie-recommender/internal/models"
	"github.com/CHETHANCHARMANNAPK/movie-recommender/internal/store"
	"github.com/CHETHANCHARMANNAPK/movie-recommender/internal/validation"
)

// respondJSON sends a JSON response with an FNV-1a ETag.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Vary", "Accept-Encoding")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("ETag", generateETag(data))
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// generateETag creates an ETag from response bytes using FNV-1a.
func generateETag(data []byte) string {
	hash := uint32(2166136261)
	for _, b := range data {
		hash ^= uint32(b)
		hash *= 16777619
	}
	return strconv.FormatUint(uint64(hash), 16)
}

// respondData sends a success envelope with query timing metadata.
func respondData(w http.ResponseWriter, status int, data interface{}, start time.Time) {
	respondJSON(w, status, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// respondError sends an error envelope with the given code and message.
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, &models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
		Error: &models.APIError{
			Code:    code,
			Message: message,
		},
	})
}

// respondAPIError sends a pre-built validation error payload.
func respondAPIError(w http.ResponseWriter, status int, apiErr *models.APIError) {
	respondJSON(w, status, &models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
		Error:    apiErr,
	})
}

// respondEngineError maps an engine error to its HTTP status and wire code.
func respondEngineError(w http.ResponseWriter, r *http.Request, err error) {
	kind := engine.KindOf(err)
	var status int
	switch kind {
	case engine.KindNotFound:
		status = http.StatusNotFound
	case engine.KindValidation:
		status = http.StatusBadRequest
	case engine.KindUnavailable:
		status = http.StatusServiceUnavailable
	case engine.KindEmptyCorpus, engine.KindBuild:
		status = http.StatusInternalServerError
	default:
		logging.Ctx(r.Context()).Error().Err(err).Msg("Unexpected handler error")
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		return
	}
	respondError(w, status, kind.String(), err.Error())
}

// respondStoreError maps persistence errors to HTTP statuses.
func respondStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
	case errors.Is(err, store.ErrConflict):
		respondError(w, http.StatusConflict, "CONFLICT", "Resource already exists")
	default:
		logging.Ctx(r.Context()).Error().Err(err).Msg("Store operation failed")
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}

// decodeBody parses and validates a JSON request body. Returns false after
// writing the error response when the body is unusable.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON body")
		return false
	}
	if verr := validation.ValidateStruct(v); verr != nil {
		apiErr := verr.ToAPIError()
		respondAPIError(w, http.StatusBadRequest, &models.APIError{
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Details: apiErr.Details,
		})
		return false
	}
	return true
}

// getIntParam extracts an integer query parameter with a default.
func getIntParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

// optionalInt parses an optional integer query parameter. A missing or
// malformed value yields nil.
func optionalInt(r *http.Request, key string) *int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil
	}
	return &n
}

// optionalFloat parses an optional float query parameter.
func optionalFloat(r *http.Request, key string) *float64 {
	value := r.URL.Query().Get(key)
	if value == "" {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	return &f
}
