// Movie Recommender - Content-Based Movie Recommendation Service
// Copyright 2026 Chethan C. (CHETHANCHARMANNAPK)
// SPDX-License-Identifier: MIT
// https://github.com/CHETHANCHARMANNAPK/movie-recommender

// Package metrics provides Prometheus instrumentation:
//   - API endpoint latency and throughput
//   - Model build outcomes and dimensions
//   - TMDB enrichment cache efficiency
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Model Build Metrics
	ModelBuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "model_builds_total",
			Help: "Total number of model build attempts",
		},
		[]string{"status"}, // "success", "failure"
	)

	ModelBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "model_build_duration_seconds",
			Help:    "Duration of full model builds in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	ModelSnapshotVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "model_snapshot_version",
			Help: "Version number of the currently served model snapshot",
		},
	)

	ModelMovies = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "model_movies",
			Help: "Number of movies in the current model snapshot",
		},
	)

	ModelVocabularySize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "model_vocabulary_size",
			Help: "Vocabulary size of the current model snapshot",
		},
	)

	// TMDB Enrichment Metrics
	TMDBCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tmdb_cache_hits_total",
			Help: "Total number of TMDB lookup cache hits",
		},
	)

	TMDBCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tmdb_cache_misses_total",
			Help: "Total number of TMDB lookup cache misses",
		},
	)

	TMDBRequestErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tmdb_request_errors_total",
			Help: "Total number of failed TMDB API requests",
		},
		[]string{"operation"},
	)
)

// RecordAPIRequest records one completed HTTP request.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordBuildSuccess records a successful model build and the dimensions of
// the published snapshot.
func RecordBuildSuccess(duration time.Duration, version uint64, movies, vocabularySize int) {
	ModelBuildsTotal.WithLabelValues("success").Inc()
	ModelBuildDuration.Observe(duration.Seconds())
	ModelSnapshotVersion.Set(float64(version))
	ModelMovies.Set(float64(movies))
	ModelVocabularySize.Set(float64(vocabularySize))
}

// RecordBuildFailure records a failed model build attempt.
func RecordBuildFailure(duration time.Duration) {
	ModelBuildsTotal.WithLabelValues("failure").Inc()
	ModelBuildDuration.Observe(duration.Seconds())
}
