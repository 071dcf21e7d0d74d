// Movie Recommender - Content-Based Movie Recommendation Service
// Copyright 2026 Chethan C. (CHETHANCHARMANNAPK)
// SPDX-License-Identifier: MIT
// https://github.com/CHETHANCHARMANNAPK/movie-recommender

// Package engine implements the recommendation core: feature-soup assembly,
// TF-IDF vectorization, pairwise cosine similarity, and the query surface
// served from an immutable model snapshot.
//
// The Engine is the only holder of mutable state. It owns the current
// Snapshot behind an atomic pointer; queries capture one snapshot reference
// at entry and read it lock-free for their whole lifetime. Rebuild
// constructs a complete replacement snapshot before one atomic swap, so no
// reader ever observes a partially built model.
package engine

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/CHETHANCHARMANNAPK/movie-recommender/internal/logging"
	"github.com/CHETHANCHARMANNAPK/movie-recommender/internal/metrics"
	"github.com/CHETHANCHARMANNAPK/movie-recommender/internal/models"
)

// State is the lifecycle state of the engine.
type State int32

const (
	// StateUninitialized means no build has ever been attempted.
	StateUninitialized State = iota

	// StateBuilding means a rebuild is currently running.
	StateBuilding

	// StateReady means a snapshot is published and serving.
	StateReady

	// StateFailed means the last build failed and no snapshot has ever
	// been published. A failed rebuild over a live snapshot returns to
	// StateReady; the prior snapshot keeps serving.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateBuilding:
		return "building"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// RatingSource yields a user's ratings for hybrid personalization. The
// store package implements it; tests use in-memory fakes.
type RatingSource interface {
	// RatingsForUser returns all ratings by the user, any order.
	RatingsForUser(ctx context.Context, userID string) ([]models.Rating, error)
}

// Status reports the engine lifecycle for health and status endpoints.
type Status struct {
	State           string     `json:"state"`
	SnapshotVersion uint64     `json:"snapshot_version,omitempty"`
	BuiltAt         *time.Time `json:"built_at,omitempty"`
	LastBuildMS     int64      `json:"last_build_ms,omitempty"`
	LastBuildError  string     `json:"last_build_error,omitempty"`
	Movies          int        `json:"movies,omitempty"`
	VocabularySize  int        `json:"vocabulary_size,omitempty"`
}

// Engine owns the model lifecycle and serves all recommendation queries.
type Engine struct {
	cfg     Config
	ratings RatingSource
	log     zerolog.Logger

	current atomic.Pointer[Snapshot]
	state   atomic.Int32
	version atomic.Uint64

	// buildMu serializes rebuilds; TryLock rejects overlapping attempts
	// instead of queueing them.
	buildMu sync.Mutex

	// statusMu guards the last-build bookkeeping below.
	statusMu          sync.RWMutex
	lastBuildDuration time.Duration
	lastBuildError    string
}

// New creates an Engine with the given configuration and rating source.
// ratings may be nil when hybrid recommendations are not served.
func New(cfg Config, ratings RatingSource) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}
	return &Engine{
		cfg:     cfg,
		ratings: ratings,
		log:     logging.With().Str("component", "engine").Logger(),
	}, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.cfg }

// State returns the current lifecycle state.
func (e *Engine) State() State { return State(e.state.Load()) }

// Rebuild runs the full build pipeline over the corpus and atomically
// publishes the resulting snapshot. Only one rebuild runs at a time;
// overlapping calls fail immediately rather than queue. A failed build
// never replaces a healthy snapshot.
//
// The context is checked before the expensive pipeline starts; a build in
// flight is discarded wholesale on failure, never partially applied.
func (e *Engine) Rebuild(ctx context.Context, corpus []models.Movie) error {
	if !e.buildMu.TryLock() {
		return buildErr("rebuild already in progress", nil)
	}
	defer e.buildMu.Unlock()

	if err := ctx.Err(); err != nil {
		return buildErr("rebuild canceled before start", err)
	}

	prev := e.current.Load()
	e.state.Store(int32(StateBuilding))
	e.log.Info().Int("corpus_size", len(corpus)).Msg("Model build started")

	start := time.Now()
	snap, err := buildSnapshot(corpus, e.cfg, e.version.Load()+1)
	duration := time.Since(start)

	e.statusMu.Lock()
	e.lastBuildDuration = duration
	if err != nil {
		e.lastBuildError = err.Error()
	} else {
		e.lastBuildError = ""
	}
	e.statusMu.Unlock()

	if err != nil {
		metrics.RecordBuildFailure(duration)
		if prev != nil {
			e.state.Store(int32(StateReady))
		} else {
			e.state.Store(int32(StateFailed))
		}
		e.log.Error().Err(err).Dur("duration", duration).Msg("Model build failed")
		return err
	}

	e.version.Store(snap.Version())
	e.current.Store(snap)
	e.state.Store(int32(StateReady))
	metrics.RecordBuildSuccess(duration, snap.Version(), snap.MovieCount(), snap.VocabularySize())
	e.log.Info().
		Uint64("version", snap.Version()).
		Int("movies", snap.MovieCount()).
		Int("vocabulary", snap.VocabularySize()).
		Dur("duration", duration).
		Msg("Model build complete")
	return nil
}

// Snapshot returns the current snapshot, or ErrUnavailable when none has
// been published. Queries fail fast rather than block on a build.
func (e *Engine) Snapshot() (*Snapshot, error) {
	snap := e.current.Load()
	if snap == nil {
		return nil, &Error{Kind: KindUnavailable, Reason: "model not built yet"}
	}
	return snap, nil
}

// Ready reports whether a snapshot is being served.
func (e *Engine) Ready() bool { return e.current.Load() != nil }

// Status returns the lifecycle status for observability endpoints.
func (e *Engine) Status() Status {
	e.statusMu.RLock()
	duration := e.lastBuildDuration
	lastErr := e.lastBuildError
	e.statusMu.RUnlock()

	st := Status{
		State:          e.State().String(),
		LastBuildMS:    duration.Milliseconds(),
		LastBuildError: lastErr,
	}
	if snap := e.current.Load(); snap != nil {
		st.SnapshotVersion = snap.Version()
		builtAt := snap.BuiltAt()
		st.BuiltAt = &builtAt
		st.Movies = snap.MovieCount()
		st.VocabularySize = snap.VocabularySize()
	}
	return st
}
