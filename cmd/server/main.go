// Movie Recommender - Content-Based Movie Recommendation Service
// Copyright 2026 Chethan C. (CHETHANCHARMANNAPK)
// SPDX-License-Identifier: MIT
// https://github.com/CHETHANCHARMANNAPK/movie-recommender

// Package main is the entry point for the movie recommender server.
//
// The server initializes components in the following order:
//
//  1. Configuration: layered loading via Koanf v2 (defaults, YAML file,
//     environment variables)
//  2. Logging: global zerolog logger
//  3. Store: BadgerDB persistence for users, ratings, watchlists, views
//  4. Engine: TF-IDF vectorization and cosine similarity over the TMDB
//     corpus, optionally built during startup
//  5. HTTP server: chi router with the REST API and Prometheus metrics
//
// Configuration lives in config.yaml (path via CONFIG_PATH) with
// environment overrides such as HTTP_PORT, JWT_SECRET, TMDB_API_KEY,
// ENGINE_TOP_K, and LOG_LEVEL.
//
// The server shuts down gracefully on SIGINT and SIGTERM, draining
// in-flight requests before closing the store.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/CHETHANCHARMANNAPK/movie-recommender/internal/api"
	"github.com/CHETHANCHARMANNAPK/movie-recommender/internal/auth"
	"github.com/CHETHANCHARMANNAPK/movie-recommender/internal/config"
	"github.com/CHETHANCHARMANNAPK/movie-recommender/internal/corpus"
	"github.com/CHETHANCHARMANNAPK/movie-recommender/internal/engine"
	"github.com/CHETHANCHARMANNAPK/movie-recommender/internal/logging"
	"github.com/CHETHANCHARMANNAPK/movie-recommender/internal/models"
	"github.com/CHETHANCHARMANNAPK/movie-recommender/internal/store"
	"github.com/CHETHANCHARMANNAPK/movie-recommender/internal/tmdb"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logging.Info().
		Str("environment", cfg.Server.Environment).
		Int("port", cfg.Server.Port).
		Msg("Starting movie recommender")

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Server exited with error")
	}
	logging.Info().Msg("Server stopped gracefully")
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(store.Options{
		Path:     cfg.Store.Path,
		InMemory: cfg.Store.InMemory,
	})
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Error().Err(err).Msg("Store close failed")
		}
	}()

	eng, err := engine.New(engine.Config{
		Vectorizer: engine.VectorizerConfig{
			MaxFeatures:    cfg.Engine.MaxFeatures,
			MinTokenLength: cfg.Engine.MinTokenLength,
		},
		Similarity: engine.SimilarityConfig{TopK: cfg.Engine.TopK, Workers: cfg.Engine.Workers},
		Hybrid:     engine.HybridConfig{Alpha: cfg.Engine.Alpha, LikedThreshold: cfg.Engine.LikedThreshold},
		TopRated:   engine.TopRatedConfig{MinVotes: cfg.Engine.MinVotes},
		Limits:     engine.LimitsConfig{DefaultLimit: cfg.Engine.DefaultLimit, MaxLimit: cfg.Engine.MaxLimit},
	}, st)
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
	}

	loadCorpus := func(ctx context.Context) ([]models.Movie, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		loader := corpus.NewLoader(cfg.Data.MoviesPath, cfg.Data.CreditsPath)
		result, err := loader.Load()
		if err != nil {
			return nil, err
		}
		return result.Movies, nil
	}

	if cfg.Engine.BuildOnStartup {
		movies, err := loadCorpus(ctx)
		if err != nil {
			return fmt.Errorf("load corpus: %w", err)
		}
		if err := eng.Rebuild(ctx, movies); err != nil {
			return fmt.Errorf("initial model build: %w", err)
		}
	} else {
		logging.Info().Msg("Skipping startup build; trigger a rebuild to serve recommendations")
	}

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		return fmt.Errorf("create JWT manager: %w", err)
	}

	enricher := tmdb.NewClient(cfg.TMDB)
	if enricher.Enabled() {
		logging.Info().Msg("TMDB enrichment enabled")
	} else {
		logging.Info().Msg("TMDB enrichment disabled, serving placeholder posters")
	}

	handler := api.NewHandler(eng, st, enricher, jwtManager, loadCorpus)
	router := api.NewRouter(handler, auth.NewMiddleware(jwtManager), &cfg.Security)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logging.Info().Msg("Shutdown signal received, draining connections")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
