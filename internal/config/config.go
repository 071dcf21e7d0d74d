// Movie Recommender - Content-Based Movie Recommendation Service
// Copyright 2026 Chethan C. (CHETHANCHARMANNAPK)
// SPDX-License-Identifier: MIT
// https://github.com/CHETHANCHARMANNAPK/movie-recommender

// Package config loads service configuration from layered sources using
// Koanf v2: built-in defaults, an optional YAML file, then environment
// variables. Precedence is ENV > file > defaults.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the service.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Data     DataConfig     `koanf:"data"`
	Engine   EngineConfig   `koanf:"engine"`
	Store    StoreConfig    `koanf:"store"`
	Security SecurityConfig `koanf:"security"`
	TMDB     TMDBConfig     `koanf:"tmdb"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host        string        `koanf:"host"`
	Port        int           `koanf:"port"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// DataConfig points at the TMDB dataset files the corpus loader reads.
type DataConfig struct {
	MoviesPath  string `koanf:"movies_path"`
	CreditsPath string `koanf:"credits_path"`
}

// EngineConfig holds the recommendation engine tunables.
type EngineConfig struct {
	// MaxFeatures caps the TF-IDF vocabulary size.
	MaxFeatures int `koanf:"max_features"`

	// MinTokenLength drops soup tokens shorter than this during vectorization.
	MinTokenLength int `koanf:"min_token_length"`

	// TopK is how many neighbors are retained per movie.
	TopK int `koanf:"top_k"`

	// Workers bounds the similarity precompute pool. 0 = runtime.NumCPU().
	Workers int `koanf:"workers"`

	// Alpha weighs content similarity against popularity in hybrid scores.
	Alpha float64 `koanf:"alpha"`

	// LikedThreshold is the minimum rating that counts as "liked".
	LikedThreshold float64 `koanf:"liked_threshold"`

	// MinVotes is the vote-count floor for top-rated listings.
	MinVotes int `koanf:"min_votes"`

	// DefaultLimit and MaxLimit bound page sizes across all list endpoints.
	DefaultLimit int `koanf:"default_limit"`
	MaxLimit     int `koanf:"max_limit"`

	// BuildOnStartup builds the model during boot. When false the service
	// starts serving immediately and returns SERVICE_UNAVAILABLE for
	// recommendation queries until a rebuild is triggered.
	BuildOnStartup bool `koanf:"build_on_startup"`
}

// StoreConfig holds BadgerDB settings for user data persistence.
type StoreConfig struct {
	Path     string `koanf:"path"`
	InMemory bool   `koanf:"in_memory"`
}

// SecurityConfig holds authentication and rate limiting settings.
type SecurityConfig struct {
	JWTSecret         string        `koanf:"jwt_secret"`
	SessionTimeout    time.Duration `koanf:"session_timeout"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// TMDBConfig holds settings for the optional TMDB enrichment client
// (posters and trailers). Disabled when APIKey is empty.
type TMDBConfig struct {
	APIKey    string        `koanf:"api_key"`
	BaseURL   string        `koanf:"base_url"`
	ImageBase string        `koanf:"image_base"`
	Timeout   time.Duration `koanf:"timeout"`
	CacheSize int           `koanf:"cache_size"`
	CacheTTL  time.Duration `koanf:"cache_ttl"`
}

// Enabled reports whether TMDB enrichment is configured.
func (t TMDBConfig) Enabled() bool { return t.APIKey != "" }

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns a Config with all defaults applied. These are loaded
// first and then overridden by the config file and environment variables.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8080,
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Data: DataConfig{
			MoviesPath:  "data/tmdb_5000_movies.csv",
			CreditsPath: "data/tmdb_5000_credits.csv",
		},
		Engine: EngineConfig{
			MaxFeatures:    5000,
			MinTokenLength: 2,
			TopK:           50,
			Workers:        0,
			Alpha:          0.7,
			LikedThreshold: 4.0,
			MinVotes:       500,
			DefaultLimit:   20,
			MaxLimit:       100,
			BuildOnStartup: true,
		},
		Store: StoreConfig{
			Path:     "/data/store",
			InMemory: false,
		},
		Security: SecurityConfig{
			JWTSecret:         "",
			SessionTimeout:    72 * time.Hour,
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		TMDB: TMDBConfig{
			APIKey:    "",
			BaseURL:   "https://api.themoviedb.org/3",
			ImageBase: "https://image.tmdb.org/t/p/w500",
			Timeout:   10 * time.Second,
			CacheSize: 1024,
			CacheTTL:  6 * time.Hour,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Validate checks cross-field constraints. Called after all layers are
// merged, so errors reflect the effective configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %v", c.Server.Timeout)
	}
	if c.Data.MoviesPath == "" {
		return fmt.Errorf("data.movies_path is required")
	}
	if c.Data.CreditsPath == "" {
		return fmt.Errorf("data.credits_path is required")
	}
	if c.Engine.MaxFeatures < 1 {
		return fmt.Errorf("engine.max_features must be positive, got %d", c.Engine.MaxFeatures)
	}
	if c.Engine.MinTokenLength < 1 {
		return fmt.Errorf("engine.min_token_length must be positive, got %d", c.Engine.MinTokenLength)
	}
	if c.Engine.TopK < 1 {
		return fmt.Errorf("engine.top_k must be positive, got %d", c.Engine.TopK)
	}
	if c.Engine.Workers < 0 {
		return fmt.Errorf("engine.workers must not be negative, got %d", c.Engine.Workers)
	}
	if c.Engine.Alpha < 0 || c.Engine.Alpha > 1 {
		return fmt.Errorf("engine.alpha must be in [0, 1], got %g", c.Engine.Alpha)
	}
	if c.Engine.LikedThreshold < 1 || c.Engine.LikedThreshold > 5 {
		return fmt.Errorf("engine.liked_threshold must be in [1, 5], got %g", c.Engine.LikedThreshold)
	}
	if c.Engine.MinVotes < 0 {
		return fmt.Errorf("engine.min_votes must not be negative, got %d", c.Engine.MinVotes)
	}
	if c.Engine.DefaultLimit < 1 || c.Engine.MaxLimit < c.Engine.DefaultLimit {
		return fmt.Errorf("engine limits invalid: default=%d max=%d", c.Engine.DefaultLimit, c.Engine.MaxLimit)
	}
	if !c.Store.InMemory && c.Store.Path == "" {
		return fmt.Errorf("store.path is required when store.in_memory is false")
	}
	if c.Security.SessionTimeout <= 0 {
		return fmt.Errorf("security.session_timeout must be positive, got %v", c.Security.SessionTimeout)
	}
	if c.Server.Environment == "production" && c.Security.JWTSecret == "" {
		return fmt.Errorf("security.jwt_secret is required in production")
	}
	if len(c.Security.JWTSecret) > 0 && len(c.Security.JWTSecret) < 32 {
		return fmt.Errorf("security.jwt_secret must be at least 32 characters, got %d", len(c.Security.JWTSecret))
	}
	return nil
}
