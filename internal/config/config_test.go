// Movie Recommender - Content-Based Movie Recommendation Service
// Copyright 2026 Chethan C. (CHETHANCHARMANNAPK)
// SPDX-License-Identifier: MIT
// https://github.com/CHETHANCHARMANNAPK/movie-recommender

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
	if cfg.Engine.MaxFeatures != 5000 {
		t.Errorf("MaxFeatures = %d, want 5000", cfg.Engine.MaxFeatures)
	}
	if cfg.Engine.TopK != 50 {
		t.Errorf("TopK = %d, want 50", cfg.Engine.TopK)
	}
	if cfg.Engine.Alpha != 0.7 {
		t.Errorf("Alpha = %g, want 0.7", cfg.Engine.Alpha)
	}
	if cfg.Security.SessionTimeout != 72*time.Hour {
		t.Errorf("SessionTimeout = %v, want 72h", cfg.Security.SessionTimeout)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantSub string
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"zero timeout", func(c *Config) { c.Server.Timeout = 0 }, "server.timeout"},
		{"no movies path", func(c *Config) { c.Data.MoviesPath = "" }, "movies_path"},
		{"no credits path", func(c *Config) { c.Data.CreditsPath = "" }, "credits_path"},
		{"zero max features", func(c *Config) { c.Engine.MaxFeatures = 0 }, "max_features"},
		{"zero min token length", func(c *Config) { c.Engine.MinTokenLength = 0 }, "min_token_length"},
		{"zero top k", func(c *Config) { c.Engine.TopK = 0 }, "top_k"},
		{"negative workers", func(c *Config) { c.Engine.Workers = -1 }, "workers"},
		{"alpha above one", func(c *Config) { c.Engine.Alpha = 1.5 }, "alpha"},
		{"liked threshold out of range", func(c *Config) { c.Engine.LikedThreshold = 0.5 }, "liked_threshold"},
		{"max below default limit", func(c *Config) { c.Engine.MaxLimit = 5 }, "limits"},
		{"no store path", func(c *Config) { c.Store.Path = "" }, "store.path"},
		{"short jwt secret", func(c *Config) { c.Security.JWTSecret = "tooshort" }, "jwt_secret"},
		{"production needs secret", func(c *Config) { c.Server.Environment = "production" }, "jwt_secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q does not mention %q", err, tt.wantSub)
			}
		})
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"HTTP_PORT", "server.port"},
		{"JWT_SECRET", "security.jwt_secret"},
		{"ENGINE_TOP_K", "engine.top_k"},
		{"TMDB_API_KEY", "tmdb.api_key"},
		{"LOG_LEVEL", "logging.level"},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			if got := envTransformFunc(tt.env); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
			}
		})
	}
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	t.Setenv("HTTP_PORT", "9999")
	t.Setenv("ENGINE_ALPHA", "0.5")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Engine.Alpha != 0.5 {
		t.Errorf("Alpha = %g, want 0.5", cfg.Engine.Alpha)
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[0] != want[0] || cfg.Security.CORSOrigins[1] != want[1] {
		t.Errorf("CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, want)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := []byte("server:\n  port: 7070\nengine:\n  top_k: 25\n")
	if err := os.WriteFile(path, yaml, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Port = %d, want 7070 from file", cfg.Server.Port)
	}
	if cfg.Engine.TopK != 25 {
		t.Errorf("TopK = %d, want 25 from file", cfg.Engine.TopK)
	}
	// Unset values keep defaults.
	if cfg.Engine.MaxFeatures != 5000 {
		t.Errorf("MaxFeatures = %d, want default 5000", cfg.Engine.MaxFeatures)
	}
}

func TestLoadEnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 7070\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "9091")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9091 {
		t.Errorf("Port = %d, want env override 9091", cfg.Server.Port)
	}
}
