// Movie Recommender - Content-Based Movie Recommendation Service
// Copyright 2026 Chethan C. (CHETHANCHARMANNAPK)
// SPDX-License-Identifier: MIT
// https://github.com/CHETHANCHARMANNAPK/movie-recommender

package engine

import "fmt"

// Config holds all engine tunables. Blend weights and floors are policy
// choices, so they live here rather than as constants.
type Config struct {
	Vectorizer VectorizerConfig
	Similarity SimilarityConfig
	Hybrid     HybridConfig
	TopRated   TopRatedConfig
	Limits     LimitsConfig
}

// VectorizerConfig controls vocabulary construction.
type VectorizerConfig struct {
	// MaxFeatures caps the vocabulary size. Terms are kept by descending
	// corpus frequency, ties broken alphabetically.
	MaxFeatures int

	// MinTokenLength drops tokens shorter than this before stop-word
	// filtering and bigram formation.
	MinTokenLength int
}

// SimilarityConfig controls the pairwise similarity precompute.
type SimilarityConfig struct {
	// TopK is how many neighbors are stored per movie. Must cover the
	// largest recommendation page served.
	TopK int

	// Workers bounds the precompute worker pool. 0 = runtime.NumCPU().
	Workers int
}

// HybridConfig controls personalized blending.
type HybridConfig struct {
	// Alpha weighs content similarity; 1-Alpha weighs normalized
	// popularity. Must lie in [0, 1].
	Alpha float64

	// LikedThreshold is the minimum rating score that qualifies a movie
	// as a hybrid seed.
	LikedThreshold float64
}

// TopRatedConfig controls the top-rated listing.
type TopRatedConfig struct {
	// MinVotes excludes movies with too few votes for a reliable average.
	MinVotes int
}

// LimitsConfig bounds page sizes for every list operation.
type LimitsConfig struct {
	DefaultLimit int
	MaxLimit     int
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		Vectorizer: VectorizerConfig{MaxFeatures: 5000, MinTokenLength: 2},
		Similarity: SimilarityConfig{TopK: 50, Workers: 0},
		Hybrid:     HybridConfig{Alpha: 0.7, LikedThreshold: 4.0},
		TopRated:   TopRatedConfig{MinVotes: 500},
		Limits:     LimitsConfig{DefaultLimit: 20, MaxLimit: 100},
	}
}

// Validate checks the configuration for internal consistency.
func (c Config) Validate() error {
	if c.Vectorizer.MaxFeatures < 1 {
		return fmt.Errorf("vectorizer max features must be positive, got %d", c.Vectorizer.MaxFeatures)
	}
	if c.Vectorizer.MinTokenLength < 1 {
		return fmt.Errorf("vectorizer min token length must be positive, got %d", c.Vectorizer.MinTokenLength)
	}
	if c.Similarity.TopK < 1 {
		return fmt.Errorf("similarity top-k must be positive, got %d", c.Similarity.TopK)
	}
	if c.Similarity.Workers < 0 {
		return fmt.Errorf("similarity workers must not be negative, got %d", c.Similarity.Workers)
	}
	if c.Hybrid.Alpha < 0 || c.Hybrid.Alpha > 1 {
		return fmt.Errorf("hybrid alpha must be in [0, 1], got %g", c.Hybrid.Alpha)
	}
	if c.Hybrid.LikedThreshold < 1 || c.Hybrid.LikedThreshold > 5 {
		return fmt.Errorf("hybrid liked threshold must be in [1, 5], got %g", c.Hybrid.LikedThreshold)
	}
	if c.TopRated.MinVotes < 0 {
		return fmt.Errorf("top-rated min votes must not be negative, got %d", c.TopRated.MinVotes)
	}
	if c.Limits.DefaultLimit < 1 {
		return fmt.Errorf("default limit must be positive, got %d", c.Limits.DefaultLimit)
	}
	if c.Limits.MaxLimit < c.Limits.DefaultLimit {
		return fmt.Errorf("max limit %d is below default limit %d", c.Limits.MaxLimit, c.Limits.DefaultLimit)
	}
	return nil
}
