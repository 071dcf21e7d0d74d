// Movie Recommender - Content-Based Movie Recommendation Service
// Copyright 2026 Chethan C. (CHETHANCHARMANNAPK)
// SPDX-License-Identifier: MIT
// https://github.com/CHETHANCHARMANNAPK/movie-recommender

// Package tmdb enriches movie responses with poster and trailer URLs
// from The Movie Database API. Lookups are cached and guarded by a
// circuit breaker; when no API key is configured every lookup returns
// the placeholder result without touching the network.
package tmdb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/CHETHANCHARMANNAPK/movie-recommender/internal/config"
	"github.com/CHETHANCHARMANNAPK/movie-recommender/internal/logging"
	"github.com/CHETHANCHARMANNAPK/movie-recommender/internal/metrics"
)

// PlaceholderPoster is served when no poster can be resolved.
const PlaceholderPoster = "https://via.placeholder.com/500x750?text=No+Poster"

const maxResponseBytes = 1 << 20

// Enrichment is the cached result of a TMDB lookup for one movie.
type Enrichment struct {
	PosterURL  string `json:"poster_url"`
	TrailerURL string `json:"trailer_url,omitempty"`
}

// Client resolves posters and trailers by searching TMDB by title and
// year. It degrades to placeholder results on any failure.
type Client struct {
	cfg   config.TMDBConfig
	http  *http.Client
	cb    *gobreaker.CircuitBreaker[[]byte]
	cache *lruCache
}

// NewClient builds an enrichment client from configuration. The returned
// client is safe for concurrent use.
func NewClient(cfg config.TMDBConfig) *Client {
	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "tmdb-api",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("TMDB circuit breaker state change")
		},
	})

	return &Client{
		cfg:   cfg,
		http:  &http.Client{Timeout: cfg.Timeout},
		cb:    cb,
		cache: newLRUCache(cfg.CacheSize, cfg.CacheTTL),
	}
}

// Enabled reports whether the client has an API key and will make
// network calls.
func (c *Client) Enabled() bool {
	return c.cfg.Enabled()
}

// Enrich resolves poster and trailer URLs for a movie. The result always
// has a poster URL; the trailer URL is empty when none is found. Failures
// are logged and degrade to the placeholder rather than erroring.
func (c *Client) Enrich(ctx context.Context, title string, year int) Enrichment {
	if !c.Enabled() {
		return Enrichment{PosterURL: PlaceholderPoster}
	}

	key := cacheKey(title, year)
	if cached, ok := c.cache.get(key); ok {
		metrics.TMDBCacheHits.Inc()
		return cached
	}
	metrics.TMDBCacheMisses.Inc()

	result, err := c.lookup(ctx, title, year)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("title", title).Msg("TMDB lookup failed")
		return Enrichment{PosterURL: PlaceholderPoster}
	}

	c.cache.add(key, result)
	return result
}

func (c *Client) lookup(ctx context.Context, title string, year int) (Enrichment, error) {
	match, err := c.searchMovie(ctx, title, year)
	if err != nil {
		return Enrichment{}, err
	}

	result := Enrichment{PosterURL: PlaceholderPoster}
	if match.PosterPath != "" {
		result.PosterURL = c.cfg.ImageBase + match.PosterPath
	}

	// A missing trailer is not an error; the poster is still usable.
	trailer, err := c.trailerFor(ctx, match.ID)
	if err != nil {
		logging.Ctx(ctx).Debug().Err(err).Int("tmdb_id", match.ID).Msg("TMDB trailer lookup failed")
	} else {
		result.TrailerURL = trailer
	}
	return result, nil
}

type searchResult struct {
	ID         int    `json:"id"`
	PosterPath string `json:"poster_path"`
}

func (c *Client) searchMovie(ctx context.Context, title string, year int) (searchResult, error) {
	params := url.Values{}
	params.Set("api_key", c.cfg.APIKey)
	params.Set("query", title)
	if year > 0 {
		params.Set("year", strconv.Itoa(year))
	}

	body, err := c.fetch(ctx, "search", c.cfg.BaseURL+"/search/movie?"+params.Encode())
	if err != nil {
		return searchResult{}, err
	}

	var payload struct {
		Results []searchResult `json:"results"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return searchResult{}, fmt.Errorf("decode search response: %w", err)
	}
	if len(payload.Results) == 0 {
		return searchResult{}, fmt.Errorf("no TMDB match for %q", title)
	}
	return payload.Results[0], nil
}

func (c *Client) trailerFor(ctx context.Context, tmdbID int) (string, error) {
	params := url.Values{}
	params.Set("api_key", c.cfg.APIKey)

	body, err := c.fetch(ctx, "videos", fmt.Sprintf("%s/movie/%d/videos?%s", c.cfg.BaseURL, tmdbID, params.Encode()))
	if err != nil {
		return "", err
	}

	var payload struct {
		Results []struct {
			Site string `json:"site"`
			Type string `json:"type"`
			Key  string `json:"key"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("decode videos response: %w", err)
	}

	for _, v := range payload.Results {
		if v.Site == "YouTube" && v.Type == "Trailer" && v.Key != "" {
			return "https://www.youtube.com/embed/" + v.Key, nil
		}
	}
	return "", fmt.Errorf("no YouTube trailer for TMDB id %d", tmdbID)
}

// fetch performs one GET through the circuit breaker and returns the
// response body.
func (c *Client) fetch(ctx context.Context, operation, rawURL string) ([]byte, error) {
	body, err := c.cb.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("TMDB returned status %d", resp.StatusCode)
		}
		return io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	})
	if err != nil {
		metrics.TMDBRequestErrors.WithLabelValues(operation).Inc()
		return nil, err
	}
	return body, nil
}

func cacheKey(title string, year int) string {
	return title + "|" + strconv.Itoa(year)
}
