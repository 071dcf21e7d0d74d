// Movie Recommender - Content-Based Movie Recommendation Service
// Copyright 2026 Chethan C. (CHETHANCHARMANNAPK)
// SPDX-License-Identifier: MIT
// https://github.com/CHETHANCHARMANNAPK/movie-recommender

package api

import (
	"math/rand"
	"net/http"
	"time"

	"github.com/CHETHANCHARMANNAPK/movie-recommender/internal/auth"
	"github.com/CHETHANCHARMANNAPK/movie-recommender/internal/engine"
	"github.com/CHETHANCHARMANNAPK/movie-recommender/internal/logging"
	"github.com/CHETHANCHARMANNAPK/movie-recommender/internal/models"
)

// movieDetail is a movie plus per-user annotations and enrichment.
type movieDetail struct {
	models.Movie
	PosterURL   string   `json:"poster_url,omitempty"`
	TrailerURL  string   `json:"trailer_url,omitempty"`
	InWatchlist *bool    `json:"in_watchlist,omitempty"`
	UserRating  *float64 `json:"user_rating,omitempty"`
}

// Popular lists movies by descending popularity.
func (h *Handler) Popular(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	page, err := h.engine.ListPopular(getIntParam(r, "limit", 0), getIntParam(r, "offset", 0))
	if err != nil {
		respondEngineError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, page, start)
}

// TopRated lists movies by descending vote average, subject to a
// vote-count floor.
func (h *Handler) TopRated(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	minVotes := -1
	if v := optionalInt(r, "min_votes"); v != nil {
		minVotes = *v
	}
	page, err := h.engine.ListTopRated(getIntParam(r, "limit", 0), getIntParam(r, "offset", 0), minVotes)
	if err != nil {
		respondEngineError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, page, start)
}

// Search performs a case-insensitive title substring search.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	page, err := h.engine.Search(r.URL.Query().Get("q"), getIntParam(r, "limit", 0), getIntParam(r, "offset", 0))
	if err != nil {
		respondEngineError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, page, start)
}

// Filter applies faceted filtering with sorting and pagination.
func (h *Handler) Filter(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	params := engine.FilterParams{
		Genre:      r.URL.Query().Get("genre"),
		MinRating:  optionalFloat(r, "min_rating"),
		MaxRating:  optionalFloat(r, "max_rating"),
		YearFrom:   optionalInt(r, "year_from"),
		YearTo:     optionalInt(r, "year_to"),
		MinRuntime: optionalInt(r, "min_runtime"),
		MaxRuntime: optionalInt(r, "max_runtime"),
		SortBy:     r.URL.Query().Get("sort_by"),
		Order:      r.URL.Query().Get("order"),
		Limit:      getIntParam(r, "limit", 0),
		Offset:     getIntParam(r, "offset", 0),
	}

	page, err := h.engine.Filter(params)
	if err != nil {
		respondEngineError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, page, start)
}

// Genres lists the distinct genres in the corpus.
func (h *Handler) Genres(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	genres, err := h.engine.Genres()
	if err != nil {
		respondEngineError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, map[string]interface{}{"genres": genres}, start)
}

// MovieDetail returns one movie with poster and trailer enrichment.
// Signed-in callers also get watchlist and rating annotations, and the
// view is recorded to feed because-you-liked.
func (h *Handler) MovieDetail(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := movieIDParam(w, r)
	if id < 0 {
		return
	}

	movie, err := h.engine.GetMovie(id)
	if err != nil {
		respondEngineError(w, r, err)
		return
	}

	detail := movieDetail{Movie: *movie}

	enrichment := h.tmdb.Enrich(r.Context(), movie.Title, movie.Year())
	detail.PosterURL = enrichment.PosterURL
	detail.TrailerURL = enrichment.TrailerURL

	if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
		h.annotateForUser(w, r, &detail, claims.Subject)
		view := &models.ViewEvent{UserID: claims.Subject, MovieID: id, ViewedAt: time.Now().UTC()}
		if err := h.store.RecordView(r.Context(), view); err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Int("movie_id", id).Msg("Failed to record view")
		}
	}

	respondData(w, http.StatusOK, detail, start)
}

func (h *Handler) annotateForUser(w http.ResponseWriter, r *http.Request, detail *movieDetail, userID string) {
	inList, err := h.store.InWatchlist(r.Context(), userID, detail.ID)
	if err == nil {
		detail.InWatchlist = &inList
	}
	if rating, err := h.store.RatingFor(r.Context(), userID, detail.ID); err == nil {
		detail.UserRating = &rating.Score
	}
}

// Recommendations serves similar movies for a given title. Signed-in
// callers with qualifying ratings get personalized hybrid results;
// everyone else gets content-based neighbors.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := movieIDParam(w, r)
	if id < 0 {
		return
	}
	limit := getIntParam(r, "limit", 0)

	if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
		result, err := h.engine.RecommendHybrid(r.Context(), claims.Subject, limit)
		if err != nil {
			respondEngineError(w, r, err)
			return
		}
		if result.SeedTitle != "" {
			respondData(w, http.StatusOK, result, start)
			return
		}
		// No qualifying rating yet; fall through to content-based.
	}

	movies, err := h.engine.Recommend(id, limit)
	if err != nil {
		respondEngineError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, map[string]interface{}{"movies": movies}, start)
}

// Trailer returns poster and trailer URLs for one movie.
func (h *Handler) Trailer(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := movieIDParam(w, r)
	if id < 0 {
		return
	}

	movie, err := h.engine.GetMovie(id)
	if err != nil {
		respondEngineError(w, r, err)
		return
	}

	enrichment := h.tmdb.Enrich(r.Context(), movie.Title, movie.Year())
	respondData(w, http.StatusOK, map[string]interface{}{
		"movie_id":    movie.ID,
		"title":       movie.Title,
		"poster_url":  enrichment.PosterURL,
		"trailer_url": enrichment.TrailerURL,
	}, start)
}

// BecauseYouLiked recommends movies similar to a randomly chosen recent
// view. Users with no view history get an empty result.
func (h *Handler) BecauseYouLiked(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	views, err := h.store.RecentViews(r.Context(), claims.Subject, 10)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	if len(views) == 0 {
		respondData(w, http.StatusOK, engine.HybridResult{Movies: []engine.ScoredMovie{}}, start)
		return
	}

	seedID := views[rand.Intn(len(views))]
	seed, err := h.engine.GetMovie(seedID)
	if err != nil {
		// The viewed movie may have left the corpus after a rebuild.
		respondData(w, http.StatusOK, engine.HybridResult{Movies: []engine.ScoredMovie{}}, start)
		return
	}

	movies, err := h.engine.Recommend(seedID, getIntParam(r, "limit", 0))
	if err != nil {
		respondEngineError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, engine.HybridResult{SeedTitle: seed.Title, Movies: movies}, start)
}
