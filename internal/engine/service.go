// Movie Recommender - Content-Based Movie Recommendation Service
// Copyright 2026 Chethan C. (CHETHANCHARMANNAPK)
// SPDX-License-Identifier: MIT
// https://github.com/CHETHANCHARMANNAPK/movie-recommender

package engine

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/CHETHANCHARMANNAPK/movie-recommender/internal/models"
)

// ScoredMovie is a catalog record annotated with the score that ranked it.
// Similarity is a percentage in [0, 100] with two decimals; HybridScore is
// the raw blended score in [0, 1]. Only one of the two is set, depending on
// which query produced the result.
type ScoredMovie struct {
	models.Movie
	Similarity  float64 `json:"similarity,omitempty"`
	HybridScore float64 `json:"hybrid_score,omitempty"`
}

// Page is one slice of a listing plus the full matching set size, so
// callers can compute whether more pages exist.
type Page struct {
	Movies []models.Movie `json:"movies"`
	Total  int            `json:"total"`
}

// HybridResult carries personalized recommendations plus the seed title
// for "because you liked X" provenance. An empty Movies with no SeedTitle
// means the user has no qualifying rating; that is a valid result, not an
// error.
type HybridResult struct {
	SeedTitle string        `json:"seed_title,omitempty"`
	Movies    []ScoredMovie `json:"movies"`
}

// FilterParams are the faceted-filter criteria. Nil pointer fields impose
// no constraint; supplied criteria combine with AND semantics.
type FilterParams struct {
	Genre      string
	MinRating  *float64
	MaxRating  *float64
	YearFrom   *int
	YearTo     *int
	MinRuntime *int
	MaxRuntime *int
	SortBy     string
	Order      string
	Limit      int
	Offset     int
}

// filterSortKeys maps sort field names to comparison functions.
var filterSortKeys = map[string]func(a, b *models.Movie) bool{
	"popularity":   func(a, b *models.Movie) bool { return a.Popularity < b.Popularity },
	"rating":       func(a, b *models.Movie) bool { return a.VoteAverage < b.VoteAverage },
	"release_date": func(a, b *models.Movie) bool { return a.ReleaseDate.Before(b.ReleaseDate) },
	"revenue":      func(a, b *models.Movie) bool { return a.Revenue < b.Revenue },
	"title":        func(a, b *models.Movie) bool { return a.Title < b.Title },
}

// GetMovie returns one movie by id.
func (e *Engine) GetMovie(id int) (*models.Movie, error) {
	snap, err := e.Snapshot()
	if err != nil {
		return nil, err
	}
	m, ok := snap.Movie(id)
	if !ok {
		return nil, notFoundf("movie %d not found", id)
	}
	return m, nil
}

// Genres returns the sorted distinct genres of the catalog.
func (e *Engine) Genres() ([]string, error) {
	snap, err := e.Snapshot()
	if err != nil {
		return nil, err
	}
	return snap.Genres(), nil
}

// ListPopular returns movies by descending popularity, ties by ascending
// id. Pagination is stable: the ordering is frozen in the snapshot, so
// consecutive offsets yield contiguous slices.
func (e *Engine) ListPopular(limit, offset int) (Page, error) {
	snap, err := e.Snapshot()
	if err != nil {
		return Page{}, err
	}
	limit, offset, verr := e.normalizePage(limit, offset)
	if verr != nil {
		return Page{}, verr
	}
	return pageFromIDs(snap, snap.byPopularity, limit, offset), nil
}

// ListTopRated returns movies by descending vote average among movies with
// at least minVotes votes. Pass a negative minVotes to use the configured
// floor. The floor exists because a 10.0 average over three votes says
// nothing.
func (e *Engine) ListTopRated(limit, offset, minVotes int) (Page, error) {
	snap, err := e.Snapshot()
	if err != nil {
		return Page{}, err
	}
	limit, offset, verr := e.normalizePage(limit, offset)
	if verr != nil {
		return Page{}, verr
	}
	if minVotes < 0 {
		minVotes = e.cfg.TopRated.MinVotes
	}

	qualified := make([]int, 0, len(snap.byRating))
	for _, id := range snap.byRating {
		if snap.movies[id].VoteCount >= minVotes {
			qualified = append(qualified, id)
		}
	}
	return pageFromIDs(snap, qualified, limit, offset), nil
}

// Search matches the query case-insensitively against titles and returns
// matches ranked by descending popularity. Total counts all matches,
// independent of the requested page.
func (e *Engine) Search(query string, limit, offset int) (Page, error) {
	snap, err := e.Snapshot()
	if err != nil {
		return Page{}, err
	}
	limit, offset, verr := e.normalizePage(limit, offset)
	if verr != nil {
		return Page{}, verr
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return Page{}, validationf("search query must not be empty")
	}

	matches := make([]int, 0, 32)
	for _, id := range snap.byPopularity {
		if strings.Contains(strings.ToLower(snap.movies[id].Title), query) {
			matches = append(matches, id)
		}
	}
	return pageFromIDs(snap, matches, limit, offset), nil
}

// Filter returns movies satisfying all supplied predicates, sorted by the
// requested field and direction.
func (e *Engine) Filter(p FilterParams) (Page, error) {
	snap, err := e.Snapshot()
	if err != nil {
		return Page{}, err
	}
	limit, offset, verr := e.normalizePage(p.Limit, p.Offset)
	if verr != nil {
		return Page{}, verr
	}

	sortBy := p.SortBy
	if sortBy == "" {
		sortBy = "popularity"
	}
	less, ok := filterSortKeys[sortBy]
	if !ok {
		return Page{}, validationf("unknown sort field %q", sortBy)
	}
	order := p.Order
	if order == "" {
		order = "desc"
	}
	if order != "asc" && order != "desc" {
		return Page{}, validationf("order must be asc or desc, got %q", p.Order)
	}

	matched := make([]int, 0, len(snap.ids))
	for _, id := range snap.ids {
		if matchesFilter(snap.movies[id], &p) {
			matched = append(matched, id)
		}
	}

	desc := order == "desc"
	sort.SliceStable(matched, func(i, j int) bool {
		a, b := snap.movies[matched[i]], snap.movies[matched[j]]
		if less(a, b) != less(b, a) { // strict inequality on the key
			if desc {
				return less(b, a)
			}
			return less(a, b)
		}
		return a.ID < b.ID
	})

	return pageFromIDs(snap, matched, limit, offset), nil
}

func matchesFilter(m *models.Movie, p *FilterParams) bool {
	if p.Genre != "" && !containsFold(m.Genres, p.Genre) {
		return false
	}
	if p.MinRating != nil && m.VoteAverage < *p.MinRating {
		return false
	}
	if p.MaxRating != nil && m.VoteAverage > *p.MaxRating {
		return false
	}
	if p.YearFrom != nil || p.YearTo != nil {
		year := m.Year()
		if year == 0 {
			return false
		}
		if p.YearFrom != nil && year < *p.YearFrom {
			return false
		}
		if p.YearTo != nil && year > *p.YearTo {
			return false
		}
	}
	if p.MinRuntime != nil && m.Runtime < *p.MinRuntime {
		return false
	}
	if p.MaxRuntime != nil && m.Runtime > *p.MaxRuntime {
		return false
	}
	return true
}

func containsFold(haystack []string, needle string) bool {
	for _, s := range haystack {
		if strings.EqualFold(s, needle) {
			return true
		}
	}
	return false
}

// Recommend returns the movies most similar to the given one, annotated
// with similarity rendered as a percentage.
func (e *Engine) Recommend(movieID, limit int) ([]ScoredMovie, error) {
	snap, err := e.Snapshot()
	if err != nil {
		return nil, err
	}
	limit, _, verr := e.normalizePage(limit, 0)
	if verr != nil {
		return nil, verr
	}

	neighbors, ok := snap.simIndex.Neighbors(movieID, limit)
	if !ok {
		return nil, notFoundf("movie %d not found", movieID)
	}

	results := make([]ScoredMovie, 0, len(neighbors))
	for _, n := range neighbors {
		m, ok := snap.Movie(n.MovieID)
		if !ok {
			continue
		}
		results = append(results, ScoredMovie{
			Movie:      *m,
			Similarity: similarityPct(n.Score),
		})
	}
	return results, nil
}

// RecommendHybrid blends content similarity with popularity, seeded from
// the user's best-rated movie. The seed is the highest-scored rating, ties
// broken by most recent; when no rating reaches the liked threshold the
// result is empty rather than guessed. The seed and every rated movie are
// excluded from the candidates.
func (e *Engine) RecommendHybrid(ctx context.Context, userID string, limit int) (HybridResult, error) {
	snap, err := e.Snapshot()
	if err != nil {
		return HybridResult{}, err
	}
	limit, _, verr := e.normalizePage(limit, 0)
	if verr != nil {
		return HybridResult{}, verr
	}
	if e.ratings == nil {
		return HybridResult{}, &Error{Kind: KindUnavailable, Reason: "rating source not configured"}
	}

	ratings, err := e.ratings.RatingsForUser(ctx, userID)
	if err != nil {
		return HybridResult{}, buildErr("fetching user ratings", err)
	}

	seed, rated := selectSeed(snap, ratings, e.cfg.Hybrid.LikedThreshold)
	if seed == nil {
		return HybridResult{Movies: []ScoredMovie{}}, nil
	}

	alpha := e.cfg.Hybrid.Alpha
	type candidate struct {
		movie *models.Movie
		score float64
	}
	candidates := make([]candidate, 0, len(snap.ids))
	for _, id := range snap.ids {
		if id == seed.ID {
			continue
		}
		if _, wasRated := rated[id]; wasRated {
			continue
		}
		m := snap.movies[id]
		score := alpha*snap.similarity(seed.ID, id) + (1-alpha)*snap.normalizedPopularity(m)
		candidates = append(candidates, candidate{movie: m, score: score})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		if candidates[i].movie.Popularity != candidates[j].movie.Popularity {
			return candidates[i].movie.Popularity > candidates[j].movie.Popularity
		}
		return candidates[i].movie.ID < candidates[j].movie.ID
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	movies := make([]ScoredMovie, len(candidates))
	for i, c := range candidates {
		movies[i] = ScoredMovie{Movie: *c.movie, HybridScore: roundScore(c.score)}
	}
	return HybridResult{SeedTitle: seed.Title, Movies: movies}, nil
}

// selectSeed picks the user's most-liked movie present in the snapshot.
// Returns the rated-movie id set alongside so candidates can be excluded.
func selectSeed(snap *Snapshot, ratings []models.Rating, likedThreshold float64) (*models.Movie, map[int]struct{}) {
	rated := make(map[int]struct{}, len(ratings))
	var best *models.Rating
	for i := range ratings {
		r := &ratings[i]
		rated[r.MovieID] = struct{}{}
		if _, inSnapshot := snap.movies[r.MovieID]; !inSnapshot {
			continue
		}
		if r.Score < likedThreshold {
			continue
		}
		if best == nil || r.Score > best.Score ||
			(r.Score == best.Score && r.UpdatedAt.After(best.UpdatedAt)) {
			best = r
		}
	}
	if best == nil {
		return nil, rated
	}
	return snap.movies[best.MovieID], rated
}

// normalizePage validates and applies defaults to limit/offset.
func (e *Engine) normalizePage(limit, offset int) (int, int, error) {
	if limit < 0 {
		return 0, 0, validationf("limit must not be negative, got %d", limit)
	}
	if offset < 0 {
		return 0, 0, validationf("offset must not be negative, got %d", offset)
	}
	if limit == 0 {
		limit = e.cfg.Limits.DefaultLimit
	}
	if limit > e.cfg.Limits.MaxLimit {
		limit = e.cfg.Limits.MaxLimit
	}
	return limit, offset, nil
}

// pageFromIDs materializes one page of an ordered id list.
func pageFromIDs(snap *Snapshot, ids []int, limit, offset int) Page {
	total := len(ids)
	if offset >= total {
		return Page{Movies: []models.Movie{}, Total: total}
	}
	end := offset + limit
	if end > total {
		end = total
	}
	movies := make([]models.Movie, 0, end-offset)
	for _, id := range ids[offset:end] {
		movies = append(movies, *snap.movies[id])
	}
	return Page{Movies: movies, Total: total}
}

// similarityPct renders a cosine score as a percentage with two decimals.
func similarityPct(score float64) float64 {
	return math.Round(score*10000) / 100
}

// roundScore keeps hybrid scores tidy without losing ordering.
func roundScore(score float64) float64 {
	return math.Round(score*10000) / 10000
}
