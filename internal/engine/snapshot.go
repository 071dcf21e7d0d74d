// Movie Recommender - Content-Based Movie Recommendation Service
// Copyright 2026 Chethan C. (CHETHANCHARMANNAPK)
// SPDX-License-Identifier: MIT
// https://github.com/CHETHANCHARMANNAPK/movie-recommender

package engine

import (
	"sort"
	"time"

	"github.com/CHETHANCHARMANNAPK/movie-recommender/internal/models"
)

// Snapshot is one immutable, internally consistent build of the model:
// catalog, vocabulary, feature vectors, and similarity index. A rebuild
// constructs a whole new Snapshot and publishes it with one atomic swap;
// nothing mutates a Snapshot after build, so unlimited concurrent readers
// need no locking.
type Snapshot struct {
	movies   map[int]*models.Movie
	ids      []int // corpus order
	rowByID  map[int]int
	vectors  []sparseVector
	vocab    *vocabulary
	simIndex *similarityIndex

	// Precomputed global orderings for stable pagination.
	byPopularity []int
	byRating     []int

	genres []string

	popMin, popMax float64

	builtAt time.Time
	version uint64
}

// BuiltAt returns the snapshot build timestamp.
func (s *Snapshot) BuiltAt() time.Time { return s.builtAt }

// Version returns the monotonically increasing build number.
func (s *Snapshot) Version() uint64 { return s.version }

// MovieCount returns the catalog size.
func (s *Snapshot) MovieCount() int { return len(s.ids) }

// VocabularySize returns the frozen vocabulary size.
func (s *Snapshot) VocabularySize() int { return s.vocab.Size() }

// Movie looks up a catalog record by id.
func (s *Snapshot) Movie(id int) (*models.Movie, bool) {
	m, ok := s.movies[id]
	return m, ok
}

// Genres returns the sorted distinct genre names of the catalog.
func (s *Snapshot) Genres() []string { return s.genres }

// similarity computes the live cosine similarity between two movies from
// their stored vectors, not the truncated neighbor lists. Used by hybrid
// scoring, which needs a score for every candidate.
func (s *Snapshot) similarity(a, b int) float64 {
	ra, ok := s.rowByID[a]
	if !ok {
		return 0
	}
	rb, ok := s.rowByID[b]
	if !ok {
		return 0
	}
	return clampScore(s.vectors[ra].dot(&s.vectors[rb]))
}

// normalizedPopularity scales a movie's popularity into [0, 1] across the
// snapshot's popularity range. A flat range maps everything to 0.
func (s *Snapshot) normalizedPopularity(m *models.Movie) float64 {
	if s.popMax <= s.popMin {
		return 0
	}
	return (m.Popularity - s.popMin) / (s.popMax - s.popMin)
}

// buildSnapshot runs the full pipeline over a corpus: soups, vocabulary,
// vectors, similarity index, plus the precomputed orderings the query
// operations page over. Returns EmptyCorpus for a corpus with no usable
// text signal.
func buildSnapshot(corpus []models.Movie, cfg Config, version uint64) (*Snapshot, error) {
	if len(corpus) == 0 {
		return nil, &Error{Kind: KindEmptyCorpus, Reason: "corpus contains no movies"}
	}

	movies := make(map[int]*models.Movie, len(corpus))
	ids := make([]int, 0, len(corpus))
	for i := range corpus {
		m := &corpus[i]
		if _, dup := movies[m.ID]; dup {
			continue
		}
		movies[m.ID] = m
		ids = append(ids, m.ID)
	}

	soups := make([]string, len(ids))
	popularity := make([]float64, len(ids))
	for i, id := range ids {
		soups[i] = buildSoup(movies[id])
		popularity[i] = movies[id].Popularity
	}

	vocab, vectors, err := fitTransform(soups, cfg.Vectorizer)
	if err != nil {
		return nil, err
	}

	simIndex := buildSimilarityIndex(ids, vectors, popularity, cfg.Similarity.TopK, cfg.Similarity.Workers)

	rowByID := make(map[int]int, len(ids))
	for i, id := range ids {
		rowByID[id] = i
	}

	snap := &Snapshot{
		movies:   movies,
		ids:      ids,
		rowByID:  rowByID,
		vectors:  vectors,
		vocab:    vocab,
		simIndex: simIndex,
		builtAt:  time.Now().UTC(),
		version:  version,
	}
	snap.byPopularity = sortedIDs(ids, movies, func(a, b *models.Movie) bool {
		if a.Popularity != b.Popularity {
			return a.Popularity > b.Popularity
		}
		return a.ID < b.ID
	})
	snap.byRating = sortedIDs(ids, movies, func(a, b *models.Movie) bool {
		if a.VoteAverage != b.VoteAverage {
			return a.VoteAverage > b.VoteAverage
		}
		return a.ID < b.ID
	})
	snap.genres = distinctGenres(movies)
	snap.popMin, snap.popMax = popularityRange(movies)

	return snap, nil
}

func sortedIDs(ids []int, movies map[int]*models.Movie, less func(a, b *models.Movie) bool) []int {
	sorted := make([]int, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(i, j int) bool {
		return less(movies[sorted[i]], movies[sorted[j]])
	})
	return sorted
}

func distinctGenres(movies map[int]*models.Movie) []string {
	set := make(map[string]struct{})
	for _, m := range movies {
		for _, g := range m.Genres {
			set[g] = struct{}{}
		}
	}
	genres := make([]string, 0, len(set))
	for g := range set {
		genres = append(genres, g)
	}
	sort.Strings(genres)
	return genres
}

func popularityRange(movies map[int]*models.Movie) (min, max float64) {
	first := true
	for _, m := range movies {
		if first {
			min, max = m.Popularity, m.Popularity
			first = false
			continue
		}
		if m.Popularity < min {
			min = m.Popularity
		}
		if m.Popularity > max {
			max = m.Popularity
		}
	}
	return min, max
}
