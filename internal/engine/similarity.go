// Movie Recommender - Content-Based Movie Recommendation Service
// Copyright 2026 Chethan C. (CHETHANCHARMANNAPK)
// SPDX-License-Identifier: MIT
// https://github.com/CHETHANCHARMANNAPK/movie-recommender

package engine

import (
	"runtime"
	"sort"
	"sync"
)

// Neighbor is one entry in a movie's precomputed similarity list.
type Neighbor struct {
	MovieID int     `json:"movie_id"`
	Score   float64 `json:"score"`
}

// similarityIndex holds the per-movie top-K neighbor lists of one snapshot.
// Computed once at build time and read-only thereafter. Truncating each row
// independently means stored lists are not guaranteed symmetric: b may list
// a while a's list is full of closer neighbors. That asymmetry is accepted.
type similarityIndex struct {
	neighbors map[int][]Neighbor
	topK      int
}

// buildSimilarityIndex computes cosine similarity for every movie pair and
// keeps each movie's topK best neighbors. Vectors must be L2-normalized so
// the dot product is the cosine directly; a zero vector scores 0 against
// everything and produces an empty neighbor list.
//
// The row loop fans out over a bounded worker pool. Each worker owns a
// disjoint range of rows, so no locking is needed on the result rows.
func buildSimilarityIndex(ids []int, vectors []sparseVector, popularity []float64, topK, workers int) *similarityIndex {
	n := len(ids)
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > n {
		workers = n
	}

	rows := make([][]Neighbor, n)

	var wg sync.WaitGroup
	chunk := (n + workers - 1) / workers
	for w := 0; w < workers; w++ {
		start := w * chunk
		if start >= n {
			break
		}
		end := start + chunk
		if end > n {
			end = n
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			scores := make([]float64, n)
			for i := start; i < end; i++ {
				rows[i] = topNeighborsForRow(i, ids, vectors, popularity, topK, scores)
			}
		}(start, end)
	}
	wg.Wait()

	byID := make(map[int][]Neighbor, n)
	for i, id := range ids {
		byID[id] = rows[i]
	}
	return &similarityIndex{neighbors: byID, topK: topK}
}

// topNeighborsForRow scores row i against every other row and returns its
// topK neighbors. scores is a scratch buffer reused across rows.
func topNeighborsForRow(i int, ids []int, vectors []sparseVector, popularity []float64, topK int, scores []float64) []Neighbor {
	if vectors[i].isZero() {
		return nil
	}

	candidates := make([]int, 0, len(ids)-1)
	for j := range ids {
		if j == i {
			continue
		}
		s := vectors[i].dot(&vectors[j])
		if s <= 0 {
			continue
		}
		scores[j] = s
		candidates = append(candidates, j)
	}
	if len(candidates) == 0 {
		return nil
	}

	// Equal scores order by descending popularity, then ascending id,
	// keeping neighbor lists fully deterministic.
	sort.Slice(candidates, func(a, b int) bool {
		ja, jb := candidates[a], candidates[b]
		if scores[ja] != scores[jb] {
			return scores[ja] > scores[jb]
		}
		if popularity[ja] != popularity[jb] {
			return popularity[ja] > popularity[jb]
		}
		return ids[ja] < ids[jb]
	})

	if len(candidates) > topK {
		candidates = candidates[:topK]
	}
	neighbors := make([]Neighbor, len(candidates))
	for k, j := range candidates {
		neighbors[k] = Neighbor{MovieID: ids[j], Score: clampScore(scores[j])}
	}
	return neighbors
}

// clampScore pins floating point drift back into [0, 1].
func clampScore(s float64) float64 {
	if s > 1 {
		return 1
	}
	if s < 0 {
		return 0
	}
	return s
}

// Neighbors returns up to k neighbors for a movie, or nil ok=false when the
// movie is not in the index.
func (idx *similarityIndex) Neighbors(movieID, k int) ([]Neighbor, bool) {
	row, ok := idx.neighbors[movieID]
	if !ok {
		return nil, false
	}
	if k > 0 && k < len(row) {
		row = row[:k]
	}
	return row, true
}

// Score returns the stored similarity between two movies, scanning a's
// neighbor list. Returns 0 when b is not among a's stored neighbors.
func (idx *similarityIndex) Score(a, b int) float64 {
	for _, n := range idx.neighbors[a] {
		if n.MovieID == b {
			return n.Score
		}
	}
	return 0
}
