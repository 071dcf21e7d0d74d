// Movie Recommender - Content-Based Movie Recommendation Service
// Copyright 2026 Chethan C. (CHETHANCHARMANNAPK)
// SPDX-License-Identifier: MIT
// https://github.com/CHETHANCHARMANNAPK/movie-recommender

package models

import "time"

// Movie is a single catalog record assembled by the corpus loader from the
// TMDB movies and credits files. Instances are shared read-only across
// snapshots; nothing mutates a Movie after loading.
//
// Cast holds the full billed cast in order; only the first few entries feed
// the feature soup. Director is the first crew member with the Director job,
// empty when the crew listing has none.
type Movie struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Overview    string    `json:"overview,omitempty"`
	Tagline     string    `json:"tagline,omitempty"`
	Genres      []string  `json:"genres"`
	Keywords    []string  `json:"keywords,omitempty"`
	Cast        []string  `json:"cast,omitempty"`
	Director    string    `json:"director,omitempty"`
	ReleaseDate time.Time `json:"release_date,omitempty"`
	Runtime     int       `json:"runtime,omitempty"`
	Popularity  float64   `json:"popularity"`
	VoteAverage float64   `json:"vote_average"`
	VoteCount   int       `json:"vote_count"`
	Revenue     int64     `json:"revenue,omitempty"`
	Budget      int64     `json:"budget,omitempty"`
	Language    string    `json:"original_language,omitempty"`
}

// Year returns the release year, or 0 when the release date is unknown.
func (m *Movie) Year() int {
	if m.ReleaseDate.IsZero() {
		return 0
	}
	return m.ReleaseDate.Year()
}

// HasGenre reports whether the movie carries the given genre name.
// Comparison is exact; callers normalize case before calling.
func (m *Movie) HasGenre(genre string) bool {
	for _, g := range m.Genres {
		if g == genre {
			return true
		}
	}
	return false
}

// User is a registered account. PasswordHash is a bcrypt hash and is never
// serialized to API responses.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`

	PasswordHash []byte `json:"-"`
}

// Rating is one user's score for one movie. Score is on a 1-5 scale.
// Re-rating the same movie overwrites the previous record and bumps
// UpdatedAt, which is what hybrid seed selection uses for recency.
type Rating struct {
	UserID    string    `json:"user_id"`
	MovieID   int       `json:"movie_id"`
	Score     float64   `json:"score"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WatchlistEntry marks a movie saved by a user.
type WatchlistEntry struct {
	UserID  string    `json:"user_id"`
	MovieID int       `json:"movie_id"`
	AddedAt time.Time `json:"added_at"`
}

// ViewEvent records that a user opened a movie's detail page. Recent views
// feed the because-you-liked recommendation seed.
type ViewEvent struct {
	UserID   string    `json:"user_id"`
	MovieID  int       `json:"movie_id"`
	ViewedAt time.Time `json:"viewed_at"`
}
