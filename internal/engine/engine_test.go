// Movie Recommender - Content-Based Movie Recommendation Service
// Copyright 2026 Chethan C. (CHETHANCHARMANNAPK)
// SPDX-License-Identifier: MIT
// https://github.com/CHETHANCHARMANNAPK/movie-recommender

package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/CHETHANCHARMANNAPK/movie-recommender/internal/models"
)

// testCorpus returns a small catalog with enough structure for similarity,
// filtering, and hybrid assertions. Popularity, votes, years, and runtimes
// are all distinct so orderings are unambiguous.
func testCorpus() []models.Movie {
	date := func(s string) time.Time {
		d, _ := time.Parse("2006-01-02", s)
		return d
	}
	return []models.Movie{
		{
			ID:    155,
			Title: "The Dark Knight",
			Overview:    "Batman raises the stakes in his war on crime in Gotham",
			Genres:      []string{"Action", "Crime", "Drama"},
			Keywords:    []string{"dc comics", "crime fighter", "gotham"},
			Cast:        []string{"Christian Bale", "Heath Ledger", "Aaron Eckhart"},
			Director:    "Christopher Nolan",
			ReleaseDate: date("2008-07-16"),
			Runtime:     152,
			Popularity:  187.3,
			VoteAverage: 8.5,
			VoteCount:   12002,
			Revenue:     1004558444,
		},
		{
			ID:    272,
			Title: "Batman Begins",
			Overview:    "Bruce Wayne becomes Batman to fight crime in Gotham",
			Genres:      []string{"Action", "Crime", "Drama"},
			Keywords:    []string{"dc comics", "crime fighter", "gotham"},
			Cast:        []string{"Christian Bale", "Michael Caine", "Liam Neeson"},
			Director:    "Christopher Nolan",
			ReleaseDate: date("2005-06-10"),
			Runtime:     140,
			Popularity:  115.0,
			VoteAverage: 7.7,
			VoteCount:   7511,
			Revenue:     374218673,
		},
		{
			ID:    27205,
			Title: "Inception",
			Overview:    "A thief who steals corporate secrets through dream sharing technology",
			Genres:      []string{"Action", "Science Fiction", "Adventure"},
			Keywords:    []string{"dream", "subconscious", "heist"},
			Cast:        []string{"Leonardo DiCaprio", "Joseph Gordon-Levitt"},
			Director:    "Christopher Nolan",
			ReleaseDate: date("2010-07-15"),
			Runtime:     148,
			Popularity:  167.6,
			VoteAverage: 8.1,
			VoteCount:   13752,
			Revenue:     825532764,
		},
		{
			ID:    900,
			Title: "The Notebook",
			Overview:    "A young man falls for a wealthy young woman",
			Genres:      []string{"Romance"},
			Keywords:    []string{"love letter", "summer love"},
			Cast:        []string{"Ryan Gosling", "Rachel McAdams"},
			Director:    "Nick Cassavetes",
			ReleaseDate: date("2004-06-25"),
			Runtime:     123,
			Popularity:  60.2,
			VoteAverage: 7.7,
			VoteCount:   3871,
			Revenue:     115603229,
		},
		{
			ID:    19404,
			Title: "Obscure Gem",
			Overview:    "A quiet film almost nobody voted on",
			Genres:      []string{"Drama"},
			Keywords:    []string{"quiet"},
			Cast:        []string{"Nobody Famous"},
			Director:    "Unknown Auteur",
			ReleaseDate: date("1995-10-20"),
			Runtime:     190,
			Popularity:  3.5,
			VoteAverage: 9.1,
			VoteCount:   12,
			Revenue:     100000,
		},
		{
			ID:    603,
			Title: "The Matrix",
			Overview:    "A computer hacker learns about the true nature of reality",
			Genres:      []string{"Action", "Science Fiction"},
			Keywords:    []string{"man vs machine", "simulated reality"},
			Cast:        []string{"Keanu Reeves", "Laurence Fishburne"},
			Director:    "Lana Wachowski",
			ReleaseDate: date("1999-03-30"),
			Runtime:     136,
			Popularity:  104.3,
			VoteAverage: 8.1,
			VoteCount:   12010,
			Revenue:     463517383,
		},
	}
}

// builtEngine returns an engine with the test corpus built and published.
func builtEngine(t *testing.T, ratings RatingSource) *Engine {
	t.Helper()
	e, err := New(DefaultConfig(), ratings)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Rebuild(context.Background(), testCorpus()); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	return e
}

// fakeRatings is an in-memory RatingSource.
type fakeRatings struct {
	byUser map[string][]models.Rating
	err    error
}

func (f *fakeRatings) RatingsForUser(_ context.Context, userID string) ([]models.Rating, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byUser[userID], nil
}

func TestQueriesFailFastBeforeFirstBuild(t *testing.T) {
	e, err := New(DefaultConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if e.State() != StateUninitialized {
		t.Errorf("initial state = %v, want uninitialized", e.State())
	}

	if _, err := e.GetMovie(155); !errors.Is(err, ErrUnavailable) {
		t.Errorf("GetMovie before build = %v, want ErrUnavailable", err)
	}
	if _, err := e.ListPopular(10, 0); !errors.Is(err, ErrUnavailable) {
		t.Errorf("ListPopular before build = %v, want ErrUnavailable", err)
	}
	if _, err := e.Recommend(155, 5); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Recommend before build = %v, want ErrUnavailable", err)
	}
}

func TestRebuildPublishesSnapshot(t *testing.T) {
	e := builtEngine(t, nil)

	if e.State() != StateReady {
		t.Errorf("state = %v, want ready", e.State())
	}
	st := e.Status()
	if st.SnapshotVersion != 1 {
		t.Errorf("version = %d, want 1", st.SnapshotVersion)
	}
	if st.Movies != len(testCorpus()) {
		t.Errorf("movies = %d, want %d", st.Movies, len(testCorpus()))
	}
	if st.VocabularySize == 0 || st.VocabularySize > DefaultConfig().Vectorizer.MaxFeatures {
		t.Errorf("vocabulary size %d out of bounds", st.VocabularySize)
	}
}

func TestFailedRebuildPreservesSnapshot(t *testing.T) {
	e := builtEngine(t, nil)

	err := e.Rebuild(context.Background(), nil)
	if !errors.Is(err, ErrEmptyCorpus) {
		t.Fatalf("empty rebuild error = %v, want ErrEmptyCorpus", err)
	}

	// Prior snapshot keeps serving.
	if e.State() != StateReady {
		t.Errorf("state after failed rebuild = %v, want ready", e.State())
	}
	if _, err := e.GetMovie(155); err != nil {
		t.Errorf("GetMovie after failed rebuild: %v", err)
	}
	if got := e.Status().SnapshotVersion; got != 1 {
		t.Errorf("version after failed rebuild = %d, want 1", got)
	}
	if e.Status().LastBuildError == "" {
		t.Error("failed rebuild must record an error in status")
	}
}

func TestFirstBuildFailureIsFailedState(t *testing.T) {
	e, err := New(DefaultConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Rebuild(context.Background(), nil); !errors.Is(err, ErrEmptyCorpus) {
		t.Fatalf("error = %v, want ErrEmptyCorpus", err)
	}
	if e.State() != StateFailed {
		t.Errorf("state = %v, want failed", e.State())
	}
	if _, err := e.GetMovie(155); !errors.Is(err, ErrUnavailable) {
		t.Errorf("query after failed first build = %v, want ErrUnavailable", err)
	}
}

func TestRebuildReplacesSnapshot(t *testing.T) {
	e := builtEngine(t, nil)

	smaller := testCorpus()[:3]
	if err := e.Rebuild(context.Background(), smaller); err != nil {
		t.Fatalf("second rebuild: %v", err)
	}

	st := e.Status()
	if st.SnapshotVersion != 2 {
		t.Errorf("version = %d, want 2", st.SnapshotVersion)
	}
	if st.Movies != 3 {
		t.Errorf("movies = %d, want 3", st.Movies)
	}
	if _, err := e.GetMovie(900); !errors.Is(err, ErrNotFound) {
		t.Errorf("movie dropped from corpus should be NotFound, got %v", err)
	}
}

func TestConcurrentReadsDuringRebuild(t *testing.T) {
	e := builtEngine(t, nil)

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				if _, err := e.ListPopular(5, 0); err != nil {
					t.Errorf("read during rebuild: %v", err)
					return
				}
				if _, err := e.Recommend(155, 5); err != nil && !errors.Is(err, ErrNotFound) {
					t.Errorf("recommend during rebuild: %v", err)
					return
				}
			}
		}()
	}

	for i := 0; i < 5; i++ {
		if err := e.Rebuild(context.Background(), testCorpus()); err != nil {
			t.Fatalf("rebuild %d: %v", i, err)
		}
	}
	close(stop)
	wg.Wait()
}

func TestRebuildCanceledContext(t *testing.T) {
	e, err := New(DefaultConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := e.Rebuild(ctx, testCorpus()); !errors.Is(err, ErrBuild) {
		t.Errorf("canceled rebuild = %v, want ErrBuild", err)
	}
	if e.Ready() {
		t.Error("canceled rebuild must not publish a snapshot")
	}
}

func TestInvalidConfigRejected(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"alpha out of range", func(c *Config) { c.Hybrid.Alpha = 2.0 }},
		{"zero min token length", func(c *Config) { c.Vectorizer.MinTokenLength = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if _, err := New(cfg, nil); err == nil {
				t.Error("expected config validation error")
			}
		})
	}
}
