// Movie Recommender - Content-Based Movie Recommendation Service
// Copyright 2026 Chethan C. (CHETHANCHARMANNAPK)
// SPDX-License-Identifier: MIT
// https://github.com/CHETHANCHARMANNAPK/movie-recommender

package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/CHETHANCHARMANNAPK/movie-recommender/internal/models"
)

func TestGetMovie(t *testing.T) {
	e := builtEngine(t, nil)

	m, err := e.GetMovie(155)
	if err != nil {
		t.Fatalf("GetMovie: %v", err)
	}
	if m.Title != "The Dark Knight" {
		t.Errorf("Title = %q", m.Title)
	}

	if _, err := e.GetMovie(424242); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown id = %v, want ErrNotFound", err)
	}
}

func TestListPopularOrdering(t *testing.T) {
	e := builtEngine(t, nil)

	page, err := e.ListPopular(10, 0)
	if err != nil {
		t.Fatalf("ListPopular: %v", err)
	}
	if page.Total != len(testCorpus()) {
		t.Errorf("Total = %d, want %d", page.Total, len(testCorpus()))
	}
	for i := 1; i < len(page.Movies); i++ {
		if page.Movies[i].Popularity > page.Movies[i-1].Popularity {
			t.Errorf("popularity not descending at %d", i)
		}
	}
	if page.Movies[0].ID != 155 {
		t.Errorf("most popular = %d, want 155", page.Movies[0].ID)
	}
}

func TestPaginationConsistency(t *testing.T) {
	e := builtEngine(t, nil)

	full, err := e.ListPopular(100, 0)
	if err != nil {
		t.Fatal(err)
	}

	// Walking the listing two at a time reproduces the full ordering with
	// no duplicates or gaps.
	var walked []models.Movie
	for offset := 0; offset < full.Total; offset += 2 {
		page, err := e.ListPopular(2, offset)
		if err != nil {
			t.Fatalf("offset %d: %v", offset, err)
		}
		walked = append(walked, page.Movies...)
	}

	if len(walked) != len(full.Movies) {
		t.Fatalf("walked %d movies, want %d", len(walked), len(full.Movies))
	}
	for i := range walked {
		if walked[i].ID != full.Movies[i].ID {
			t.Errorf("position %d: walked %d, full %d", i, walked[i].ID, full.Movies[i].ID)
		}
	}
}

func TestListPopularOffsetBeyondEnd(t *testing.T) {
	e := builtEngine(t, nil)
	page, err := e.ListPopular(10, 1000)
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Movies) != 0 {
		t.Errorf("got %d movies past the end, want 0", len(page.Movies))
	}
	if page.Total != len(testCorpus()) {
		t.Errorf("Total = %d must be independent of offset", page.Total)
	}
}

func TestListTopRatedVoteFloor(t *testing.T) {
	e := builtEngine(t, nil)

	// Obscure Gem has the best average (9.1) but only 12 votes.
	page, err := e.ListTopRated(10, 0, -1)
	if err != nil {
		t.Fatal(err)
	}
	for _, m := range page.Movies {
		if m.ID == 19404 {
			t.Error("movie below the vote floor leaked into top-rated")
		}
	}
	if page.Movies[0].ID != 155 {
		t.Errorf("top rated = %d, want 155", page.Movies[0].ID)
	}

	// Dropping the floor lets it through, at the top.
	page, err = e.ListTopRated(10, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if page.Movies[0].ID != 19404 {
		t.Errorf("with floor 0, top rated = %d, want 19404", page.Movies[0].ID)
	}
}

func TestSearch(t *testing.T) {
	e := builtEngine(t, nil)

	tests := []struct {
		query     string
		wantIDs   []int
		wantTotal int
	}{
		{"inception", []int{27205}, 1},
		{"THE", []int{155, 603, 900}, 3}, // ranked by popularity
		{"batman", []int{272}, 1},
		{"zzzz", []int{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			page, err := e.Search(tt.query, 10, 0)
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			if page.Total != tt.wantTotal {
				t.Errorf("Total = %d, want %d", page.Total, tt.wantTotal)
			}
			if len(page.Movies) != len(tt.wantIDs) {
				t.Fatalf("got %d movies, want %d", len(page.Movies), len(tt.wantIDs))
			}
			for i, want := range tt.wantIDs {
				if page.Movies[i].ID != want {
					t.Errorf("result %d = %d, want %d", i, page.Movies[i].ID, want)
				}
			}
		})
	}
}

func TestSearchTotalIndependentOfPage(t *testing.T) {
	e := builtEngine(t, nil)
	page, err := e.Search("the", 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 3 || len(page.Movies) != 1 {
		t.Errorf("Total = %d len = %d, want 3 and 1", page.Total, len(page.Movies))
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	e := builtEngine(t, nil)
	if _, err := e.Search("   ", 10, 0); !errors.Is(err, ErrValidation) {
		t.Errorf("empty query = %v, want ErrValidation", err)
	}
}

func TestFilterANDSemantics(t *testing.T) {
	e := builtEngine(t, nil)
	minRating := 8.0

	filtered, err := e.Filter(FilterParams{Genre: "Action", MinRating: &minRating})
	if err != nil {
		t.Fatal(err)
	}
	for _, m := range filtered.Movies {
		if !m.HasGenre("Action") {
			t.Errorf("movie %d lacks Action genre", m.ID)
		}
		if m.VoteAverage < minRating {
			t.Errorf("movie %d rating %g below floor", m.ID, m.VoteAverage)
		}
	}

	// Removing a criterion never shrinks the result set.
	wider, err := e.Filter(FilterParams{Genre: "Action"})
	if err != nil {
		t.Fatal(err)
	}
	if wider.Total < filtered.Total {
		t.Errorf("dropping a filter shrank results: %d < %d", wider.Total, filtered.Total)
	}
}

func TestFilterYearAndRuntime(t *testing.T) {
	e := builtEngine(t, nil)
	yearFrom, yearTo := 2005, 2010
	maxRuntime := 150

	page, err := e.Filter(FilterParams{YearFrom: &yearFrom, YearTo: &yearTo, MaxRuntime: &maxRuntime})
	if err != nil {
		t.Fatal(err)
	}
	for _, m := range page.Movies {
		if y := m.Year(); y < yearFrom || y > yearTo {
			t.Errorf("movie %d year %d outside range", m.ID, y)
		}
		if m.Runtime > maxRuntime {
			t.Errorf("movie %d runtime %d above cap", m.ID, m.Runtime)
		}
	}
	// Batman Begins (2005, 140min) and Inception (2010, 148min) qualify;
	// The Dark Knight (152min) does not.
	if page.Total != 2 {
		t.Errorf("Total = %d, want 2", page.Total)
	}
}

func TestFilterSorting(t *testing.T) {
	e := builtEngine(t, nil)

	tests := []struct {
		name    string
		params  FilterParams
		firstID int
	}{
		{"revenue desc", FilterParams{SortBy: "revenue", Order: "desc"}, 155},
		{"release asc", FilterParams{SortBy: "release_date", Order: "asc"}, 19404},
		{"title asc", FilterParams{SortBy: "title", Order: "asc"}, 272},
		{"rating desc", FilterParams{SortBy: "rating", Order: "desc"}, 19404},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := e.Filter(tt.params)
			if err != nil {
				t.Fatal(err)
			}
			if page.Movies[0].ID != tt.firstID {
				t.Errorf("first = %d, want %d", page.Movies[0].ID, tt.firstID)
			}
		})
	}
}

func TestFilterValidation(t *testing.T) {
	e := builtEngine(t, nil)

	if _, err := e.Filter(FilterParams{SortBy: "vibes"}); !errors.Is(err, ErrValidation) {
		t.Errorf("unknown sort field = %v, want ErrValidation", err)
	}
	if _, err := e.Filter(FilterParams{Order: "sideways"}); !errors.Is(err, ErrValidation) {
		t.Errorf("unknown order = %v, want ErrValidation", err)
	}
	if _, err := e.Filter(FilterParams{Limit: -1}); !errors.Is(err, ErrValidation) {
		t.Errorf("negative limit = %v, want ErrValidation", err)
	}
	if _, err := e.ListPopular(10, -5); !errors.Is(err, ErrValidation) {
		t.Errorf("negative offset = %v, want ErrValidation", err)
	}
}

func TestGenres(t *testing.T) {
	e := builtEngine(t, nil)
	genres, err := e.Genres()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Action", "Adventure", "Crime", "Drama", "Romance", "Science Fiction"}
	if len(genres) != len(want) {
		t.Fatalf("genres = %v, want %v", genres, want)
	}
	for i := range want {
		if genres[i] != want[i] {
			t.Errorf("genres[%d] = %q, want %q (sorted)", i, genres[i], want[i])
		}
	}
}

func TestRecommendDarkKnightScenario(t *testing.T) {
	e := builtEngine(t, nil)

	results, err := e.Recommend(155, 5)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("no recommendations for The Dark Knight")
	}

	var batmanSim, notebookSim float64
	batmanFound := false
	for _, r := range results {
		switch r.ID {
		case 272:
			batmanSim = r.Similarity
			batmanFound = true
		case 900:
			notebookSim = r.Similarity
		}
		if r.ID == 155 {
			t.Error("recommendation includes the query movie itself")
		}
		if r.Similarity < 0 || r.Similarity > 100 {
			t.Errorf("similarity %g outside [0,100]", r.Similarity)
		}
	}
	if !batmanFound {
		t.Fatal("Batman Begins missing from The Dark Knight's recommendations")
	}
	if batmanSim <= notebookSim {
		t.Errorf("sim(Batman Begins)=%g must exceed sim(The Notebook)=%g", batmanSim, notebookSim)
	}
}

func TestRecommendUnknownMovie(t *testing.T) {
	e := builtEngine(t, nil)
	if _, err := e.Recommend(424242, 5); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown movie = %v, want ErrNotFound", err)
	}
}

func TestRecommendLimit(t *testing.T) {
	e := builtEngine(t, nil)
	results, err := e.Recommend(155, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) > 2 {
		t.Errorf("got %d results, want <= 2", len(results))
	}
}

func TestRecommendHybrid(t *testing.T) {
	now := time.Now()
	ratings := &fakeRatings{byUser: map[string][]models.Rating{
		"alice": {
			{UserID: "alice", MovieID: 155, Score: 5, UpdatedAt: now},
			{UserID: "alice", MovieID: 900, Score: 2, UpdatedAt: now.Add(-time.Hour)},
		},
	}}
	e := builtEngine(t, ratings)

	result, err := e.RecommendHybrid(context.Background(), "alice", 5)
	if err != nil {
		t.Fatalf("RecommendHybrid: %v", err)
	}
	if result.SeedTitle != "The Dark Knight" {
		t.Errorf("SeedTitle = %q, want The Dark Knight", result.SeedTitle)
	}
	for _, m := range result.Movies {
		if m.ID == 155 {
			t.Error("seed movie included in hybrid results")
		}
		if m.ID == 900 {
			t.Error("already-rated movie included in hybrid results")
		}
		if m.HybridScore < 0 || m.HybridScore > 1 {
			t.Errorf("hybrid score %g outside [0,1]", m.HybridScore)
		}
	}
	for i := 1; i < len(result.Movies); i++ {
		if result.Movies[i].HybridScore > result.Movies[i-1].HybridScore {
			t.Errorf("hybrid scores not descending at %d", i)
		}
	}
	// Batman Begins shares director, genres, and keywords with the seed;
	// it must rank first.
	if len(result.Movies) == 0 || result.Movies[0].ID != 272 {
		t.Errorf("top hybrid pick = %v, want Batman Begins", result.Movies)
	}
}

func TestRecommendHybridNoLikedRatings(t *testing.T) {
	ratings := &fakeRatings{byUser: map[string][]models.Rating{
		"bob": {
			{UserID: "bob", MovieID: 155, Score: 2, UpdatedAt: time.Now()},
			{UserID: "bob", MovieID: 900, Score: 3, UpdatedAt: time.Now()},
		},
	}}
	e := builtEngine(t, ratings)

	result, err := e.RecommendHybrid(context.Background(), "bob", 5)
	if err != nil {
		t.Fatalf("RecommendHybrid: %v", err)
	}
	if result.SeedTitle != "" {
		t.Errorf("SeedTitle = %q, want empty when nothing qualifies", result.SeedTitle)
	}
	if len(result.Movies) != 0 {
		t.Errorf("got %d movies, want empty result", len(result.Movies))
	}
}

func TestRecommendHybridNoRatingsAtAll(t *testing.T) {
	e := builtEngine(t, &fakeRatings{byUser: map[string][]models.Rating{}})
	result, err := e.RecommendHybrid(context.Background(), "ghost", 5)
	if err != nil {
		t.Fatal(err)
	}
	if result.SeedTitle != "" || len(result.Movies) != 0 {
		t.Errorf("unrated user must get an empty result, got %+v", result)
	}
}

func TestRecommendHybridSeedTieBreaksByRecency(t *testing.T) {
	now := time.Now()
	ratings := &fakeRatings{byUser: map[string][]models.Rating{
		"carol": {
			{UserID: "carol", MovieID: 603, Score: 5, UpdatedAt: now.Add(-time.Hour)},
			{UserID: "carol", MovieID: 27205, Score: 5, UpdatedAt: now},
		},
	}}
	e := builtEngine(t, ratings)

	result, err := e.RecommendHybrid(context.Background(), "carol", 5)
	if err != nil {
		t.Fatal(err)
	}
	if result.SeedTitle != "Inception" {
		t.Errorf("SeedTitle = %q, want the most recent of the tied ratings", result.SeedTitle)
	}
}
