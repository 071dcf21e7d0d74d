// Movie Recommender - Content-Based Movie Recommendation Service
// Copyright 2026 Chethan C. (CHETHANCHARMANNAPK)
// SPDX-License-Identifier: MIT
// https://github.com/CHETHANCHARMANNAPK/movie-recommender

// Package corpus loads the TMDB 5000 dataset into catalog records.
//
// The dataset ships as two CSV files: tmdb_5000_movies.csv with the movie
// metadata and tmdb_5000_credits.csv with cast and crew listings. Several
// columns are JSON-encoded arrays (genres, keywords, cast, crew); the loader
// parses them once at load time so the engine never touches raw JSON.
//
// Malformed rows are skipped and counted, never fatal. A dataset with a few
// bad rows still yields a usable catalog.
package corpus

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/CHETHANCHARMANNAPK/movie-recommender/internal/logging"
	"github.com/CHETHANCHARMANNAPK/movie-recommender/internal/models"
)

// LoadResult is the outcome of a corpus load.
type LoadResult struct {
	// Movies is the joined catalog, in movies-file order.
	Movies []models.Movie

	// SkippedMovies counts movie rows dropped for parse errors.
	SkippedMovies int

	// SkippedCredits counts credit rows dropped for parse errors.
	SkippedCredits int

	// UnmatchedCredits counts credit rows whose title had no movie row.
	UnmatchedCredits int
}

// Loader reads and joins the two dataset files.
type Loader struct {
	moviesPath  string
	creditsPath string
}

// NewLoader returns a Loader for the given dataset file paths.
func NewLoader(moviesPath, creditsPath string) *Loader {
	return &Loader{moviesPath: moviesPath, creditsPath: creditsPath}
}

// Load reads both files and returns the joined catalog. Credits are joined
// to movies by title; movies without credits keep empty cast and director.
// Returns an error only when a file cannot be opened or has no header.
func (l *Loader) Load() (*LoadResult, error) {
	log := logging.With().Str("component", "corpus").Logger()

	movies, skippedMovies, err := l.loadMovies()
	if err != nil {
		return nil, fmt.Errorf("loading movies file: %w", err)
	}

	credits, skippedCredits, err := l.loadCredits()
	if err != nil {
		return nil, fmt.Errorf("loading credits file: %w", err)
	}

	// Title join, matching the dataset's published schema. Duplicate titles
	// resolve to the last credits row seen, same as the dataset's own join.
	byTitle := make(map[string]*creditRecord, len(credits))
	for i := range credits {
		byTitle[credits[i].title] = &credits[i]
	}

	unmatched := 0
	matched := 0
	for i := range movies {
		cr, ok := byTitle[movies[i].Title]
		if !ok {
			continue
		}
		movies[i].Cast = cr.cast
		movies[i].Director = cr.director
		matched++
	}
	unmatched = len(credits) - matched
	if unmatched < 0 {
		unmatched = 0
	}

	log.Info().
		Int("movies", len(movies)).
		Int("skipped_movies", skippedMovies).
		Int("skipped_credits", skippedCredits).
		Int("unmatched_credits", unmatched).
		Msg("Corpus loaded")

	return &LoadResult{
		Movies:           movies,
		SkippedMovies:    skippedMovies,
		SkippedCredits:   skippedCredits,
		UnmatchedCredits: unmatched,
	}, nil
}

// namedEntity is the {"id": n, "name": s} shape used by the JSON columns.
type namedEntity struct {
	Name string `json:"name"`
}

// crewEntry is one crew listing; only the director is extracted.
type crewEntry struct {
	Job  string `json:"job"`
	Name string `json:"name"`
}

type creditRecord struct {
	title    string
	cast     []string
	director string
}

func (l *Loader) loadMovies() ([]models.Movie, int, error) {
	f, err := os.Open(l.moviesPath)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("reading header: %w", err)
	}
	col := indexColumns(header)
	for _, required := range []string{"id", "title"} {
		if _, ok := col[required]; !ok {
			return nil, 0, fmt.Errorf("movies file missing %q column", required)
		}
	}

	var movies []models.Movie
	skipped := 0
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}

		m, err := parseMovieRow(row, col)
		if err != nil {
			skipped++
			continue
		}
		movies = append(movies, m)
	}

	return movies, skipped, nil
}

func parseMovieRow(row []string, col map[string]int) (models.Movie, error) {
	get := func(name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	id, err := strconv.Atoi(strings.TrimSpace(get("id")))
	if err != nil {
		return models.Movie{}, fmt.Errorf("bad id %q: %w", get("id"), err)
	}
	title := strings.TrimSpace(get("title"))
	if title == "" {
		return models.Movie{}, fmt.Errorf("movie %d has empty title", id)
	}

	m := models.Movie{
		ID:       id,
		Title:    title,
		Overview: get("overview"),
		Tagline:  get("tagline"),
		Genres:   parseNames(get("genres")),
		Keywords: parseNames(get("keywords")),
		Language: get("original_language"),
	}

	// Numeric columns default to zero on parse failure; a bad popularity
	// value is not worth dropping the row over.
	m.Popularity, _ = strconv.ParseFloat(get("popularity"), 64)
	m.VoteAverage, _ = strconv.ParseFloat(get("vote_average"), 64)
	m.VoteCount, _ = strconv.Atoi(get("vote_count"))
	m.Revenue, _ = strconv.ParseInt(get("revenue"), 10, 64)
	m.Budget, _ = strconv.ParseInt(get("budget"), 10, 64)
	if runtime, err := strconv.ParseFloat(get("runtime"), 64); err == nil {
		m.Runtime = int(runtime)
	}
	if d, err := time.Parse("2006-01-02", get("release_date")); err == nil {
		m.ReleaseDate = d
	}

	return m, nil
}

func (l *Loader) loadCredits() ([]creditRecord, int, error) {
	f, err := os.Open(l.creditsPath)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("reading header: %w", err)
	}
	col := indexColumns(header)
	for _, required := range []string{"title", "cast", "crew"} {
		if _, ok := col[required]; !ok {
			return nil, 0, fmt.Errorf("credits file missing %q column", required)
		}
	}

	var credits []creditRecord
	skipped := 0
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}

		get := func(name string) string {
			i := col[name]
			if i >= len(row) {
				return ""
			}
			return row[i]
		}

		title := strings.TrimSpace(get("title"))
		if title == "" {
			skipped++
			continue
		}

		credits = append(credits, creditRecord{
			title:    title,
			cast:     parseCast(get("cast")),
			director: parseDirector(get("crew")),
		})
	}

	return credits, skipped, nil
}

// parseNames decodes a JSON array of {"name": ...} objects into names.
// Malformed JSON yields nil; the row survives with the field empty.
func parseNames(raw string) []string {
	if raw == "" || raw == "[]" {
		return nil
	}
	var entities []namedEntity
	if err := json.Unmarshal([]byte(raw), &entities); err != nil {
		return nil
	}
	names := make([]string, 0, len(entities))
	for _, e := range entities {
		if e.Name != "" {
			names = append(names, e.Name)
		}
	}
	if len(names) == 0 {
		return nil
	}
	return names
}

// parseCast decodes the cast column, preserving billing order.
func parseCast(raw string) []string {
	return parseNames(raw)
}

// parseDirector scans the crew column for the first Director entry.
func parseDirector(raw string) string {
	if raw == "" || raw == "[]" {
		return ""
	}
	var crew []crewEntry
	if err := json.Unmarshal([]byte(raw), &crew); err != nil {
		return ""
	}
	for _, c := range crew {
		if c.Job == "Director" {
			return c.Name
		}
	}
	return ""
}

// indexColumns maps lowercased header names to their positions.
func indexColumns(header []string) map[string]int {
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return col
}
