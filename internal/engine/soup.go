// Movie Recommender - Content-Based Movie Recommendation Service
// Copyright 2026 Chethan C. (CHETHANCHARMANNAPK)
// SPDX-License-Identifier: MIT
// https://github.com/CHETHANCHARMANNAPK/movie-recommender

package engine

import (
	"strings"

	"github.com/CHETHANCHARMANNAPK/movie-recommender/internal/models"
)

// maxSoupCast bounds how many billed cast members feed the soup.
const maxSoupCast = 5

// buildSoup assembles the feature soup for one movie: genres, keywords, the
// first five cast names, the director, then the overview, lowercased and
// space-separated. Multi-word field entries are collapsed into single tokens
// ("Science Fiction" -> "sciencefiction") so they stay distinct from
// incidental overview words. Missing fields contribute nothing.
//
// Pure function of the movie record; the result is discarded after
// vectorization.
func buildSoup(m *models.Movie) string {
	var b strings.Builder
	b.Grow(len(m.Overview) + 128)

	appendToken := func(s string) {
		tok := collapseToken(s)
		if tok == "" {
			return
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(tok)
	}

	for _, g := range m.Genres {
		appendToken(g)
	}
	for _, k := range m.Keywords {
		appendToken(k)
	}
	cast := m.Cast
	if len(cast) > maxSoupCast {
		cast = cast[:maxSoupCast]
	}
	for _, c := range cast {
		appendToken(c)
	}
	appendToken(m.Director)

	if overview := strings.TrimSpace(m.Overview); overview != "" {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strings.ToLower(overview))
	}

	return b.String()
}

// collapseToken lowercases a field entry and strips internal whitespace.
func collapseToken(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if !strings.ContainsAny(s, " \t") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r != ' ' && r != '\t' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
