// Movie Recommender - Content-Based Movie Recommendation Service
// Copyright 2026 Chethan C. (CHETHANCHARMANNAPK)
// SPDX-License-Identifier: MIT
// https://github.com/CHETHANCHARMANNAPK/movie-recommender

// Package models defines the shared data types used across the service:
// the movie catalog record, user-facing persistence records (users,
// ratings, watchlist entries, view events), and the standardized API
// response envelope.
//
// Types here are plain data with no behavior beyond small convenience
// methods; all business logic lives in internal/engine and internal/store.
package models
