// Movie Recommender - Content-Based Movie Recommendation Service
// Copyright 2026 Chethan C. (CHETHANCHARMANNAPK)
// SPDX-License-Identifier: MIT
// https://github.com/CHETHANCHARMANNAPK/movie-recommender

package engine

import (
	"errors"
	"fmt"
)

// Kind classifies engine errors so callers can map them to transport
// semantics without string matching.
type Kind int

const (
	// KindNotFound marks an unknown movie or user id. Surfaced to the
	// caller, never retried.
	KindNotFound Kind = iota + 1

	// KindValidation marks malformed query parameters, rejected before
	// the snapshot is touched.
	KindValidation

	// KindEmptyCorpus marks a rebuild attempted over zero usable movies.
	KindEmptyCorpus

	// KindBuild marks any other rebuild failure. The prior snapshot, if
	// any, keeps serving.
	KindBuild

	// KindUnavailable marks a query that arrived before any snapshot was
	// ever built.
	KindUnavailable
)

// String returns the machine-readable code for the kind, matching the
// API error codes.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NOT_FOUND"
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindEmptyCorpus:
		return "EMPTY_CORPUS"
	case KindBuild:
		return "BUILD_ERROR"
	case KindUnavailable:
		return "SERVICE_UNAVAILABLE"
	default:
		return "UNKNOWN"
	}
}

// Error is a structured engine error: a kind plus a human-readable reason.
// Errors are never used for expected control flow; an empty recommendation
// list is a valid result, not an error.
type Error struct {
	Kind   Kind
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches errors of the same kind, so sentinel comparisons like
// errors.Is(err, ErrNotFound) work regardless of the reason text.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels for errors.Is checks.
var (
	ErrNotFound    = &Error{Kind: KindNotFound, Reason: "not found"}
	ErrValidation  = &Error{Kind: KindValidation, Reason: "invalid parameters"}
	ErrEmptyCorpus = &Error{Kind: KindEmptyCorpus, Reason: "empty corpus"}
	ErrBuild       = &Error{Kind: KindBuild, Reason: "build failed"}
	ErrUnavailable = &Error{Kind: KindUnavailable, Reason: "no model snapshot available"}
)

func notFoundf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Reason: fmt.Sprintf(format, args...)}
}

func validationf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Reason: fmt.Sprintf(format, args...)}
}

func buildErr(reason string, err error) *Error {
	return &Error{Kind: KindBuild, Reason: reason, Err: err}
}

// KindOf extracts the Kind from an error chain, or 0 when the chain holds
// no engine error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
