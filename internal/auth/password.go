// Movie Recommender - Content-Based Movie Recommendation Service
// Copyright 2026 Chethan C. (CHETHANCHARMANNAPK)
// SPDX-License-Identifier: MIT
// https://github.com/CHETHANCHARMANNAPK/movie-recommender

package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned when a password does not match the
// stored hash. Callers should not distinguish this from an unknown user
// in responses.
var ErrInvalidCredentials = errors.New("invalid credentials")

// bcrypt rejects passwords longer than 72 bytes.
const maxPasswordLength = 72

// HashPassword derives a bcrypt hash at the default cost.
func HashPassword(password string) ([]byte, error) {
	if len(password) > maxPasswordLength {
		return nil, fmt.Errorf("password exceeds %d bytes", maxPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return hash, nil
}

// CheckPassword compares a candidate password against a stored hash.
func CheckPassword(hash []byte, password string) error {
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
