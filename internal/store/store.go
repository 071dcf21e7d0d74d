// Movie Recommender - Content-Based Movie Recommendation Service
// Copyright 2026 Chethan C. (CHETHANCHARMANNAPK)
// SPDX-License-Identifier: MIT
// https://github.com/CHETHANCHARMANNAPK/movie-recommender

// Package store persists user data in BadgerDB: accounts, ratings,
// watchlist entries, and view events. The movie catalog itself is never
// stored here; it lives in the engine's in-memory snapshot.
//
// Keys are prefix-namespaced strings:
//
//	user:<id>                      -> models.User
//	uname:<username>               -> user id
//	email:<email>                  -> user id
//	rating:<userID>:<movieID>      -> models.Rating
//	watch:<userID>:<movieID>       -> models.WatchlistEntry
//	view:<userID>:<reverse-nanos>  -> movie id
//
// View keys embed an inverted timestamp so a forward prefix scan yields
// most-recent-first without a sort.
package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
	json "github.com/goccy/go-json"

	"github.com/CHETHANCHARMANNAPK/movie-recommender/internal/logging"
	"github.com/CHETHANCHARMANNAPK/movie-recommender/internal/models"
)

const (
	userKeyPrefix     = "user:"
	usernameKeyPrefix = "uname:"
	emailKeyPrefix    = "email:"
	ratingKeyPrefix   = "rating:"
	watchKeyPrefix    = "watch:"
	viewKeyPrefix     = "view:"
)

// Sentinel errors surfaced to the API layer.
var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)

// Options configures the store backend.
type Options struct {
	// Path is the BadgerDB directory. Ignored when InMemory is set.
	Path string

	// InMemory runs Badger without persistence. Used in tests.
	InMemory bool
}

// Store is the BadgerDB-backed persistence layer.
type Store struct {
	db *badger.DB
}

// Open opens or creates the store.
func Open(opts Options) (*Store, error) {
	var badgerOpts badger.Options
	if opts.InMemory {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		badgerOpts = badger.DefaultOptions(opts.Path)
	}
	// Badger's own logger is noisy at INFO; route nothing through it and
	// log lifecycle events ourselves.
	badgerOpts = badgerOpts.WithLogger(nil)

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("opening badger store: %w", err)
	}
	log := logging.With().Str("component", "store").Logger()
	log.Info().Str("path", opts.Path).Bool("in_memory", opts.InMemory).Msg("Store opened")
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// userRecord is the on-disk shape of an account. models.User hides its
// PasswordHash from API serialization, so the store carries its own record
// with the hash tagged explicitly.
type userRecord struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	CreatedAt    time.Time `json:"created_at"`
	PasswordHash []byte    `json:"password_hash"`
}

func recordFromUser(user *models.User) *userRecord {
	return &userRecord{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		CreatedAt:    user.CreatedAt,
		PasswordHash: user.PasswordHash,
	}
}

func (r *userRecord) toUser() *models.User {
	return &models.User{
		ID:           r.ID,
		Username:     r.Username,
		Email:        r.Email,
		CreatedAt:    r.CreatedAt,
		PasswordHash: r.PasswordHash,
	}
}

// CreateUser stores a new account, enforcing username and email uniqueness.
// Returns ErrConflict when either is taken.
func (s *Store) CreateUser(_ context.Context, user *models.User) error {
	data, err := json.Marshal(recordFromUser(user))
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get([]byte(usernameKeyPrefix + user.Username)); err == nil {
			return fmt.Errorf("username %q: %w", user.Username, ErrConflict)
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if _, err := txn.Get([]byte(emailKeyPrefix + user.Email)); err == nil {
			return fmt.Errorf("email %q: %w", user.Email, ErrConflict)
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		if err := txn.Set([]byte(userKeyPrefix+user.ID), data); err != nil {
			return fmt.Errorf("set user: %w", err)
		}
		if err := txn.Set([]byte(usernameKeyPrefix+user.Username), []byte(user.ID)); err != nil {
			return fmt.Errorf("set username index: %w", err)
		}
		if err := txn.Set([]byte(emailKeyPrefix+user.Email), []byte(user.ID)); err != nil {
			return fmt.Errorf("set email index: %w", err)
		}
		return nil
	})
}

// UserByID fetches an account by id.
func (s *Store) UserByID(_ context.Context, id string) (*models.User, error) {
	var rec userRecord
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(userKeyPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("user %q: %w", id, ErrNotFound)
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil {
		return nil, err
	}
	return rec.toUser(), nil
}

// UserByName resolves a username to the account record.
func (s *Store) UserByName(ctx context.Context, username string) (*models.User, error) {
	var id string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(usernameKeyPrefix + username))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("username %q: %w", username, ErrNotFound)
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			id = string(val)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return s.UserByID(ctx, id)
}

// UpsertRating stores a user's score for a movie, overwriting any previous
// rating of the same movie.
func (s *Store) UpsertRating(_ context.Context, rating *models.Rating) error {
	data, err := json.Marshal(rating)
	if err != nil {
		return fmt.Errorf("marshal rating: %w", err)
	}
	key := ratingKey(rating.UserID, rating.MovieID)
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

// RatingFor returns one user's rating of one movie, or ErrNotFound.
func (s *Store) RatingFor(_ context.Context, userID string, movieID int) (*models.Rating, error) {
	var rating models.Rating
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(ratingKey(userID, movieID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rating)
		})
	})
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

// RatingsForUser returns all ratings by one user. Satisfies the engine's
// RatingSource contract.
func (s *Store) RatingsForUser(_ context.Context, userID string) ([]models.Rating, error) {
	prefix := []byte(ratingKeyPrefix + userID + ":")
	var ratings []models.Rating
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: prefix, PrefetchValues: true, PrefetchSize: 64})
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			var rating models.Rating
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rating)
			}); err != nil {
				return err
			}
			ratings = append(ratings, rating)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ratings, nil
}

// AddToWatchlist saves a movie for the user. Duplicate adds are no-ops;
// the return value tells the caller which case occurred.
func (s *Store) AddToWatchlist(_ context.Context, entry *models.WatchlistEntry) (bool, error) {
	key := watchKey(entry.UserID, entry.MovieID)
	data, err := json.Marshal(entry)
	if err != nil {
		return false, fmt.Errorf("marshal watchlist entry: %w", err)
	}

	added := false
	err = s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == nil {
			return nil // already present
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		added = true
		return txn.Set(key, data)
	})
	return added, err
}

// RemoveFromWatchlist deletes a saved movie. Reports whether it existed.
func (s *Store) RemoveFromWatchlist(_ context.Context, userID string, movieID int) (bool, error) {
	key := watchKey(userID, movieID)
	removed := false
	err := s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		removed = true
		return txn.Delete(key)
	})
	return removed, err
}

// Watchlist returns the user's saved movies.
func (s *Store) Watchlist(_ context.Context, userID string) ([]models.WatchlistEntry, error) {
	prefix := []byte(watchKeyPrefix + userID + ":")
	var entries []models.WatchlistEntry
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: prefix, PrefetchValues: true, PrefetchSize: 64})
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			var entry models.WatchlistEntry
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &entry)
			}); err != nil {
				return err
			}
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// InWatchlist reports whether the user has saved the movie.
func (s *Store) InWatchlist(_ context.Context, userID string, movieID int) (bool, error) {
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(watchKey(userID, movieID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	return found, err
}

// RecordView appends a view event for the user.
func (s *Store) RecordView(_ context.Context, view *models.ViewEvent) error {
	key := viewKey(view.UserID, view.ViewedAt)
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, []byte(strconv.Itoa(view.MovieID)))
	})
}

// RecentViews returns up to n distinct movie ids the user viewed, most
// recent first.
func (s *Store) RecentViews(_ context.Context, userID string, n int) ([]int, error) {
	prefix := []byte(viewKeyPrefix + userID + ":")
	var ids []int
	seen := make(map[int]struct{})
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: prefix, PrefetchValues: true, PrefetchSize: 64})
		defer it.Close()
		for it.Rewind(); it.Valid() && len(ids) < n; it.Next() {
			var id int
			if err := it.Item().Value(func(val []byte) error {
				var convErr error
				id, convErr = strconv.Atoi(string(val))
				return convErr
			}); err != nil {
				return err
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func ratingKey(userID string, movieID int) []byte {
	return []byte(ratingKeyPrefix + userID + ":" + strconv.Itoa(movieID))
}

func watchKey(userID string, movieID int) []byte {
	return []byte(watchKeyPrefix + userID + ":" + strconv.Itoa(movieID))
}

// viewKey inverts the timestamp so lexicographic order is newest-first.
func viewKey(userID string, at time.Time) []byte {
	inverted := ^uint64(at.UnixNano())
	return []byte(fmt.Sprintf("%s%s:%020d", viewKeyPrefix, userID, inverted))
}
