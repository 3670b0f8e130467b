// Copyright 2026 The Nagar Mitra Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

// Package sessionstore keeps live login sessions in BuntDB
// (https://github.com/tidwall/buntdb). Each record maps an opaque
// session token to a user id and expires on its own via TTL, so
// logouts that never happen don't pile up on disk.
package sessionstore

import (
	"errors"
	"fmt"
	"time"

	"github.com/tidwall/buntdb"
)

var (
	// DefaultTTL is how long a session lives without an explicit logout.
	DefaultTTL time.Duration = 30 * 24 * time.Hour

	// ErrNoSession is returned when a token isn't (or is no longer) tracked.
	ErrNoSession = errors.New("session not found")
)

func New(path string) (*Store, error) {
	db, err := buntdb.Open(path)
	if err != nil {
		return nil, err
	}
	return &Store{
		db:  db,
		ttl: DefaultTTL,
	}, nil
}

type Store struct {
	db  *buntdb.DB
	ttl time.Duration
}

func (s *Store) Close() error {
	return s.db.Close()
}

func sessionKey(token string) string {
	return fmt.Sprintf("session:%s", token)
}

// Write records token as a live session for userId.
func (s *Store) Write(userId, token string) error {
	if userId == "" || token == "" {
		return errors.New("sessionstore: empty userId or token")
	}
	err := s.db.Update(func(tx *buntdb.Tx) error {
		opts := &buntdb.SetOptions{
			Expires: s.ttl > 0,
			TTL:     s.ttl,
		}
		_, _, err := tx.Set(sessionKey(token), userId, opts)
		return err
	})
	if err != nil {
		return fmt.Errorf("problem writing session for userId=%s: %v", userId, err)
	}
	return nil
}

// FindUserID resolves a session token back to the user holding it.
func (s *Store) FindUserID(token string) (string, error) {
	var userId string
	err := s.db.View(func(tx *buntdb.Tx) error {
		v, err := tx.Get(sessionKey(token))
		if err != nil {
			return err
		}
		userId = v
		return nil
	})
	if err != nil {
		if errors.Is(err, buntdb.ErrNotFound) {
			return "", ErrNoSession
		}
		return "", fmt.Errorf("problem reading session: %v", err)
	}
	return userId, nil
}

// CountForUser reports how many live sessions userId holds.
func (s *Store) CountForUser(userId string) (int, error) {
	count := 0
	err := s.db.View(func(tx *buntdb.Tx) error {
		return tx.AscendKeys("session:*", func(key, value string) bool {
			if value == userId {
				count++
			}
			return true
		})
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// InvalidateUser drops every session userId holds. Unknown users are a no-op.
func (s *Store) InvalidateUser(userId string) error {
	return s.db.Update(func(tx *buntdb.Tx) error {
		var keys []string
		err := tx.AscendKeys("session:*", func(key, value string) bool {
			if value == userId {
				keys = append(keys, key)
			}
			return true
		})
		if err != nil {
			return err
		}
		for i := range keys {
			if _, err := tx.Delete(keys[i]); err != nil {
				return err
			}
		}
		return nil
	})
}
