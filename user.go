// Copyright 2026 The Nagar Mitra Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package main

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
)

var (
	errAccountExists = errors.New("Account already exists")
	errNoUserFound   = errors.New("no user found")
)

// User is a registered vendor account. PasswordHash never leaves the
// process: responses carry only the id (and profile fields).
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	RealName     string    `json:"realName"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// generateID creates a new opaque token for our session system.
// Do not assume anything about these other than they are strings.
// Case matters.
func generateID() string {
	bs := make([]byte, 20)
	n, err := rand.Read(bs)
	if err != nil || n == 0 {
		logger.Log("generateID", fmt.Sprintf("n=%d, err=%v", n, err))
		return ""
	}
	return strings.ToLower(hex.EncodeToString(bs))
}

// generateUserID creates the id for a new account. Unlike session
// tokens these end up in URLs and foreign systems, so use a uuid.
func generateUserID() string {
	return uuid.NewString()
}

type userRepository interface {
	lookupById(id string) (*User, error)

	// lookupByEmail finds a user by the given email address.
	// Callers are expected to normalize with cleanEmail first.
	lookupByEmail(email string) (*User, error)

	// create inserts a new user. errAccountExists is returned when
	// another account already holds the same email. The uniqueness
	// check and the insert are one atomic statement, so two concurrent
	// registrations for the same email cannot both succeed.
	create(u *User) error

	// deleteById removes a user. Deleting an absent id is a no-op.
	deleteById(id string) error

	close() error
}

type sqliteUserRepository struct {
	db *sql.DB
}

func (r *sqliteUserRepository) lookupById(id string) (*User, error) {
	row := r.db.QueryRow(`select user_id, email, real_name, password_hash, created_at from users where user_id = ?`, id)
	return scanUser(row)
}

func (r *sqliteUserRepository) lookupByEmail(email string) (*User, error) {
	row := r.db.QueryRow(`select user_id, email, real_name, password_hash, created_at from users where email = ?`, email)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*User, error) {
	u := &User{}
	err := row.Scan(&u.ID, &u.Email, &u.RealName, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errNoUserFound
		}
		return nil, err
	}
	return u, nil
}

func (r *sqliteUserRepository) create(u *User) error {
	_, err := r.db.Exec(`insert into users (user_id, email, real_name, password_hash, created_at) values (?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.RealName, u.PasswordHash, u.CreatedAt)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return errAccountExists
		}
		return err
	}
	return nil
}

func (r *sqliteUserRepository) deleteById(id string) error {
	_, err := r.db.Exec(`delete from users where user_id = ?`, id)
	return err
}

func (r *sqliteUserRepository) close() error {
	return r.db.Close()
}
