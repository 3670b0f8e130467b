// Copyright 2026 The Nagar Mitra Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package main

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches what existing password hashes were generated with.
// Changing it only affects new hashes, bcrypt embeds the cost per-hash.
const bcryptCost = 12

// hashPassword derives a salted bcrypt hash from a plaintext password.
// The plaintext is never stored anywhere.
func hashPassword(pass string) (string, error) {
	if pass == "" {
		return "", errors.New("empty password")
	}
	bs, err := bcrypt.GenerateFromPassword([]byte(pass), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bs), nil
}

// comparePassword checks pass against a stored hash. A non-nil error
// means the password doesn't match (or the hash is garbage).
func comparePassword(hash, pass string) error {
	if hash == "" {
		return errors.New("empty password hash")
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pass))
}
