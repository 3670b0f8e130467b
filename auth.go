// Copyright 2026 The Nagar Mitra Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package main

import (
	"errors"

	"github.com/tejaswee-06/Rubix-26/pkg/sessionstore"
)

// maxSessionsPerUser caps how many live sessions one vendor account can
// hold. Logins past the cap are rejected, not queued.
const maxSessionsPerUser = 5

var errSessionLimit = errors.New("session limit reached")

type authable interface {
	// checkPassword compares the provided pass for the user.
	// A non-nil error is returned if the passwords don't match
	// or the userId doesn't exist.
	checkPassword(userId string, pass string) error

	// trackSession records token as a live session for userId.
	// errSessionLimit is returned when the user is at the cap.
	trackSession(userId string, token string) error

	// findUserId resolves a session token to its user.
	findUserId(token string) (string, error)

	// invalidate drops every session a user holds (require them
	// to login again).
	invalidate(userId string) error
}

type auth struct {
	repo     userRepository
	sessions *sessionstore.Store
}

func (a *auth) checkPassword(userId string, pass string) error {
	u, err := a.repo.lookupById(userId)
	if err != nil {
		return err
	}
	return comparePassword(u.PasswordHash, pass)
}

func (a *auth) trackSession(userId string, token string) error {
	n, err := a.sessions.CountForUser(userId)
	if err != nil {
		return err
	}
	if n >= maxSessionsPerUser {
		return errSessionLimit
	}
	return a.sessions.Write(userId, token)
}

func (a *auth) findUserId(token string) (string, error) {
	return a.sessions.FindUserID(token)
}

func (a *auth) invalidate(userId string) error {
	return a.sessions.InvalidateUser(userId)
}
