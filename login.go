// Copyright 2026 The Nagar Mitra Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.
package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/gorilla/mux"
	"golang.org/x/time/rate"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	UserID string `json:"userId"`
}

// loginLimiter throttles login attempts per (normalized) email so
// password guessing can't hammer bcrypt. Entries idle for an hour are
// dropped by a background sweep.
type loginLimiter struct {
	mu       sync.Mutex
	limiters map[string]*loginLimiterEntry

	rate  rate.Limit
	burst int

	done chan struct{}
}

type loginLimiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newLoginLimiter() *loginLimiter {
	l := &loginLimiter{
		limiters: make(map[string]*loginLimiterEntry),
		rate:     rate.Limit(5.0 / 60.0), // 5 attempts/min
		burst:    5,
		done:     make(chan struct{}),
	}
	go l.cleanup()
	return l
}

func (l *loginLimiter) allow(email string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.limiters[email]
	if !ok {
		e = &loginLimiterEntry{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.limiters[email] = e
	}
	e.lastSeen = time.Now()
	return e.limiter.Allow()
}

func (l *loginLimiter) cleanup() {
	tick := time.NewTicker(5 * time.Minute)
	defer tick.Stop()
	for {
		select {
		case <-tick.C:
			cutoff := time.Now().Add(-1 * time.Hour)
			l.mu.Lock()
			for k, e := range l.limiters {
				if e.lastSeen.Before(cutoff) {
					delete(l.limiters, k)
				}
			}
			l.mu.Unlock()
		case <-l.done:
			return
		}
	}
}

func (l *loginLimiter) stop() {
	close(l.done)
}

func addLoginRoutes(router *mux.Router, logger log.Logger, auth authable, userService userRepository, limiter *loginLimiter) {
	router.Methods("POST").Path("/api/login").HandlerFunc(loginRoute(logger, auth, userService, limiter))
}

func loginRoute(logger log.Logger, auth authable, userService userRepository, limiter *loginLimiter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Body == nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		bs, err := read(r.Body)
		if err != nil {
			internalError(w, err, "login")
			return
		}

		// read request body
		var login loginRequest
		if err := json.Unmarshal(bs, &login); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		// Mark failures from here on as auth failures because the
		// user's credentials are involved at this point. Otherwise
		// it's their developer's problem (i.e. bad json).
		email, err := cleanEmail(login.Email)
		if err != nil {
			authFailures.With("method", "web").Add(1)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		password := cleanString(login.Password)

		if !limiter.allow(email) {
			authFailures.With("method", "web").Add(1)
			http.Error(w, "Too many login attempts", http.StatusTooManyRequests)
			return
		}

		// find user by email
		u, err := userService.lookupByEmail(email)
		if err != nil {
			authFailures.With("method", "web").Add(1)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		// check the password against the stored hash
		if err := auth.checkPassword(u.ID, password); err != nil {
			authFailures.With("method", "web").Add(1)
			logger.Log("login", fmt.Sprintf("userId=%s failed: %v", u.ID, err))
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		// success route, let's finish!
		cookie, err := createCookie(u.ID, auth)
		if err != nil {
			if err == errSessionLimit {
				authFailures.With("method", "web").Add(1)
				http.Error(w, "Session rejected", http.StatusForbidden)
				return
			}
			internalError(w, err, "login")
			return
		}

		authSuccesses.With("method", "web").Add(1)
		http.SetCookie(w, cookie)
		writeJSON(w, http.StatusOK, loginResponse{UserID: u.ID})
	}
}
