// Copyright 2026 The Nagar Mitra Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/gorilla/mux"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	RealName string `json:"realName"`
}

type registerResponse struct {
	UserID string `json:"userId"`
}

func addRegisterRoutes(router *mux.Router, logger log.Logger, auth authable, userService userRepository, dataDir string) {
	router.Methods("POST").Path("/api/register").HandlerFunc(registerRoute(logger, userService))
	router.Methods("DELETE").Path("/api/users/{userId}").HandlerFunc(deleteAccountRoute(logger, auth, userService, dataDir))
}

// createAccount builds and durably stores a new vendor account.
// The email must already be normalized by cleanEmail. errAccountExists
// is returned when the email is taken; in that case (and every other
// failure) nothing was persisted.
func createAccount(userService userRepository, email, password, realName string) (*User, error) {
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &User{
		ID:           generateUserID(),
		Email:        email,
		RealName:     cleanString(realName),
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	if err := userService.create(u); err != nil {
		return nil, err
	}
	return u, nil
}

func registerRoute(logger log.Logger, userService userRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Body == nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		bs, err := read(r.Body)
		if err != nil {
			internalError(w, err, "register")
			return
		}
		var signup registerRequest
		if err := json.Unmarshal(bs, &signup); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		email, err := cleanEmail(signup.Email)
		if err != nil {
			encodeError(w, http.StatusBadRequest, err)
			return
		}
		if signup.Password == "" {
			encodeError(w, http.StatusBadRequest, errors.New("Password is required"))
			return
		}

		u, err := createAccount(userService, email, signup.Password, signup.RealName)
		if err != nil {
			if err == errAccountExists {
				encodeError(w, http.StatusConflict, err)
				return
			}
			internalError(w, err, "register")
			return
		}

		registrations.With("method", "web").Add(1)
		logger.Log("register", fmt.Sprintf("created userId=%s", u.ID))
		writeJSON(w, http.StatusOK, registerResponse{UserID: u.ID})
	}
}

// deleteAccountRoute removes the account, its sessions and its uploads.
// Deleting an id that doesn't exist answers 200 all the same.
func deleteAccountRoute(logger log.Logger, auth authable, userService userRepository, dataDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userId := mux.Vars(r)["userId"]
		if userId == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		if err := userService.deleteById(userId); err != nil {
			internalError(w, err, "delete-account")
			return
		}
		if err := auth.invalidate(userId); err != nil {
			internalError(w, err, "delete-account")
			return
		}
		if err := removeUserUploads(dataDir, userId); err != nil {
			// account is already gone; log and report success anyway
			logger.Log("delete-account", err)
		}

		logger.Log("delete-account", fmt.Sprintf("deleted userId=%s", userId))
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
		})
	}
}
