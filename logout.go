// Copyright 2026 The Nagar Mitra Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"net/http"

	"github.com/go-kit/kit/log"
	"github.com/gorilla/mux"
)

type logoutRequest struct {
	UserID string `json:"userId"`
}

func addLogoutRoutes(router *mux.Router, logger log.Logger, auth authable, dataDir string) {
	router.Methods("POST").Path("/api/logout").HandlerFunc(logoutRoute(logger, auth, dataDir))
}

// logoutRoute drops every session the user holds and removes their
// uploaded files. Logging out a user with no sessions still answers
// "Logged out".
func logoutRoute(logger log.Logger, auth authable, dataDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Body == nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		bs, err := read(r.Body)
		if err != nil {
			internalError(w, err, "logout")
			return
		}
		var logout logoutRequest
		if err := json.Unmarshal(bs, &logout); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		if err := auth.invalidate(logout.UserID); err != nil {
			internalError(w, err, "logout")
			return
		}
		if err := removeUserUploads(dataDir, logout.UserID); err != nil {
			logger.Log("logout", err)
		}

		authInactivations.With("method", "web").Add(1)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Logged out"))
	}
}
