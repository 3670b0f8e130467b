// Copyright 2026 The Nagar Mitra Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-kit/kit/log"
	"github.com/gorilla/mux"
)

func TestLogout(t *testing.T) {
	repo := createTestUserRepository(t)
	authService := createTestAuth(t, repo)
	dataDir := t.TempDir()

	router := mux.NewRouter()
	addLogoutRoutes(router, log.NewNopLogger(), authService, dataDir)

	u, err := createAccount(repo, "jane@market.in", "hunter2", "Jane Doe")
	if err != nil {
		t.Fatal(err)
	}
	if err := authService.trackSession(u.ID, generateID()); err != nil {
		t.Fatal(err)
	}
	if err := authService.trackSession(u.ID, generateID()); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest("POST", "/api/logout", strings.NewReader(`{"userId": "`+u.ID+`"}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got %d: %s", w.Code, w.Body.String())
	}
	if w.Body.String() != "Logged out" {
		t.Errorf("got %q", w.Body.String())
	}
	if n, _ := authService.sessions.CountForUser(u.ID); n != 0 {
		t.Errorf("got %d sessions", n)
	}

	// logging out again is harmless
	req = httptest.NewRequest("POST", "/api/logout", strings.NewReader(`{"userId": "`+u.ID+`"}`))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Body.String() != "Logged out" {
		t.Errorf("got %d %q", w.Code, w.Body.String())
	}
}
