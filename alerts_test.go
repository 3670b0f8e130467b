// Copyright 2026 The Nagar Mitra Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/gorilla/mux"
)

func createTestAlertRouter(t *testing.T, doc alertsDoc) (*mux.Router, *docStore) {
	t.Helper()

	store := newDocStore(filepath.Join(t.TempDir(), "alerts.json"))
	if err := store.seed(&doc); err != nil {
		t.Fatal(err)
	}
	router := mux.NewRouter()
	addAlertRoutes(router, log.NewNopLogger(), store)
	return router, store
}

func testAlerts() alertsDoc {
	return alertsDoc{
		Alerts: []alert{
			{ID: 1, Message: "Permit expires in 7 days", Type: "warning", Date: "2026-08-25", IsRead: false},
			{ID: 3, Message: "Zone inspection scheduled", Type: "info", Date: "2026-08-28", IsRead: true},
		},
	}
}

func TestAlerts__get(t *testing.T) {
	router, _ := createTestAlertRouter(t, testAlerts())

	req := httptest.NewRequest("GET", "/api/alerts", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got %d", w.Code)
	}
	var resp struct {
		Alerts      []alert `json:"alerts"`
		UnreadCount int     `json:"unreadCount"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Alerts) != 2 || resp.UnreadCount != 1 {
		t.Errorf("got %#v", resp)
	}
}

func TestAlerts__markRead(t *testing.T) {
	router, store := createTestAlertRouter(t, testAlerts())

	req := httptest.NewRequest("POST", "/api/alerts/mark-read", strings.NewReader(`{"id": 1}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Success     bool  `json:"success"`
		Alert       alert `json:"alert"`
		UnreadCount int   `json:"unreadCount"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Success || !resp.Alert.IsRead || resp.UnreadCount != 0 {
		t.Errorf("got %#v", resp)
	}

	var doc alertsDoc
	if err := store.view(&doc); err != nil {
		t.Fatal(err)
	}
	if !doc.Alerts[0].IsRead {
		t.Errorf("got %#v", doc)
	}
}

func TestAlerts__markReadErrors(t *testing.T) {
	router, _ := createTestAlertRouter(t, testAlerts())

	cases := []struct {
		body     string
		expected int
	}{
		{`{}`, http.StatusBadRequest},
		{`{"id": 42}`, http.StatusNotFound},
	}
	for i := range cases {
		req := httptest.NewRequest("POST", "/api/alerts/mark-read", strings.NewReader(cases[i].body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != cases[i].expected {
			t.Errorf("body=%q, got %d", cases[i].body, w.Code)
		}
	}
}

func TestAlerts__markAllRead(t *testing.T) {
	router, store := createTestAlertRouter(t, testAlerts())

	req := httptest.NewRequest("POST", "/api/alerts/mark-all-read", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got %d", w.Code)
	}
	var doc alertsDoc
	if err := store.view(&doc); err != nil {
		t.Fatal(err)
	}
	if doc.unreadCount() != 0 {
		t.Errorf("got %#v", doc)
	}
}

func TestAlerts__create(t *testing.T) {
	router, _ := createTestAlertRouter(t, testAlerts())

	body := `{"message": "Fee payment overdue", "type": "critical"}`
	req := httptest.NewRequest("POST", "/api/alerts", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Success bool  `json:"success"`
		Alert   alert `json:"alert"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	// ids keep counting up from the highest seen, even with gaps
	if resp.Alert.ID != 4 || resp.Alert.IsRead {
		t.Errorf("got %#v", resp.Alert)
	}
	if resp.Alert.Date != time.Now().UTC().Format("2006-01-02") {
		t.Errorf("got %q", resp.Alert.Date)
	}
}

func TestAlerts__createMissingFields(t *testing.T) {
	router, _ := createTestAlertRouter(t, testAlerts())

	cases := []string{
		`{"type": "warning"}`,
		`{"message": "no type"}`,
		`{}`,
	}
	for i := range cases {
		req := httptest.NewRequest("POST", "/api/alerts", strings.NewReader(cases[i]))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("body=%q, got %d", cases[i], w.Code)
		}
	}
}

func TestAlerts__delete(t *testing.T) {
	router, store := createTestAlertRouter(t, testAlerts())

	req := httptest.NewRequest("DELETE", "/api/alerts/3", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		DeletedAlert alert `json:"deletedAlert"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.DeletedAlert.ID != 3 {
		t.Errorf("got %#v", resp.DeletedAlert)
	}

	var doc alertsDoc
	if err := store.view(&doc); err != nil {
		t.Fatal(err)
	}
	if len(doc.Alerts) != 1 {
		t.Errorf("got %#v", doc)
	}

	req = httptest.NewRequest("DELETE", "/api/alerts/3", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("got %d", w.Code)
	}
}
