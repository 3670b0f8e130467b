// Copyright 2026 The Nagar Mitra Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTP__extractCookie(t *testing.T) {
	req, _ := http.NewRequest("GET", "http://example.com", nil)
	if req == nil {
		t.Error("nil req")
	}
	req.AddCookie(&http.Cookie{
		Name:  cookieName,
		Value: "data",
	})

	cookie := extractCookie(req)
	if cookie == nil {
		t.Fatal("nil cookie")
	}
	if cookie.Value != "data" {
		t.Errorf("got %q", cookie.Value)
	}
}

func TestHTTP__extractCookieMissing(t *testing.T) {
	req, _ := http.NewRequest("GET", "http://example.com", nil)
	if cookie := extractCookie(req); cookie != nil {
		t.Errorf("got %#v", cookie)
	}
	if cookie := extractCookie(nil); cookie != nil {
		t.Errorf("got %#v", cookie)
	}
}

func TestHTTP__cors(t *testing.T) {
	handler := corsMiddleware("http://localhost:8080", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	// preflight never reaches the wrapped handler
	req := httptest.NewRequest("OPTIONS", "/api/register", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("got %d", w.Code)
	}
	if v := w.Header().Get("Access-Control-Allow-Origin"); v != "http://localhost:8080" {
		t.Errorf("got %q", v)
	}

	// other methods pass through with headers stamped
	req = httptest.NewRequest("GET", "/api/health", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusTeapot {
		t.Errorf("got %d", w.Code)
	}
	if v := w.Header().Get("Access-Control-Allow-Origin"); v != "http://localhost:8080" {
		t.Errorf("got %q", v)
	}
}
