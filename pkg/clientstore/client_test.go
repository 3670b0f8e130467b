// Copyright 2026 The Nagar Mitra Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package clientstore

import (
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/oauth2.v3/models"
)

func makeCS(t *testing.T) *ClientStore {
	t.Helper()

	cs, err := New(filepath.Join(t.TempDir(), "partners.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { cs.Close() })
	return cs
}

func TestClientStore(t *testing.T) {
	cs := makeCS(t)

	id := "ward-12-dashboard"

	// get nothing
	cli, err := cs.GetByID(id)
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("got %#v", err)
	}
	if cli.GetID() != "" {
		t.Errorf("got %#v", cli)
	}

	// set something
	err = cs.Set(id, &models.Client{
		ID:     id,
		Secret: "secret",
		Domain: "domain",
		UserID: "userId",
	})
	if err != nil {
		t.Errorf("got %v", err)
	}

	// get something
	cli, err = cs.GetByID(id)
	if err != nil {
		t.Errorf("got %v", err)
	}
	if cli.GetID() != id {
		t.Errorf("got %s", cli.GetID())
	}
	if cli.GetSecret() != "secret" {
		t.Errorf("got %s", cli.GetSecret())
	}
	if cli.GetDomain() != "domain" {
		t.Errorf("got %s", cli.GetDomain())
	}
	if cli.GetUserID() != "userId" {
		t.Errorf("got %s", cli.GetUserID())
	}
}

func TestClientStore__mismatchedID(t *testing.T) {
	cs := makeCS(t)

	err := cs.Set("one", &models.Client{ID: "other"})
	if err == nil || !strings.Contains(err.Error(), "don't match") {
		t.Errorf("got %v", err)
	}
}

func TestClientStore__scan(t *testing.T) {
	cs := makeCS(t)

	id, userId := "ngo-portal", "user-id"

	// scan nothing
	results, err := cs.GetByUserID(userId)
	if results != nil || err != nil {
		t.Errorf("got results=%v, err=%#v", results, err)
	}

	// write something
	cs.Set(id, &models.Client{ID: id, Secret: "secret", Domain: "domain", UserID: userId})
	cs.Set(id+"2", &models.Client{ID: id + "2", Secret: "secret", Domain: "domain", UserID: userId + "2"})
	cs.Set("other-id", &models.Client{ID: "other-id", Secret: "secret", Domain: "domain", UserID: "other-user"})

	// scan something
	results, err = cs.GetByUserID(userId)
	if err != nil {
		t.Error(err)
	}
	if v := len(results); v != 1 {
		t.Errorf("got %d", v)
	}
	if len(results) == 1 && results[0].GetID() != id {
		t.Errorf("got %s", results[0].GetID())
	}
}

func TestClientStore__delete(t *testing.T) {
	cs := makeCS(t)

	id := "ward-12-dashboard"
	cs.Set(id, &models.Client{ID: id, Secret: "secret", Domain: "domain", UserID: "userId"})

	if err := cs.DeleteByID(id); err != nil {
		t.Errorf("got %v", err)
	}
	if _, err := cs.GetByID(id); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("got %#v", err)
	}

	// deleting again is a no-op
	if err := cs.DeleteByID(id); err != nil {
		t.Errorf("got %v", err)
	}
}
