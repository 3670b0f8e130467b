// Copyright 2026 The Nagar Mitra Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// docStore persists one JSON document (the whole collection plus any
// derived summary) as a single pretty-printed file. The frontend and
// ops tooling read these files directly, so the on-disk format stays
// the plain `{checklist: ..., summary: ...}` / `{alerts: ...}` shape.
//
// Every read-modify-write cycle runs under the store's mutex and
// writes land via temp-file + rename, so concurrent requests can't
// interleave mid-update and a crash can't leave a half-written file.
type docStore struct {
	path string
	mu   sync.Mutex
}

func newDocStore(path string) *docStore {
	return &docStore{path: path}
}

// seed writes v as the initial document if none exists yet.
func (s *docStore) seed(v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := os.Stat(s.path); err == nil {
		return nil
	}
	return s.write(v)
}

// view loads the current document into v.
func (s *docStore) view(v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(v)
}

// update loads the document into v, runs fn, and persists v again.
// When fn returns an error nothing is written, so handlers can bail
// with a not-found without touching the file.
func (s *docStore) update(v interface{}, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.read(v); err != nil {
		return err
	}
	if err := fn(); err != nil {
		return err
	}
	return s.write(v)
}

func (s *docStore) read(v interface{}) error {
	bs, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("problem reading %s: %v", s.path, err)
	}
	if err := json.Unmarshal(bs, v); err != nil {
		return fmt.Errorf("problem parsing %s: %v", s.path, err)
	}
	return nil
}

func (s *docStore) write(v interface{}) error {
	bs, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(append(bs, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("problem writing %s: %v", s.path, err)
	}
	return nil
}
