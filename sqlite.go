// Copyright 2026 The Nagar Mitra Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package main

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/go-kit/kit/log"
	kitprom "github.com/go-kit/kit/metrics/prometheus"
	stdprom "github.com/prometheus/client_golang/prometheus"
)

var (
	// migrations holds all our SQL migrations to be done (in order)
	migrations = []string{
		// Vendor accounts. The unique index on email is what makes
		// registration safe under concurrent requests: the duplicate
		// check is the insert itself, not a prior read.
		`create table if not exists users(user_id primary key, email unique, real_name, password_hash, created_at timestamp);`,
	}

	// Metrics
	connections = kitprom.NewGaugeFrom(stdprom.GaugeOpts{
		Name: "sqlite_connections",
		Help: "How many sqlite connections and what status they're in.",
	}, []string{"state"})
)

type promMetricCollector struct {
	interval time.Duration
	done     chan struct{}
}

func newPromMetricCollector() *promMetricCollector {
	return &promMetricCollector{
		interval: 15 * time.Second,
		done:     make(chan struct{}),
	}
}

func (p *promMetricCollector) run(db *sql.DB) {
	if db == nil {
		return
	}
	tick := time.NewTicker(p.interval)
	defer tick.Stop()
	for {
		select {
		case <-tick.C:
			stats := db.Stats()
			connections.With("state", "idle").Set(float64(stats.Idle))
			connections.With("state", "inuse").Set(float64(stats.InUse))
			connections.With("state", "open").Set(float64(stats.OpenConnections))
		case <-p.done:
			return
		}
	}
}

func (p *promMetricCollector) stop() {
	close(p.done)
}

func getSqlitePath() string {
	path := os.Getenv("SQLITE_DB_PATH")
	if path == "" || strings.Contains(path, "..") {
		// set default if empty or trying to escape
		// don't filepath.Abs to avoid full-fs reads
		path = "nagarmitra.db"
	}
	return path
}

func createConnection(logger log.Logger, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		err = fmt.Errorf("problem opening sqlite3 file %s: %v", path, err)
		logger.Log("sqlite", err)
		return nil, err
	}
	return db, nil
}

// migrate runs our database migrations (defined at the top of this file)
// over a sqlite database it creates first.
// To configure where on disk the sqlite db is set SQLITE_DB_PATH.
func migrate(logger log.Logger, path string) (*sql.DB, error) {
	db, err := createConnection(logger, path)
	if err != nil {
		return nil, err
	}

	logger.Log("sqlite", fmt.Sprintf("migrating %s", path))
	for i := range migrations {
		row := migrations[i]
		res, err := db.Exec(row)
		if err != nil {
			return nil, fmt.Errorf("migration #%d [%s...] had problem: %v", i, row[:40], err)
		}
		n, err := res.RowsAffected()
		if err == nil {
			logger.Log("sqlite", fmt.Sprintf("migration #%d [%s...] changed %d rows", i, row[:40], n))
		}
	}
	logger.Log("sqlite", "finished migrations")

	return db, nil
}
