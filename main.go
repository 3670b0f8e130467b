// Copyright 2026 The Nagar Mitra Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"crypto/tls"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/tejaswee-06/Rubix-26/admin"
	"github.com/tejaswee-06/Rubix-26/pkg/clientstore"
	"github.com/tejaswee-06/Rubix-26/pkg/sessionstore"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/metrics/prometheus"
	"github.com/gorilla/mux"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

var (
	httpAddr    = flag.String("http.addr", ":8080", "HTTP listen address")
	adminAddr   = flag.String("admin.addr", ":9090", "Admin (metrics, pprof) listen address")
	serveViaTLS = flag.Bool("tls", false, "Serve over TLS (also marks session cookies Secure)")

	logger log.Logger

	// Metrics
	authSuccesses = prometheus.NewCounterFrom(stdprometheus.CounterOpts{
		Name: "auth_successes",
		Help: "Count of successful authorizations",
	}, []string{"method"})
	authFailures = prometheus.NewCounterFrom(stdprometheus.CounterOpts{
		Name: "auth_failures",
		Help: "Count of failed authorizations",
	}, []string{"method"})
	authInactivations = prometheus.NewCounterFrom(stdprometheus.CounterOpts{
		Name: "auth_inactivations",
		Help: "Count of logouts (sessions invalidated)",
	}, []string{"method"})
	registrations = prometheus.NewCounterFrom(stdprometheus.CounterOpts{
		Name: "account_registrations",
		Help: "Count of vendor accounts created",
	}, []string{"method"})
	tokenGenerations = prometheus.NewCounterFrom(stdprometheus.CounterOpts{
		Name: "auth_token_generations",
		Help: "Count of partner API tokens created",
	}, []string{"method"})
	internalServerErrors = prometheus.NewCounterFrom(stdprometheus.CounterOpts{
		Name: "http_internal_server_errors",
		Help: "Count of responses answered with 500",
	}, nil)
	complianceUpdates = prometheus.NewCounterFrom(stdprometheus.CounterOpts{
		Name: "compliance_checklist_updates",
		Help: "Count of checklist mutations",
	}, []string{"op"})
	alertUpdates = prometheus.NewCounterFrom(stdprometheus.CounterOpts{
		Name: "alert_updates",
		Help: "Count of alert mutations",
	}, []string{"op"})
)

const Version = "0.1.0-dev"

func getDataDir() string {
	dir := os.Getenv("DATA_DIR")
	if dir == "" {
		dir = "data"
	}
	return dir
}

func main() {
	flag.Parse()

	// Setup logging, default to stdout
	logger = log.NewLogfmtLogger(os.Stderr)
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)
	logger = log.With(logger, "caller", log.DefaultCaller)
	logger.Log("startup", fmt.Sprintf("Starting nagarmitra server version %s", Version))

	// Listen for application termination.
	errs := make(chan error)
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		errs <- fmt.Errorf("%s", <-c)
	}()

	dataDir := getDataDir()

	// vendor accounts
	db, err := migrate(logger, getSqlitePath())
	if err != nil {
		logger.Log("exit", err)
		os.Exit(1)
	}
	userService := &sqliteUserRepository{db: db}
	defer userService.close()

	collector := newPromMetricCollector()
	go collector.run(db)
	defer collector.stop()

	// sessions
	sessionPath := os.Getenv("SESSION_DB_PATH")
	if sessionPath == "" {
		sessionPath = filepath.Join(dataDir, "sessions.db")
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		logger.Log("exit", err)
		os.Exit(1)
	}
	sessions, err := sessionstore.New(sessionPath)
	if err != nil {
		logger.Log("exit", err)
		os.Exit(1)
	}
	defer sessions.Close()
	authService := &auth{repo: userService, sessions: sessions}

	// partner API clients
	clients, err := clientstore.New(filepath.Join(dataDir, "partners.db"))
	if err != nil {
		logger.Log("exit", err)
		os.Exit(1)
	}
	defer clients.Close()
	partner, err := setupPartnerAPI(logger, clients)
	if err != nil {
		logger.Log("exit", err)
		os.Exit(1)
	}

	// compliance checklist and alerts, one JSON document each
	complianceStore := newDocStore(filepath.Join(dataDir, "compliance.json"))
	if err := complianceStore.seed(&complianceDoc{Checklist: []complianceItem{}}); err != nil {
		logger.Log("exit", err)
		os.Exit(1)
	}
	alertStore := newDocStore(filepath.Join(dataDir, "alerts.json"))
	if err := alertStore.seed(&alertsDoc{Alerts: []alert{}}); err != nil {
		logger.Log("exit", err)
		os.Exit(1)
	}

	limiter := newLoginLimiter()
	defer limiter.stop()

	router := mux.NewRouter()
	addRegisterRoutes(router, logger, authService, userService, dataDir)
	addLoginRoutes(router, logger, authService, userService, limiter)
	addLogoutRoutes(router, logger, authService, dataDir)
	addComplianceRoutes(router, logger, complianceStore)
	addAlertRoutes(router, logger, alertStore)
	addPartnerRoutes(router, partner)
	router.Methods("GET").Path("/api/health").HandlerFunc(healthRoute)
	router.NotFoundHandler = http.HandlerFunc(notFoundRoute)

	corsOrigin := os.Getenv("CORS_ORIGIN")
	if corsOrigin == "" {
		corsOrigin = "*"
	}
	handler := corsMiddleware(corsOrigin, router)

	readTimeout, _ := time.ParseDuration("30s")
	writTimeout, _ := time.ParseDuration("30s")
	idleTimeout, _ := time.ParseDuration("60s")

	serve := &http.Server{
		Addr:    *httpAddr,
		Handler: handler,
		TLSConfig: &tls.Config{
			InsecureSkipVerify:       false,
			PreferServerCipherSuites: true,
			MinVersion:               tls.VersionTLS12,
		},
		ReadTimeout:  readTimeout,
		WriteTimeout: writTimeout,
		IdleTimeout:  idleTimeout,
	}
	shutdownServer := func() {
		if err := serve.Shutdown(context.Background()); err != nil {
			logger.Log("shutdown", err)
		}
	}

	if err := admin.Init(); err != nil {
		logger.Log("admin", err)
	}
	adminService := admin.SetupServer(*adminAddr, Version)
	go func() {
		logger.Log("admin", fmt.Sprintf("Starting admin service on %s", adminService.BindAddress()))
		if err := adminService.Listen(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log("admin", "shutting down", "error", err)
		}
	}()

	go func() {
		logger.Log("transport", "HTTP", "addr", *httpAddr)
		if *serveViaTLS {
			errs <- serve.ListenAndServeTLS(os.Getenv("TLS_CERT_FILE"), os.Getenv("TLS_KEY_FILE"))
		} else {
			errs <- serve.ListenAndServe()
		}
	}()

	if err := <-errs; err != nil {
		adminService.Shutdown()
		shutdownServer()
		logger.Log("exit", err)
	}
}

func healthRoute(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "OK",
		"message": "Server is running",
	})
}

func notFoundRoute(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]string{
		"error": "Route not found",
	})
}
