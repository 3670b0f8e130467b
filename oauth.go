// Copyright 2026 The Nagar Mitra Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/tejaswee-06/Rubix-26/pkg/clientstore"

	"github.com/go-kit/kit/log"
	"github.com/gorilla/mux"
	"gopkg.in/oauth2.v3/errors"
	"gopkg.in/oauth2.v3/manage"
	"gopkg.in/oauth2.v3/models"
	"gopkg.in/oauth2.v3/server"
	"gopkg.in/oauth2.v3/store"
)

// partnerAPI issues and validates OAuth2 client-credentials tokens for
// third-party systems (municipal dashboards, NGO portals) that pull
// compliance data without a vendor's browser session.
type partnerAPI struct {
	manager     *manage.Manager
	clientStore *clientstore.ClientStore
	server      *server.Server

	logger log.Logger
}

func setupPartnerAPI(logger log.Logger, clients *clientstore.ClientStore) (*partnerAPI, error) {
	out := &partnerAPI{
		clientStore: clients,
		logger:      logger,
	}

	tokenStore, err := store.NewMemoryTokenStore()
	if err != nil {
		return nil, fmt.Errorf("problem creating token store: %v", err)
	}

	out.manager = manage.NewDefaultManager()
	out.manager.MapTokenStorage(tokenStore)
	out.manager.MapClientStorage(clients)

	// Seed one client from the environment so fresh deployments have a
	// way in. PARTNER_CLIENT_ID unset skips seeding.
	if id := os.Getenv("PARTNER_CLIENT_ID"); id != "" {
		err := clients.Set(id, &models.Client{
			ID:     id,
			Secret: os.Getenv("PARTNER_CLIENT_SECRET"),
			Domain: os.Getenv("PARTNER_CLIENT_DOMAIN"),
		})
		if err != nil {
			return nil, fmt.Errorf("problem seeding partner client: %v", err)
		}
	}

	out.server = server.NewDefaultServer(out.manager)
	out.server.SetAllowGetAccessRequest(true)
	out.server.SetClientInfoHandler(server.ClientFormHandler)
	out.server.SetInternalErrorHandler(func(err error) (re *errors.Response) {
		logger.Log("partner-internal-error", err.Error())
		return
	})
	out.server.SetResponseErrorHandler(func(re *errors.Response) {
		logger.Log("partner-response-error", re.Error.Error())
		return
	})

	return out, nil
}

func addPartnerRoutes(router *mux.Router, p *partnerAPI) {
	router.Methods("GET").Path("/api/partner/authorize").HandlerFunc(p.authorizeHandler)
	if p.server.Config.AllowGetAccessRequest {
		router.Methods("GET", "POST").Path("/api/partner/token").HandlerFunc(p.tokenHandler)
	} else {
		router.Methods("POST").Path("/api/partner/token").HandlerFunc(p.tokenHandler)
	}
}

// authorizeHandler checks the request for a valid bearer token and
// answers "200 OK" when it holds up. We aren't redirecting anywhere,
// partners just need a yes/no on their token.
func (p *partnerAPI) authorizeHandler(w http.ResponseWriter, r *http.Request) {
	ti, err := p.server.ValidationBearerToken(r)
	if err != nil {
		authFailures.With("method", "oauth2").Add(1)
		encodeError(w, http.StatusBadRequest, err)
		return
	}
	if ti.GetClientID() == "" {
		authFailures.With("method", "oauth2").Add(1)
		encodeError(w, http.StatusBadRequest, fmt.Errorf("missing client_id"))
		return
	}

	authSuccesses.With("method", "oauth2").Add(1)
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
}

// tokenHandler passes the request down to our oauth2 library to
// generate a token (or return an error).
func (p *partnerAPI) tokenHandler(w http.ResponseWriter, r *http.Request) {
	if err := p.server.HandleTokenRequest(w, r); err != nil {
		encodeError(w, http.StatusBadRequest, err)
		return
	}
	tokenGenerations.With("method", "oauth2").Add(1)
}
