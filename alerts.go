// Copyright 2026 The Nagar Mitra Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/gorilla/mux"
)

var errAlertNotFound = errors.New("Alert not found")

// alert is a notification pushed to a vendor (permit expiring, zone
// inspection scheduled, fee due).
type alert struct {
	ID      int    `json:"id"`
	Message string `json:"message"`
	Type    string `json:"type"`
	Date    string `json:"date"` // YYYY-MM-DD
	IsRead  bool   `json:"isRead"`
}

type alertsDoc struct {
	Alerts []alert `json:"alerts"`
}

func (d *alertsDoc) unreadCount() int {
	n := 0
	for i := range d.Alerts {
		if !d.Alerts[i].IsRead {
			n++
		}
	}
	return n
}

func (d *alertsDoc) indexOf(id int) int {
	for i := range d.Alerts {
		if d.Alerts[i].ID == id {
			return i
		}
	}
	return -1
}

func (d *alertsDoc) nextID() int {
	max := 0
	for i := range d.Alerts {
		if d.Alerts[i].ID > max {
			max = d.Alerts[i].ID
		}
	}
	return max + 1
}

func addAlertRoutes(router *mux.Router, logger log.Logger, store *docStore) {
	router.Methods("GET").Path("/api/alerts").HandlerFunc(getAlertsRoute(logger, store))
	router.Methods("POST").Path("/api/alerts").HandlerFunc(createAlertRoute(logger, store))
	router.Methods("POST").Path("/api/alerts/mark-read").HandlerFunc(markAlertReadRoute(logger, store))
	router.Methods("POST").Path("/api/alerts/mark-all-read").HandlerFunc(markAllAlertsReadRoute(logger, store))
	router.Methods("DELETE").Path("/api/alerts/{id:[0-9]+}").HandlerFunc(deleteAlertRoute(logger, store))
}

func getAlertsRoute(logger log.Logger, store *docStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var doc alertsDoc
		if err := store.view(&doc); err != nil {
			internalServerErrors.Add(1)
			logger.Log("alerts", err)
			encodeError(w, http.StatusInternalServerError, errors.New("Failed to fetch alerts"))
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"alerts":      doc.Alerts,
			"unreadCount": doc.unreadCount(),
		})
	}
}

func createAlertRoute(logger log.Logger, store *docStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Message string `json:"message"`
			Type    string `json:"type"`
			Date    string `json:"date"`
		}
		bs, err := read(r.Body)
		if err != nil {
			internalError(w, err, "alerts")
			return
		}
		if err := json.Unmarshal(bs, &body); err != nil || body.Message == "" || body.Type == "" {
			encodeError(w, http.StatusBadRequest, errors.New("Message and type are required"))
			return
		}
		if body.Date == "" {
			body.Date = time.Now().UTC().Format("2006-01-02")
		}

		var doc alertsDoc
		var created alert
		err = store.update(&doc, func() error {
			created = alert{
				ID:      doc.nextID(),
				Message: body.Message,
				Type:    body.Type,
				Date:    body.Date,
				IsRead:  false,
			}
			doc.Alerts = append(doc.Alerts, created)
			return nil
		})
		if err != nil {
			logger.Log("alerts", err)
			encodeError(w, http.StatusInternalServerError, errors.New("Failed to create alert"))
			return
		}

		alertUpdates.With("op", "create").Add(1)
		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"success": true,
			"message": "Alert created",
			"alert":   created,
		})
	}
}

func markAlertReadRoute(logger log.Logger, store *docStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			ID int `json:"id"`
		}
		bs, err := read(r.Body)
		if err != nil {
			internalError(w, err, "alerts")
			return
		}
		if err := json.Unmarshal(bs, &body); err != nil || body.ID == 0 {
			encodeError(w, http.StatusBadRequest, errors.New("ID is required"))
			return
		}

		var doc alertsDoc
		var updated alert
		err = store.update(&doc, func() error {
			idx := doc.indexOf(body.ID)
			if idx < 0 {
				return errAlertNotFound
			}
			doc.Alerts[idx].IsRead = true
			updated = doc.Alerts[idx]
			return nil
		})
		if err != nil {
			if err == errAlertNotFound {
				encodeError(w, http.StatusNotFound, err)
				return
			}
			logger.Log("alerts", err)
			encodeError(w, http.StatusInternalServerError, errors.New("Failed to mark alert as read"))
			return
		}

		alertUpdates.With("op", "mark-read").Add(1)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":     true,
			"message":     "Alert marked as read",
			"alert":       updated,
			"unreadCount": doc.unreadCount(),
		})
	}
}

func markAllAlertsReadRoute(logger log.Logger, store *docStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var doc alertsDoc
		err := store.update(&doc, func() error {
			for i := range doc.Alerts {
				doc.Alerts[i].IsRead = true
			}
			return nil
		})
		if err != nil {
			logger.Log("alerts", err)
			encodeError(w, http.StatusInternalServerError, errors.New("Failed to mark alerts as read"))
			return
		}

		alertUpdates.With("op", "mark-all-read").Add(1)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":     true,
			"message":     "All alerts marked as read",
			"unreadCount": 0,
		})
	}
}

func deleteAlertRoute(logger log.Logger, store *docStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(mux.Vars(r)["id"])
		if err != nil {
			encodeError(w, http.StatusBadRequest, errors.New("ID is required"))
			return
		}

		var doc alertsDoc
		var deleted alert
		err = store.update(&doc, func() error {
			idx := doc.indexOf(id)
			if idx < 0 {
				return errAlertNotFound
			}
			deleted = doc.Alerts[idx]
			doc.Alerts = append(doc.Alerts[:idx], doc.Alerts[idx+1:]...)
			return nil
		})
		if err != nil {
			if err == errAlertNotFound {
				encodeError(w, http.StatusNotFound, err)
				return
			}
			logger.Log("alerts", err)
			encodeError(w, http.StatusInternalServerError, errors.New("Failed to delete alert"))
			return
		}

		alertUpdates.With("op", "delete").Add(1)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":      true,
			"message":      "Alert deleted",
			"deletedAlert": deleted,
		})
	}
}
