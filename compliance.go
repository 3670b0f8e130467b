// Copyright 2026 The Nagar Mitra Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/go-kit/kit/log"
	"github.com/gorilla/mux"
)

var errChecklistItemNotFound = errors.New("Checklist item not found")

// complianceItem is one checklist entry a vendor works through
// (permit renewal, zone hygiene check, fee payment and so on).
type complianceItem struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"` // "pending" or "completed"
	Category    string `json:"category,omitempty"`
	DueDate     string `json:"dueDate,omitempty"`
}

type complianceSummary struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

type complianceDoc struct {
	Checklist []complianceItem  `json:"checklist"`
	Summary   complianceSummary `json:"summary"`
}

// recompute refreshes the derived summary after any mutation.
func (d *complianceDoc) recompute() {
	completed := 0
	for i := range d.Checklist {
		if d.Checklist[i].Status == "completed" {
			completed++
		}
	}
	d.Summary.Completed = completed
	d.Summary.Total = len(d.Checklist)
}

func (d *complianceDoc) indexOf(id int) int {
	for i := range d.Checklist {
		if d.Checklist[i].ID == id {
			return i
		}
	}
	return -1
}

// scoreOf is the compliance score shown on the vendor dashboard.
// An empty checklist scores 100: nothing is outstanding.
func scoreOf(completed, total int) int {
	if total == 0 {
		return 100
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}

// complianceItemPatch carries the fields a PUT may change. Pointers
// distinguish "not sent" from "set to empty". The id is immutable.
type complianceItemPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Category    *string `json:"category"`
	DueDate     *string `json:"dueDate"`
}

func (p *complianceItemPatch) apply(item *complianceItem) {
	if p.Title != nil {
		item.Title = *p.Title
	}
	if p.Description != nil {
		item.Description = *p.Description
	}
	if p.Status != nil {
		item.Status = *p.Status
	}
	if p.Category != nil {
		item.Category = *p.Category
	}
	if p.DueDate != nil {
		item.DueDate = *p.DueDate
	}
}

func addComplianceRoutes(router *mux.Router, logger log.Logger, store *docStore) {
	router.Methods("GET").Path("/api/compliance").HandlerFunc(getComplianceRoute(logger, store))
	router.Methods("POST").Path("/api/compliance/mark-completed").HandlerFunc(markCompletedRoute(logger, store))
	router.Methods("PUT").Path("/api/compliance/{id:[0-9]+}").HandlerFunc(updateComplianceItemRoute(logger, store))
	router.Methods("DELETE").Path("/api/compliance/{id:[0-9]+}").HandlerFunc(deleteComplianceItemRoute(logger, store))
}

func getComplianceRoute(logger log.Logger, store *docStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var doc complianceDoc
		if err := store.view(&doc); err != nil {
			internalServerErrors.Add(1)
			logger.Log("compliance", err)
			encodeError(w, http.StatusInternalServerError, errors.New("Failed to fetch compliance data"))
			return
		}

		doc.recompute()
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"score":     scoreOf(doc.Summary.Completed, doc.Summary.Total),
			"completed": doc.Summary.Completed,
			"total":     doc.Summary.Total,
			"checklist": doc.Checklist,
			"summary":   doc.Summary,
		})
	}
}

// markCompletedRoute toggles an item between pending and completed.
func markCompletedRoute(logger log.Logger, store *docStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			ID int `json:"id"`
		}
		bs, err := read(r.Body)
		if err != nil {
			internalError(w, err, "compliance")
			return
		}
		if err := json.Unmarshal(bs, &body); err != nil || body.ID == 0 {
			encodeError(w, http.StatusBadRequest, errors.New("ID is required"))
			return
		}

		var doc complianceDoc
		var item complianceItem
		err = store.update(&doc, func() error {
			idx := doc.indexOf(body.ID)
			if idx < 0 {
				return errChecklistItemNotFound
			}
			if doc.Checklist[idx].Status == "completed" {
				doc.Checklist[idx].Status = "pending"
			} else {
				doc.Checklist[idx].Status = "completed"
			}
			doc.recompute()
			item = doc.Checklist[idx]
			return nil
		})
		if err != nil {
			if err == errChecklistItemNotFound {
				encodeError(w, http.StatusNotFound, err)
				return
			}
			logger.Log("compliance", err)
			encodeError(w, http.StatusInternalServerError, errors.New("Failed to update checklist item"))
			return
		}

		complianceUpdates.With("op", "mark-completed").Add(1)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":   true,
			"message":   "Checklist item updated",
			"score":     scoreOf(doc.Summary.Completed, doc.Summary.Total),
			"completed": doc.Summary.Completed,
			"total":     doc.Summary.Total,
			"item":      item,
		})
	}
}

func updateComplianceItemRoute(logger log.Logger, store *docStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(mux.Vars(r)["id"])
		if err != nil {
			encodeError(w, http.StatusBadRequest, errors.New("ID is required"))
			return
		}

		var patch complianceItemPatch
		bs, err := read(r.Body)
		if err != nil {
			internalError(w, err, "compliance")
			return
		}
		if err := json.Unmarshal(bs, &patch); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		var doc complianceDoc
		var item complianceItem
		err = store.update(&doc, func() error {
			idx := doc.indexOf(id)
			if idx < 0 {
				return errChecklistItemNotFound
			}
			patch.apply(&doc.Checklist[idx])
			doc.Checklist[idx].ID = id
			doc.recompute()
			item = doc.Checklist[idx]
			return nil
		})
		if err != nil {
			if err == errChecklistItemNotFound {
				encodeError(w, http.StatusNotFound, err)
				return
			}
			logger.Log("compliance", err)
			encodeError(w, http.StatusInternalServerError, errors.New("Failed to update checklist item"))
			return
		}

		complianceUpdates.With("op", "update").Add(1)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "Checklist item updated",
			"item":    item,
		})
	}
}

func deleteComplianceItemRoute(logger log.Logger, store *docStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(mux.Vars(r)["id"])
		if err != nil {
			encodeError(w, http.StatusBadRequest, errors.New("ID is required"))
			return
		}

		var doc complianceDoc
		var deleted complianceItem
		err = store.update(&doc, func() error {
			idx := doc.indexOf(id)
			if idx < 0 {
				return errChecklistItemNotFound
			}
			deleted = doc.Checklist[idx]
			doc.Checklist = append(doc.Checklist[:idx], doc.Checklist[idx+1:]...)
			doc.recompute()
			return nil
		})
		if err != nil {
			if err == errChecklistItemNotFound {
				encodeError(w, http.StatusNotFound, err)
				return
			}
			logger.Log("compliance", err)
			encodeError(w, http.StatusInternalServerError, errors.New("Failed to delete checklist item"))
			return
		}

		complianceUpdates.With("op", "delete").Add(1)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":     true,
			"message":     "Checklist item deleted",
			"deletedItem": deleted,
		})
	}
}
