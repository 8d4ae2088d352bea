// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"

	"github.com/kaushiknetcode/Voting-admin/middleware"
	"github.com/kaushiknetcode/Voting-admin/repository"
)

type PlacesHandler struct {
	places *repository.Places
}

func NewPlacesHandler(db *sql.DB) *PlacesHandler {
	return &PlacesHandler{places: repository.NewPlaces(db)}
}

// List handles GET /places
func (h *PlacesHandler) List(w http.ResponseWriter, r *http.Request) {
	places, err := h.places.Find(r.Context())
	if err != nil {
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, places)
}
