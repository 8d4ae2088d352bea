// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/kaushiknetcode/Voting-admin/broadcast"
	"github.com/kaushiknetcode/Voting-admin/middleware"
	"github.com/kaushiknetcode/Voting-admin/models"
	"github.com/kaushiknetcode/Voting-admin/repository"
	"github.com/kaushiknetcode/Voting-admin/store"
)

// ServerSender identifies messages the server publishes into a room.
const ServerSender = "server"

type VotingDateHandler struct {
	db    *sql.DB
	dates *repository.VotingDates
	logs  *repository.SystemLogs
	hub   *broadcast.Hub
	room  string
}

// NewVotingDateHandler publishes date changes to room, or to
// store.DefaultRoom when room is empty. A nil hub disables publishing.
func NewVotingDateHandler(db *sql.DB, hub *broadcast.Hub, room string) *VotingDateHandler {
	if room == "" {
		room = store.DefaultRoom
	}
	return &VotingDateHandler{
		db:    db,
		dates: repository.NewVotingDates(db),
		logs:  repository.NewSystemLogs(db),
		hub:   hub,
		room:  room,
	}
}

// List handles GET /voting-dates
func (h *VotingDateHandler) List(w http.ResponseWriter, r *http.Request) {
	dates, err := h.dates.Find(r.Context())
	if err != nil {
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, dates)
}

// Get handles GET /voting-dates/{date}
func (h *VotingDateHandler) Get(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")
	if !validDate(date) {
		middleware.ErrorResponse(w, http.StatusBadRequest, errMissingDate.Error())
		return
	}

	d, err := h.dates.FindOne(r.Context(), date)
	if errors.Is(err, repository.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Voting date not found")
		return
	}
	if err != nil {
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, d)
}

// Update handles PUT /voting-dates/{date}
// Absent flags keep their stored value. Activating a date deactivates every
// other date in the same transaction.
func (h *VotingDateHandler) Update(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")
	if !validDate(date) {
		middleware.ErrorResponse(w, http.StatusBadRequest, errMissingDate.Error())
		return
	}

	var req models.UpdateVotingDateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.IsActive == nil && req.IsComplete == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "isActive or isComplete is required")
		return
	}

	updated, err := h.update(r.Context(), date, req)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Voting date not found")
		return
	case errors.Is(err, repository.ErrUnknownReference):
		middleware.ErrorResponse(w, http.StatusBadRequest, "Unknown user")
		return
	case err != nil:
		slog.Error("failed to update voting date", "date", date, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update voting date")
		return
	}

	slog.Info("voting date updated",
		"date", updated.Date,
		"is_active", updated.IsActive,
		"is_complete", updated.IsComplete,
		"performed_by", req.PerformedBy,
	)

	h.publishDates(r.Context())
	middleware.JSONResponse(w, http.StatusOK, updated)
}

func (h *VotingDateHandler) update(ctx context.Context, date string, req models.UpdateVotingDateRequest) (models.VotingDateRow, error) {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return models.VotingDateRow{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	dates := h.dates.WithTx(tx)
	logs := h.logs.WithTx(tx)

	if err := dates.LockAll(ctx); err != nil {
		return models.VotingDateRow{}, err
	}

	current, err := dates.FindOne(ctx, date)
	if err != nil {
		return models.VotingDateRow{}, err
	}

	active, complete := current.IsActive, current.IsComplete
	if req.IsActive != nil {
		active = *req.IsActive
	}
	if req.IsComplete != nil {
		complete = *req.IsComplete
	}

	updated, err := dates.FindOneAndUpdate(ctx, date, active, complete)
	if err != nil {
		return models.VotingDateRow{}, err
	}
	if active {
		if _, err := dates.UpdateMany(ctx, date, false); err != nil {
			return models.VotingDateRow{}, err
		}
	}

	for _, action := range dateActions(current, updated) {
		if _, err := logs.Record(ctx, action, req.PerformedBy); err != nil {
			return models.VotingDateRow{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return models.VotingDateRow{}, fmt.Errorf("failed to commit voting date update: %w", err)
	}
	return updated, nil
}

// dateActions lists the system log actions for a flag change.
func dateActions(before, after models.VotingDateRow) []string {
	var actions []string
	if before.IsActive != after.IsActive {
		if after.IsActive {
			actions = append(actions, repository.ActionDateActivated)
		} else {
			actions = append(actions, repository.ActionDateDeactivated)
		}
	}
	if before.IsComplete != after.IsComplete {
		if after.IsComplete {
			actions = append(actions, repository.ActionDateCompleted)
		} else {
			actions = append(actions, repository.ActionDateReopened)
		}
	}
	return actions
}

// publishDates sends the full date list to the handler's room in the same
// shape client stores merge. Clients joined to other rooms are not told.
func (h *VotingDateHandler) publishDates(ctx context.Context) {
	if h.hub == nil {
		return
	}

	rows, err := h.dates.Find(ctx)
	if err != nil {
		return
	}
	dates := make([]models.VotingDate, 0, len(rows))
	for _, d := range rows {
		dates = append(dates, models.VotingDate{Date: d.Date, IsActive: d.IsActive, IsComplete: d.IsComplete})
	}

	payload, err := json.Marshal(store.Partial{VotingDates: &dates})
	if err != nil {
		slog.Error("failed to encode date update", "error", err)
		return
	}
	n := h.hub.Publish(broadcast.NewMessage(h.room, store.UpdateEvent, ServerSender, payload))
	slog.Debug("published voting dates", "room", h.room, "delivered", n)
}
