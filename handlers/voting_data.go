// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/kaushiknetcode/Voting-admin/middleware"
	"github.com/kaushiknetcode/Voting-admin/models"
	"github.com/kaushiknetcode/Voting-admin/repository"
	"github.com/kaushiknetcode/Voting-admin/store"
)

const dateLayout = "2006-01-02"

func validDate(date string) bool {
	_, err := time.Parse(dateLayout, date)
	return err == nil
}

var (
	errMissingDate   = errors.New("date must be YYYY-MM-DD")
	errNegativeCount = errors.New("vote counts must not be negative")
	errMissingPlace  = errors.New("placeId is required")
	errUnknownRole   = errors.New("submittedBy.role must be APO, PO or SUPER_ADMIN")
)

// validateVotingInput rejects submissions the tables would store but the
// dashboards could not make sense of.
func validateVotingInput(in models.VotingInput) error {
	if in.PlaceID <= 0 {
		return errMissingPlace
	}
	if !validDate(in.Date) {
		return errMissingDate
	}
	if in.VotesCount < 0 || in.MaleVoters < 0 || in.FemaleVoters < 0 {
		return errNegativeCount
	}
	switch in.SubmittedBy.Role {
	case models.RoleAPO, models.RolePO, models.RoleSuperAdmin:
	default:
		return errUnknownRole
	}
	return nil
}

type VotingDataHandler struct {
	data   *repository.VotingData
	places *repository.Places
}

func NewVotingDataHandler(db *sql.DB) *VotingDataHandler {
	return &VotingDataHandler{
		data:   repository.NewVotingData(db),
		places: repository.NewPlaces(db),
	}
}

// Create handles POST /voting-data
func (h *VotingDataHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.VotingInput
	if err := middleware.ParseJSONBody(r, &in); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := validateVotingInput(in); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if in.SubmittedBy.PlaceName == "" {
		in.SubmittedBy.PlaceName = models.PlaceName(models.Places, in.PlaceID)
	}

	row, err := h.data.Create(r.Context(), in)
	if errors.Is(err, repository.ErrUnknownReference) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Unknown place or user")
		return
	}
	if err != nil {
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save voting data")
		return
	}

	slog.Info("voting data submitted",
		"place_id", row.PlaceID,
		"date", row.Date,
		"votes", row.VotesCount,
		"role", row.SubmittedByRole,
		"remote", middleware.GetClientIP(r),
	)

	middleware.JSONResponse(w, http.StatusCreated, row)
}

// List handles GET /voting-data?date=&placeId=
func (h *VotingDataHandler) List(w http.ResponseWriter, r *http.Request) {
	var q repository.FindQuery

	if date := r.URL.Query().Get("date"); date != "" {
		if !validDate(date) {
			middleware.ErrorResponse(w, http.StatusBadRequest, errMissingDate.Error())
			return
		}
		q.Date = date
	}
	if raw := r.URL.Query().Get("placeId"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "placeId must be a positive integer")
			return
		}
		q.PlaceID = id
	}

	rows, err := h.data.Find(r.Context(), q)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, rows)
}

// Summary handles GET /voting-data/summary?date=
// Returns zone-wide totals and turnout percentage for one date, or for all
// dates when date is omitted.
func (h *VotingDataHandler) Summary(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date != "" && !validDate(date) {
		middleware.ErrorResponse(w, http.StatusBadRequest, errMissingDate.Error())
		return
	}

	totals, err := h.data.Aggregate(r.Context(), date)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	places, err := h.places.Find(r.Context())
	if err != nil {
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ZonalData{
		TotalVotes:       totals.TotalVotes,
		TotalMale:        totals.TotalMale,
		TotalFemale:      totals.TotalFemale,
		VotingPercentage: store.Percentage(totals.TotalVotes, models.TotalVoters(places)),
	})
}
