// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/kaushiknetcode/Voting-admin/auth"
	"github.com/kaushiknetcode/Voting-admin/middleware"
	"github.com/kaushiknetcode/Voting-admin/models"
	"github.com/kaushiknetcode/Voting-admin/repository"
)

type AuthHandler struct {
	users *repository.Users
	logs  *repository.SystemLogs
}

func NewAuthHandler(db *sql.DB) *AuthHandler {
	return &AuthHandler{
		users: repository.NewUsers(db),
		logs:  repository.NewSystemLogs(db),
	}
}

// Login handles POST /auth/login
// Returns the account and its place name so clients can stamp submissions.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Username == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := h.users.FindByUsername(r.Context(), req.Username)
	if errors.Is(err, repository.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		if !errors.Is(err, auth.ErrPasswordMismatch) {
			slog.Error("failed to check password", "username", req.Username, "error", err)
		}
		slog.Warn("login failed", "username", req.Username, "remote", middleware.GetClientIP(r))
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if _, err := h.logs.Record(r.Context(), repository.ActionLogin, user.ID); err != nil {
		slog.Warn("failed to record login", "user_id", user.ID, "error", err)
	}

	placeName := models.PlaceName(models.Places, user.PlaceID)
	if user.Role == models.RoleSuperAdmin {
		placeName = "Zone"
	}

	slog.Info("login succeeded", "user_id", user.ID, "role", user.Role)
	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{User: user, PlaceName: placeName})
}
