// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/kaushiknetcode/Voting-admin/middleware"
	"github.com/kaushiknetcode/Voting-admin/repository"
)

const (
	defaultLogLimit = 50
	maxLogLimit     = 500
)

type SystemLogHandler struct {
	logs *repository.SystemLogs
}

func NewSystemLogHandler(db *sql.DB) *SystemLogHandler {
	return &SystemLogHandler{logs: repository.NewSystemLogs(db)}
}

// List handles GET /system-logs?limit=
func (h *SystemLogHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := defaultLogLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxLogLimit)
	}

	logs, err := h.logs.Recent(r.Context(), limit)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, logs)
}
