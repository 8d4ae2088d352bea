// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/kaushiknetcode/Voting-admin/models"
)

// System log actions
const (
	ActionDateActivated   = "DATE_ACTIVATED"
	ActionDateDeactivated = "DATE_DEACTIVATED"
	ActionDateCompleted   = "DATE_COMPLETED"
	ActionDateReopened    = "DATE_REOPENED"
	ActionLogin           = "LOGIN"
)

type SystemLogs struct {
	q querier
}

func NewSystemLogs(db *sql.DB) *SystemLogs {
	return &SystemLogs{q: db}
}

// WithTx returns a copy that runs its queries inside tx.
func (r *SystemLogs) WithTx(tx *sql.Tx) *SystemLogs {
	return &SystemLogs{q: tx}
}

// Record appends an action. A zero userID is stored as NULL.
func (r *SystemLogs) Record(ctx context.Context, action string, userID int) (models.SystemLog, error) {
	var performedBy sql.NullInt64
	if userID != 0 {
		performedBy = sql.NullInt64{Int64: int64(userID), Valid: true}
	}

	var (
		l  models.SystemLog
		by sql.NullInt64
	)
	err := r.q.QueryRowContext(ctx, `
		INSERT INTO system_logs (action, performed_by)
		VALUES ($1, $2)
		RETURNING id, action, performed_by, created_at
	`, action, performedBy).Scan(&l.ID, &l.Action, &by, &l.CreatedAt)
	if err != nil {
		slog.Error("failed to record system log", "action", action, "user_id", userID, "error", err)
		if isForeignKeyViolation(err) {
			return models.SystemLog{}, fmt.Errorf("failed to record system log: %w", ErrUnknownReference)
		}
		return models.SystemLog{}, fmt.Errorf("failed to record system log: %w", err)
	}
	l.PerformedBy = int(by.Int64)
	return l, nil
}

// Recent returns up to limit entries, newest first.
func (r *SystemLogs) Recent(ctx context.Context, limit int) ([]models.SystemLog, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, action, performed_by, created_at
		FROM system_logs
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		slog.Error("failed to list system logs", "error", err)
		return nil, fmt.Errorf("failed to list system logs: %w", err)
	}
	defer rows.Close()

	result := []models.SystemLog{}
	for rows.Next() {
		var (
			l  models.SystemLog
			by sql.NullInt64
		)
		if err := rows.Scan(&l.ID, &l.Action, &by, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan system log: %w", err)
		}
		l.PerformedBy = int(by.Int64)
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate system logs: %w", err)
	}
	return result, nil
}
