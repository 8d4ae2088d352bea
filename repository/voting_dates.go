// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kaushiknetcode/Voting-admin/models"
)

type VotingDates struct {
	q querier
}

func NewVotingDates(db *sql.DB) *VotingDates {
	return &VotingDates{q: db}
}

// WithTx returns a copy that runs its queries inside tx.
func (r *VotingDates) WithTx(tx *sql.Tx) *VotingDates {
	return &VotingDates{q: tx}
}

var votingDateColumns = `id, ` + dateColumn("date") + `, is_active, is_complete, created_at, updated_at`

func scanVotingDate(row interface{ Scan(...any) error }) (models.VotingDateRow, error) {
	var d models.VotingDateRow
	err := row.Scan(&d.ID, &d.Date, &d.IsActive, &d.IsComplete, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

// Find returns every voting date in calendar order.
func (r *VotingDates) Find(ctx context.Context) ([]models.VotingDateRow, error) {
	rows, err := r.q.QueryContext(ctx, "SELECT "+votingDateColumns+" FROM voting_dates ORDER BY date ASC")
	if err != nil {
		slog.Error("failed to find voting dates", "error", err)
		return nil, fmt.Errorf("failed to find voting dates: %w", err)
	}
	defer rows.Close()

	result := []models.VotingDateRow{}
	for rows.Next() {
		d, err := scanVotingDate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan voting date: %w", err)
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate voting dates: %w", err)
	}
	return result, nil
}

// FindOne returns the voting date for date or ErrNotFound.
func (r *VotingDates) FindOne(ctx context.Context, date string) (models.VotingDateRow, error) {
	row := r.q.QueryRowContext(ctx, "SELECT "+votingDateColumns+" FROM voting_dates WHERE date = $1", date)
	d, err := scanVotingDate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.VotingDateRow{}, ErrNotFound
	}
	if err != nil {
		slog.Error("failed to find voting date", "date", date, "error", err)
		return models.VotingDateRow{}, fmt.Errorf("failed to find voting date: %w", err)
	}
	return d, nil
}

// LockAll takes row locks on every voting date in calendar order. Call it
// first inside a transaction that changes more than one date.
func (r *VotingDates) LockAll(ctx context.Context) error {
	rows, err := r.q.QueryContext(ctx, "SELECT id FROM voting_dates ORDER BY date FOR UPDATE")
	if err != nil {
		slog.Error("failed to lock voting dates", "error", err)
		return fmt.Errorf("failed to lock voting dates: %w", err)
	}
	return rows.Close()
}

// FindOneAndUpdate sets both flags on date and returns the updated row.
func (r *VotingDates) FindOneAndUpdate(ctx context.Context, date string, active, complete bool) (models.VotingDateRow, error) {
	row := r.q.QueryRowContext(ctx, `
		UPDATE voting_dates
		SET is_active = $1, is_complete = $2, updated_at = CURRENT_TIMESTAMP
		WHERE date = $3
		RETURNING `+votingDateColumns,
		active, complete, date,
	)
	d, err := scanVotingDate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.VotingDateRow{}, ErrNotFound
	}
	if err != nil {
		slog.Error("failed to update voting date", "date", date, "error", err)
		return models.VotingDateRow{}, fmt.Errorf("failed to update voting date: %w", err)
	}
	return d, nil
}

// UpdateMany sets is_active on every date except exceptDate and returns the
// rows it touched.
func (r *VotingDates) UpdateMany(ctx context.Context, exceptDate string, active bool) ([]models.VotingDateRow, error) {
	rows, err := r.q.QueryContext(ctx, `
		UPDATE voting_dates
		SET is_active = $1, updated_at = CURRENT_TIMESTAMP
		WHERE date != $2
		RETURNING `+votingDateColumns,
		active, exceptDate,
	)
	if err != nil {
		slog.Error("failed to update voting dates", "except", exceptDate, "error", err)
		return nil, fmt.Errorf("failed to update voting dates: %w", err)
	}
	defer rows.Close()

	result := []models.VotingDateRow{}
	for rows.Next() {
		d, err := scanVotingDate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan voting date: %w", err)
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate voting dates: %w", err)
	}
	return result, nil
}
