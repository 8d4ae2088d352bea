// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/kaushiknetcode/Voting-admin/models"
)

type VotingData struct {
	q querier
}

func NewVotingData(db *sql.DB) *VotingData {
	return &VotingData{q: db}
}

// FindQuery filters Find. Zero values match everything.
type FindQuery struct {
	Date    string
	PlaceID int
}

var votingDataColumns = `id, place_id, votes_count, male_voters, female_voters, ` +
	dateColumn("date") + `, submitted_by_user_id, submitted_by_role, submitted_by_place_name, created_at`

func scanVotingData(row interface{ Scan(...any) error }) (models.VotingDataRow, error) {
	var v models.VotingDataRow
	err := row.Scan(&v.ID, &v.PlaceID, &v.VotesCount, &v.MaleVoters, &v.FemaleVoters,
		&v.Date, &v.SubmittedByUserID, &v.SubmittedByRole, &v.SubmittedByPlaceName, &v.CreatedAt)
	return v, err
}

// Create inserts a submission and returns the stored row.
func (r *VotingData) Create(ctx context.Context, in models.VotingInput) (models.VotingDataRow, error) {
	row := r.q.QueryRowContext(ctx, `
		INSERT INTO voting_data
		(place_id, votes_count, male_voters, female_voters, date, submitted_by_user_id, submitted_by_role, submitted_by_place_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+votingDataColumns,
		in.PlaceID, in.VotesCount, in.MaleVoters, in.FemaleVoters, in.Date,
		in.SubmittedBy.UserID, in.SubmittedBy.Role, in.SubmittedBy.PlaceName,
	)

	v, err := scanVotingData(row)
	if err != nil {
		slog.Error("failed to create voting data", "place_id", in.PlaceID, "date", in.Date, "error", err)
		if isForeignKeyViolation(err) {
			return models.VotingDataRow{}, fmt.Errorf("failed to create voting data: %w", ErrUnknownReference)
		}
		return models.VotingDataRow{}, fmt.Errorf("failed to create voting data: %w", err)
	}
	return v, nil
}

// Find returns matching submissions, newest first.
func (r *VotingData) Find(ctx context.Context, query FindQuery) ([]models.VotingDataRow, error) {
	var (
		conditions []string
		args       []any
	)
	if query.Date != "" {
		args = append(args, query.Date)
		conditions = append(conditions, "date = $"+strconv.Itoa(len(args)))
	}
	if query.PlaceID != 0 {
		args = append(args, query.PlaceID)
		conditions = append(conditions, "place_id = $"+strconv.Itoa(len(args)))
	}

	sqlText := "SELECT " + votingDataColumns + " FROM voting_data"
	if len(conditions) > 0 {
		sqlText += " WHERE " + strings.Join(conditions, " AND ")
	}
	sqlText += " ORDER BY created_at DESC, id DESC"

	rows, err := r.q.QueryContext(ctx, sqlText, args...)
	if err != nil {
		slog.Error("failed to find voting data", "error", err)
		return nil, fmt.Errorf("failed to find voting data: %w", err)
	}
	defer rows.Close()

	result := []models.VotingDataRow{}
	for rows.Next() {
		v, err := scanVotingData(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan voting data: %w", err)
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate voting data: %w", err)
	}
	return result, nil
}

// Aggregate sums every submission for date, or all submissions when date
// is empty.
func (r *VotingData) Aggregate(ctx context.Context, date string) (models.Totals, error) {
	sqlText := `
		SELECT COALESCE(SUM(votes_count), 0), COALESCE(SUM(male_voters), 0), COALESCE(SUM(female_voters), 0)
		FROM voting_data`
	var args []any
	if date != "" {
		sqlText += " WHERE date = $1"
		args = append(args, date)
	}

	var t models.Totals
	if err := r.q.QueryRowContext(ctx, sqlText, args...).Scan(&t.TotalVotes, &t.TotalMale, &t.TotalFemale); err != nil {
		slog.Error("failed to aggregate voting data", "date", date, "error", err)
		return models.Totals{}, fmt.Errorf("failed to aggregate voting data: %w", err)
	}
	return t, nil
}
