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

type Places struct {
	q querier
}

func NewPlaces(db *sql.DB) *Places {
	return &Places{q: db}
}

// Find returns every place ordered by id.
func (r *Places) Find(ctx context.Context) ([]models.Place, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT id, name, total_voters FROM places ORDER BY id`)
	if err != nil {
		slog.Error("failed to find places", "error", err)
		return nil, fmt.Errorf("failed to find places: %w", err)
	}
	defer rows.Close()

	result := []models.Place{}
	for rows.Next() {
		var p models.Place
		if err := rows.Scan(&p.ID, &p.Name, &p.TotalVoters); err != nil {
			return nil, fmt.Errorf("failed to scan place: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate places: %w", err)
	}
	return result, nil
}
