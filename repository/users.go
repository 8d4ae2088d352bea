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

type Users struct {
	q querier
}

func NewUsers(db *sql.DB) *Users {
	return &Users{q: db}
}

// FindByUsername returns the account including its password hash, or
// ErrNotFound.
func (r *Users) FindByUsername(ctx context.Context, username string) (models.User, error) {
	var u models.User
	err := r.q.QueryRowContext(ctx, `
		SELECT id, username, password, role, place_id, created_at
		FROM users
		WHERE username = $1
	`, username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.PlaceID, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		slog.Error("failed to find user", "username", username, "error", err)
		return models.User{}, fmt.Errorf("failed to find user: %w", err)
	}
	return u, nil
}
