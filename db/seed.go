// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/kaushiknetcode/Voting-admin/auth"
	"github.com/kaushiknetcode/Voting-admin/models"
)

// SeedUser is a staff account created on first start.
type SeedUser struct {
	Username string
	Password string
	Role     string
	PlaceID  int
}

// SeedUsers are the zone's staff accounts: one super admin plus an APO and
// a PO for every place.
var SeedUsers = []SeedUser{
	{"super_admin", "admin2024", models.RoleSuperAdmin, 0},
	{"hq_apo", "hq2024", models.RoleAPO, 1},
	{"malda_apo", "malda2024", models.RoleAPO, 2},
	{"hwh_apo", "hwh2024", models.RoleAPO, 3},
	{"sdah_apo", "sdah2024", models.RoleAPO, 4},
	{"llh_apo", "llh2024", models.RoleAPO, 5},
	{"kpa_apo", "kpa2024", models.RoleAPO, 6},
	{"jmp_apo", "jmp2024", models.RoleAPO, 7},
	{"asl_apo", "asl2024", models.RoleAPO, 8},
	{"hq_po", "hq@2024", models.RolePO, 1},
	{"malda_po", "malda@2024", models.RolePO, 2},
	{"hwh_po", "hwh@2024", models.RolePO, 3},
	{"sdah_po", "sdah@2024", models.RolePO, 4},
	{"llh_po", "llh@2024", models.RolePO, 5},
	{"kpa_po", "kpa@2024", models.RolePO, 6},
	{"jmp_po", "jmp@2024", models.RolePO, 7},
	{"asl_po", "asl@2024", models.RolePO, 8},
}

// SeedOptions controls what Seed inserts.
type SeedOptions struct {
	// Users creates the SeedUsers accounts.
	Users bool
	// HashCost is the bcrypt cost for seeded passwords; 0 means auth.DefaultCost.
	HashCost int
}

// Seed inserts the places, the scheduled voting dates and optionally the
// staff accounts. Existing rows are left untouched, so Seed is safe to run
// on every start.
func Seed(db *sql.DB, opts SeedOptions) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	for _, p := range models.Places {
		_, err := tx.Exec(`
			INSERT INTO places (id, name, total_voters)
			VALUES ($1, $2, $3)
			ON CONFLICT (id) DO NOTHING
		`, p.ID, p.Name, p.TotalVoters)
		if err != nil {
			return fmt.Errorf("failed to seed place %d: %w", p.ID, err)
		}
	}
	// Explicit ids leave the serial behind
	if _, err := tx.Exec(`SELECT setval(pg_get_serial_sequence('places', 'id'), (SELECT MAX(id) FROM places))`); err != nil {
		return fmt.Errorf("failed to advance places sequence: %w", err)
	}

	for _, d := range models.SeedDates() {
		_, err := tx.Exec(`
			INSERT INTO voting_dates (date, is_active, is_complete)
			VALUES ($1, $2, $3)
			ON CONFLICT (date) DO NOTHING
		`, d.Date, d.IsActive, d.IsComplete)
		if err != nil {
			return fmt.Errorf("failed to seed voting date %s: %w", d.Date, err)
		}
	}

	if opts.Users {
		cost := opts.HashCost
		if cost == 0 {
			cost = auth.DefaultCost
		}
		created := 0
		for _, u := range SeedUsers {
			hash, err := auth.HashPasswordCost(u.Password, cost)
			if err != nil {
				return fmt.Errorf("failed to hash password for %s: %w", u.Username, err)
			}
			res, err := tx.Exec(`
				INSERT INTO users (username, password, role, place_id)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT (username) DO NOTHING
			`, u.Username, hash, u.Role, u.PlaceID)
			if err != nil {
				return fmt.Errorf("failed to seed user %s: %w", u.Username, err)
			}
			if n, _ := res.RowsAffected(); n > 0 {
				created++
			}
		}
		slog.Info("seeded users", "created", created, "total", len(SeedUsers))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}
	return nil
}
