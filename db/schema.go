// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// DropSchema removes every table CreateSchema creates.
func DropSchema(db *sql.DB) error {
	_, err := db.Exec(`
		DROP TABLE IF EXISTS system_logs CASCADE;
		DROP TABLE IF EXISTS voting_data CASCADE;
		DROP TABLE IF EXISTS voting_dates CASCADE;
		DROP TABLE IF EXISTS places CASCADE;
		DROP TABLE IF EXISTS users CASCADE;
	`)
	if err != nil {
		return fmt.Errorf("failed to drop schema: %w", err)
	}
	return nil
}

const schema = `
-- Staff accounts. place_id 0 is the zone-wide super admin.
CREATE TABLE IF NOT EXISTS users (
    id SERIAL PRIMARY KEY,
    username VARCHAR(50) UNIQUE NOT NULL,
    password VARCHAR(255) NOT NULL,
    role VARCHAR(20) NOT NULL CHECK (role IN ('APO', 'PO', 'SUPER_ADMIN')),
    place_id INTEGER NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
);

-- Polling places
CREATE TABLE IF NOT EXISTS places (
    id SERIAL PRIMARY KEY,
    name VARCHAR(100) NOT NULL,
    total_voters INTEGER NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
);

-- Voting days
CREATE TABLE IF NOT EXISTS voting_dates (
    id SERIAL PRIMARY KEY,
    date DATE NOT NULL UNIQUE,
    is_active BOOLEAN DEFAULT false,
    is_complete BOOLEAN DEFAULT false,
    created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
);

-- Submitted turnout figures
CREATE TABLE IF NOT EXISTS voting_data (
    id SERIAL PRIMARY KEY,
    place_id INTEGER REFERENCES places(id),
    votes_count INTEGER NOT NULL,
    male_voters INTEGER NOT NULL,
    female_voters INTEGER NOT NULL,
    date DATE NOT NULL,
    submitted_by_user_id INTEGER REFERENCES users(id),
    submitted_by_role VARCHAR(20) NOT NULL,
    submitted_by_place_name VARCHAR(100) NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
);

-- Audit trail of administrative actions
CREATE TABLE IF NOT EXISTS system_logs (
    id SERIAL PRIMARY KEY,
    action VARCHAR(50) NOT NULL,
    performed_by INTEGER REFERENCES users(id),
    created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_voting_data_place_id ON voting_data(place_id);
CREATE INDEX IF NOT EXISTS idx_voting_data_date ON voting_data(date);
CREATE INDEX IF NOT EXISTS idx_voting_dates_date ON voting_dates(date);
CREATE INDEX IF NOT EXISTS idx_system_logs_action ON system_logs(action);
CREATE INDEX IF NOT EXISTS idx_system_logs_created_at ON system_logs(created_at);
`
