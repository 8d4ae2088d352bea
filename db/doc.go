// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation and seeding.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Seeding

Seed inserts the eight polling places, the four scheduled voting dates (all
inactive and incomplete) and, when asked, the seventeen staff accounts:

	err := db.Seed(conn, db.SeedOptions{Users: cfg.SeedUsers})

Rows that already exist are skipped, so Seed runs on every start.

# Tables

  - users: Staff accounts with bcrypt password hashes
  - places: Polling places and their registered voter counts
  - voting_dates: The voting days and their active/complete flags
  - voting_data: Submitted turnout figures
  - system_logs: Administrative actions

# Relationships

	places 1──* voting_data
	users  1──* voting_data (submitted_by_user_id)
	users  1──* system_logs (performed_by)

# Indexes

Performance indexes on:

  - voting_data.place_id
  - voting_data.date
  - voting_dates.date
  - system_logs.action
  - system_logs.created_at
*/
package db
