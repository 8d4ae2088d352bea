// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: PostgreSQL connection string (required)
  - SeedUsers: Create the staff accounts on startup (default: true)
  - AllowedOrigin: CORS origin for the dashboard (default: reflect request)

# Sources

Values are read in this order, later sources winning:

 1. a .env file in the working directory, if present
 2. environment variables
 3. CLI flags

# CLI Flags

	-p            Server port
	-d            Database URL
	-seed-users   Seed staff accounts
	-origin       Allowed CORS origin

# Environment Variables

	PORT           → -p
	DATABASE_URL   → -d
	SEED_USERS     → -seed-users
	ALLOWED_ORIGIN → -origin

# Validation

ParseFlags returns an error if DATABASE_URL is missing or the port is out
of range.
*/
package cliparse
