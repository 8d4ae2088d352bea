// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the voting admin server.

The server collects turnout figures from polling places across a zone,
tracks which voting day is active, and relays live updates between the
dashboards that hold a local voting store.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=postgres://... go run .

Or with flags:

	go run . -p 3318 -d "postgres://..."

A .env file in the working directory is loaded first if present.

# Configuration

Required settings:

  - DATABASE_URL (-d): PostgreSQL connection string

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - SEED_USERS (-seed-users): Create the staff accounts (default: true)
  - ALLOWED_ORIGIN (-origin): CORS origin for the dashboard

# Architecture

  - store: Client-side voting state, aggregation and peer merge
  - broadcast: Rooms, the SSE stream endpoint and the HTTP client transport
  - localstore: SQLite-backed persistence for the client store
  - handlers: HTTP request handlers (submissions, voting days, accounts)
  - repository: Typed queries over PostgreSQL
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Shared domain and row types
  - auth: Password hashing
  - db: Schema creation and seeding
  - cliparse: Configuration parsing
  - cli, cmd/tally: Command-line client over a local store

On SIGINT or SIGTERM the server stops accepting connections and gives
in-flight requests five seconds before closing open event streams.

See package documentation for each component.
*/
package main
