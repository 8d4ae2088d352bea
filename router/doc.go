// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the voting admin API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	hub := broadcast.NewHub(logger)
	mux := router.NewRouter(db, hub, cfg.Room)

# Endpoints

Health:

	GET /health

Accounts:

	POST /auth/login  - Check staff credentials
	GET  /system-logs - Recent administrative actions

Reference data:

	GET /places - Polling places and registered voters

Submissions:

	POST /voting-data         - Submit turnout figures
	GET  /voting-data         - List submissions (?date=&placeId=)
	GET  /voting-data/summary - Zone totals and turnout (?date=)

Voting days:

	GET /voting-dates        - All days in calendar order
	GET /voting-dates/{date} - One day
	PUT /voting-dates/{date} - Activate, deactivate, complete or reopen

Peer sync:

	GET  /rooms/{room}/stream         - Server-Sent Events for a room
	POST /rooms/{room}/events/{event} - Publish to a room

Every route except health, root and room publishing is wrapped with
middleware.WithLogging. Room publishing is called once per local change,
so it is left unlogged.
*/
package router
