// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the voting admin API.

# Handler Types

Each handler is a struct built from a *sql.DB:

  - VotingDataHandler: Turnout submissions, listing and zone summary
  - VotingDateHandler: Voting day activation and completion
  - PlacesHandler: Polling places and registered voter counts
  - AuthHandler: Staff login
  - SystemLogHandler: Administrative audit trail

The voting date handler also takes the hub and the room it publishes to:

	votingData := handlers.NewVotingDataHandler(db)
	votingDates := handlers.NewVotingDateHandler(db, hub, cfg.Room)

# Submissions

	POST /voting-data                 → Create
	GET  /voting-data?date=&placeId=  → List (newest first)
	GET  /voting-data/summary?date=   → Summary (totals + turnout %)

Create rejects negative counts, malformed dates, unknown roles, and
places or users missing from the database. Turnout percentage is 0 when
no voters are registered.

# Voting Days

	GET /voting-dates         → List (calendar order)
	GET /voting-dates/{date}  → Get
	PUT /voting-dates/{date}  → Update {"isActive":true,"isComplete":false,"performedBy":1}

Absent flags keep their stored value. Activating a date deactivates all
others in the same transaction, and every flag change is written to
system_logs. After a successful update the full date list is published to
the configured room (SYNC_ROOM, default "votingRoom") as a "votingUpdate"
event so connected stores pick it up. Stores joined to any other room do
not see server-side date changes.

# Accounts

	POST /auth/login          → Login {"username":"hq_apo","password":"..."}
	GET  /system-logs?limit=  → List (newest first, default 50, max 500)
*/
package handlers
