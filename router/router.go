// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/kaushiknetcode/Voting-admin/broadcast"
	"github.com/kaushiknetcode/Voting-admin/handlers"
	"github.com/kaushiknetcode/Voting-admin/middleware"
)

// NewRouter wires every endpoint. Server-side date changes are published to
// room.
func NewRouter(db *sql.DB, hub *broadcast.Hub, room string) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	votingDataHandler := handlers.NewVotingDataHandler(db)
	votingDateHandler := handlers.NewVotingDateHandler(db, hub, room)
	placesHandler := handlers.NewPlacesHandler(db)
	authHandler := handlers.NewAuthHandler(db)
	systemLogHandler := handlers.NewSystemLogHandler(db)
	roomHandler := broadcast.NewHandler(hub)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Accounts
	mux.HandleFunc("POST /auth/login", middleware.WithLogging(authHandler.Login))
	mux.HandleFunc("GET /system-logs", middleware.WithLogging(systemLogHandler.List))

	// Reference data
	mux.HandleFunc("GET /places", middleware.WithLogging(placesHandler.List))

	// Turnout submissions
	mux.HandleFunc("POST /voting-data", middleware.WithLogging(votingDataHandler.Create))
	mux.HandleFunc("GET /voting-data", middleware.WithLogging(votingDataHandler.List))
	mux.HandleFunc("GET /voting-data/summary", middleware.WithLogging(votingDataHandler.Summary))

	// Voting days
	mux.HandleFunc("GET /voting-dates", middleware.WithLogging(votingDateHandler.List))
	mux.HandleFunc("GET /voting-dates/{date}", middleware.WithLogging(votingDateHandler.Get))
	mux.HandleFunc("PUT /voting-dates/{date}", middleware.WithLogging(votingDateHandler.Update))

	// Peer sync rooms
	mux.HandleFunc("GET /rooms/{room}/stream", middleware.WithLogging(roomHandler.Stream))
	mux.HandleFunc("POST /rooms/{room}/events/{event}", roomHandler.Emit)

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("voting-admin API v1"))
	})

	return mux
}
