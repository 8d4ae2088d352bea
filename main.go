package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/kaushiknetcode/Voting-admin/broadcast"
	"github.com/kaushiknetcode/Voting-admin/cliparse"
	"github.com/kaushiknetcode/Voting-admin/db"
	"github.com/kaushiknetcode/Voting-admin/middleware"
	"github.com/kaushiknetcode/Voting-admin/router"
)

// shutdownGrace is how long in-flight REST requests get after a signal.
// Event streams are ended by closing the hub when shutdown starts.
const shutdownGrace = 5 * time.Second

func main() {
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func run(ctx context.Context, cfg cliparse.Config) error {
	conn, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	hub := broadcast.NewHub(slog.Default())
	server := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           middleware.CORS(cfg.AllowedOrigin, router.NewRouter(conn, hub, cfg.Room)),
		ReadHeaderTimeout: 10 * time.Second,
	}
	server.RegisterOnShutdown(hub.Close)

	errc := make(chan error, 1)
	go func() {
		slog.Info("listening", "port", cfg.Port, "origin", cfg.AllowedOrigin, "room", cfg.Room)
		errc <- server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("failed to serve: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down", "grace", shutdownGrace)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return server.Close()
		}
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}

// openDatabase connects to postgres, then creates and seeds the schema.
func openDatabase(cfg cliparse.Config) (*sql.DB, error) {
	conn, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}
	if err := db.CreateSchema(conn); err != nil {
		conn.Close()
		return nil, err
	}
	if err := db.Seed(conn, db.SeedOptions{Users: cfg.SeedUsers}); err != nil {
		conn.Close()
		return nil, err
	}
	slog.Info("database ready", "seed_users", cfg.SeedUsers)
	return conn, nil
}
