// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/kaushiknetcode/Voting-admin/broadcast"
	"github.com/kaushiknetcode/Voting-admin/localstore"
	"github.com/kaushiknetcode/Voting-admin/store"
)

// flushTimeout bounds how long Close waits for queued updates to reach
// the server.
const flushTimeout = 5 * time.Second

// session is one hydrated store plus the resources behind it.
type session struct {
	store  *store.Store
	local  *localstore.Store
	client *broadcast.Client
}

func newLogger(opts *RootOptions, w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// openSession opens the local store and, unless offline, connects to the
// sync server.
func openSession(opts *RootOptions, logger *slog.Logger, extra ...store.Option) (*session, error) {
	local, err := localstore.Open(opts.Storage)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open local store", err)
	}

	s := &session{local: local}
	var transport store.Transport = store.NopTransport{}
	if !opts.Offline {
		s.client = broadcast.NewClient(opts.Server, broadcast.WithClientLogger(logger))
		transport = s.client
	}

	storeOpts := append([]store.Option{
		store.WithRoom(opts.Room),
		store.WithLogger(logger),
	}, extra...)

	st, err := store.New(transport, local, storeOpts...)
	if err != nil {
		s.Close()
		return nil, WrapExitError(ExitCommandError, "failed to open voting store", err)
	}
	s.store = st
	return s, nil
}

// Close flushes pending updates to the server, then closes the local store.
func (s *session) Close() error {
	var errs []error
	if s.client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
		if err := s.client.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to flush updates: %w", err))
		}
		cancel()
	}
	if err := s.local.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
