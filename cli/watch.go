// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/kaushiknetcode/Voting-admin/store"
)

// connectTimeout bounds how long watch waits for the first stream connection.
const connectTimeout = 10 * time.Second

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	var duration time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow updates from other clients",
		Long: `Stay connected to the room, apply every update to the local store and
print a line for each one. Runs until interrupted or --duration elapses.

Examples:
  tally watch
  tally watch --duration 10m --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if rootOpts.Offline {
				return NewExitError(ExitFailure, "watch needs the server; drop --offline")
			}
			return runWatch(cmd.Context(), rootOpts, cmd, duration)
		},
	}

	cmd.Flags().DurationVar(&duration, "duration", 0, "stop after this long (0 runs until interrupted)")

	return cmd
}

func runWatch(ctx context.Context, opts *RootOptions, cmd *cobra.Command, duration time.Duration) (err error) {
	if duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, duration)
		defer cancel()
	}

	out := newFormatter(opts, cmd.OutOrStdout())
	var mu sync.Mutex
	var st *store.Store
	hook := func(p store.Partial) {
		mu.Lock()
		defer mu.Unlock()
		if st == nil {
			return
		}
		if err := out.Update(p, st.Snapshot()); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "failed to print update:", err)
		}
	}

	s, err := openSession(opts, newLogger(opts, cmd.ErrOrStderr()), store.WithMergeHook(hook))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil && err == nil {
			err = WrapExitError(ExitCommandError, "failed to close session", cerr)
		}
	}()

	mu.Lock()
	st = s.store
	mu.Unlock()

	select {
	case <-s.client.Ready():
	case <-time.After(connectTimeout):
		return NewExitError(ExitCommandError, fmt.Sprintf("could not reach %s", opts.Server))
	case <-ctx.Done():
		return nil
	}
	if opts.Format != "json" {
		fmt.Fprintf(cmd.OutOrStdout(), "Watching %s on %s\n", opts.Room, opts.Server)
	}

	<-ctx.Done()
	return nil
}

// WatchEvent is one line of watch output.
type WatchEvent struct {
	Fields     []string `json:"fields"`
	Records    int      `json:"records"`
	TotalVotes int      `json:"totalVotes"`
	ActiveDate string   `json:"activeDate,omitempty"`
}

// Update prints the field groups a peer update carried and the totals after
// applying it.
func (f *OutputFormatter) Update(p store.Partial, snap store.State) error {
	ev := WatchEvent{Fields: []string{}, Records: len(snap.VotingData)}
	if p.VotingData != nil {
		ev.Fields = append(ev.Fields, "votingData")
	}
	if p.ActivityLogs != nil {
		ev.Fields = append(ev.Fields, "activityLogs")
	}
	if p.VotingDates != nil {
		ev.Fields = append(ev.Fields, "votingDates")
	}
	if p.CurrentDate != nil {
		ev.Fields = append(ev.Fields, "currentDate")
	}
	for _, r := range snap.VotingData {
		ev.TotalVotes += r.VotesCount
	}
	for _, d := range snap.VotingDates {
		if d.IsActive {
			ev.ActiveDate = d.Date
		}
	}

	return f.emit(ev, func(w io.Writer) {
		active := ev.ActiveDate
		if active == "" {
			active = "none"
		}
		fmt.Fprintf(w, "%s  updated %s: %s records, %s votes, active %s\n",
			f.now().Format("15:04:05"),
			strings.Join(ev.Fields, ","),
			humanize.Comma(int64(ev.Records)),
			humanize.Comma(int64(ev.TotalVotes)),
			active,
		)
	})
}
