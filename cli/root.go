// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cli

import (
	"fmt"
	"slices"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"

	"github.com/kaushiknetcode/Voting-admin/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Server  string
	Storage string
	Room    string
	Offline bool
	Verbose bool
	Format  string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// clientEnv supplies flag defaults from the environment.
type clientEnv struct {
	ServerURL   string `env:"VOTING_SERVER_URL" envDefault:"http://localhost:3318"`
	StoragePath string `env:"VOTING_STORAGE_PATH" envDefault:"voting.db"`
}

// NewRootCommand creates the root command for the tally CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	var defaults clientEnv
	if err := env.Parse(&defaults); err != nil {
		// Only malformed tags can fail here; fall back to built-ins
		defaults = clientEnv{ServerURL: "http://localhost:3318", StoragePath: "voting.db"}
	}

	cmd := &cobra.Command{
		Use:   "tally",
		Short: "tally - voting day figures from the command line",
		Long: `Submit turnout figures, manage voting days and read zone totals from a
local voting store that stays in sync with other clients through the server.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.Server, "server", defaults.ServerURL, "sync server URL (env VOTING_SERVER_URL)")
	cmd.PersistentFlags().StringVar(&opts.Storage, "storage", defaults.StoragePath, "local store path (env VOTING_STORAGE_PATH)")
	cmd.PersistentFlags().StringVar(&opts.Room, "room", store.DefaultRoom, "sync room")
	cmd.PersistentFlags().BoolVar(&opts.Offline, "offline", false, "do not connect to the server")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	// Add subcommands
	cmd.AddCommand(NewSubmitCommand(opts))
	cmd.AddCommand(NewZonalCommand(opts))
	cmd.AddCommand(NewCumulativeCommand(opts))
	cmd.AddCommand(NewPlaceCommand(opts))
	cmd.AddCommand(NewDatesCommand(opts))
	cmd.AddCommand(NewCurrentCommand(opts))
	cmd.AddCommand(NewResetCommand(opts))
	cmd.AddCommand(NewLogsCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))

	return cmd
}
