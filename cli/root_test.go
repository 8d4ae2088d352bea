// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command offline against the store at storage.
func execute(t *testing.T, storage string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--offline", "--storage", storage}, args...))
	err := cmd.Execute()
	return buf.String(), err
}

func tempStorage(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "voting.db")
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()

	assert.Equal(t, "tally", cmd.Use)
	assert.NotEmpty(t, cmd.Short)

	flags := cmd.PersistentFlags()
	for _, name := range []string{"server", "storage", "room", "offline", "verbose", "format"} {
		assert.NotNil(t, flags.Lookup(name), "missing flag %s", name)
	}
	assert.Equal(t, "v", flags.Lookup("verbose").Shorthand)
	assert.Equal(t, "text", flags.Lookup("format").DefValue)
	assert.Equal(t, "votingRoom", flags.Lookup("room").DefValue)
}

func TestRootCommandSubcommands(t *testing.T) {
	cmd := NewRootCommand()

	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"submit", "zonal", "cumulative", "place", "dates", "current", "reset", "logs", "watch"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestRootCommandEnvDefaults(t *testing.T) {
	t.Setenv("VOTING_SERVER_URL", "http://sync.example:9000")
	t.Setenv("VOTING_STORAGE_PATH", "/tmp/elsewhere.db")

	flags := NewRootCommand().PersistentFlags()
	assert.Equal(t, "http://sync.example:9000", flags.Lookup("server").DefValue)
	assert.Equal(t, "/tmp/elsewhere.db", flags.Lookup("storage").DefValue)
}

func TestRootCommandInvalidFormat(t *testing.T) {
	_, err := execute(t, tempStorage(t), "--format", "yaml", "zonal")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"plain error", assert.AnError, ExitFailure},
		{"exit error", NewExitError(ExitCommandError, "down"), ExitCommandError},
		{"wrapped", WrapExitError(ExitFailure, "bad", assert.AnError), ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

func TestExitErrorMessage(t *testing.T) {
	assert.Equal(t, "down", NewExitError(ExitCommandError, "down").Error())

	err := WrapExitError(ExitCommandError, "failed to open", assert.AnError)
	assert.Contains(t, err.Error(), "failed to open: ")
	assert.ErrorIs(t, err, assert.AnError)
}
