// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaushiknetcode/Voting-admin/models"
)

// decode unmarshals a JSON CLIResponse and returns its data.
func decode[T any](t *testing.T, out string) T {
	t.Helper()
	var resp struct {
		Status string `json:"status"`
		Data   T      `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp), "output: %s", out)
	assert.Equal(t, "ok", resp.Status)
	return resp.Data
}

func submit(t *testing.T, storage string, args ...string) {
	t.Helper()
	_, err := execute(t, storage, append([]string{"submit"}, args...)...)
	require.NoError(t, err)
}

func TestSubmitThenZonal(t *testing.T) {
	storage := tempStorage(t)

	out, err := execute(t, storage, "submit", "--place", "1", "--votes", "100", "--male", "60", "--female", "40", "--role", "APO")
	require.NoError(t, err)
	assert.Contains(t, out, "Recorded 100 votes for place 1 on 2024-12-04")

	submit(t, storage, "--place", "3", "--votes", "50", "--male", "20", "--female", "30", "--date", "2024-12-05")

	out, err = execute(t, storage, "--format", "json", "zonal")
	require.NoError(t, err)
	z := decode[ZonalReport](t, out)
	assert.Equal(t, "2024-12-04", z.Date)
	assert.Equal(t, 100, z.TotalVotes)
	assert.Equal(t, 60, z.TotalMale)
	assert.Equal(t, 40, z.TotalFemale)
	assert.InDelta(t, 100.0/97741*100, z.VotingPercentage, 1e-9)

	out, err = execute(t, storage, "--format", "json", "zonal", "--all")
	require.NoError(t, err)
	z = decode[ZonalReport](t, out)
	assert.Equal(t, "", z.Date)
	assert.Equal(t, 150, z.TotalVotes)

	out, err = execute(t, storage, "zonal", "--date", "2024-12-05")
	require.NoError(t, err)
	assert.Contains(t, out, "Zone turnout for 2024-12-05")
	assert.Contains(t, out, "Total votes:  50")
}

func TestSubmitRecordJSON(t *testing.T) {
	storage := tempStorage(t)

	out, err := execute(t, storage, "--format", "json", "submit", "--place", "2", "--votes", "12", "--male", "7", "--female", "5", "--user-id", "9", "--role", "PO")
	require.NoError(t, err)

	rec := decode[models.VotingData](t, out)
	assert.Equal(t, 2, rec.PlaceID)
	assert.Equal(t, 12, rec.VotesCount)
	assert.Equal(t, "2024-12-04", rec.Date)
	assert.Equal(t, models.Submitter{UserID: 9, Role: "PO", PlaceName: "Malda Division"}, rec.SubmittedBy)
	assert.NotZero(t, rec.Timestamp)
}

func TestSubmitErrors(t *testing.T) {
	storage := tempStorage(t)

	_, err := execute(t, storage, "submit", "--votes", "1")
	require.Error(t, err, "place is required")

	_, err = execute(t, storage, "submit", "--place", "1", "--date", "12/04/2024")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	_, err = execute(t, storage, "current", "--clear")
	require.NoError(t, err)
	_, err = execute(t, storage, "submit", "--place", "1", "--votes", "1")
	require.Error(t, err, "no current date to default to")
}

func TestCumulative(t *testing.T) {
	storage := tempStorage(t)
	submit(t, storage, "--place", "1", "--votes", "100", "--date", "2024-12-04")
	submit(t, storage, "--place", "1", "--votes", "30", "--date", "2024-12-05")
	submit(t, storage, "--place", "4", "--votes", "70", "--date", "2024-12-06")

	out, err := execute(t, storage, "--format", "json", "cumulative", "--up-to", "2024-12-05")
	require.NoError(t, err)
	r := decode[CumulativeReport](t, out)
	assert.Equal(t, "2024-12-05", r.UpTo)
	assert.Equal(t, 130, r.Total)
	assert.Equal(t, []CumulativeRow{{PlaceID: 1, Place: "Headquarter", Votes: 130}}, r.Places)

	out, err = execute(t, storage, "cumulative")
	require.NoError(t, err)
	assert.Contains(t, out, "Cumulative votes up to all dates")
	assert.Contains(t, out, "Sealdah Division")
	assert.Contains(t, out, "200")
}

func TestPlace(t *testing.T) {
	storage := tempStorage(t)
	submit(t, storage, "--place", "5", "--votes", "10", "--date", "2024-12-04")
	submit(t, storage, "--place", "5", "--votes", "20", "--date", "2024-12-05")
	submit(t, storage, "--place", "6", "--votes", "99", "--date", "2024-12-05")

	out, err := execute(t, storage, "--format", "json", "place", "5")
	require.NoError(t, err)
	assert.Len(t, decode[[]models.VotingData](t, out), 2)

	out, err = execute(t, storage, "--format", "json", "place", "5", "--date", "2024-12-05")
	require.NoError(t, err)
	recs := decode[[]models.VotingData](t, out)
	require.Len(t, recs, 1)
	assert.Equal(t, 20, recs[0].VotesCount)

	out, err = execute(t, storage, "place", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "No submissions")

	_, err = execute(t, storage, "place", "abc")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

type datesPayload struct {
	Dates       []models.VotingDate `json:"votingDates"`
	CurrentDate string              `json:"currentDate"`
}

func TestDates(t *testing.T) {
	storage := tempStorage(t)

	out, err := execute(t, storage, "--format", "json", "dates", "list")
	require.NoError(t, err)
	d := decode[datesPayload](t, out)
	assert.Equal(t, models.SeedDates(), d.Dates)
	assert.Equal(t, "2024-12-04", d.CurrentDate)

	_, err = execute(t, storage, "dates", "activate", "2024-12-05")
	require.NoError(t, err)
	out, err = execute(t, storage, "--format", "json", "dates", "activate", "2024-12-06")
	require.NoError(t, err)
	d = decode[datesPayload](t, out)
	assert.False(t, d.Dates[1].IsActive)
	assert.True(t, d.Dates[2].IsActive, "activation is exclusive")

	_, err = execute(t, storage, "dates", "activate", "2024-12-06", "--off")
	require.NoError(t, err)

	_, err = execute(t, storage, "dates", "complete", "2024-12-04")
	require.NoError(t, err)
	out, err = execute(t, storage, "dates", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "* 2024-12-04  complete")
	assert.Contains(t, out, "  2024-12-06  pending")

	out, err = execute(t, storage, "--format", "json", "dates", "complete", "2024-12-04", "--undo")
	require.NoError(t, err)
	d = decode[datesPayload](t, out)
	assert.Equal(t, models.SeedDates(), d.Dates)

	_, err = execute(t, storage, "dates", "activate", "tomorrow")
	require.Error(t, err)
}

func TestCurrent(t *testing.T) {
	storage := tempStorage(t)

	out, err := execute(t, storage, "current")
	require.NoError(t, err)
	assert.Equal(t, "2024-12-04\n", out)

	_, err = execute(t, storage, "current", "2024-12-10")
	require.NoError(t, err)
	out, err = execute(t, storage, "--format", "json", "current")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"currentDate": "2024-12-10"}, decode[map[string]string](t, out))

	out, err = execute(t, storage, "current", "--clear")
	require.NoError(t, err)
	assert.Equal(t, "no date selected\n", out)

	_, err = execute(t, storage, "current", "10 Dec")
	require.Error(t, err)
}

func TestReset(t *testing.T) {
	storage := tempStorage(t)
	submit(t, storage, "--place", "1", "--votes", "100")
	_, err := execute(t, storage, "dates", "activate", "2024-12-05")
	require.NoError(t, err)

	_, err = execute(t, storage, "reset")
	require.Error(t, err, "reset needs confirmation")
	assert.Equal(t, ExitFailure, GetExitCode(err))

	out, err := execute(t, storage, "reset", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Voting data reset")

	out, err = execute(t, storage, "--format", "json", "zonal", "--all")
	require.NoError(t, err)
	assert.Equal(t, 0, decode[ZonalReport](t, out).TotalVotes)

	out, err = execute(t, storage, "--format", "json", "dates", "list")
	require.NoError(t, err)
	assert.Equal(t, models.SeedDates(), decode[datesPayload](t, out).Dates)
}

func TestLogs(t *testing.T) {
	storage := tempStorage(t)

	out, err := execute(t, storage, "logs")
	require.NoError(t, err)
	assert.Contains(t, out, "No activity")

	submit(t, storage, "--place", "1", "--votes", "11", "--role", "APO")
	submit(t, storage, "--place", "8", "--votes", "22", "--role", "PO")

	out, err = execute(t, storage, "--format", "json", "logs")
	require.NoError(t, err)
	logs := decode[[]models.ActivityLog](t, out)
	require.Len(t, logs, 2)
	assert.Equal(t, "Asansol Division", logs[0].PlaceName, "newest first")
	assert.Equal(t, 22, logs[0].VotesCount)

	out, err = execute(t, storage, "--format", "json", "logs", "--limit", "1")
	require.NoError(t, err)
	assert.Len(t, decode[[]models.ActivityLog](t, out), 1)

	out, err = execute(t, storage, "logs")
	require.NoError(t, err)
	assert.Contains(t, out, "Headquarter (APO) reported 11 votes for 2024-12-04")

	_, err = execute(t, storage, "logs", "--limit=-1")
	require.Error(t, err)
}
