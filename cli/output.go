package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/kaushiknetcode/Voting-admin/models"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Invalid input
	ExitCommandError = 2 // Local store or server unavailable
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format string
	Writer io.Writer
	now    func() time.Time
}

func newFormatter(opts *RootOptions, w io.Writer) *OutputFormatter {
	return &OutputFormatter{Format: opts.Format, Writer: w, now: time.Now}
}

// CLIResponse is the JSON envelope for every command.
type CLIResponse struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
}

// emit writes data as JSON, or calls text for human output.
func (f *OutputFormatter) emit(data any, text func(w io.Writer)) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{Status: "ok", Data: data})
	}
	text(f.Writer)
	return nil
}

func percent(p float64) string {
	return humanize.FtoaWithDigits(p, 2) + "%"
}

// ZonalReport is the zonal command's payload.
type ZonalReport struct {
	Date string `json:"date"`
	models.ZonalData
}

func (f *OutputFormatter) Zonal(r ZonalReport) error {
	return f.emit(r, func(w io.Writer) {
		date := r.Date
		if date == "" {
			date = "all dates"
		}
		fmt.Fprintf(w, "Zone turnout for %s\n", date)
		fmt.Fprintf(w, "  Total votes:  %s\n", humanize.Comma(int64(r.TotalVotes)))
		fmt.Fprintf(w, "  Male:         %s\n", humanize.Comma(int64(r.TotalMale)))
		fmt.Fprintf(w, "  Female:       %s\n", humanize.Comma(int64(r.TotalFemale)))
		fmt.Fprintf(w, "  Turnout:      %s\n", percent(r.VotingPercentage))
	})
}

// CumulativeRow is one place in the cumulative report.
type CumulativeRow struct {
	PlaceID int    `json:"placeId"`
	Place   string `json:"place"`
	Votes   int    `json:"votes"`
}

// CumulativeReport is the cumulative command's payload.
type CumulativeReport struct {
	UpTo   string          `json:"upTo"`
	Places []CumulativeRow `json:"places"`
	Total  int             `json:"total"`
}

func newCumulativeReport(c models.CumulativeVotes, places []models.Place, upTo string) CumulativeReport {
	r := CumulativeReport{UpTo: upTo, Places: []CumulativeRow{}, Total: c.Total}
	for id, votes := range c.ByPlace {
		r.Places = append(r.Places, CumulativeRow{PlaceID: id, Place: models.PlaceName(places, id), Votes: votes})
	}
	sort.Slice(r.Places, func(i, j int) bool { return r.Places[i].PlaceID < r.Places[j].PlaceID })
	return r
}

func (f *OutputFormatter) Cumulative(r CumulativeReport) error {
	return f.emit(r, func(w io.Writer) {
		upTo := r.UpTo
		if upTo == "" {
			upTo = "all dates"
		}
		fmt.Fprintf(w, "Cumulative votes up to %s\n", upTo)
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, p := range r.Places {
			fmt.Fprintf(tw, "  %d\t%s\t%s\n", p.PlaceID, p.Place, humanize.Comma(int64(p.Votes)))
		}
		fmt.Fprintf(tw, "  \tTotal\t%s\n", humanize.Comma(int64(r.Total)))
		tw.Flush()
	})
}

func (f *OutputFormatter) Records(records []models.VotingData) error {
	if records == nil {
		records = []models.VotingData{}
	}
	return f.emit(records, func(w io.Writer) {
		if len(records) == 0 {
			fmt.Fprintln(w, "No submissions")
			return
		}
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "DATE\tVOTES\tMALE\tFEMALE\tBY\tSUBMITTED")
		for _, r := range records {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
				r.Date,
				humanize.Comma(int64(r.VotesCount)),
				humanize.Comma(int64(r.MaleVoters)),
				humanize.Comma(int64(r.FemaleVoters)),
				r.SubmittedBy.Role,
				f.ago(r.Timestamp),
			)
		}
		tw.Flush()
	})
}

func (f *OutputFormatter) Dates(dates []models.VotingDate, current string) error {
	return f.emit(struct {
		Dates       []models.VotingDate `json:"votingDates"`
		CurrentDate string              `json:"currentDate"`
	}{dates, current}, func(w io.Writer) {
		for _, d := range dates {
			marker := " "
			if d.Date == current {
				marker = "*"
			}
			status := "pending"
			switch {
			case d.IsActive && d.IsComplete:
				status = "active, complete"
			case d.IsActive:
				status = "active"
			case d.IsComplete:
				status = "complete"
			}
			fmt.Fprintf(w, "%s %s  %s\n", marker, d.Date, status)
		}
	})
}

func (f *OutputFormatter) Logs(logs []models.ActivityLog) error {
	if logs == nil {
		logs = []models.ActivityLog{}
	}
	return f.emit(logs, func(w io.Writer) {
		if len(logs) == 0 {
			fmt.Fprintln(w, "No activity")
			return
		}
		for _, l := range logs {
			fmt.Fprintf(w, "%s  %s (%s) reported %s votes for %s\n",
				f.ago(l.Timestamp), l.PlaceName, l.Role, humanize.Comma(int64(l.VotesCount)), l.Date)
		}
	})
}

// Message prints a one-line confirmation.
func (f *OutputFormatter) Message(data any, text string) error {
	return f.emit(data, func(w io.Writer) { fmt.Fprintln(w, text) })
}

func (f *OutputFormatter) ago(ms int64) string {
	if ms == 0 {
		return "-"
	}
	return humanize.RelTime(time.UnixMilli(ms), f.now(), "ago", "from now")
}
