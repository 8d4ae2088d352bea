// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/kaushiknetcode/Voting-admin/models"
)

// withSession opens a session for the duration of fn and reports flush
// failures after fn succeeds.
func withSession(opts *RootOptions, cmd *cobra.Command, fn func(s *session, out *OutputFormatter) error) (err error) {
	s, err := openSession(opts, newLogger(opts, cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil && err == nil {
			err = WrapExitError(ExitCommandError, "failed to close session", cerr)
		}
	}()
	return fn(s, newFormatter(opts, cmd.OutOrStdout()))
}

func validDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return NewExitError(ExitFailure, fmt.Sprintf("invalid date %q: want YYYY-MM-DD", date))
	}
	return nil
}

// SubmitOptions holds flags for the submit command.
type SubmitOptions struct {
	*RootOptions
	PlaceID   int
	Votes     int
	Male      int
	Female    int
	Date      string
	UserID    int
	Role      string
	PlaceName string
}

// NewSubmitCommand creates the submit command.
func NewSubmitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SubmitOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Record turnout figures for a place",
		Long: `Record turnout figures for a place and share them with every client.

Examples:
  tally submit --place 3 --votes 120 --male 70 --female 50 --user-id 4 --role APO
  tally submit --place 1 --votes 80 --male 40 --female 40 --date 2024-12-05 --role PO`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubmit(opts, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.PlaceID, "place", 0, "place id (required)")
	_ = cmd.MarkFlagRequired("place")
	cmd.Flags().IntVar(&opts.Votes, "votes", 0, "total votes cast")
	cmd.Flags().IntVar(&opts.Male, "male", 0, "male voters")
	cmd.Flags().IntVar(&opts.Female, "female", 0, "female voters")
	cmd.Flags().StringVar(&opts.Date, "date", "", "voting date (defaults to the current date)")
	cmd.Flags().IntVar(&opts.UserID, "user-id", 0, "submitting user id")
	cmd.Flags().StringVar(&opts.Role, "role", models.RoleAPO, "submitting role (APO|PO|SUPER_ADMIN)")
	cmd.Flags().StringVar(&opts.PlaceName, "place-name", "", "submitter's place name (defaults to the place's name)")

	return cmd
}

func runSubmit(opts *SubmitOptions, cmd *cobra.Command) error {
	return withSession(opts.RootOptions, cmd, func(s *session, out *OutputFormatter) error {
		date := opts.Date
		if date == "" {
			date = s.store.Snapshot().CurrentDate
		}
		if err := validDate(date); err != nil {
			return err
		}

		placeName := opts.PlaceName
		if placeName == "" {
			placeName = models.PlaceName(s.store.Snapshot().Places, opts.PlaceID)
		}

		record := s.store.AddVotingData(models.VotingInput{
			PlaceID:      opts.PlaceID,
			VotesCount:   opts.Votes,
			MaleVoters:   opts.Male,
			FemaleVoters: opts.Female,
			Date:         date,
			SubmittedBy: models.Submitter{
				UserID:    opts.UserID,
				Role:      opts.Role,
				PlaceName: placeName,
			},
		})
		return out.Message(record, fmt.Sprintf("Recorded %d votes for place %d on %s", record.VotesCount, record.PlaceID, record.Date))
	})
}

// NewZonalCommand creates the zonal command.
func NewZonalCommand(rootOpts *RootOptions) *cobra.Command {
	var date string
	var all bool

	cmd := &cobra.Command{
		Use:   "zonal",
		Short: "Zone-wide totals and turnout for a date",
		Long: `Show zone-wide totals and turnout percentage.

Examples:
  tally zonal
  tally zonal --date 2024-12-05
  tally zonal --all --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(rootOpts, cmd, func(s *session, out *OutputFormatter) error {
				d := date
				if all {
					d = ""
				} else if d == "" {
					d = s.store.Snapshot().CurrentDate
				}
				return out.Zonal(ZonalReport{Date: d, ZonalData: s.store.ZonalData(d)})
			})
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "voting date (defaults to the current date)")
	cmd.Flags().BoolVar(&all, "all", false, "sum every date")

	return cmd
}

// NewCumulativeCommand creates the cumulative command.
func NewCumulativeCommand(rootOpts *RootOptions) *cobra.Command {
	var upTo string

	cmd := &cobra.Command{
		Use:   "cumulative",
		Short: "Votes per place summed over every date up to a date",
		Long: `Sum votes per place over every voting date on or before --up-to.

Examples:
  tally cumulative --up-to 2024-12-06
  tally cumulative`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(rootOpts, cmd, func(s *session, out *OutputFormatter) error {
				c := s.store.CumulativeVotes(upTo)
				return out.Cumulative(newCumulativeReport(c, s.store.Snapshot().Places, upTo))
			})
		},
	}

	cmd.Flags().StringVar(&upTo, "up-to", "", "last date to include (empty includes all)")

	return cmd
}

// NewPlaceCommand creates the place command.
func NewPlaceCommand(rootOpts *RootOptions) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "place <id>",
		Short: "Submissions for one place",
		Long: `List the submissions recorded for a place.

Examples:
  tally place 3
  tally place 3 --date 2024-12-04`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return NewExitError(ExitFailure, fmt.Sprintf("invalid place id %q", args[0]))
			}
			return withSession(rootOpts, cmd, func(s *session, out *OutputFormatter) error {
				return out.Records(s.store.PlaceData(id, date))
			})
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "only this date (empty lists all)")

	return cmd
}

// NewDatesCommand creates the dates command group.
func NewDatesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dates",
		Short: "List and change voting days",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List voting days",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(rootOpts, cmd, func(s *session, out *OutputFormatter) error {
				snap := s.store.Snapshot()
				return out.Dates(snap.VotingDates, snap.CurrentDate)
			})
		},
	})

	var deactivate bool
	activate := &cobra.Command{
		Use:   "activate <date>",
		Short: "Make a date the active voting day",
		Long: `Make a date the active voting day. Every other date is deactivated.

Examples:
  tally dates activate 2024-12-05
  tally dates activate 2024-12-05 --off`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validDate(args[0]); err != nil {
				return err
			}
			return withSession(rootOpts, cmd, func(s *session, out *OutputFormatter) error {
				s.store.SetDateActive(args[0], !deactivate)
				snap := s.store.Snapshot()
				return out.Dates(snap.VotingDates, snap.CurrentDate)
			})
		},
	}
	activate.Flags().BoolVar(&deactivate, "off", false, "deactivate instead")
	cmd.AddCommand(activate)

	var reopen bool
	complete := &cobra.Command{
		Use:   "complete <date>",
		Short: "Mark a voting day complete",
		Long: `Mark a voting day complete, or reopen it with --undo.

Examples:
  tally dates complete 2024-12-04
  tally dates complete 2024-12-04 --undo`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validDate(args[0]); err != nil {
				return err
			}
			return withSession(rootOpts, cmd, func(s *session, out *OutputFormatter) error {
				s.store.SetDateComplete(args[0], !reopen)
				snap := s.store.Snapshot()
				return out.Dates(snap.VotingDates, snap.CurrentDate)
			})
		},
	}
	complete.Flags().BoolVar(&reopen, "undo", false, "reopen instead")
	cmd.AddCommand(complete)

	return cmd
}

// NewCurrentCommand creates the current command.
func NewCurrentCommand(rootOpts *RootOptions) *cobra.Command {
	var clearDate bool

	cmd := &cobra.Command{
		Use:   "current [date]",
		Short: "Show or set this client's selected date",
		Long: `Show or set the date this client works on. The selection is local and
is not shared with other clients.

Examples:
  tally current
  tally current 2024-12-06
  tally current --clear`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if err := validDate(args[0]); err != nil {
					return err
				}
			}
			return withSession(rootOpts, cmd, func(s *session, out *OutputFormatter) error {
				switch {
				case clearDate:
					s.store.SetCurrentDate("")
				case len(args) == 1:
					s.store.SetCurrentDate(args[0])
				}
				current := s.store.Snapshot().CurrentDate
				text := current
				if text == "" {
					text = "no date selected"
				}
				return out.Message(map[string]string{"currentDate": current}, text)
			})
		},
	}

	cmd.Flags().BoolVar(&clearDate, "clear", false, "clear the selection")

	return cmd
}

// NewResetCommand creates the reset command.
func NewResetCommand(rootOpts *RootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Erase all submissions and restore the voting days",
		Long: `Erase every submission and activity entry, restore the scheduled voting
days, and send the reset to every connected client.

Examples:
  tally reset --yes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return NewExitError(ExitFailure, "reset erases every submission; pass --yes to confirm")
			}
			return withSession(rootOpts, cmd, func(s *session, out *OutputFormatter) error {
				s.store.Reset()
				return out.Message(map[string]bool{"reset": true}, "Voting data reset")
			})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")

	return cmd
}

// NewLogsCommand creates the logs command.
func NewLogsCommand(rootOpts *RootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Recent submissions, newest first",
		Long: `Show the activity log, newest first.

Examples:
  tally logs
  tally logs --limit 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return NewExitError(ExitFailure, "limit must not be negative")
			}
			return withSession(rootOpts, cmd, func(s *session, out *OutputFormatter) error {
				logs := s.store.Snapshot().ActivityLogs
				if limit > 0 && len(logs) > limit {
					logs = logs[:limit]
				}
				return out.Logs(logs)
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "entries to show (0 shows all)")

	return cmd
}
