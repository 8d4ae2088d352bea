// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import "github.com/kaushiknetcode/Voting-admin/models"

// FilterByPlace returns the records for placeID, optionally restricted to an
// exact date. An empty date matches every record. Insertion order is kept.
func FilterByPlace(records []models.VotingData, placeID int, date string) []models.VotingData {
	out := []models.VotingData{}
	for _, r := range records {
		if r.PlaceID == placeID && (date == "" || r.Date == date) {
			out = append(out, r)
		}
	}
	return out
}

// Zonal sums the records whose date equals date (all records when date is
// empty). The percentage denominator is the voter count of every place,
// independent of the filter. With no registered voters the percentage is 0.
func Zonal(records []models.VotingData, places []models.Place, date string) models.ZonalData {
	var z models.ZonalData
	for _, r := range records {
		if date != "" && r.Date != date {
			continue
		}
		z.TotalVotes += r.VotesCount
		z.TotalMale += r.MaleVoters
		z.TotalFemale += r.FemaleVoters
	}

	z.VotingPercentage = Percentage(z.TotalVotes, models.TotalVoters(places))
	return z
}

// Percentage returns votes as a percentage of registered voters, or 0 when
// there are no registered voters.
func Percentage(votes, registered int) float64 {
	if registered == 0 {
		return 0
	}
	return float64(votes) / float64(registered) * 100
}

// Cumulative groups VotesCount by place over records dated on or before
// upToDate. ISO dates compare chronologically as strings.
func Cumulative(records []models.VotingData, upToDate string) models.CumulativeVotes {
	c := models.CumulativeVotes{ByPlace: map[int]int{}}
	for _, r := range records {
		if upToDate != "" && r.Date > upToDate {
			continue
		}
		c.ByPlace[r.PlaceID] += r.VotesCount
	}
	for _, v := range c.ByPlace {
		c.Total += v
	}
	return c
}

// activateDate returns dates with date's active flag set to active. When
// active is true every other date is deactivated.
func activateDate(dates []models.VotingDate, date string, active bool) []models.VotingDate {
	out := make([]models.VotingDate, len(dates))
	for i, d := range dates {
		switch {
		case d.Date == date:
			d.IsActive = active
		case active:
			d.IsActive = false
		}
		out[i] = d
	}
	return out
}

func completeDate(dates []models.VotingDate, date string, complete bool) []models.VotingDate {
	out := make([]models.VotingDate, len(dates))
	for i, d := range dates {
		if d.Date == date {
			d.IsComplete = complete
		}
		out[i] = d
	}
	return out
}
