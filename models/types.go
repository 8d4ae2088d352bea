package models

import "time"

// Role constants
const (
	RoleAPO        = "APO"
	RolePO         = "PO"
	RoleSuperAdmin = "SUPER_ADMIN"
)

// Domain types

type Place struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	TotalVoters int    `json:"totalVoters"`
}

// Places is the fixed set of polling places. It never changes at runtime.
var Places = []Place{
	{ID: 1, Name: "Headquarter", TotalVoters: 3296},
	{ID: 2, Name: "Malda Division", TotalVoters: 9962},
	{ID: 3, Name: "Howrah Division", TotalVoters: 25224},
	{ID: 4, Name: "Sealdah Division", TotalVoters: 21038},
	{ID: 5, Name: "Liluah Workshop", TotalVoters: 6709},
	{ID: 6, Name: "Kanchrapara Workshop", TotalVoters: 7346},
	{ID: 7, Name: "Jamalpur Workshop", TotalVoters: 6909},
	{ID: 8, Name: "Asansol Division", TotalVoters: 17257},
}

// PlaceName returns the name of the place with the given id, or "" if
// no such place exists.
func PlaceName(places []Place, id int) string {
	for _, p := range places {
		if p.ID == id {
			return p.Name
		}
	}
	return ""
}

// TotalVoters sums TotalVoters over every place.
func TotalVoters(places []Place) int {
	total := 0
	for _, p := range places {
		total += p.TotalVoters
	}
	return total
}

type VotingDate struct {
	Date       string `json:"date"`
	IsActive   bool   `json:"isActive"`
	IsComplete bool   `json:"isComplete"`
}

// SeedDates returns a fresh copy of the four scheduled voting dates, all
// inactive and incomplete.
func SeedDates() []VotingDate {
	return []VotingDate{
		{Date: "2024-12-04"},
		{Date: "2024-12-05"},
		{Date: "2024-12-06"},
		{Date: "2024-12-10"},
	}
}

type Submitter struct {
	UserID    int    `json:"userId"`
	Role      string `json:"role"`
	PlaceName string `json:"placeName"`
}

// VotingInput is a submission before the store stamps it.
type VotingInput struct {
	PlaceID      int       `json:"placeId"`
	VotesCount   int       `json:"votesCount"`
	MaleVoters   int       `json:"maleVoters"`
	FemaleVoters int       `json:"femaleVoters"`
	Date         string    `json:"date"`
	SubmittedBy  Submitter `json:"submittedBy"`
}

// VotingData is an immutable submitted record. Timestamp is Unix milliseconds.
type VotingData struct {
	PlaceID      int       `json:"placeId"`
	VotesCount   int       `json:"votesCount"`
	MaleVoters   int       `json:"maleVoters"`
	FemaleVoters int       `json:"femaleVoters"`
	Date         string    `json:"date"`
	SubmittedBy  Submitter `json:"submittedBy"`
	Timestamp    int64     `json:"timestamp"`
}

type ActivityLog struct {
	ID           string `json:"id"`
	Timestamp    int64  `json:"timestamp"`
	PlaceName    string `json:"placeName"`
	Role         string `json:"role"`
	VotesCount   int    `json:"votesCount"`
	MaleVoters   int    `json:"maleVoters"`
	FemaleVoters int    `json:"femaleVoters"`
	Date         string `json:"date"`
}

// Aggregate result types

type ZonalData struct {
	TotalVotes       int     `json:"totalVotes"`
	TotalMale        int     `json:"totalMale"`
	TotalFemale      int     `json:"totalFemale"`
	VotingPercentage float64 `json:"votingPercentage"`
}

type CumulativeVotes struct {
	ByPlace map[int]int `json:"byPlace"`
	Total   int         `json:"total"`
}

// Server-side row types

type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	PlaceID      int       `json:"place_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// VotingDataRow is a voting_data row as stored by the server.
type VotingDataRow struct {
	ID                   int       `json:"id"`
	PlaceID              int       `json:"place_id"`
	VotesCount           int       `json:"votes_count"`
	MaleVoters           int       `json:"male_voters"`
	FemaleVoters         int       `json:"female_voters"`
	Date                 string    `json:"date"`
	SubmittedByUserID    int       `json:"submitted_by_user_id"`
	SubmittedByRole      string    `json:"submitted_by_role"`
	SubmittedByPlaceName string    `json:"submitted_by_place_name"`
	CreatedAt            time.Time `json:"created_at"`
}

// VotingDateRow is a voting_dates row as stored by the server.
type VotingDateRow struct {
	ID         int       `json:"id"`
	Date       string    `json:"date"`
	IsActive   bool      `json:"is_active"`
	IsComplete bool      `json:"is_complete"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type SystemLog struct {
	ID          int       `json:"id"`
	Action      string    `json:"action"`
	PerformedBy int       `json:"performed_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// Totals is the server-side sum over voting_data.
type Totals struct {
	TotalVotes  int `json:"total_votes"`
	TotalMale   int `json:"total_male"`
	TotalFemale int `json:"total_female"`
}

// Request types

// UpdateVotingDateRequest carries optional flag changes; nil leaves a flag as is.
type UpdateVotingDateRequest struct {
	IsActive    *bool `json:"isActive,omitempty"`
	IsComplete  *bool `json:"isComplete,omitempty"`
	PerformedBy int   `json:"performedBy"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User      User   `json:"user"`
	PlaceName string `json:"placeName"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
