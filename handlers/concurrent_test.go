// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/kaushiknetcode/Voting-admin/models"
	"github.com/kaushiknetcode/Voting-admin/repository"
	"github.com/kaushiknetcode/Voting-admin/testutil"
)

// TestConcurrentSubmissions verifies that simultaneous submissions from
// every place are all stored and summed exactly once
func TestConcurrentSubmissions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := NewVotingDataHandler(db)
	userID := testutil.UserID(t, db, "super_admin")

	var successCount atomic.Int32
	var wg sync.WaitGroup

	for _, p := range models.Places {
		wg.Add(1)
		go func(placeID int) {
			defer wg.Done()

			in := models.VotingInput{
				PlaceID: placeID, VotesCount: 10 * placeID, MaleVoters: 6 * placeID, FemaleVoters: 4 * placeID,
				Date:        "2024-12-04",
				SubmittedBy: models.Submitter{UserID: userID, Role: models.RoleSuperAdmin},
			}
			w := httptest.NewRecorder()
			h.Create(w, testutil.MakeRequest("POST", "/voting-data", in, nil))

			if w.Code == http.StatusCreated {
				successCount.Add(1)
			}
		}(p.ID)
	}

	wg.Wait()

	if int(successCount.Load()) != len(models.Places) {
		t.Errorf("Expected %d successful submissions, got %d", len(models.Places), successCount.Load())
	}

	totals, err := repository.NewVotingData(db).Aggregate(context.Background(), "2024-12-04")
	if err != nil {
		t.Fatal(err)
	}
	// 10 * (1+2+...+8)
	if totals.TotalVotes != 360 || totals.TotalMale != 216 || totals.TotalFemale != 144 {
		t.Errorf("unexpected totals %+v", totals)
	}
}

// TestConcurrentActivation verifies that racing activations of different
// dates leave exactly one date active
func TestConcurrentActivation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := NewVotingDateHandler(db, nil, "")

	var wg sync.WaitGroup
	for _, d := range models.SeedDates() {
		wg.Add(1)
		go func(date string) {
			defer wg.Done()
			putDate(t, h, date, models.UpdateVotingDateRequest{IsActive: boolPtr(true)})
		}(d.Date)
	}
	wg.Wait()

	var active int
	if err := db.QueryRow("SELECT COUNT(*) FROM voting_dates WHERE is_active").Scan(&active); err != nil {
		t.Fatalf("Failed to count active dates: %v", err)
	}
	if active != 1 {
		t.Errorf("Expected exactly one active date, got %d", active)
	}
}
