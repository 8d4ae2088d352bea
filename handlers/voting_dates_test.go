// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kaushiknetcode/Voting-admin/broadcast"
	"github.com/kaushiknetcode/Voting-admin/models"
	"github.com/kaushiknetcode/Voting-admin/repository"
	"github.com/kaushiknetcode/Voting-admin/store"
	"github.com/kaushiknetcode/Voting-admin/testutil"
)

func boolPtr(b bool) *bool { return &b }

func putDate(t *testing.T, h *VotingDateHandler, date string, req models.UpdateVotingDateRequest) *httptest.ResponseRecorder {
	t.Helper()
	r := testutil.MakeRequest("PUT", "/voting-dates/"+date, req, nil)
	r.SetPathValue("date", date)
	w := httptest.NewRecorder()
	h.Update(w, r)
	return w
}

func TestVotingDates_ListAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := NewVotingDateHandler(db, nil, "")

	w := httptest.NewRecorder()
	h.List(w, httptest.NewRequest("GET", "/voting-dates", nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var dates []models.VotingDateRow
	testutil.AssertJSON(t, w, &dates)
	if len(dates) != 4 {
		t.Fatalf("expected 4 dates, got %d", len(dates))
	}

	tests := []struct {
		name           string
		date           string
		expectedStatus int
	}{
		{"seeded date", "2024-12-06", http.StatusOK},
		{"unknown date", "2025-01-01", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/voting-dates/"+tt.date, nil)
			r.SetPathValue("date", tt.date)
			w := httptest.NewRecorder()

			h.Get(w, r)

			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}
}

func TestVotingDates_ActivateIsExclusive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	hub := broadcast.NewHub(nil)
	sub := hub.Subscribe(store.DefaultRoom, "watcher")
	defer sub.Close()

	h := NewVotingDateHandler(db, hub, "")
	adminID := testutil.UserID(t, db, "super_admin")

	testutil.AssertStatus(t, putDate(t, h, "2024-12-04", models.UpdateVotingDateRequest{IsActive: boolPtr(true), PerformedBy: adminID}), http.StatusOK)
	w := putDate(t, h, "2024-12-05", models.UpdateVotingDateRequest{IsActive: boolPtr(true), PerformedBy: adminID})
	testutil.AssertStatus(t, w, http.StatusOK)

	var updated models.VotingDateRow
	testutil.AssertJSON(t, w, &updated)
	if !updated.IsActive || updated.Date != "2024-12-05" {
		t.Errorf("unexpected update result %+v", updated)
	}

	dates, err := repository.NewVotingDates(db).Find(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	active := 0
	for _, d := range dates {
		if d.IsActive {
			active++
			if d.Date != "2024-12-05" {
				t.Errorf("wrong date active: %s", d.Date)
			}
		}
	}
	if active != 1 {
		t.Errorf("expected exactly one active date, got %d", active)
	}

	// Both updates reach the room as full date lists
	var last store.Partial
	for i := 0; i < 2; i++ {
		select {
		case msg := <-sub.C():
			if msg.Event != store.UpdateEvent || msg.Sender != ServerSender {
				t.Errorf("unexpected message %+v", msg)
			}
			if err := json.Unmarshal(msg.Payload, &last); err != nil {
				t.Fatal(err)
			}
		case <-time.After(time.Second):
			t.Fatal("no update published")
		}
	}
	if last.VotingDates == nil || len(*last.VotingDates) != 4 || !(*last.VotingDates)[1].IsActive || (*last.VotingDates)[0].IsActive {
		t.Errorf("unexpected published dates %+v", last.VotingDates)
	}
	if last.VotingData != nil || last.ActivityLogs != nil {
		t.Error("date update must not carry voting data")
	}

	logs, err := repository.NewSystemLogs(db).Recent(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 2 || logs[0].Action != repository.ActionDateActivated || logs[0].PerformedBy != adminID {
		t.Errorf("unexpected system logs %+v", logs)
	}
}

func TestVotingDates_PublishesToConfiguredRoom(t *testing.T) {
	db := testutil.SetupTestDB(t)
	hub := broadcast.NewHub(nil)
	configured := hub.Subscribe("eastern-zone", "watcher")
	defer configured.Close()
	other := hub.Subscribe(store.DefaultRoom, "watcher")
	defer other.Close()

	h := NewVotingDateHandler(db, hub, "eastern-zone")
	testutil.AssertStatus(t, putDate(t, h, "2024-12-04", models.UpdateVotingDateRequest{IsActive: boolPtr(true)}), http.StatusOK)

	select {
	case msg := <-configured.C():
		if msg.Room != "eastern-zone" || msg.Event != store.UpdateEvent {
			t.Errorf("unexpected message %+v", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("no update published to configured room")
	}

	select {
	case msg := <-other.C():
		t.Errorf("default room should not receive the update, got %+v", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestVotingDates_PartialUpdate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := NewVotingDateHandler(db, nil, "")

	testutil.AssertStatus(t, putDate(t, h, "2024-12-06", models.UpdateVotingDateRequest{IsActive: boolPtr(true)}), http.StatusOK)

	w := putDate(t, h, "2024-12-06", models.UpdateVotingDateRequest{IsComplete: boolPtr(true)})
	testutil.AssertStatus(t, w, http.StatusOK)

	var updated models.VotingDateRow
	testutil.AssertJSON(t, w, &updated)
	if !updated.IsActive || !updated.IsComplete {
		t.Errorf("absent isActive should keep stored value, got %+v", updated)
	}
}

func TestVotingDates_UpdateErrors(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := NewVotingDateHandler(db, nil, "")

	tests := []struct {
		name           string
		date           string
		req            models.UpdateVotingDateRequest
		expectedStatus int
	}{
		{"unknown date", "2025-01-01", models.UpdateVotingDateRequest{IsActive: boolPtr(true)}, http.StatusNotFound},
		{"unknown user", "2024-12-04", models.UpdateVotingDateRequest{IsActive: boolPtr(true), PerformedBy: 99999}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertStatus(t, putDate(t, h, tt.date, tt.req), tt.expectedStatus)
		})
	}

	// The failed update rolled back
	d, err := repository.NewVotingDates(db).FindOne(context.Background(), "2024-12-04")
	if err != nil {
		t.Fatal(err)
	}
	if d.IsActive {
		t.Error("update with unknown user was not rolled back")
	}
}
