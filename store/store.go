// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/kaushiknetcode/Voting-admin/models"
)

const (
	// StorageKey is the persister key holding the serialized state.
	StorageKey = "voting-storage"
	// DefaultRoom is the room every client joins.
	DefaultRoom = "votingRoom"
	// UpdateEvent carries partial state between peers.
	UpdateEvent = "votingUpdate"

	storageVersion = 0
)

// Store holds the client-local voting state, persists it after each change,
// and keeps peers in sync over a Transport.
type Store struct {
	mu    sync.Mutex
	state State

	transport Transport
	persister Persister
	room      string
	now       func() time.Time
	logger    *slog.Logger
	onMerge   func(Partial)
}

type Option func(*Store)

// WithClock sets the time source used to stamp submissions.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithMergeHook registers fn to run after each peer update is applied.
// fn runs on the transport's goroutine without the store lock held.
func WithMergeHook(fn func(Partial)) Option {
	return func(s *Store) { s.onMerge = fn }
}

func WithRoom(room string) Option {
	return func(s *Store) { s.room = room }
}

// WithPlaces replaces the compiled-in place set.
func WithPlaces(places []models.Place) Option {
	return func(s *Store) { s.state.Places = places }
}

// New creates a store, hydrating it from persister when a snapshot exists,
// then joins the room and subscribes to peer updates.
func New(transport Transport, persister Persister, opts ...Option) (*Store, error) {
	s := &Store{
		state:     initialState(),
		transport: transport,
		persister: persister,
		room:      DefaultRoom,
		now:       time.Now,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	data, ok, err := persister.Load(StorageKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load persisted state: %w", err)
	}
	if ok {
		hydrated, err := decodeState(data)
		if err != nil {
			s.logger.Warn("discarding unreadable persisted state", "error", err)
		} else {
			hydrated.Places = s.state.Places
			s.state = hydrated
		}
	}

	if err := transport.Join(s.room); err != nil {
		return nil, fmt.Errorf("failed to join room %q: %w", s.room, err)
	}
	transport.On(UpdateEvent, s.receive)

	return s, nil
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// AddVotingData stamps a submission, records it with its activity log entry,
// and broadcasts the new data and log lists. Input is not validated.
func (s *Store) AddVotingData(in models.VotingInput) models.VotingData {
	s.mu.Lock()
	ts := s.now().UnixMilli()
	record := models.VotingData{
		PlaceID:      in.PlaceID,
		VotesCount:   in.VotesCount,
		MaleVoters:   in.MaleVoters,
		FemaleVoters: in.FemaleVoters,
		Date:         in.Date,
		SubmittedBy:  in.SubmittedBy,
		Timestamp:    ts,
	}
	entry := models.ActivityLog{
		ID:           strconv.FormatInt(ts, 10),
		Timestamp:    ts,
		PlaceName:    models.PlaceName(s.state.Places, in.PlaceID),
		Role:         in.SubmittedBy.Role,
		VotesCount:   in.VotesCount,
		MaleVoters:   in.MaleVoters,
		FemaleVoters: in.FemaleVoters,
		Date:         in.Date,
	}

	data := make([]models.VotingData, 0, len(s.state.VotingData)+1)
	data = append(data, s.state.VotingData...)
	data = append(data, record)

	logs := make([]models.ActivityLog, 0, len(s.state.ActivityLogs)+1)
	logs = append(logs, entry)
	logs = append(logs, s.state.ActivityLogs...)

	s.state.VotingData = data
	s.state.ActivityLogs = logs
	s.persistLocked()
	s.mu.Unlock()

	s.broadcast(Partial{VotingData: &data, ActivityLogs: &logs})
	return record
}

// PlaceData returns the records submitted for placeID, restricted to date
// unless date is empty.
func (s *Store) PlaceData(placeID int, date string) []models.VotingData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return FilterByPlace(s.state.VotingData, placeID, date)
}

func (s *Store) ZonalData(date string) models.ZonalData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Zonal(s.state.VotingData, s.state.Places, date)
}

func (s *Store) CumulativeVotes(upToDate string) models.CumulativeVotes {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Cumulative(s.state.VotingData, upToDate)
}

// SetDateActive sets date's active flag. Activating a date deactivates
// every other date, so at most one date is active afterwards.
func (s *Store) SetDateActive(date string, active bool) {
	s.mu.Lock()
	dates := activateDate(s.state.VotingDates, date, active)
	s.state.VotingDates = dates
	s.persistLocked()
	s.mu.Unlock()

	s.broadcast(Partial{VotingDates: &dates})
}

func (s *Store) SetDateComplete(date string, complete bool) {
	s.mu.Lock()
	dates := completeDate(s.state.VotingDates, date, complete)
	s.state.VotingDates = dates
	s.persistLocked()
	s.mu.Unlock()

	s.broadcast(Partial{VotingDates: &dates})
}

// SetCurrentDate changes the locally selected date. It is persisted but
// never broadcast. An empty date clears the selection.
func (s *Store) SetCurrentDate(date string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.CurrentDate = date
	s.persistLocked()
}

// Reset clears all submissions and restores the seed dates, then broadcasts
// the full reset state.
func (s *Store) Reset() {
	s.mu.Lock()
	fresh := initialState()
	fresh.Places = s.state.Places
	s.state = fresh
	s.persistLocked()

	data := fresh.VotingData
	logs := fresh.ActivityLogs
	dates := fresh.VotingDates
	current := fresh.CurrentDate
	s.mu.Unlock()

	s.broadcast(Partial{
		VotingData:   &data,
		ActivityLogs: &logs,
		VotingDates:  &dates,
		CurrentDate:  &current,
	})
}

// Merge overwrites local state with every field group present in p.
// Applying the same partial twice leaves the same state as applying it once.
func (s *Store) Merge(p Partial) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.apply(&s.state)
	s.persistLocked()
}

func (s *Store) receive(payload []byte) {
	p, err := DecodePartial(payload)
	if err != nil {
		s.logger.Warn("dropping malformed update", "event", UpdateEvent, "error", err)
		return
	}
	s.Merge(p)
	if s.onMerge != nil {
		s.onMerge(p)
	}
}

// persistLocked writes the current state. Failures are logged; local
// persistence is best effort.
func (s *Store) persistLocked() {
	data, err := encodeState(s.state)
	if err != nil {
		s.logger.Error("failed to encode state", "error", err)
		return
	}
	if err := s.persister.Save(StorageKey, data); err != nil {
		s.logger.Error("failed to persist state", "key", StorageKey, "error", err)
	}
}

// broadcast emits p without waiting for delivery. Must be called without
// holding mu: transports may echo the update back synchronously.
func (s *Store) broadcast(p Partial) {
	payload, err := json.Marshal(p)
	if err != nil {
		s.logger.Error("failed to encode update", "error", err)
		return
	}
	if err := s.transport.Emit(UpdateEvent, payload); err != nil {
		s.logger.Warn("failed to emit update", "event", UpdateEvent, "room", s.room, "error", err)
	}
}
