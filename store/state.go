// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/kaushiknetcode/Voting-admin/models"
)

// State is the client-local view of voting data. Places is the compiled-in
// reference set and is never persisted or broadcast.
type State struct {
	Places       []models.Place
	VotingData   []models.VotingData
	ActivityLogs []models.ActivityLog
	VotingDates  []models.VotingDate
	CurrentDate  string
}

// initialState returns the state used on first start and after Reset.
func initialState() State {
	dates := models.SeedDates()
	return State{
		Places:       models.Places,
		VotingData:   []models.VotingData{},
		ActivityLogs: []models.ActivityLog{},
		VotingDates:  dates,
		CurrentDate:  dates[0].Date,
	}
}

func (s State) clone() State {
	return State{
		Places:       s.Places,
		VotingData:   slices.Clone(s.VotingData),
		ActivityLogs: slices.Clone(s.ActivityLogs),
		VotingDates:  slices.Clone(s.VotingDates),
		CurrentDate:  s.CurrentDate,
	}
}

// Partial carries the field groups of a state mutation. A nil field is
// absent and leaves the receiver's value untouched on Merge.
type Partial struct {
	VotingData   *[]models.VotingData  `json:"votingData,omitempty"`
	ActivityLogs *[]models.ActivityLog `json:"activityLogs,omitempty"`
	VotingDates  *[]models.VotingDate  `json:"votingDates,omitempty"`
	CurrentDate  *string               `json:"currentDate,omitempty"`
}

// UnmarshalJSON keeps presence apart from value: a field sent as null is
// present, and decodes to an empty list or an empty date.
func (p *Partial) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*p = Partial{}
	if raw, ok := fields["votingData"]; ok {
		v := []models.VotingData{}
		if err := decodeField(raw, &v); err != nil {
			return fmt.Errorf("votingData: %w", err)
		}
		p.VotingData = &v
	}
	if raw, ok := fields["activityLogs"]; ok {
		v := []models.ActivityLog{}
		if err := decodeField(raw, &v); err != nil {
			return fmt.Errorf("activityLogs: %w", err)
		}
		p.ActivityLogs = &v
	}
	if raw, ok := fields["votingDates"]; ok {
		v := []models.VotingDate{}
		if err := decodeField(raw, &v); err != nil {
			return fmt.Errorf("votingDates: %w", err)
		}
		p.VotingDates = &v
	}
	if raw, ok := fields["currentDate"]; ok {
		var v string
		if err := decodeField(raw, &v); err != nil {
			return fmt.Errorf("currentDate: %w", err)
		}
		p.CurrentDate = &v
	}
	return nil
}

// decodeField unmarshals raw into v, leaving v's zero value for null.
func decodeField[T any](raw json.RawMessage, v *T) error {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil
	}
	return json.Unmarshal(raw, v)
}

// apply overwrites every present field group of p onto s.
func (p Partial) apply(s *State) {
	if p.VotingData != nil {
		s.VotingData = slices.Clone(*p.VotingData)
	}
	if p.ActivityLogs != nil {
		s.ActivityLogs = slices.Clone(*p.ActivityLogs)
	}
	if p.VotingDates != nil {
		s.VotingDates = slices.Clone(*p.VotingDates)
	}
	if p.CurrentDate != nil {
		s.CurrentDate = *p.CurrentDate
	}
}

// DecodePartial parses a votingUpdate payload.
func DecodePartial(payload []byte) (Partial, error) {
	var p Partial
	if err := json.Unmarshal(payload, &p); err != nil {
		return Partial{}, fmt.Errorf("failed to decode partial state: %w", err)
	}
	return p, nil
}

// persisted is the JSON shape written under StorageKey.
type persisted struct {
	State   persistedState `json:"state"`
	Version int            `json:"version"`
}

type persistedState struct {
	VotingData   []models.VotingData  `json:"votingData"`
	ActivityLogs []models.ActivityLog `json:"activityLogs"`
	VotingDates  []models.VotingDate  `json:"votingDates"`
	CurrentDate  *string              `json:"currentDate"`
}

func encodeState(s State) ([]byte, error) {
	ps := persistedState{
		VotingData:   s.VotingData,
		ActivityLogs: s.ActivityLogs,
		VotingDates:  s.VotingDates,
	}
	if s.CurrentDate != "" {
		cd := s.CurrentDate
		ps.CurrentDate = &cd
	}
	return json.Marshal(persisted{State: ps, Version: storageVersion})
}

// decodeState rehydrates a persisted snapshot on top of the initial state,
// so fields missing from older snapshots keep their seeded values.
func decodeState(data []byte) (State, error) {
	var p persisted
	if err := json.Unmarshal(data, &p); err != nil {
		return State{}, fmt.Errorf("failed to decode persisted state: %w", err)
	}

	s := initialState()
	if p.State.VotingData != nil {
		s.VotingData = p.State.VotingData
	}
	if p.State.ActivityLogs != nil {
		s.ActivityLogs = p.State.ActivityLogs
	}
	if p.State.VotingDates != nil {
		s.VotingDates = p.State.VotingDates
	}
	if p.State.CurrentDate != nil {
		s.CurrentDate = *p.State.CurrentDate
	} else {
		s.CurrentDate = ""
	}
	return s, nil
}
