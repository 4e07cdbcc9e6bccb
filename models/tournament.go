package models

import "time"

// TournamentStatus is set by the owning team (or the date scheduler); it is never derived from matches.
type TournamentStatus string

const (
	TournamentScheduled TournamentStatus = "scheduled"
	TournamentActive    TournamentStatus = "active"
	TournamentCompleted TournamentStatus = "completed"
)

func (s TournamentStatus) Valid() bool {
	switch s {
	case TournamentScheduled, TournamentActive, TournamentCompleted:
		return true
	}
	return false
}

// Tournament is the aggregate root: matches and standings live and die with it.
// Version is the optimistic-concurrency revision; every committed write bumps it.
type Tournament struct {
	ID             string           `json:"id" db:"id"`
	Name           string           `json:"name" db:"name"`
	OwnerTeamID    string           `json:"owner_team_id" db:"owner_team_id"`
	CreatedBy      string           `json:"created_by" db:"created_by"`
	ParticipantIDs []string         `json:"participant_ids,omitempty" db:"-"`
	StartDate      time.Time        `json:"start_date" db:"start_date"`
	EndDate        time.Time        `json:"end_date" db:"end_date"`
	Status         TournamentStatus `json:"status" db:"status"`
	Version        int64            `json:"version" db:"version"`
	CreatedAt      time.Time        `json:"created_at" db:"created_at"`

	Matches   []Match        `json:"matches,omitempty" db:"-"`
	Standings []StandingsRow `json:"standings,omitempty" db:"-"`
}

// FindMatch returns a pointer into t.Matches, or nil.
func (t *Tournament) FindMatch(matchID string) *Match {
	for i := range t.Matches {
		if t.Matches[i].ID == matchID {
			return &t.Matches[i]
		}
	}
	return nil
}

// FindStanding returns a pointer into t.Standings, or nil.
func (t *Tournament) FindStanding(playerID string) *StandingsRow {
	for i := range t.Standings {
		if t.Standings[i].PlayerID == playerID {
			return &t.Standings[i]
		}
	}
	return nil
}

// Clone returns a deep copy, so callers can mutate freely without touching shared state.
func (t *Tournament) Clone() *Tournament {
	if t == nil {
		return nil
	}
	c := *t
	c.ParticipantIDs = append([]string(nil), t.ParticipantIDs...)
	c.Matches = make([]Match, len(t.Matches))
	for i := range t.Matches {
		c.Matches[i] = t.Matches[i].Clone()
	}
	c.Standings = append([]StandingsRow(nil), t.Standings...)
	return &c
}
