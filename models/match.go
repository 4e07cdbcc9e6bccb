package models

import "time"

type MatchStatus string

const (
	MatchPending   MatchStatus = "pending"
	MatchSubmitted MatchStatus = "submitted"
	MatchCompleted MatchStatus = "completed"
)

// Match is one round-robin pairing. Scores are nil unless the match is submitted or completed.
type Match struct {
	ID           string      `json:"id" db:"id"`
	TournamentID string      `json:"tournament_id" db:"tournament_id"`
	Seq          int         `json:"seq" db:"seq"`
	Player1ID    string      `json:"player1_id" db:"player1_id"`
	Player2ID    string      `json:"player2_id" db:"player2_id"`
	Score1       *int        `json:"score1,omitempty" db:"score1"`
	Score2       *int        `json:"score2,omitempty" db:"score2"`
	Status       MatchStatus `json:"status" db:"status"`

	SubmittedBy   string     `json:"submitted_by,omitempty" db:"submitted_by"`
	SubmittedAt   *time.Time `json:"submitted_at,omitempty" db:"submitted_at"`
	ApprovedBy    string     `json:"approved_by,omitempty" db:"approved_by"`
	ApprovedAt    *time.Time `json:"approved_at,omitempty" db:"approved_at"`
	DisputedBy    string     `json:"disputed_by,omitempty" db:"disputed_by"`
	DisputeReason string     `json:"dispute_reason,omitempty" db:"dispute_reason"`
}

func (m *Match) HasPlayer(playerID string) bool {
	return playerID != "" && (m.Player1ID == playerID || m.Player2ID == playerID)
}

// Opponent returns the other participant, or "" if playerID is not in the match.
func (m *Match) Opponent(playerID string) string {
	switch playerID {
	case m.Player1ID:
		return m.Player2ID
	case m.Player2ID:
		return m.Player1ID
	}
	return ""
}

func (m Match) Clone() Match {
	c := m
	c.Score1 = cloneInt(m.Score1)
	c.Score2 = cloneInt(m.Score2)
	c.SubmittedAt = cloneTime(m.SubmittedAt)
	c.ApprovedAt = cloneTime(m.ApprovedAt)
	return c
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneTime(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
