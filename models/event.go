package models

import "time"

type EventType string

const (
	EventScoreSubmitted EventType = "submitted"
	EventScoreApproved  EventType = "approved"
	EventScoreDisputed  EventType = "disputed"
)

// Event is emitted after a committed match transition. Delivery is best-effort.
type Event struct {
	Type         EventType   `json:"type"`
	TournamentID string      `json:"tournament_id"`
	MatchID      string      `json:"match_id"`
	Payload      interface{} `json:"payload"`
	OccurredAt   time.Time   `json:"occurred_at"`
}

type ScoreSubmittedPayload struct {
	Score1      int    `json:"score1"`
	Score2      int    `json:"score2"`
	SubmittedBy string `json:"submitted_by"`
	OpponentID  string `json:"opponent_id"`
	Message     string `json:"message"`
}

type ScoreApprovedPayload struct {
	Score1     int    `json:"score1"`
	Score2     int    `json:"score2"`
	ApprovedBy string `json:"approved_by"`
	Message    string `json:"message"`
}

type ScoreDisputedPayload struct {
	DisputedBy string `json:"disputed_by"`
	Reason     string `json:"reason"`
	Message    string `json:"message"`
}
