// File: models/roster.go
package models

import "time"

// TeamMember links a user to the single team they belong to.
// Team CRUD lives outside this service; the roster is only read to validate tournament participants.
type TeamMember struct {
	TeamID    string    `json:"team_id" db:"team_id"`
	UserID    string    `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
