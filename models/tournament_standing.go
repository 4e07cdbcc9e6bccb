package models

// StandingsRow is one participant's aggregate within a tournament.
// Position is the participant's index in the creation roster and drives the stable order.
type StandingsRow struct {
	PlayerID       string `json:"player_id" db:"player_id"`
	Position       int    `json:"position" db:"position"`
	Played         int    `json:"played" db:"played"`
	Won            int    `json:"won" db:"won"`
	Lost           int    `json:"lost" db:"lost"`
	Draw           int    `json:"draw" db:"draw"`
	Points         int    `json:"points" db:"points"`
	GoalsScored    int    `json:"goals_scored" db:"goals_scored"`
	GoalsAgainst   int    `json:"goals_against" db:"goals_against"`
	GoalDifference int    `json:"goal_difference" db:"goal_difference"`
}

// LeaderboardEntry is a ranked standings row. Rank is display-only (1,2,2,4 on ties).
type LeaderboardEntry struct {
	Rank int `json:"rank"`
	StandingsRow
}
