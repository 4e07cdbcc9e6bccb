package services

import "github.com/Dosada05/tournament-league/models"

const (
	PointsWin  = 3
	PointsDraw = 1
	PointsLoss = 0
)

// ApplyResult returns the two rows updated with one completed match. The inputs are values,
// so the caller's rows stay untouched until it commits the returned ones.
func ApplyResult(player1, player2 models.StandingsRow, score1, score2 int) (models.StandingsRow, models.StandingsRow) {
	return applySide(player1, score1, score2), applySide(player2, score2, score1)
}

func applySide(row models.StandingsRow, own, opponent int) models.StandingsRow {
	row.Played++
	row.GoalsScored += own
	row.GoalsAgainst += opponent
	row.GoalDifference = row.GoalsScored - row.GoalsAgainst
	switch {
	case own > opponent:
		row.Won++
		row.Points += PointsWin
	case own < opponent:
		row.Lost++
		row.Points += PointsLoss
	default:
		row.Draw++
		row.Points += PointsDraw
	}
	return row
}
