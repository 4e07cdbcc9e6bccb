package services

import (
	"sort"

	"github.com/Dosada05/tournament-league/models"
)

// RankStandings orders rows by points, then goal difference, both descending. Rows tied on
// both keep their input order. The input slice is not modified.
func RankStandings(rows []models.StandingsRow) []models.LeaderboardEntry {
	ranked := make([]models.LeaderboardEntry, len(rows))
	for i, row := range rows {
		ranked[i] = models.LeaderboardEntry{StandingsRow: row}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Points != ranked[j].Points {
			return ranked[i].Points > ranked[j].Points
		}
		return ranked[i].GoalDifference > ranked[j].GoalDifference
	})
	for i := range ranked {
		if i > 0 && sameRank(ranked[i-1].StandingsRow, ranked[i].StandingsRow) {
			ranked[i].Rank = ranked[i-1].Rank
			continue
		}
		ranked[i].Rank = i + 1
	}
	return ranked
}

func sameRank(a, b models.StandingsRow) bool {
	return a.Points == b.Points && a.GoalDifference == b.GoalDifference
}
