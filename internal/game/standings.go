package game

import (
	"slices"
)

// Standings returns the players ordered by score, highest first.
// Equal scores keep seat order.
func Standings(players []Player) []Player {
	sorted := slices.Clone(players)
	slices.SortStableFunc(sorted, func(a, b Player) int {
		return b.Score - a.Score
	})
	return sorted
}

// Winners returns every player holding the top score.
func Winners(players []Player) []Player {
	standings := Standings(players)
	if len(standings) == 0 {
		return nil
	}

	top := standings[0].Score
	winners := standings[:0:0]
	for _, p := range standings {
		if p.Score != top {
			break
		}
		winners = append(winners, p)
	}
	return winners
}
