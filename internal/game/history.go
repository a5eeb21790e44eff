package game

import (
	"sort"
	"time"
)

// BuildHistory produces one entry per ordered (player, opponent) pair for a
// finished game; O(n²) in player count, bounded by the 10-player cap.
//
// The winner is the player with the highest total score; ties resolve by the
// players' join order (sort stability).
func BuildHistory(lobbyCode string, players []Player, scores []Score, playedAt time.Time) []HistoryEntry {
	if len(players) < MinPlayers {
		return nil
	}
	byPlayer := make(map[string]Score, len(scores))
	for _, s := range scores {
		byPlayer[s.PlayerID] = s
	}

	ranked := make([]Player, len(players))
	copy(ranked, players)
	sort.SliceStable(ranked, func(i, j int) bool {
		return byPlayer[ranked[i].ID].TotalScore > byPlayer[ranked[j].ID].TotalScore
	})
	winnerID := ranked[0].ID

	entries := make([]HistoryEntry, 0, len(players)*(len(players)-1))
	for _, player := range players {
		score := byPlayer[player.ID]
		wasImposter := score.RoundsAsImposter > 0
		survived := score.SurvivedAsImposter > 0
		caught := wasImposter && !survived && score.RoundsAsImposter > score.SurvivedAsImposter
		for _, opponent := range players {
			if player.ID == opponent.ID {
				continue
			}
			entries = append(entries, HistoryEntry{
				LobbyCode:          lobbyCode,
				PlayerID:           player.ID,
				PlayerName:         player.Name,
				OpponentName:       opponent.Name,
				Won:                player.ID == winnerID,
				WasImposter:        wasImposter,
				CaughtAsImposter:   caught,
				SurvivedAsImposter: survived,
				PlayedAt:           playedAt,
			})
		}
	}
	return entries
}
