package server

import (
	"net/http"
	"sort"
	"time"
)

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.store.ListCategories(r.Context())
	if err != nil {
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

type opponentStats struct {
	OpponentName            string    `json:"opponent_name"`
	GamesPlayed             int       `json:"games_played"`
	Wins                    int       `json:"wins"`
	Losses                  int       `json:"losses"`
	WinRate                 int       `json:"win_rate"`
	TimesCaughtAsImposter   int       `json:"times_caught_as_imposter"`
	TimesSurvivedAsImposter int       `json:"times_survived_as_imposter"`
	TimesWasImposter        int       `json:"times_was_imposter"`
	LastPlayed              time.Time `json:"last_played"`
}

// handleLeaderboard aggregates a player's game history into per-opponent
// totals plus their own running stats. Rows are matched by name, so the
// same display name accumulates across devices. Totals count history rows,
// one per (game, opponent) pair.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	name := normalizeText(r.URL.Query().Get("player_name"))
	if name == "" {
		writeAPIError(w, errValidation("player_name is required"))
		return
	}

	entries, err := s.store.ListHistoryForPlayer(r.Context(), name)
	if err != nil {
		writeAPIError(w, err)
		return
	}

	byOpponent := make(map[string]*opponentStats)
	var totalGames, totalWins, timesImposter, timesSurvived int
	for _, e := range entries {
		stats, ok := byOpponent[e.OpponentName]
		if !ok {
			stats = &opponentStats{OpponentName: e.OpponentName}
			byOpponent[e.OpponentName] = stats
		}
		stats.GamesPlayed++
		if e.Won {
			stats.Wins++
		}
		if e.WasImposter {
			stats.TimesWasImposter++
			if e.CaughtAsImposter {
				stats.TimesCaughtAsImposter++
			}
			if e.SurvivedAsImposter {
				stats.TimesSurvivedAsImposter++
			}
		}
		if e.PlayedAt.After(stats.LastPlayed) {
			stats.LastPlayed = e.PlayedAt
		}

		totalGames++
		if e.Won {
			totalWins++
		}
		if e.WasImposter {
			timesImposter++
			if e.SurvivedAsImposter {
				timesSurvived++
			}
		}
	}

	leaderboard := make([]opponentStats, 0, len(byOpponent))
	for _, stats := range byOpponent {
		stats.Losses = stats.GamesPlayed - stats.Wins
		stats.WinRate = winRate(stats.Wins, stats.GamesPlayed)
		leaderboard = append(leaderboard, *stats)
	}
	sort.Slice(leaderboard, func(i, j int) bool {
		if leaderboard[i].GamesPlayed != leaderboard[j].GamesPlayed {
			return leaderboard[i].GamesPlayed > leaderboard[j].GamesPlayed
		}
		if leaderboard[i].Wins != leaderboard[j].Wins {
			return leaderboard[i].Wins > leaderboard[j].Wins
		}
		return leaderboard[i].OpponentName < leaderboard[j].OpponentName
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"player_name": name,
		"own_stats": map[string]any{
			"total_games":    totalGames,
			"total_wins":     totalWins,
			"win_rate":       winRate(totalWins, totalGames),
			"times_imposter": timesImposter,
			"times_survived": timesSurvived,
		},
		"leaderboard": leaderboard,
	})
}

func winRate(wins, games int) int {
	if games == 0 {
		return 0
	}
	return int(float64(wins)/float64(games)*100 + 0.5)
}
