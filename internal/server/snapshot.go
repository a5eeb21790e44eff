package server

import (
	"context"
	"errors"

	"word-imposter/internal/game"
	"word-imposter/internal/store"
)

// buildSnapshot assembles the full polling payload for one lobby. The word
// only appears in the viewer-scoped "you" block, and the imposter's identity
// stays server-side until the round reaches results.
func (s *Server) buildSnapshot(ctx context.Context, tx store.Store, code, viewerID string) (map[string]any, error) {
	lobby, err := tx.GetLobby(ctx, code)
	if err != nil {
		return nil, err
	}
	players, err := tx.ListPlayers(ctx, code)
	if err != nil {
		return nil, err
	}
	eliminations, err := tx.ListEliminations(ctx, code)
	if err != nil {
		return nil, err
	}
	scores, err := tx.ListScores(ctx, code)
	if err != nil {
		return nil, err
	}

	eliminated := make(map[string]struct{}, len(eliminations))
	eliminatedIDs := make([]string, 0, len(eliminations))
	for _, e := range eliminations {
		eliminated[e.PlayerID] = struct{}{}
		eliminatedIDs = append(eliminatedIDs, e.PlayerID)
	}

	playerViews := make([]map[string]any, 0, len(players))
	for _, p := range players {
		_, out := eliminated[p.ID]
		playerViews = append(playerViews, map[string]any{
			"id":           p.ID,
			"name":         p.Name,
			"avatar_color": p.AvatarColor,
			"is_host":      p.IsHost,
			"joined_at":    p.JoinedAt,
			"eliminated":   out,
		})
	}

	scoreViews := make([]map[string]any, 0, len(scores))
	for _, sc := range scores {
		scoreViews = append(scoreViews, map[string]any{
			"player_id":            sc.PlayerID,
			"total_score":          sc.TotalScore,
			"correct_votes":        sc.CorrectVotes,
			"survived_as_imposter": sc.SurvivedAsImposter,
			"rounds_as_imposter":   sc.RoundsAsImposter,
		})
	}

	payload := map[string]any{
		"lobby": map[string]any{
			"code":                   lobby.Code,
			"status":                 lobby.Status,
			"category":               lobby.Category,
			"host_player_id":         lobby.HostPlayerID,
			"round_duration_seconds": lobby.RoundDurationSeconds,
			"total_rounds":           lobby.TotalRounds,
			"current_round":          lobby.CurrentRound,
			"created_at":             lobby.CreatedAt,
		},
		"players":        playerViews,
		"eliminated_ids": eliminatedIDs,
		"scores":         scoreViews,
	}
	if lobby.Status == game.StatusWaiting {
		return payload, nil
	}

	round, err := tx.GetRound(ctx, code, lobby.CurrentRound)
	if err != nil {
		return nil, err
	}

	elapsed := int(s.now().Sub(round.StartedAt).Seconds())
	if elapsed < 0 {
		elapsed = 0
	}
	payload["round"] = map[string]any{
		"number":          round.Number,
		"phase":           round.Phase,
		"category":        round.Category,
		"started_at":      round.StartedAt,
		"ended_at":        round.EndedAt,
		"elapsed_seconds": elapsed,
	}

	votes, err := tx.ListVotes(ctx, code, round.Number)
	if err != nil {
		return nil, err
	}
	voteViews := make([]map[string]any, 0, len(votes))
	for _, v := range votes {
		voteViews = append(voteViews, map[string]any{
			"voter_id":     v.VoterID,
			"voted_for_id": v.VotedForID,
		})
	}
	payload["votes"] = voteViews

	if viewerID != "" {
		if _, err := tx.GetPlayer(ctx, code, viewerID); err == nil {
			you := map[string]any{
				"player_id":   viewerID,
				"is_imposter": viewerID == round.ImposterID,
			}
			if viewerID != round.ImposterID {
				you["word"] = round.Word
			}
			payload["you"] = you
		} else if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
	}

	if round.Phase == game.PhaseResults || lobby.Status == game.StatusFinished {
		tally := game.TallyVotes(votes)
		caught := tally.EliminatedID == round.ImposterID && tally.EliminatedID != ""
		payload["results"] = map[string]any{
			"imposter_id":      round.ImposterID,
			"word":             round.Word,
			"eliminated_id":    tally.EliminatedID,
			"imposter_caught":  caught,
			"votes_per_player": tally.Counts,
		}
	}
	return payload, nil
}
