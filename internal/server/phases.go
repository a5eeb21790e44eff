package server

import (
	"context"
	"errors"
	"log"

	"word-imposter/internal/game"
	"word-imposter/internal/store"
)

// phaseOrder makes transitions forward-only. Requesting the current phase
// again is a no-op so polling clients can retry safely.
var phaseOrder = map[string]int{
	game.PhaseWordReveal: 0,
	game.PhaseDiscussion: 1,
	game.PhaseVoting:     2,
	game.PhaseResults:    3,
}

type transitionFunc func(ctx context.Context, s *Server, tx store.Store, lobby *game.Lobby, round *game.Round) error

var phaseTransitions = map[string]transitionFunc{
	game.PhaseDiscussion: advanceToDiscussion,
	game.PhaseVoting:     advanceToVoting,
	game.PhaseResults:    advanceToResults,
	game.TargetNextRound: advanceToNextRound,
}

func advancePhase(ctx context.Context, s *Server, tx store.Store, lobby *game.Lobby, target string) error {
	transition, ok := phaseTransitions[target]
	if !ok {
		return errValidation("unknown phase %q", target)
	}
	round, err := tx.GetRound(ctx, lobby.Code, lobby.CurrentRound)
	if err != nil {
		return err
	}
	if target != game.TargetNextRound {
		current, targetPos := phaseOrder[round.Phase], phaseOrder[target]
		if targetPos == current {
			return nil
		}
		if targetPos < current {
			return errInvalidState("round is already past %s", target)
		}
	}
	return transition(ctx, s, tx, lobby, &round)
}

func advanceToDiscussion(ctx context.Context, s *Server, tx store.Store, lobby *game.Lobby, round *game.Round) error {
	if round.Phase != game.PhaseWordReveal {
		return errInvalidState("discussion follows word reveal")
	}
	round.Phase = game.PhaseDiscussion
	// The discussion countdown anchors on this timestamp.
	round.StartedAt = s.now()
	return tx.SaveRound(ctx, *round)
}

func advanceToVoting(ctx context.Context, s *Server, tx store.Store, lobby *game.Lobby, round *game.Round) error {
	if round.Phase != game.PhaseDiscussion {
		return errInvalidState("voting follows discussion")
	}
	round.Phase = game.PhaseVoting
	return tx.SaveRound(ctx, *round)
}

func advanceToResults(ctx context.Context, s *Server, tx store.Store, lobby *game.Lobby, round *game.Round) error {
	if round.Phase == game.PhaseResults {
		return nil
	}
	if round.Phase != game.PhaseVoting {
		return errInvalidState("results follow voting")
	}

	votes, err := tx.ListVotes(ctx, lobby.Code, round.Number)
	if err != nil {
		return err
	}
	tally := game.TallyVotes(votes)
	if tally.EliminatedID != "" {
		e := game.Elimination{
			LobbyCode:   lobby.Code,
			RoundNumber: round.Number,
			PlayerID:    tally.EliminatedID,
		}
		if err := tx.AddElimination(ctx, e); err != nil {
			return err
		}
	}
	deltas := game.ScoreRound(*round, votes, tally.EliminatedID)
	if err := tx.ApplyScoreDeltas(ctx, lobby.Code, deltas); err != nil {
		return err
	}

	round.Phase = game.PhaseResults
	now := s.now()
	round.EndedAt = &now
	if err := tx.SaveRound(ctx, *round); err != nil {
		return err
	}
	log.Printf("round scored code=%s round=%d eliminated=%q", lobby.Code, round.Number, tally.EliminatedID)
	return nil
}

func advanceToNextRound(ctx context.Context, s *Server, tx store.Store, lobby *game.Lobby, round *game.Round) error {
	if round.Phase != game.PhaseResults {
		return errInvalidState("next round follows results")
	}

	if lobby.CurrentRound >= lobby.TotalRounds {
		lobby.Status = game.StatusFinished
		if err := tx.SaveLobby(ctx, *lobby); err != nil {
			return err
		}
		log.Printf("game finished code=%s rounds=%d", lobby.Code, lobby.CurrentRound)
		return nil
	}

	players, err := tx.ListPlayers(ctx, lobby.Code)
	if err != nil {
		return err
	}
	eliminations, err := tx.ListEliminations(ctx, lobby.Code)
	if err != nil {
		return err
	}
	active := game.ActivePlayers(players, eliminations)
	if len(active) < game.MinPlayers {
		// Not enough players left for another round; end the game early.
		lobby.Status = game.StatusFinished
		if err := tx.SaveLobby(ctx, *lobby); err != nil {
			return err
		}
		log.Printf("game finished early code=%s active=%d", lobby.Code, len(active))
		return nil
	}

	words, err := tx.GetCategoryWords(ctx, lobby.Category)
	if err != nil {
		return err
	}
	lobby.CurrentRound++
	if err := tx.SaveLobby(ctx, *lobby); err != nil {
		return err
	}
	next := game.Round{
		LobbyCode:  lobby.Code,
		Number:     lobby.CurrentRound,
		ImposterID: game.PickImposter(s.rng, active).ID,
		Word:       game.PickWord(s.rng, words),
		Category:   lobby.Category,
		Phase:      game.PhaseWordReveal,
		StartedAt:  s.now(),
	}
	if err := tx.CreateRound(ctx, next); err != nil {
		// Two hosts racing next_round: the loser hits the round's unique
		// index, which is just a stale transition.
		if errors.Is(err, store.ErrConflict) {
			return errInvalidState("round %d already started", next.Number)
		}
		return err
	}
	return nil
}

// recordHistory writes the finished game's leaderboard rows. It runs after
// the finish has committed, in its own store calls: history is best-effort,
// and a failed insert must not be able to roll back the finished status.
func (s *Server) recordHistory(ctx context.Context, code string) {
	players, err := s.store.ListPlayers(ctx, code)
	if err != nil {
		log.Printf("history skipped code=%s err=%v", code, err)
		return
	}
	scores, err := s.store.ListScores(ctx, code)
	if err != nil {
		log.Printf("history skipped code=%s err=%v", code, err)
		return
	}
	entries := game.BuildHistory(code, players, scores, s.now())
	if len(entries) == 0 {
		return
	}
	if err := s.store.AddHistory(ctx, entries); err != nil {
		log.Printf("history write failed code=%s err=%v", code, err)
	}
}
