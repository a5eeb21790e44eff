package server

import (
	"context"
	"errors"
	"log"
	"net/http"

	"word-imposter/internal/game"
	"word-imposter/internal/store"
)

type voteRequest struct {
	Code       string `json:"code"`
	PlayerID   string `json:"player_id"`
	VotedForID string `json:"voted_for_id"`
}

type phaseRequest struct {
	Code     string `json:"code"`
	PlayerID string `json:"player_id"`
	Phase    string `json:"phase"`
}

func (s *Server) handleGameSnapshot(w http.ResponseWriter, r *http.Request) {
	code, err := normalizeCode(r.PathValue("code"))
	if err != nil {
		writeAPIError(w, err)
		return
	}
	viewerID := r.URL.Query().Get("player_id")

	var payload map[string]any
	err = s.store.Atomic(r.Context(), func(tx store.Store) error {
		payload, err = s.buildSnapshot(r.Context(), tx, code, viewerID)
		return err
	})
	if errors.Is(err, store.ErrNotFound) {
		writeAPIError(w, errNotFound("lobby %s not found", code))
		return
	}
	if err != nil {
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleVote(w http.ResponseWriter, r *http.Request) {
	var req voteRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeAPIError(w, errValidation("invalid request body"))
		return
	}
	code, err := normalizeCode(req.Code)
	if err != nil {
		writeAPIError(w, err)
		return
	}
	playerID, err := validatePlayerID(req.PlayerID)
	if err != nil {
		writeAPIError(w, err)
		return
	}
	targetID, err := validatePlayerID(req.VotedForID)
	if err != nil {
		writeAPIError(w, errValidation("voted_for_id is required"))
		return
	}

	if err := s.castVote(r.Context(), code, playerID, targetID, 0); err != nil {
		writeAPIError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "recorded"})
}

// castVote validates and upserts a vote for the lobby's current round. A
// non-zero roundNumber makes the vote conditional: it is dropped without
// error when the game has moved on (bot votes arrive on a delay).
func (s *Server) castVote(ctx context.Context, code, playerID, targetID string, roundNumber int) error {
	if playerID == targetID {
		return errValidation("players cannot vote for themselves")
	}
	return s.store.Atomic(ctx, func(tx store.Store) error {
		lobby, err := tx.GetLobby(ctx, code)
		if errors.Is(err, store.ErrNotFound) {
			return errNotFound("lobby %s not found", code)
		}
		if err != nil {
			return err
		}
		if roundNumber != 0 && lobby.CurrentRound != roundNumber {
			return nil
		}
		if lobby.Status != game.StatusPlaying {
			return errInvalidState("game is not in progress")
		}
		round, err := tx.GetRound(ctx, code, lobby.CurrentRound)
		if err != nil {
			return err
		}
		if round.Phase != game.PhaseVoting {
			return errInvalidState("voting is not open")
		}
		if _, err := tx.GetPlayer(ctx, code, playerID); errors.Is(err, store.ErrNotFound) {
			return errNotFound("player %s not in lobby", playerID)
		} else if err != nil {
			return err
		}
		if _, err := tx.GetPlayer(ctx, code, targetID); errors.Is(err, store.ErrNotFound) {
			return errNotFound("player %s not in lobby", targetID)
		} else if err != nil {
			return err
		}
		eliminations, err := tx.ListEliminations(ctx, code)
		if err != nil {
			return err
		}
		for _, e := range eliminations {
			if e.PlayerID == playerID {
				return errInvalidState("eliminated players cannot vote")
			}
			if e.PlayerID == targetID {
				return errInvalidState("cannot vote for an eliminated player")
			}
		}
		return tx.UpsertVote(ctx, game.Vote{
			LobbyCode:   code,
			RoundNumber: round.Number,
			VoterID:     playerID,
			VotedForID:  targetID,
		})
	})
}

func (s *Server) handlePhase(w http.ResponseWriter, r *http.Request) {
	var req phaseRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeAPIError(w, errValidation("invalid request body"))
		return
	}
	code, err := normalizeCode(req.Code)
	if err != nil {
		writeAPIError(w, err)
		return
	}
	playerID, err := validatePlayerID(req.PlayerID)
	if err != nil {
		writeAPIError(w, err)
		return
	}

	var lobby game.Lobby
	err = s.store.Atomic(r.Context(), func(tx store.Store) error {
		var err error
		lobby, err = tx.GetLobby(r.Context(), code)
		if errors.Is(err, store.ErrNotFound) {
			return errNotFound("lobby %s not found", code)
		}
		if err != nil {
			return err
		}
		if lobby.HostPlayerID != playerID {
			return errForbidden("only the host can change the phase")
		}
		if lobby.Status != game.StatusPlaying {
			return errInvalidState("game is not in progress")
		}
		return advancePhase(r.Context(), s, tx, &lobby, req.Phase)
	})
	if err != nil {
		writeAPIError(w, err)
		return
	}

	log.Printf("phase advanced code=%s target=%s", code, req.Phase)
	if req.Phase == game.TargetNextRound && lobby.Status == game.StatusFinished {
		// The finish is durable at this point; history rows are written
		// outside the transition transaction.
		s.recordHistory(r.Context(), code)
	}
	if req.Phase == game.PhaseVoting {
		s.scheduleBotVotes(r, code)
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"code":   code,
		"status": lobby.Status,
	})
}

// scheduleBotVotes hands the round's bots to the director once voting opens.
func (s *Server) scheduleBotVotes(r *http.Request, code string) {
	ctx := r.Context()
	lobby, err := s.store.GetLobby(ctx, code)
	if err != nil {
		log.Printf("bot schedule skipped code=%s err=%v", code, err)
		return
	}
	players, err := s.store.ListPlayers(ctx, code)
	if err != nil {
		log.Printf("bot schedule skipped code=%s err=%v", code, err)
		return
	}
	eliminations, err := s.store.ListEliminations(ctx, code)
	if err != nil {
		log.Printf("bot schedule skipped code=%s err=%v", code, err)
		return
	}
	active := game.ActivePlayers(players, eliminations)
	var botIDs, candidateIDs []string
	for _, p := range active {
		candidateIDs = append(candidateIDs, p.ID)
		if game.IsBot(p.ID) {
			botIDs = append(botIDs, p.ID)
		}
	}
	s.bots.VotingStarted(code, lobby.CurrentRound, botIDs, candidateIDs)
}

func (s *Server) castBotVote(lobbyCode string, roundNumber int, voterID, targetID string) error {
	return s.castVote(context.Background(), lobbyCode, voterID, targetID, roundNumber)
}
