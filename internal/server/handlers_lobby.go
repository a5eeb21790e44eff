package server

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"

	"word-imposter/internal/game"
	"word-imposter/internal/store"
)

type createLobbyRequest struct {
	PlayerName string `json:"player_name"`
	PlayerID   string `json:"player_id"`
}

type joinLobbyRequest struct {
	Code       string `json:"code"`
	PlayerName string `json:"player_name"`
	PlayerID   string `json:"player_id"`
}

type startGameRequest struct {
	Code                 string `json:"code"`
	PlayerID             string `json:"player_id"`
	Category             string `json:"category"`
	RoundDurationSeconds int    `json:"round_duration_seconds"`
	TotalRounds          int    `json:"total_rounds"`
}

const createCodeAttempts = 5

func (s *Server) handleCreateLobby(w http.ResponseWriter, r *http.Request) {
	var req createLobbyRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeAPIError(w, errValidation("invalid request body"))
		return
	}
	name, err := validateName(req.PlayerName)
	if err != nil {
		writeAPIError(w, err)
		return
	}
	playerID := req.PlayerID
	if playerID == "" {
		playerID = uuid.NewString()
	}
	if playerID, err = validatePlayerID(playerID); err != nil {
		writeAPIError(w, err)
		return
	}

	now := s.now()
	host := game.Player{
		ID:          playerID,
		Name:        name,
		AvatarColor: game.PickAvatarColor(s.rng),
		IsHost:      true,
		JoinedAt:    now,
	}

	var lobby game.Lobby
	for attempt := 0; attempt < createCodeAttempts; attempt++ {
		lobby = game.Lobby{
			Code:                 game.NewLobbyCode(s.rng),
			HostPlayerID:         host.ID,
			Status:               game.StatusWaiting,
			RoundDurationSeconds: s.cfg.RoundDurationSeconds,
			TotalRounds:          s.cfg.TotalRounds,
			CurrentRound:         1,
			CreatedAt:            now,
		}
		host.LobbyCode = lobby.Code
		err = s.store.CreateLobby(r.Context(), lobby, host)
		if errors.Is(err, store.ErrConflict) {
			continue
		}
		break
	}
	if err != nil {
		log.Printf("lobby create failed err=%v", err)
		writeAPIError(w, err)
		return
	}

	log.Printf("lobby created code=%s host=%s", lobby.Code, host.ID)
	writeJSON(w, http.StatusCreated, map[string]any{
		"code":         lobby.Code,
		"player_id":    host.ID,
		"player_name":  host.Name,
		"avatar_color": host.AvatarColor,
		"is_host":      true,
	})
}

func (s *Server) handleJoinLobby(w http.ResponseWriter, r *http.Request) {
	var req joinLobbyRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeAPIError(w, errValidation("invalid request body"))
		return
	}
	code, err := normalizeCode(req.Code)
	if err != nil {
		writeAPIError(w, err)
		return
	}
	name, err := validateName(req.PlayerName)
	if err != nil {
		writeAPIError(w, err)
		return
	}
	playerID := req.PlayerID
	if playerID == "" {
		playerID = uuid.NewString()
	}
	if playerID, err = validatePlayerID(playerID); err != nil {
		writeAPIError(w, err)
		return
	}

	var player game.Player
	err = s.store.Atomic(r.Context(), func(tx store.Store) error {
		lobby, err := tx.GetLobby(r.Context(), code)
		if errors.Is(err, store.ErrNotFound) {
			return errNotFound("lobby %s not found", code)
		}
		if err != nil {
			return err
		}
		if lobby.Status != game.StatusWaiting {
			return errInvalidState("game already started")
		}
		players, err := tx.ListPlayers(r.Context(), code)
		if err != nil {
			return err
		}
		if len(players) >= game.MaxPlayers {
			return errCapacity("lobby is full")
		}
		for _, p := range players {
			if p.ID == playerID {
				return errInvalidState("player already joined")
			}
		}
		player = game.Player{
			ID:          playerID,
			LobbyCode:   code,
			Name:        name,
			AvatarColor: game.PickAvatarColor(s.rng),
			JoinedAt:    s.now(),
		}
		return tx.AddPlayer(r.Context(), player)
	})
	if err != nil {
		writeAPIError(w, err)
		return
	}

	log.Printf("player joined code=%s player=%s", code, player.ID)
	writeJSON(w, http.StatusOK, map[string]any{
		"code":         code,
		"player_id":    player.ID,
		"player_name":  player.Name,
		"avatar_color": player.AvatarColor,
		"is_host":      false,
	})
}

func (s *Server) handleStartGame(w http.ResponseWriter, r *http.Request) {
	var req startGameRequest
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
	if req.RoundDurationSeconds < 0 || req.RoundDurationSeconds > maxRoundSeconds {
		writeAPIError(w, errValidation("round_duration_seconds must be between 1 and %d", maxRoundSeconds))
		return
	}
	if req.TotalRounds < 0 || req.TotalRounds > maxRoundsPerGame {
		writeAPIError(w, errValidation("total_rounds must be between 1 and %d", maxRoundsPerGame))
		return
	}

	err = s.store.Atomic(r.Context(), func(tx store.Store) error {
		lobby, err := tx.GetLobby(r.Context(), code)
		if errors.Is(err, store.ErrNotFound) {
			return errNotFound("lobby %s not found", code)
		}
		if err != nil {
			return err
		}
		if lobby.HostPlayerID != playerID {
			return errForbidden("only the host can start the game")
		}
		if lobby.Status != game.StatusWaiting {
			return errInvalidState("game already started")
		}
		players, err := tx.ListPlayers(r.Context(), code)
		if err != nil {
			return err
		}
		if len(players) < game.MinPlayers {
			return errCapacity("at least %d players required", game.MinPlayers)
		}

		category := normalizeText(req.Category)
		words, err := s.categoryWords(r.Context(), tx, &category)
		if err != nil {
			return err
		}

		lobby.Status = game.StatusPlaying
		lobby.Category = category
		lobby.CurrentRound = 1
		if req.RoundDurationSeconds > 0 {
			lobby.RoundDurationSeconds = req.RoundDurationSeconds
		}
		if req.TotalRounds > 0 {
			lobby.TotalRounds = req.TotalRounds
		}
		if err := tx.SaveLobby(r.Context(), lobby); err != nil {
			return err
		}

		round := game.Round{
			LobbyCode:  code,
			Number:     1,
			ImposterID: game.PickImposter(s.rng, players).ID,
			Word:       game.PickWord(s.rng, words),
			Category:   category,
			Phase:      game.PhaseWordReveal,
			StartedAt:  s.now(),
		}
		return tx.CreateRound(r.Context(), round)
	})
	if err != nil {
		writeAPIError(w, err)
		return
	}

	log.Printf("game started code=%s rounds=%d", code, req.TotalRounds)
	writeJSON(w, http.StatusOK, map[string]any{
		"code":   code,
		"status": game.StatusPlaying,
	})
}

// categoryWords resolves the word list for a category, falling back to a
// random category when none was requested. The chosen category is written
// back through the pointer.
func (s *Server) categoryWords(ctx context.Context, tx store.Store, category *string) ([]string, error) {
	if *category == "" {
		categories, err := tx.ListCategories(ctx)
		if err != nil {
			return nil, err
		}
		if len(categories) == 0 {
			return nil, errValidation("no word categories available")
		}
		*category = categories[s.rng.IntN(len(categories))]
	}
	words, err := tx.GetCategoryWords(ctx, *category)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errValidation("unknown category %q", *category)
	}
	if err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, errValidation("category %q has no words", *category)
	}
	return words, nil
}
