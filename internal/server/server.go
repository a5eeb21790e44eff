package server

import (
	"net/http"
	"time"

	"word-imposter/internal/bots"
	"word-imposter/internal/config"
	"word-imposter/internal/game"
	"word-imposter/internal/store"
)

type Server struct {
	store store.Store
	cfg   config.Config
	rng   game.Source
	now   func() time.Time
	bots  *bots.Director
}

func New(st store.Store, cfg config.Config) *Server {
	s := &Server{
		store: st,
		cfg:   cfg,
		rng:   game.NewSource(),
		now:   time.Now,
	}
	s.bots = bots.NewDirector(bots.Options{
		MinDelay: time.Duration(cfg.BotVoteMinDelaySeconds) * time.Second,
		MaxDelay: time.Duration(cfg.BotVoteMaxDelaySeconds) * time.Second,
		Vote:     s.castBotVote,
	})
	return s
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/lobby/create", s.handleCreateLobby)
	mux.HandleFunc("POST /api/lobby/join", s.handleJoinLobby)
	mux.HandleFunc("POST /api/lobby/start", s.handleStartGame)
	mux.HandleFunc("GET /api/game/{code}", s.handleGameSnapshot)
	mux.HandleFunc("POST /api/game/vote", s.handleVote)
	mux.HandleFunc("POST /api/game/phase", s.handlePhase)
	mux.HandleFunc("GET /api/categories", s.handleCategories)
	mux.HandleFunc("GET /api/leaderboard", s.handleLeaderboard)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
