// Package store is the session store behind the game orchestrator. The
// server is stateless between requests; every lobby, round, vote and score
// row lives here. Two implementations exist: an in-memory store for tests
// and DB-less development, and a Postgres store used in production.
package store

import (
	"context"
	"errors"

	"word-imposter/internal/game"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

type Store interface {
	// Atomic runs fn against a transactional view of the store. Every
	// mutating multi-step flow (create lobby, start game, score a round)
	// goes through here so partial state never leaks.
	Atomic(ctx context.Context, fn func(Store) error) error

	// CreateLobby inserts the lobby together with its host player and the
	// host's zeroed score row. Returns ErrConflict when the code is taken.
	CreateLobby(ctx context.Context, lobby game.Lobby, host game.Player) error
	GetLobby(ctx context.Context, code string) (game.Lobby, error)
	SaveLobby(ctx context.Context, lobby game.Lobby) error

	// AddPlayer appends a player and their zeroed score row.
	AddPlayer(ctx context.Context, player game.Player) error
	GetPlayer(ctx context.Context, code, playerID string) (game.Player, error)
	// ListPlayers returns the lobby's players in join order.
	ListPlayers(ctx context.Context, code string) ([]game.Player, error)

	CreateRound(ctx context.Context, round game.Round) error
	GetRound(ctx context.Context, code string, number int) (game.Round, error)
	SaveRound(ctx context.Context, round game.Round) error

	// UpsertVote stores the voter's current preference; a later vote for
	// the same (lobby, round, voter) replaces the earlier one.
	UpsertVote(ctx context.Context, vote game.Vote) error
	// ListVotes returns a round's votes in insertion order.
	ListVotes(ctx context.Context, code string, round int) ([]game.Vote, error)

	// AddElimination appends an elimination row; adding the same player
	// twice is a no-op.
	AddElimination(ctx context.Context, e game.Elimination) error
	ListEliminations(ctx context.Context, code string) ([]game.Elimination, error)

	// ApplyScoreDeltas increments score counters atomically at the store
	// level (value = value + delta), never read-then-write.
	ApplyScoreDeltas(ctx context.Context, code string, deltas []game.ScoreDelta) error
	ListScores(ctx context.Context, code string) ([]game.Score, error)

	AddHistory(ctx context.Context, entries []game.HistoryEntry) error
	// ListHistoryForPlayer matches the player name case-insensitively.
	ListHistoryForPlayer(ctx context.Context, playerName string) ([]game.HistoryEntry, error)

	ListCategories(ctx context.Context) ([]string, error)
	GetCategoryWords(ctx context.Context, category string) ([]string, error)
}
