package store

import (
	"context"
	"testing"
	"time"

	"word-imposter/internal/game"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Memory {
	t.Helper()
	return NewMemory(game.DefaultCategories())
}

func seedLobby(t *testing.T, s *Memory, code string, playerIDs ...string) {
	t.Helper()
	ctx := context.Background()
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	lobby := game.Lobby{
		Code:                 code,
		HostPlayerID:         playerIDs[0],
		Status:               game.StatusWaiting,
		Category:             "Animals",
		RoundDurationSeconds: game.DefaultRoundDurationSeconds,
		TotalRounds:          game.DefaultTotalRounds,
		CurrentRound:         1,
		CreatedAt:            now,
	}
	host := game.Player{ID: playerIDs[0], LobbyCode: code, Name: "host", IsHost: true, JoinedAt: now}
	require.NoError(t, s.CreateLobby(ctx, lobby, host))
	for i, id := range playerIDs[1:] {
		p := game.Player{ID: id, LobbyCode: code, Name: id, JoinedAt: now.Add(time.Duration(i+1) * time.Second)}
		require.NoError(t, s.AddPlayer(ctx, p))
	}
}

func TestCreateLobbyConflict(t *testing.T) {
	s := newTestStore(t)
	seedLobby(t, s, "ABC234", "p1")

	err := s.CreateLobby(context.Background(), game.Lobby{Code: "ABC234"}, game.Player{ID: "other"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCreateLobbySeedsHostScore(t *testing.T) {
	s := newTestStore(t)
	seedLobby(t, s, "ABC234", "p1", "p2")

	scores, err := s.ListScores(context.Background(), "ABC234")
	require.NoError(t, err)
	require.Len(t, scores, 2)
	assert.Equal(t, "p1", scores[0].PlayerID)
	assert.Zero(t, scores[0].TotalScore)
	assert.Equal(t, "p2", scores[1].PlayerID)
}

func TestGetLobbyNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetLobby(context.Background(), "NOPE22")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListPlayersJoinOrder(t *testing.T) {
	s := newTestStore(t)
	seedLobby(t, s, "ABC234", "p1", "p2", "p3")

	players, err := s.ListPlayers(context.Background(), "ABC234")
	require.NoError(t, err)
	ids := make([]string, 0, len(players))
	for _, p := range players {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"p1", "p2", "p3"}, ids)
}

func TestUpsertVoteReplacesEarlierVote(t *testing.T) {
	s := newTestStore(t)
	seedLobby(t, s, "ABC234", "p1", "p2", "p3")
	ctx := context.Background()
	require.NoError(t, s.CreateRound(ctx, game.Round{LobbyCode: "ABC234", Number: 1, ImposterID: "p3", Word: "Cat", Phase: game.PhaseVoting, StartedAt: time.Now()}))

	require.NoError(t, s.UpsertVote(ctx, game.Vote{LobbyCode: "ABC234", RoundNumber: 1, VoterID: "p1", VotedForID: "p2"}))
	require.NoError(t, s.UpsertVote(ctx, game.Vote{LobbyCode: "ABC234", RoundNumber: 1, VoterID: "p2", VotedForID: "p1"}))
	require.NoError(t, s.UpsertVote(ctx, game.Vote{LobbyCode: "ABC234", RoundNumber: 1, VoterID: "p1", VotedForID: "p3"}))

	votes, err := s.ListVotes(ctx, "ABC234", 1)
	require.NoError(t, err)
	require.Len(t, votes, 2)
	// p1 keeps their original slot with the new target.
	assert.Equal(t, "p1", votes[0].VoterID)
	assert.Equal(t, "p3", votes[0].VotedForID)
	assert.Equal(t, "p2", votes[1].VoterID)
}

func TestAddEliminationIdempotent(t *testing.T) {
	s := newTestStore(t)
	seedLobby(t, s, "ABC234", "p1", "p2")
	ctx := context.Background()

	e := game.Elimination{LobbyCode: "ABC234", RoundNumber: 1, PlayerID: "p2"}
	require.NoError(t, s.AddElimination(ctx, e))
	require.NoError(t, s.AddElimination(ctx, e))

	eliminations, err := s.ListEliminations(ctx, "ABC234")
	require.NoError(t, err)
	assert.Len(t, eliminations, 1)
}

func TestApplyScoreDeltasIncrements(t *testing.T) {
	s := newTestStore(t)
	seedLobby(t, s, "ABC234", "p1", "p2")
	ctx := context.Background()

	deltas := []game.ScoreDelta{
		{PlayerID: "p1", TotalScore: 100, CorrectVotes: 1},
		{PlayerID: "p2", TotalScore: 150, SurvivedAsImposter: 1, RoundsAsImposter: 1},
	}
	require.NoError(t, s.ApplyScoreDeltas(ctx, "ABC234", deltas))
	require.NoError(t, s.ApplyScoreDeltas(ctx, "ABC234", []game.ScoreDelta{{PlayerID: "p1", TotalScore: 100, CorrectVotes: 1}}))

	scores, err := s.ListScores(ctx, "ABC234")
	require.NoError(t, err)
	require.Len(t, scores, 2)
	assert.Equal(t, 200, scores[0].TotalScore)
	assert.Equal(t, 2, scores[0].CorrectVotes)
	assert.Equal(t, 150, scores[1].TotalScore)
	assert.Equal(t, 1, scores[1].SurvivedAsImposter)
	assert.Equal(t, 1, scores[1].RoundsAsImposter)
}

func TestAtomicSeesAndCommitsChanges(t *testing.T) {
	s := newTestStore(t)
	seedLobby(t, s, "ABC234", "p1", "p2")
	ctx := context.Background()

	err := s.Atomic(ctx, func(tx Store) error {
		lobby, err := tx.GetLobby(ctx, "ABC234")
		if err != nil {
			return err
		}
		lobby.Status = game.StatusPlaying
		if err := tx.SaveLobby(ctx, lobby); err != nil {
			return err
		}
		// The transactional view reads its own write.
		lobby, err = tx.GetLobby(ctx, "ABC234")
		if err != nil {
			return err
		}
		assert.Equal(t, game.StatusPlaying, lobby.Status)
		return nil
	})
	require.NoError(t, err)

	lobby, err := s.GetLobby(ctx, "ABC234")
	require.NoError(t, err)
	assert.Equal(t, game.StatusPlaying, lobby.Status)
}

func TestListHistoryForPlayerCaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	playedAt := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	entries := []game.HistoryEntry{
		{LobbyCode: "ABC234", PlayerID: "p1", PlayerName: "Alice", OpponentName: "Bob", Won: true, PlayedAt: playedAt},
		{LobbyCode: "ABC234", PlayerID: "p2", PlayerName: "Bob", OpponentName: "Alice", PlayedAt: playedAt},
	}
	require.NoError(t, s.AddHistory(ctx, entries))

	got, err := s.ListHistoryForPlayer(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Bob", got[0].OpponentName)
	assert.True(t, got[0].Won)
}

func TestCategories(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	categories, err := s.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Animals", "Food", "Movies", "Sports"}, categories)

	words, err := s.GetCategoryWords(ctx, "Animals")
	require.NoError(t, err)
	assert.Contains(t, words, "Elephant")

	_, err = s.GetCategoryWords(ctx, "Plants")
	assert.ErrorIs(t, err, ErrNotFound)
}
