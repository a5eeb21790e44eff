package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"word-imposter/internal/game"
)

type lobbyState struct {
	lobby        game.Lobby
	players      []game.Player
	rounds       map[int]game.Round
	votes        map[int][]game.Vote
	eliminations []game.Elimination
	scores       map[string]*game.Score
}

type memoryData struct {
	lobbies map[string]*lobbyState
	history []game.HistoryEntry
	words   map[string][]string
}

// Memory is the in-memory session store. A single mutex makes every
// operation, and every Atomic closure, serializable; closures are applied
// directly, so a failing closure may leave earlier writes in place — fine
// for tests and single-process development, where closures fail before
// mutating or not at all.
type Memory struct {
	mu   sync.Mutex
	data memoryData
}

func NewMemory(categories []game.Category) *Memory {
	words := make(map[string][]string, len(categories))
	for _, c := range categories {
		words[c.Name] = c.Words
	}
	return &Memory{data: memoryData{
		lobbies: make(map[string]*lobbyState),
		words:   words,
	}}
}

func (m *Memory) Atomic(ctx context.Context, fn func(Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(&memoryTx{data: &m.data})
}

func (m *Memory) CreateLobby(ctx context.Context, lobby game.Lobby, host game.Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.createLobby(lobby, host)
}

func (m *Memory) GetLobby(ctx context.Context, code string) (game.Lobby, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.getLobby(code)
}

func (m *Memory) SaveLobby(ctx context.Context, lobby game.Lobby) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.saveLobby(lobby)
}

func (m *Memory) AddPlayer(ctx context.Context, player game.Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.addPlayer(player)
}

func (m *Memory) GetPlayer(ctx context.Context, code, playerID string) (game.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.getPlayer(code, playerID)
}

func (m *Memory) ListPlayers(ctx context.Context, code string) ([]game.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.listPlayers(code)
}

func (m *Memory) CreateRound(ctx context.Context, round game.Round) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.createRound(round)
}

func (m *Memory) GetRound(ctx context.Context, code string, number int) (game.Round, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.getRound(code, number)
}

func (m *Memory) SaveRound(ctx context.Context, round game.Round) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.saveRound(round)
}

func (m *Memory) UpsertVote(ctx context.Context, vote game.Vote) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.upsertVote(vote)
}

func (m *Memory) ListVotes(ctx context.Context, code string, round int) ([]game.Vote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.listVotes(code, round)
}

func (m *Memory) AddElimination(ctx context.Context, e game.Elimination) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.addElimination(e)
}

func (m *Memory) ListEliminations(ctx context.Context, code string) ([]game.Elimination, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.listEliminations(code)
}

func (m *Memory) ApplyScoreDeltas(ctx context.Context, code string, deltas []game.ScoreDelta) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.applyScoreDeltas(code, deltas)
}

func (m *Memory) ListScores(ctx context.Context, code string) ([]game.Score, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.listScores(code)
}

func (m *Memory) AddHistory(ctx context.Context, entries []game.HistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.addHistory(entries)
}

func (m *Memory) ListHistoryForPlayer(ctx context.Context, playerName string) ([]game.HistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.listHistoryForPlayer(playerName)
}

func (m *Memory) ListCategories(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.listCategories()
}

func (m *Memory) GetCategoryWords(ctx context.Context, category string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.getCategoryWords(category)
}

// memoryTx is the lock-free view handed to Atomic closures; the outer
// mutex is already held.
type memoryTx struct {
	data *memoryData
}

func (t *memoryTx) Atomic(ctx context.Context, fn func(Store) error) error {
	return fn(t)
}

func (t *memoryTx) CreateLobby(ctx context.Context, lobby game.Lobby, host game.Player) error {
	return t.data.createLobby(lobby, host)
}

func (t *memoryTx) GetLobby(ctx context.Context, code string) (game.Lobby, error) {
	return t.data.getLobby(code)
}

func (t *memoryTx) SaveLobby(ctx context.Context, lobby game.Lobby) error {
	return t.data.saveLobby(lobby)
}

func (t *memoryTx) AddPlayer(ctx context.Context, player game.Player) error {
	return t.data.addPlayer(player)
}

func (t *memoryTx) GetPlayer(ctx context.Context, code, playerID string) (game.Player, error) {
	return t.data.getPlayer(code, playerID)
}

func (t *memoryTx) ListPlayers(ctx context.Context, code string) ([]game.Player, error) {
	return t.data.listPlayers(code)
}

func (t *memoryTx) CreateRound(ctx context.Context, round game.Round) error {
	return t.data.createRound(round)
}

func (t *memoryTx) GetRound(ctx context.Context, code string, number int) (game.Round, error) {
	return t.data.getRound(code, number)
}

func (t *memoryTx) SaveRound(ctx context.Context, round game.Round) error {
	return t.data.saveRound(round)
}

func (t *memoryTx) UpsertVote(ctx context.Context, vote game.Vote) error {
	return t.data.upsertVote(vote)
}

func (t *memoryTx) ListVotes(ctx context.Context, code string, round int) ([]game.Vote, error) {
	return t.data.listVotes(code, round)
}

func (t *memoryTx) AddElimination(ctx context.Context, e game.Elimination) error {
	return t.data.addElimination(e)
}

func (t *memoryTx) ListEliminations(ctx context.Context, code string) ([]game.Elimination, error) {
	return t.data.listEliminations(code)
}

func (t *memoryTx) ApplyScoreDeltas(ctx context.Context, code string, deltas []game.ScoreDelta) error {
	return t.data.applyScoreDeltas(code, deltas)
}

func (t *memoryTx) ListScores(ctx context.Context, code string) ([]game.Score, error) {
	return t.data.listScores(code)
}

func (t *memoryTx) AddHistory(ctx context.Context, entries []game.HistoryEntry) error {
	return t.data.addHistory(entries)
}

func (t *memoryTx) ListHistoryForPlayer(ctx context.Context, playerName string) ([]game.HistoryEntry, error) {
	return t.data.listHistoryForPlayer(playerName)
}

func (t *memoryTx) ListCategories(ctx context.Context) ([]string, error) {
	return t.data.listCategories()
}

func (t *memoryTx) GetCategoryWords(ctx context.Context, category string) ([]string, error) {
	return t.data.getCategoryWords(category)
}

func (d *memoryData) createLobby(lobby game.Lobby, host game.Player) error {
	if _, exists := d.lobbies[lobby.Code]; exists {
		return ErrConflict
	}
	state := &lobbyState{
		lobby:  lobby,
		rounds: make(map[int]game.Round),
		votes:  make(map[int][]game.Vote),
		scores: make(map[string]*game.Score),
	}
	d.lobbies[lobby.Code] = state
	state.players = append(state.players, host)
	state.scores[host.ID] = &game.Score{LobbyCode: lobby.Code, PlayerID: host.ID}
	return nil
}

func (d *memoryData) getLobby(code string) (game.Lobby, error) {
	state, ok := d.lobbies[code]
	if !ok {
		return game.Lobby{}, ErrNotFound
	}
	return state.lobby, nil
}

func (d *memoryData) saveLobby(lobby game.Lobby) error {
	state, ok := d.lobbies[lobby.Code]
	if !ok {
		return ErrNotFound
	}
	state.lobby = lobby
	return nil
}

func (d *memoryData) addPlayer(player game.Player) error {
	state, ok := d.lobbies[player.LobbyCode]
	if !ok {
		return ErrNotFound
	}
	for _, p := range state.players {
		if p.ID == player.ID {
			return ErrConflict
		}
	}
	state.players = append(state.players, player)
	state.scores[player.ID] = &game.Score{LobbyCode: player.LobbyCode, PlayerID: player.ID}
	return nil
}

func (d *memoryData) getPlayer(code, playerID string) (game.Player, error) {
	state, ok := d.lobbies[code]
	if !ok {
		return game.Player{}, ErrNotFound
	}
	for _, p := range state.players {
		if p.ID == playerID {
			return p, nil
		}
	}
	return game.Player{}, ErrNotFound
}

func (d *memoryData) listPlayers(code string) ([]game.Player, error) {
	state, ok := d.lobbies[code]
	if !ok {
		return nil, ErrNotFound
	}
	players := make([]game.Player, len(state.players))
	copy(players, state.players)
	return players, nil
}

func (d *memoryData) createRound(round game.Round) error {
	state, ok := d.lobbies[round.LobbyCode]
	if !ok {
		return ErrNotFound
	}
	if _, exists := state.rounds[round.Number]; exists {
		return ErrConflict
	}
	state.rounds[round.Number] = round
	return nil
}

func (d *memoryData) getRound(code string, number int) (game.Round, error) {
	state, ok := d.lobbies[code]
	if !ok {
		return game.Round{}, ErrNotFound
	}
	round, ok := state.rounds[number]
	if !ok {
		return game.Round{}, ErrNotFound
	}
	return round, nil
}

func (d *memoryData) saveRound(round game.Round) error {
	state, ok := d.lobbies[round.LobbyCode]
	if !ok {
		return ErrNotFound
	}
	if _, exists := state.rounds[round.Number]; !exists {
		return ErrNotFound
	}
	state.rounds[round.Number] = round
	return nil
}

func (d *memoryData) upsertVote(vote game.Vote) error {
	state, ok := d.lobbies[vote.LobbyCode]
	if !ok {
		return ErrNotFound
	}
	votes := state.votes[vote.RoundNumber]
	for i, v := range votes {
		if v.VoterID == vote.VoterID {
			votes[i].VotedForID = vote.VotedForID
			return nil
		}
	}
	state.votes[vote.RoundNumber] = append(votes, vote)
	return nil
}

func (d *memoryData) listVotes(code string, round int) ([]game.Vote, error) {
	state, ok := d.lobbies[code]
	if !ok {
		return nil, ErrNotFound
	}
	votes := make([]game.Vote, len(state.votes[round]))
	copy(votes, state.votes[round])
	return votes, nil
}

func (d *memoryData) addElimination(e game.Elimination) error {
	state, ok := d.lobbies[e.LobbyCode]
	if !ok {
		return ErrNotFound
	}
	for _, existing := range state.eliminations {
		if existing.PlayerID == e.PlayerID {
			return nil
		}
	}
	state.eliminations = append(state.eliminations, e)
	return nil
}

func (d *memoryData) listEliminations(code string) ([]game.Elimination, error) {
	state, ok := d.lobbies[code]
	if !ok {
		return nil, ErrNotFound
	}
	eliminations := make([]game.Elimination, len(state.eliminations))
	copy(eliminations, state.eliminations)
	return eliminations, nil
}

func (d *memoryData) applyScoreDeltas(code string, deltas []game.ScoreDelta) error {
	state, ok := d.lobbies[code]
	if !ok {
		return ErrNotFound
	}
	for _, delta := range deltas {
		score, ok := state.scores[delta.PlayerID]
		if !ok {
			return ErrNotFound
		}
		score.TotalScore += delta.TotalScore
		score.CorrectVotes += delta.CorrectVotes
		score.SurvivedAsImposter += delta.SurvivedAsImposter
		score.RoundsAsImposter += delta.RoundsAsImposter
	}
	return nil
}

func (d *memoryData) listScores(code string) ([]game.Score, error) {
	state, ok := d.lobbies[code]
	if !ok {
		return nil, ErrNotFound
	}
	scores := make([]game.Score, 0, len(state.scores))
	for _, p := range state.players {
		if score, ok := state.scores[p.ID]; ok {
			scores = append(scores, *score)
		}
	}
	return scores, nil
}

func (d *memoryData) addHistory(entries []game.HistoryEntry) error {
	d.history = append(d.history, entries...)
	return nil
}

func (d *memoryData) listHistoryForPlayer(playerName string) ([]game.HistoryEntry, error) {
	var entries []game.HistoryEntry
	for _, e := range d.history {
		if strings.EqualFold(e.PlayerName, playerName) {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func (d *memoryData) listCategories() ([]string, error) {
	categories := make([]string, 0, len(d.words))
	for name := range d.words {
		categories = append(categories, name)
	}
	sort.Strings(categories)
	return categories, nil
}

func (d *memoryData) getCategoryWords(category string) ([]string, error) {
	words, ok := d.words[category]
	if !ok {
		return nil, ErrNotFound
	}
	return words, nil
}
