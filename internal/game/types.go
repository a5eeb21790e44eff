package game

import "time"

const (
	StatusWaiting  = "waiting"
	StatusPlaying  = "playing"
	StatusFinished = "finished"
)

const (
	PhaseWordReveal = "word_reveal"
	PhaseDiscussion = "discussion"
	PhaseVoting     = "voting"
	PhaseResults    = "results"
)

// TargetNextRound is not a stored phase; clients request it to move a lobby
// from a finished round to the next one (or to end the game).
const TargetNextRound = "next_round"

const (
	MaxPlayers = 10
	MinPlayers = 2

	DefaultRoundDurationSeconds = 300
	DefaultTotalRounds          = 3

	// BotIDPrefix marks simulated players driven by the bot director.
	BotIDPrefix = "bot-"
)

type Lobby struct {
	Code                 string
	HostPlayerID         string
	Status               string
	Category             string
	RoundDurationSeconds int
	TotalRounds          int
	CurrentRound         int
	CreatedAt            time.Time
}

type Player struct {
	ID          string
	LobbyCode   string
	Name        string
	AvatarColor string
	IsHost      bool
	JoinedAt    time.Time
}

type Round struct {
	LobbyCode  string
	Number     int
	ImposterID string
	Word       string
	Category   string
	Phase      string
	StartedAt  time.Time
	EndedAt    *time.Time
}

// Vote holds one voter's current preference for the round. A later vote by
// the same voter replaces the earlier one.
type Vote struct {
	LobbyCode   string
	RoundNumber int
	VoterID     string
	VotedForID  string
}

type Elimination struct {
	LobbyCode   string
	RoundNumber int
	PlayerID    string
}

type Score struct {
	LobbyCode          string
	PlayerID           string
	TotalScore         int
	CorrectVotes       int
	SurvivedAsImposter int
	RoundsAsImposter   int
}

// ScoreDelta is a set of non-negative increments applied atomically to one
// player's score row.
type ScoreDelta struct {
	PlayerID           string
	TotalScore         int
	CorrectVotes       int
	SurvivedAsImposter int
	RoundsAsImposter   int
}

// HistoryEntry records one ordered (player, opponent) pair of a finished game
// and feeds the leaderboard rollups.
type HistoryEntry struct {
	LobbyCode          string
	PlayerID           string
	PlayerName         string
	OpponentName       string
	Won                bool
	WasImposter        bool
	CaughtAsImposter   bool
	SurvivedAsImposter bool
	PlayedAt           time.Time
}

// ActivePlayers filters out players that appear in any elimination row.
func ActivePlayers(players []Player, eliminations []Elimination) []Player {
	eliminated := make(map[string]struct{}, len(eliminations))
	for _, e := range eliminations {
		eliminated[e.PlayerID] = struct{}{}
	}
	active := make([]Player, 0, len(players))
	for _, p := range players {
		if _, out := eliminated[p.ID]; out {
			continue
		}
		active = append(active, p)
	}
	return active
}

// IsBot reports whether a player id belongs to a simulated player.
func IsBot(id string) bool {
	return len(id) >= len(BotIDPrefix) && id[:len(BotIDPrefix)] == BotIDPrefix
}
