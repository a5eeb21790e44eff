package db

import (
	"time"

	"gorm.io/datatypes"
)

type Lobby struct {
	Code          string    `gorm:"primaryKey;size:6"`
	HostPlayerID  string    `gorm:"size:64;not null"`
	Status        string    `gorm:"size:20;not null;default:waiting"`
	Category      string    `gorm:"size:100"`
	RoundDuration int       `gorm:"not null;default:300"`
	TotalRounds   int       `gorm:"not null;default:3"`
	CurrentRound  int       `gorm:"not null;default:1"`
	CreatedAt     time.Time `gorm:"not null"`
	Players       []Player  `gorm:"foreignKey:LobbyCode;references:Code"`
	Rounds        []Round   `gorm:"foreignKey:LobbyCode;references:Code"`
}

type Player struct {
	ID          string    `gorm:"primaryKey;size:64"`
	LobbyCode   string    `gorm:"size:6;index;not null"`
	Name        string    `gorm:"size:100;not null"`
	AvatarColor string    `gorm:"size:20"`
	IsHost      bool      `gorm:"not null;default:false"`
	JoinedAt    time.Time `gorm:"not null"`
}

type Round struct {
	ID             uint       `gorm:"primaryKey"`
	LobbyCode      string     `gorm:"size:6;not null;uniqueIndex:idx_rounds_lobby_number"`
	RoundNumber    int        `gorm:"not null;uniqueIndex:idx_rounds_lobby_number"`
	ImposterID     string     `gorm:"size:64;not null"`
	Word           string     `gorm:"size:100;not null"`
	Category       string     `gorm:"size:100;not null"`
	Phase          string     `gorm:"size:20;not null;default:word_reveal"`
	RoundStartTime time.Time  `gorm:"not null"`
	RoundEndTime   *time.Time `gorm:""`
}

type Vote struct {
	ID          uint   `gorm:"primaryKey"`
	LobbyCode   string `gorm:"size:6;not null;uniqueIndex:idx_votes_round_voter"`
	RoundNumber int    `gorm:"not null;uniqueIndex:idx_votes_round_voter"`
	VoterID     string `gorm:"size:64;not null;uniqueIndex:idx_votes_round_voter"`
	VotedForID  string `gorm:"size:64;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Elimination struct {
	ID          uint   `gorm:"primaryKey"`
	LobbyCode   string `gorm:"size:6;not null;uniqueIndex:idx_eliminations_lobby_player"`
	RoundNumber int    `gorm:"not null"`
	PlayerID    string `gorm:"size:64;not null;uniqueIndex:idx_eliminations_lobby_player"`
	CreatedAt   time.Time
}

type Score struct {
	ID                 uint   `gorm:"primaryKey"`
	LobbyCode          string `gorm:"size:6;not null;uniqueIndex:idx_scores_lobby_player"`
	PlayerID           string `gorm:"size:64;not null;uniqueIndex:idx_scores_lobby_player"`
	TotalScore         int    `gorm:"not null;default:0"`
	CorrectVotes       int    `gorm:"not null;default:0"`
	SurvivedAsImposter int    `gorm:"not null;default:0"`
	RoundsAsImposter   int    `gorm:"not null;default:0"`
}

type GameHistoryEntry struct {
	ID                 uint      `gorm:"primaryKey"`
	LobbyCode          string    `gorm:"size:6;not null"`
	PlayerID           string    `gorm:"size:64;not null"`
	PlayerName         string    `gorm:"size:100;not null;index"`
	OpponentName       string    `gorm:"size:100;not null"`
	Won                bool      `gorm:"not null;default:false"`
	WasImposter        bool      `gorm:"not null;default:false"`
	CaughtAsImposter   bool      `gorm:"not null;default:false"`
	SurvivedAsImposter bool      `gorm:"not null;default:false"`
	PlayedAt           time.Time `gorm:"not null"`
}

type WordCategory struct {
	Category string         `gorm:"primaryKey;size:100"`
	Words    datatypes.JSON `gorm:"type:jsonb;not null"`
}
