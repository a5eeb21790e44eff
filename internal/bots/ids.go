package bots

import (
	"github.com/google/uuid"

	"word-imposter/internal/game"
)

// NewBotID mints a player id the rest of the system recognizes as a bot.
func NewBotID() string {
	return game.BotIDPrefix + uuid.NewString()
}
