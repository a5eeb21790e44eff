package game

import "math/rand/v2"

// Source supplies the randomness behind lobby codes, imposter selection, word
// draws and avatar colors. Tests inject a deterministic implementation to pin
// down exact selections.
type Source interface {
	IntN(n int) int
}

type mathSource struct{}

func (mathSource) IntN(n int) int { return rand.IntN(n) }

// NewSource returns the default math/rand/v2 backed source.
func NewSource() Source {
	return mathSource{}
}

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// NewLobbyCode generates a 6-character shareable code. Ambiguous characters
// (0/O, 1/I) are excluded from the alphabet.
func NewLobbyCode(src Source) string {
	buf := make([]byte, 6)
	for i := range buf {
		buf[i] = codeAlphabet[src.IntN(len(codeAlphabet))]
	}
	return string(buf)
}

var avatarPalette = []string{
	"#FF6B6B",
	"#4ECDC4",
	"#45B7D1",
	"#FFA07A",
	"#98D8C8",
	"#F7DC6F",
	"#BB8FCE",
	"#85C1E2",
}

func PickAvatarColor(src Source) string {
	return avatarPalette[src.IntN(len(avatarPalette))]
}

// PickImposter draws a uniformly random player. The caller passes only active
// (non-eliminated) players.
func PickImposter(src Source, players []Player) Player {
	return players[src.IntN(len(players))]
}

func PickWord(src Source, words []string) string {
	return words[src.IntN(len(words))]
}
