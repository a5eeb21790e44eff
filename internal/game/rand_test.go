package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// seqSource replays a fixed sequence of draws.
type seqSource struct {
	values []int
	i      int
}

func (s *seqSource) IntN(n int) int {
	v := s.values[s.i%len(s.values)]
	s.i++
	return v % n
}

func TestNewLobbyCodeDeterministic(t *testing.T) {
	src := &seqSource{values: []int{0, 1, 2, 3, 4, 5}}
	assert.Equal(t, "ABCDEF", NewLobbyCode(src))
}

func TestNewLobbyCodeCharset(t *testing.T) {
	code := NewLobbyCode(NewSource())
	assert.Len(t, code, 6)
	for _, r := range code {
		assert.True(t, strings.ContainsRune(codeAlphabet, r), "unexpected rune %q", r)
	}
	// No ambiguous characters in the alphabet.
	assert.NotContains(t, codeAlphabet, "0")
	assert.NotContains(t, codeAlphabet, "O")
	assert.NotContains(t, codeAlphabet, "1")
	assert.NotContains(t, codeAlphabet, "I")
}

func TestPickImposterUniformIndex(t *testing.T) {
	players := []Player{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	src := &seqSource{values: []int{2}}
	assert.Equal(t, "c", PickImposter(src, players).ID)
}

func TestPickWord(t *testing.T) {
	src := &seqSource{values: []int{1}}
	assert.Equal(t, "y", PickWord(src, []string{"x", "y", "z"}))
}

func TestActivePlayersExcludesEliminated(t *testing.T) {
	players := []Player{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	eliminations := []Elimination{{PlayerID: "b"}}

	active := ActivePlayers(players, eliminations)

	assert.Len(t, active, 2)
	for _, p := range active {
		assert.NotEqual(t, "b", p.ID)
	}
}

func TestIsBot(t *testing.T) {
	assert.True(t, IsBot("bot-3f2a"))
	assert.False(t, IsBot("player-1"))
	assert.False(t, IsBot(""))
}
