package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func vote(voter, target string) Vote {
	return Vote{LobbyCode: "ABCDEF", RoundNumber: 1, VoterID: voter, VotedForID: target}
}

func TestTallyVotesElectsMostVoted(t *testing.T) {
	result := TallyVotes([]Vote{
		vote("A", "B"),
		vote("B", "B"),
		vote("C", "A"),
	})

	assert.Equal(t, "B", result.EliminatedID)
	assert.Equal(t, 2, result.Counts["B"])
	assert.Equal(t, 1, result.Counts["A"])
}

func TestTallyVotesTieBreaksByFirstVoteOrder(t *testing.T) {
	result := TallyVotes([]Vote{
		vote("A", "C"),
		vote("B", "D"),
		vote("C", "D"),
		vote("D", "C"),
	})

	// C and D both have two votes; C's first vote arrived first.
	assert.Equal(t, "C", result.EliminatedID)
}

func TestTallyVotesNoVotes(t *testing.T) {
	result := TallyVotes(nil)

	assert.Empty(t, result.EliminatedID)
	assert.Empty(t, result.Counts)
}

func TestTallyVotesSingleVoteWins(t *testing.T) {
	result := TallyVotes([]Vote{vote("A", "B")})

	assert.Equal(t, "B", result.EliminatedID)
}
