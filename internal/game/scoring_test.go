package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deltaFor(t *testing.T, deltas []ScoreDelta, playerID string) ScoreDelta {
	t.Helper()
	for _, d := range deltas {
		if d.PlayerID == playerID {
			return d
		}
	}
	t.Fatalf("no delta for player %s in %#v", playerID, deltas)
	return ScoreDelta{}
}

func TestScoreRoundImposterCaught(t *testing.T) {
	round := Round{LobbyCode: "ABCDEF", Number: 1, ImposterID: "B"}
	votes := []Vote{
		vote("A", "B"),
		vote("B", "B"),
		vote("C", "A"),
	}

	deltas := ScoreRound(round, votes, "B")

	a := deltaFor(t, deltas, "A")
	assert.Equal(t, PointsCorrectVote, a.TotalScore)
	assert.Equal(t, 1, a.CorrectVotes)

	b := deltaFor(t, deltas, "B")
	assert.Equal(t, PointsCorrectVote, b.TotalScore)
	assert.Equal(t, 1, b.CorrectVotes)
	assert.Equal(t, 1, b.RoundsAsImposter)
	assert.Zero(t, b.SurvivedAsImposter)

	// C voted wrong and gets nothing.
	for _, d := range deltas {
		assert.NotEqual(t, "C", d.PlayerID)
	}
}

func TestScoreRoundWrongPlayerEliminated(t *testing.T) {
	round := Round{LobbyCode: "ABCDEF", Number: 1, ImposterID: "A"}
	votes := []Vote{
		vote("A", "B"),
		vote("B", "C"),
		vote("C", "B"),
	}

	deltas := ScoreRound(round, votes, "B")

	require.Len(t, deltas, 1)
	a := deltaFor(t, deltas, "A")
	assert.Equal(t, PointsImposterSurvived, a.TotalScore)
	assert.Equal(t, 1, a.SurvivedAsImposter)
	assert.Equal(t, 1, a.RoundsAsImposter)
}

func TestScoreRoundNoVotesImposterSurvives(t *testing.T) {
	round := Round{LobbyCode: "ABCDEF", Number: 2, ImposterID: "A"}

	deltas := ScoreRound(round, nil, "")

	require.Len(t, deltas, 1)
	a := deltaFor(t, deltas, "A")
	assert.Equal(t, PointsImposterSurvived, a.TotalScore)
	assert.Equal(t, 1, a.SurvivedAsImposter)
	assert.Equal(t, 1, a.RoundsAsImposter)
}
