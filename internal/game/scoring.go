package game

const (
	// PointsCorrectVote rewards each voter that picked the imposter in a
	// round where the imposter was caught.
	PointsCorrectVote = 100
	// PointsImposterSurvived rewards the imposter when the group eliminated
	// the wrong player or nobody at all.
	PointsImposterSurvived = 150
)

// ScoreRound derives the score increments for one round given the tally's
// elimination target. eliminatedID may be empty (no votes cast).
//
// The imposter's rounds_as_imposter counter increments regardless of outcome.
func ScoreRound(round Round, votes []Vote, eliminatedID string) []ScoreDelta {
	deltas := make(map[string]*ScoreDelta)
	order := make([]string, 0, len(votes)+1)
	add := func(playerID string) *ScoreDelta {
		d, ok := deltas[playerID]
		if !ok {
			d = &ScoreDelta{PlayerID: playerID}
			deltas[playerID] = d
			order = append(order, playerID)
		}
		return d
	}

	if eliminatedID != "" && eliminatedID == round.ImposterID {
		for _, v := range votes {
			if v.VotedForID != round.ImposterID {
				continue
			}
			d := add(v.VoterID)
			d.TotalScore += PointsCorrectVote
			d.CorrectVotes++
		}
	} else {
		d := add(round.ImposterID)
		d.TotalScore += PointsImposterSurvived
		d.SurvivedAsImposter++
	}

	add(round.ImposterID).RoundsAsImposter++

	result := make([]ScoreDelta, 0, len(order))
	for _, playerID := range order {
		result = append(result, *deltas[playerID])
	}
	return result
}
