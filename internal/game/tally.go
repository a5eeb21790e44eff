package game

// TallyResult is the outcome of counting a round's votes.
type TallyResult struct {
	// EliminatedID is the most-voted player, or empty when no votes were
	// cast (the imposter then survives by default).
	EliminatedID string
	Counts       map[string]int
}

// TallyVotes groups votes by target and elects the player with the most
// votes. Ties break toward the target whose first vote arrived earliest, a
// stable rule instead of whatever order the storage engine happens to return.
func TallyVotes(votes []Vote) TallyResult {
	counts := make(map[string]int, len(votes))
	order := make([]string, 0, len(votes))
	for _, v := range votes {
		if _, seen := counts[v.VotedForID]; !seen {
			order = append(order, v.VotedForID)
		}
		counts[v.VotedForID]++
	}

	result := TallyResult{Counts: counts}
	best := 0
	for _, target := range order {
		if counts[target] > best {
			best = counts[target]
			result.EliminatedID = target
		}
	}
	return result
}
