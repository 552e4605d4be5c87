package game

// Rewards holds one score per seat on the scale of a win probability. Coup
// is not zero-sum across more than two players, so every seat accumulates
// reward independently.
type Rewards []float64

// Evaluate scores a state for every seat. Used at the rollout depth cutoff
// in place of a true terminal result.
type Evaluate func(*GameState) Rewards

// TerminalRewards scores a finished game: 1 for the survivor, 0 for
// everyone else.
func TerminalRewards(gs *GameState) Rewards {
	rewards := make(Rewards, len(gs.Players))
	if w := gs.Winner(); w != NoTarget {
		rewards[w] = 1
	}
	return rewards
}

// EvaluateInfluence scores a cutoff state by remaining influence with a
// small coin tiebreak, normalized so the vector sums to one like a
// terminal result.
func EvaluateInfluence(gs *GameState) Rewards {
	rewards := make(Rewards, len(gs.Players))
	total := 0.0
	for i := range gs.Players {
		p := gs.Players[i]
		if !p.Alive() {
			continue
		}
		score := float64(p.Influence()) + float64(min(p.Coins, 10))*0.02
		rewards[i] = score
		total += score
	}
	for i := range rewards {
		rewards[i] /= total
	}
	return rewards
}
