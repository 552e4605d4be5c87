package searcher

import "math"

// DefaultExploration is the UCB1 exploration constant.
const DefaultExploration = math.Sqrt2

// ucb1 balances the mean reward of a move against an exploration bonus
// driven by how often the move was available, not just how often its node
// was visited (the ISMCTS subtlety: availability counts replace parent
// visits in the formula).
func ucb1(rewards float64, visits, avails int, exploration float64) float64 {
	if visits == 0 {
		panic("cannot compute UCB1: 0 visits")
	}
	return rewards/float64(visits) +
		exploration*math.Sqrt(math.Log(float64(avails))/float64(visits))
}
