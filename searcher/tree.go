package searcher

import (
	"fmt"
	"math"

	"coup/game"
)

const noNode = int32(-1)

// node is one entry of the flat search tree. Rewards accumulate for the
// seat that played the node's move, since rewards are per-player in a
// multiplayer game.
type node struct {
	move     game.Move
	player   int // seat that played move; -1 at the root
	parent   int32
	children []int32
	visits   int
	avails   int // determinizations in which the move was available
	rewards  float64
}

// tree stores the search tree as a flat array of nodes addressed by index,
// children as index lists. One tree lives exactly one search episode batch;
// teardown is dropping the slice.
type tree struct {
	nodes []node
}

func newTree() *tree {
	return &tree{nodes: []node{{parent: noNode, player: -1, avails: 1}}}
}

// childFor returns the child of parent reached by m, or noNode.
func (t *tree) childFor(parent int32, m game.Move) int32 {
	for _, c := range t.nodes[parent].children {
		if t.nodes[c].move == m {
			return c
		}
	}
	return noNode
}

func (t *tree) addChild(parent int32, m game.Move, player int) int32 {
	idx := int32(len(t.nodes))
	t.nodes = append(t.nodes, node{
		move:   m,
		player: player,
		parent: parent,
		avails: 1,
	})
	t.nodes[parent].children = append(t.nodes[parent].children, idx)
	return idx
}

// untriedMove returns the index into legal of the first move without a
// child, or -1 when the node is fully expanded for this determinization.
func (t *tree) untriedMove(parent int32, legal []game.Move) int {
	for i, m := range legal {
		if t.childFor(parent, m) == noNode {
			return i
		}
	}
	return -1
}

// selectChild applies UCB1 over the children whose moves are legal in the
// current determinization; children legal in other determinizations only
// are skipped, not treated as absent. Availability counts of all compatible
// children are bumped. Ties break toward the lowest legal-move index.
func (t *tree) selectChild(parent int32, legal []game.Move, exploration float64) int32 {
	best := noNode
	bestScore := math.Inf(-1)
	for _, m := range legal {
		c := t.childFor(parent, m)
		if c == noNode {
			panic(fmt.Sprintf("selecting on a node with untried move %v", m))
		}
		n := &t.nodes[c]
		score := ucb1(n.rewards, n.visits, n.avails, exploration)
		n.avails++
		if score > bestScore {
			best = c
			bestScore = score
		}
	}
	if best == noNode {
		panic("selecting on a node with no legal children")
	}
	return best
}

// backup walks from leaf to the root, crediting every node with the reward
// component of its own player.
func (t *tree) backup(leaf int32, rewards game.Rewards) {
	for idx := leaf; idx != noNode; idx = t.nodes[idx].parent {
		n := &t.nodes[idx]
		n.visits++
		if n.player >= 0 {
			n.rewards += rewards[n.player]
		}
	}
}
