package searcher

import (
	"testing"

	"github.com/stretchr/testify/require"

	"coup/game"
)

func TestTreeExpansion(t *testing.T) {
	t.Run("untried moves are reported in legal order", func(t *testing.T) {
		tr := newTree()
		legal := []game.Move{game.NewAction(game.Income), game.NewAction(game.Tax)}

		require.Equal(t, 0, tr.untriedMove(0, legal),
			"First legal move should be untried on a fresh root")

		tr.addChild(0, legal[0], 0)
		require.Equal(t, 1, tr.untriedMove(0, legal),
			"Expansion should move to the next legal move")

		tr.addChild(0, legal[1], 0)
		require.Equal(t, -1, tr.untriedMove(0, legal),
			"A fully expanded node has no untried move")
	})

	t.Run("moves legal only in other determinizations stay untried", func(t *testing.T) {
		tr := newTree()
		income := game.NewAction(game.Income)
		tax := game.NewAction(game.Tax)
		tr.addChild(0, income, 0)
		tr.addChild(0, tax, 0)

		// This determinization only permits income.
		require.Equal(t, -1, tr.untriedMove(0, []game.Move{income}),
			"Restricting legality should not invent untried moves")
	})

	t.Run("children are addressed by move", func(t *testing.T) {
		tr := newTree()
		income := game.NewAction(game.Income)
		idx := tr.addChild(0, income, 2)

		require.Equal(t, idx, tr.childFor(0, income))
		require.Equal(t, noNode, tr.childFor(0, game.NewAction(game.Tax)))
		require.Equal(t, 2, tr.nodes[idx].player, "Child records the acting seat")
	})
}

func TestTreeSelection(t *testing.T) {
	t.Run("picks the highest UCB1 child and bumps availability", func(t *testing.T) {
		tr := newTree()
		strong := tr.addChild(0, game.NewAction(game.Income), 0)
		weak := tr.addChild(0, game.NewAction(game.Tax), 0)
		tr.nodes[strong].visits = 10
		tr.nodes[strong].rewards = 9
		tr.nodes[strong].avails = 20
		tr.nodes[weak].visits = 10
		tr.nodes[weak].rewards = 1
		tr.nodes[weak].avails = 20

		legal := []game.Move{game.NewAction(game.Income), game.NewAction(game.Tax)}
		got := tr.selectChild(0, legal, DefaultExploration)

		require.Equal(t, strong, got, "Higher mean reward should win at equal visits")
		require.Equal(t, 21, tr.nodes[strong].avails, "All compatible children gain availability")
		require.Equal(t, 21, tr.nodes[weak].avails, "All compatible children gain availability")
	})

	t.Run("selection is restricted to the current determinization", func(t *testing.T) {
		tr := newTree()
		strong := tr.addChild(0, game.NewAction(game.Income), 0)
		other := tr.addChild(0, game.NewAction(game.Tax), 0)
		tr.nodes[strong].visits = 1
		tr.nodes[strong].rewards = 1
		tr.nodes[other].visits = 1
		tr.nodes[other].rewards = 100

		got := tr.selectChild(0, []game.Move{game.NewAction(game.Income)}, DefaultExploration)

		require.Equal(t, strong, got,
			"A child illegal in this determinization must be skipped, not compared")
		require.Equal(t, 1, tr.nodes[other].avails,
			"Incompatible children keep their availability count")
	})

	t.Run("ties break toward the lowest legal-move index", func(t *testing.T) {
		tr := newTree()
		first := tr.addChild(0, game.NewAction(game.Income), 0)
		second := tr.addChild(0, game.NewAction(game.Tax), 0)
		for _, idx := range []int32{first, second} {
			tr.nodes[idx].visits = 5
			tr.nodes[idx].rewards = 2
			tr.nodes[idx].avails = 10
		}

		legal := []game.Move{game.NewAction(game.Income), game.NewAction(game.Tax)}
		got := tr.selectChild(0, legal, DefaultExploration)

		require.Equal(t, first, got, "Equal scores should resolve deterministically")
	})
}

func TestTreeBackup(t *testing.T) {
	t.Run("credits each node with its own player's reward", func(t *testing.T) {
		tr := newTree()
		a := tr.addChild(0, game.NewAction(game.Income), 0)
		b := tr.addChild(a, game.NewAction(game.Tax), 1)

		tr.backup(b, game.Rewards{0.25, 0.75})

		require.Equal(t, 1, tr.nodes[0].visits, "Root counts the visit")
		require.Equal(t, 0.0, tr.nodes[0].rewards, "Root has no acting player")
		require.Equal(t, 0.25, tr.nodes[a].rewards, "Seat 0's node takes seat 0's component")
		require.Equal(t, 0.75, tr.nodes[b].rewards, "Seat 1's node takes seat 1's component")
		require.Equal(t, 1, tr.nodes[a].visits)
		require.Equal(t, 1, tr.nodes[b].visits)
	})

	t.Run("accumulates across episodes", func(t *testing.T) {
		tr := newTree()
		a := tr.addChild(0, game.NewAction(game.Income), 0)

		tr.backup(a, game.Rewards{1, 0})
		tr.backup(a, game.Rewards{0, 1})

		require.Equal(t, 2, tr.nodes[a].visits)
		require.Equal(t, 1.0, tr.nodes[a].rewards)
	})
}
