package game

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func roleCounts(gs *GameState) map[Role]int {
	counts := map[Role]int{}
	for _, r := range gs.Deck {
		counts[r]++
	}
	for i := range gs.Players {
		for _, r := range gs.Players[i].Hand {
			counts[r]++
		}
		for _, r := range gs.Players[i].Lost {
			counts[r]++
		}
	}
	if gs.Pending != nil {
		for _, r := range gs.Pending.Drawn {
			counts[r]++
		}
	}
	return counts
}

func TestPerspectiveOf(t *testing.T) {
	t.Run("masks opponents' hands and the deck", func(t *testing.T) {
		gs := NewGameState(3, rand.New(rand.NewSource(1)))

		is := gs.PerspectiveOf(0)

		require.Equal(t, gs.Players[0].Hand, is.Hand, "Own hand is visible")
		require.Empty(t, is.Public.Players[1].Hand, "Opponent hands are hidden")
		require.Empty(t, is.Public.Players[2].Hand, "Opponent hands are hidden")
		require.Empty(t, is.Public.Deck, "The deck is hidden")
		require.Equal(t, []int{2, 2, 2}, is.Sizes, "Hand sizes are public")
	})

	t.Run("keeps public coins and face-up cards", func(t *testing.T) {
		gs := NewGameState(2, rand.New(rand.NewSource(2)))
		gs.Players[1].Coins = 5
		gs.Players[1].Lost = []Role{gs.Players[1].Hand[1]}
		gs.Players[1].Hand = gs.Players[1].Hand[:1]

		is := gs.PerspectiveOf(0)

		require.Equal(t, 5, is.Public.Players[1].Coins)
		require.Len(t, is.Public.Players[1].Lost, 1, "Face-up cards stay visible")
		require.Equal(t, []int{2, 1}, is.Sizes)
	})

	t.Run("exchange draw is visible to the actor only", func(t *testing.T) {
		gs := newTestState(t,
			[][]Role{{Ambassador, Duke}, {Contessa, Contessa}},
			[]int{2, 2})
		mid := play(t, gs, NewAction(Exchange), NewAction(Allow))

		actorView := mid.PerspectiveOf(0)
		require.Equal(t, mid.Pending.Drawn, actorView.Drawn, "Actor sees the draw")
		require.Empty(t, actorView.Public.Pending.Drawn, "Masked copy holds no cards")

		otherView := mid.PerspectiveOf(1)
		require.Nil(t, otherView.Drawn, "Bystanders do not see the draw")
	})
}

func TestDeterminize(t *testing.T) {
	t.Run("preserves the viewer's hand exactly", func(t *testing.T) {
		gs := NewGameState(4, rand.New(rand.NewSource(3)))
		is := gs.PerspectiveOf(0)
		rng := rand.New(rand.NewSource(10))

		for i := 0; i < 20; i++ {
			sample, err := is.Determinize(rng)
			require.NoError(t, err)
			require.Equal(t, is.Hand, sample.Players[0].Hand,
				"Determinization must not touch the viewer's hand")
		}
	})

	t.Run("respects per-role multiplicity", func(t *testing.T) {
		gs := NewGameState(4, rand.New(rand.NewSource(4)))
		gs.Players[2].Lost = []Role{gs.Players[2].Hand[1]}
		gs.Players[2].Hand = gs.Players[2].Hand[:1]
		is := gs.PerspectiveOf(0)
		rng := rand.New(rand.NewSource(11))

		for i := 0; i < 20; i++ {
			sample, err := is.Determinize(rng)
			require.NoError(t, err)
			require.Equal(t, TotalInfluence, sample.CardCount())
			for role, n := range roleCounts(sample) {
				require.Equal(t, CopiesPerRole, n,
					"Every sample must hold exactly three copies of %v", role)
			}
		}
	})

	t.Run("respects opponents' hand sizes", func(t *testing.T) {
		gs := NewGameState(3, rand.New(rand.NewSource(5)))
		gs.Players[1].Lost = []Role{gs.Players[1].Hand[1]}
		gs.Players[1].Hand = gs.Players[1].Hand[:1]
		is := gs.PerspectiveOf(0)

		sample, err := is.Determinize(rand.New(rand.NewSource(12)))

		require.NoError(t, err)
		require.Len(t, sample.Players[1].Hand, 1)
		require.Len(t, sample.Players[2].Hand, 2)
	})

	t.Run("samples vary across calls", func(t *testing.T) {
		gs := NewGameState(4, rand.New(rand.NewSource(6)))
		is := gs.PerspectiveOf(0)
		rng := rand.New(rand.NewSource(13))

		seen := map[string]bool{}
		for i := 0; i < 30; i++ {
			sample, err := is.Determinize(rng)
			require.NoError(t, err)
			key := ""
			for _, r := range sample.Players[1].Hand {
				key += r.String() + ","
			}
			seen[key] = true
		}
		require.Greater(t, len(seen), 1,
			"Independent samples must explore different hidden hands")
	})

	t.Run("rejects contradictory observations", func(t *testing.T) {
		gs := NewGameState(2, rand.New(rand.NewSource(7)))
		gs.Players[0].Lost = []Role{Duke, Duke}
		gs.Players[1].Lost = []Role{Duke, Duke}
		is := gs.PerspectiveOf(0)

		_, err := is.Determinize(rand.New(rand.NewSource(14)))

		require.ErrorIs(t, err, ErrInconsistentObservation,
			"Four face-up dukes exceed the deck's three copies")
		require.ErrorIs(t, is.Validate(), ErrInconsistentObservation)
	})

	t.Run("redeals an unseen exchange draw", func(t *testing.T) {
		gs := newTestState(t,
			[][]Role{{Contessa, Contessa}, {Ambassador, Duke}},
			[]int{2, 2})
		gs.Turn, gs.ToMove = 1, 1
		mid := play(t, gs, NewAction(Exchange), NewAction(Allow))

		is := mid.PerspectiveOf(0) // bystander view of an opponent exchange
		sample, err := is.Determinize(rand.New(rand.NewSource(15)))

		require.NoError(t, err)
		require.Len(t, sample.Pending.Drawn, 2, "The draw size is public knowledge")
		require.Equal(t, TotalInfluence, sample.CardCount())
	})

	t.Run("legal moves are playable on every sample", func(t *testing.T) {
		gs := NewGameState(3, rand.New(rand.NewSource(8)))
		is := gs.PerspectiveOf(0)
		rng := rand.New(rand.NewSource(16))

		legal := is.LegalMoves()
		require.NotEmpty(t, legal)
		for i := 0; i < 10; i++ {
			sample, err := is.Determinize(rng)
			require.NoError(t, err)
			for _, m := range legal {
				_, err := sample.Play(m)
				require.NoError(t, err, "Viewer-legal moves hold in all determinizations")
			}
		}
	})
}

func TestRewards(t *testing.T) {
	t.Run("terminal rewards pay the survivor only", func(t *testing.T) {
		gs := newTestState(t,
			[][]Role{{Duke, Captain}, {}, {}},
			[]int{2, 2, 2})
		gs.Players[1].Lost = []Role{Contessa, Contessa}
		gs.Players[2].Lost = []Role{Assassin, Assassin}

		require.Equal(t, Rewards{1, 0, 0}, TerminalRewards(gs))
	})

	t.Run("cutoff heuristic favors influence and normalizes", func(t *testing.T) {
		gs := newTestState(t,
			[][]Role{{Duke, Captain}, {Contessa}},
			[]int{2, 8})
		gs.Players[1].Lost = []Role{Assassin}

		rewards := EvaluateInfluence(gs)

		require.Greater(t, rewards[0], rewards[1],
			"Two cards should outweigh one card plus coins")
		require.InDelta(t, 1.0, rewards[0]+rewards[1], 0.0001,
			"Scores should sum to one like a terminal result")
	})
}
