package searcher

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUCB1(t *testing.T) {
	t.Run("computes mean plus availability-driven exploration", func(t *testing.T) {
		got := ucb1(5.0, 10, 100, DefaultExploration)

		expected := 5.0/10 + DefaultExploration*math.Sqrt(math.Log(100)/10)
		require.InDelta(t, expected, got, 0.0001,
			"Should compute q/n + C*sqrt(ln(avails)/n)")
	})

	t.Run("panics with zero visits", func(t *testing.T) {
		require.Panics(t, func() {
			ucb1(1.0, 0, 1, DefaultExploration)
		}, "Should panic when n is 0")
	})

	t.Run("exploration term grows with availability", func(t *testing.T) {
		score1 := ucb1(5.0, 10, 100, DefaultExploration)
		score2 := ucb1(5.0, 10, 1000, DefaultExploration)

		require.Greater(t, score2, score1,
			"Being available more often without being picked should raise the bonus")
	})

	t.Run("exploration term shrinks with visits", func(t *testing.T) {
		score1 := ucb1(5.0, 10, 100, DefaultExploration)
		score2 := ucb1(10.0, 20, 100, DefaultExploration)

		require.Greater(t, score1, score2,
			"Same mean reward with more visits should lower the bonus")
	})

	t.Run("zero exploration reduces to the mean", func(t *testing.T) {
		got := ucb1(3.0, 4, 50, 0)

		require.InDelta(t, 0.75, got, 0.0001,
			"With C=0 the score is the mean reward")
	})
}
