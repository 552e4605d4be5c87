package experiments

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"coup/game"
)

// Summary condenses a run into per-config win shares and game length
// statistics.
type Summary struct {
	Games     int
	Wins      map[int]int // AgentConfig.ID to games won
	Draws     int         // games stopped by the move cap
	MeanMoves float64
	StdMoves  float64
}

// Summarize tallies the game records of a two-config run.
func Summarize(results Results) Summary {
	s := Summary{
		Games: len(results.GameRecords),
		Wins:  map[int]int{},
	}
	lengths := make([]float64, 0, len(results.GameRecords))
	for _, record := range results.GameRecords {
		lengths = append(lengths, float64(record.Moves))
		switch record.Winner {
		case 0:
			s.Wins[record.Agent1]++
		case 1:
			s.Wins[record.Agent2]++
		case game.NoTarget:
			s.Draws++
		}
	}
	if len(lengths) > 0 {
		s.MeanMoves = stat.Mean(lengths, nil)
		s.StdMoves = stat.StdDev(lengths, nil)
	}
	return s
}

// WinShare returns a config's share of all games, draws included in the
// denominator.
func (s Summary) WinShare(configID int) float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Wins[configID]) / float64(s.Games)
}

func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d games, %.1f moves/game (std %.1f)\n", s.Games, s.MeanMoves, s.StdMoves)
	ids := make([]int, 0, len(s.Wins))
	for id := range s.Wins {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		fmt.Fprintf(&b, "  agent %d: %d wins (%.1f%%)\n", id, s.Wins[id], s.WinShare(id)*100)
	}
	if s.Draws > 0 {
		fmt.Fprintf(&b, "  draws: %d\n", s.Draws)
	}
	return strings.TrimRight(b.String(), "\n")
}
