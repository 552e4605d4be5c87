package searcher

import (
	"fmt"
	"sort"
	"strings"

	"coup/game"
)

// MoveStats is one root move with its aggregated statistics.
type MoveStats struct {
	Move   game.Move
	Visits int
	Share  float64 // visit share across all root moves
	Mean   float64 // mean reward for the viewer
}

// Recommendation is a pure read of the merged root statistics: the robust
// child (highest visit count) plus the full ranked list.
type Recommendation struct {
	Best     game.Move
	Ranked   []MoveStats
	Fallback bool // no episode completed; Best is a uniform random move
	Metric   SearchMetric
}

// extract merges the root statistics of all worker trees into a ranked
// recommendation. legal fixes the move order, so ties rank deterministically.
func extract(trees []*tree, legal []game.Move, metric SearchMetric) Recommendation {
	ranked := make([]MoveStats, len(legal))
	total := 0
	for i, m := range legal {
		ranked[i].Move = m
		for _, t := range trees {
			c := t.childFor(0, m)
			if c == noNode {
				continue
			}
			ranked[i].Visits += t.nodes[c].visits
			ranked[i].Mean += t.nodes[c].rewards
		}
		total += ranked[i].Visits
	}
	for i := range ranked {
		if ranked[i].Visits > 0 {
			ranked[i].Mean /= float64(ranked[i].Visits)
		}
		if total > 0 {
			ranked[i].Share = float64(ranked[i].Visits) / float64(total)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Visits > ranked[j].Visits
	})

	rec := Recommendation{Ranked: ranked, Metric: metric}
	if total == 0 {
		rec.Fallback = true
		return rec
	}
	rec.Best = ranked[0].Move
	return rec
}

func (r Recommendation) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "recommendation: %v", r.Best)
	if r.Fallback {
		b.WriteString(" (uniform fallback, no episodes completed)")
		return b.String()
	}
	fmt.Fprintf(&b, " (%d episodes)\n", r.Metric.Episodes)
	for _, ms := range r.Ranked {
		fmt.Fprintf(&b, "  %-24v visits %6d  share %5.1f%%  mean %.3f\n",
			ms.Move, ms.Visits, ms.Share*100, ms.Mean)
	}
	return strings.TrimRight(b.String(), "\n")
}
