package engine

import (
	"context"
	"fmt"

	"golang.org/x/exp/rand"

	"coup/game"
	"coup/searcher"
)

// Agent picks a move for the seat whose information set it is handed.
type Agent interface {
	FindMove(ctx context.Context, info *game.InformationSet) (game.Move, searcher.SearchMetric, error)
}

// SearchAgent plays the move an ISMCTS search recommends.
type SearchAgent struct {
	searcher *searcher.ISMCTS
}

func NewSearchAgent(s *searcher.ISMCTS) *SearchAgent {
	return &SearchAgent{searcher: s}
}

func (a *SearchAgent) FindMove(ctx context.Context, info *game.InformationSet) (game.Move, searcher.SearchMetric, error) {
	rec, err := a.searcher.Search(ctx, info)
	if err != nil {
		return game.Move{}, searcher.SearchMetric{}, err
	}
	return rec.Best, rec.Metric, nil
}

// RandomAgent plays uniformly at random. It is the baseline opponent.
type RandomAgent struct {
	rng *rand.Rand
}

func NewRandomAgent(seed uint64) *RandomAgent {
	return &RandomAgent{rng: rand.New(rand.NewSource(seed))}
}

func (a *RandomAgent) FindMove(_ context.Context, info *game.InformationSet) (game.Move, searcher.SearchMetric, error) {
	legal := info.LegalMoves()
	if len(legal) == 0 {
		return game.Move{}, searcher.SearchMetric{}, fmt.Errorf("no legal moves for seat %d", info.Viewer)
	}
	return legal[a.rng.Intn(len(legal))], searcher.SearchMetric{}, nil
}
