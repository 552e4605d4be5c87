// Package engine runs complete games between agents. Every agent sees only
// its own information set, so search agents play under the same uncertainty
// they would face at a real table.
package engine

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"

	"coup/game"
	"coup/searcher"
)

// MaxMoves caps runaway games. Coup's forced coup rule terminates sensible
// games far earlier; hitting the cap indicates a modeling bug.
const MaxMoves = 1000

// MoveResult is one applied move with the search statistics behind it.
type MoveResult struct {
	Step   int
	Seat   int
	Move   game.Move
	Metric searcher.SearchMetric
}

// Local drives a full game in-process, one agent per seat.
type Local struct {
	state  *game.GameState
	agents []Agent
	logger zerolog.Logger
}

// Option configures a Local engine.
type Option func(*Local)

// WithLogger attaches a logger for per-move output.
func WithLogger(logger zerolog.Logger) Option {
	return func(l *Local) {
		l.logger = logger
	}
}

// NewLocal deals a fresh game for one agent per seat. seed drives the deal
// and all hidden draws during play.
func NewLocal(agents []Agent, seed uint64, options ...Option) (*Local, error) {
	if len(agents) < 2 || len(agents) > 6 {
		return nil, fmt.Errorf("need 2-6 agents, got %d", len(agents))
	}
	l := &Local{
		state:  game.NewGameState(len(agents), rand.New(rand.NewSource(seed))),
		agents: agents,
		logger: zerolog.Nop(),
	}
	for _, o := range options {
		o(l)
	}
	return l, nil
}

// Run loops until a winner emerges or MaxMoves is hit. The winning seat is
// game.NoTarget when the cap stops the game.
func (l *Local) Run(ctx context.Context) (int, []MoveResult, error) {
	var results []MoveResult
	for step := 1; step <= MaxMoves; step++ {
		if winner := l.state.Winner(); winner != game.NoTarget {
			l.logger.Info().Int("winner", winner).Int("moves", len(results)).Msg("Game over")
			return winner, results, nil
		}

		seat := l.state.Player()
		info := l.state.PerspectiveOf(seat)
		move, metric, err := l.agents[seat].FindMove(ctx, info)
		if err != nil {
			return game.NoTarget, results, fmt.Errorf("seat %d move %d: %w", seat, step, err)
		}

		next, err := l.state.Play(move)
		if err != nil {
			return game.NoTarget, results, fmt.Errorf("seat %d played %v: %w", seat, move, err)
		}
		l.state = next
		results = append(results, MoveResult{Step: step, Seat: seat, Move: move, Metric: metric})
		l.logger.Debug().
			Int("step", step).
			Int("seat", seat).
			Stringer("move", move).
			Msg("Applied move")
	}
	l.logger.Warn().Int("moves", len(results)).Msg("Game stopped at the move cap")
	return game.NoTarget, results, nil
}
