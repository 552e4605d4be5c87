// Package experiments pits agent configurations against each other over many
// games and summarizes the results.
package experiments

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"coup/engine"
	"coup/experiments/metrics"
	"coup/searcher"
)

// Arena runs repeated head-to-head games between two agent configurations,
// alternating the starting seat so neither side keeps the first-move edge.
type Arena struct {
	games  int
	seed   uint64
	logger zerolog.Logger
}

// Option configures an Arena.
type Option func(*Arena)

// WithLogger attaches a logger for per-game progress output.
func WithLogger(logger zerolog.Logger) Option {
	return func(a *Arena) {
		a.logger = logger
	}
}

// NewArena prepares a run of the given number of games. seed derives every
// per-game deal and agent seed, so a run is reproducible.
func NewArena(games int, seed uint64, options ...Option) (*Arena, error) {
	if games < 1 {
		return nil, fmt.Errorf("need at least one game, got %d", games)
	}
	a := &Arena{
		games:  games,
		seed:   seed,
		logger: zerolog.Nop(),
	}
	for _, o := range options {
		o(a)
	}
	return a, nil
}

// Results collects everything a run produced, ready for the CSV writer.
type Results struct {
	Configs     []metrics.AgentConfig
	GameRecords []metrics.GameRecord
	MoveRecords []metrics.MoveRecord
}

// Run plays the configured number of games between the two configurations.
// Odd-numbered games swap seats.
func (a *Arena) Run(ctx context.Context, config1, config2 metrics.AgentConfig) (Results, error) {
	results := Results{Configs: []metrics.AgentConfig{config1, config2}}

	for i := 0; i < a.games; i++ {
		first, second := config1, config2
		if i%2 == 1 {
			first, second = second, first
		}

		gameSeed := a.seed + uint64(i)*0x100
		agent1, err := newAgent(first, gameSeed+1)
		if err != nil {
			return results, fmt.Errorf("agent %d: %w", first.ID, err)
		}
		agent2, err := newAgent(second, gameSeed+2)
		if err != nil {
			return results, fmt.Errorf("agent %d: %w", second.ID, err)
		}

		local, err := engine.NewLocal([]engine.Agent{agent1, agent2}, gameSeed)
		if err != nil {
			return results, err
		}

		a.logger.Info().
			Int("game", i+1).
			Int("of", a.games).
			Int("seat0", first.ID).
			Int("seat1", second.ID).
			Msg("Starting game")

		start := time.Now()
		winner, moves, err := local.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("game %d: %w", i+1, err)
		}
		end := time.Now()

		record := metrics.GameRecord{
			ID:        uuid.NewString(),
			Agent1:    first.ID,
			Agent2:    second.ID,
			Winner:    winner,
			Moves:     len(moves),
			StartTime: start,
			EndTime:   end,
			Duration:  end.Sub(start),
		}
		results.GameRecords = append(results.GameRecords, record)
		for _, m := range moves {
			results.MoveRecords = append(results.MoveRecords, metrics.MoveRecord{
				Game:         record.ID,
				Step:         m.Step,
				Seat:         m.Seat,
				Move:         m.Move.String(),
				Duration:     m.Metric.Duration,
				Episodes:     m.Metric.Episodes,
				FullPlayouts: m.Metric.FullPlayouts,
			})
		}

		a.logger.Info().
			Int("game", i+1).
			Int("winner", winner).
			Int("moves", len(moves)).
			Msg("Completed game")
	}

	return results, nil
}

// Write persists a run with the given writer.
func (r Results) Write(w *metrics.Writer) error {
	if err := w.WriteAgentConfigs(r.Configs); err != nil {
		return err
	}
	if err := w.WriteGameRecords(r.GameRecords); err != nil {
		return err
	}
	return w.WriteMoveRecords(r.MoveRecords)
}

func newAgent(config metrics.AgentConfig, seed uint64) (engine.Agent, error) {
	switch config.Kind {
	case "random":
		return engine.NewRandomAgent(seed), nil
	case "", "ismcts":
		if config.Iterations <= 0 && config.Duration <= 0 {
			return nil, fmt.Errorf("config %d: need iterations or a duration", config.ID)
		}
		options := []searcher.Option{searcher.WithSeed(seed), searcher.WithMetrics()}
		if config.Iterations > 0 {
			options = append(options, searcher.WithIterations(config.Iterations))
		}
		if config.Duration > 0 {
			options = append(options, searcher.WithDuration(config.Duration))
		}
		if config.Goroutines > 0 {
			options = append(options, searcher.WithGoroutines(config.Goroutines))
		}
		if config.Cutoff > 0 {
			options = append(options, searcher.WithCutoff(config.Cutoff))
		}
		if config.Exploration > 0 {
			options = append(options, searcher.WithExploration(config.Exploration))
		}
		return engine.NewSearchAgent(searcher.NewISMCTS(options...)), nil
	default:
		return nil, fmt.Errorf("unknown agent kind %q", config.Kind)
	}
}
