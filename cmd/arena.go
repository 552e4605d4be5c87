package cmd

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"coup/experiments"
	"coup/experiments/metrics"
)

var (
	arenaGames int
	arenaSeed  uint64
	arenaOut   string
	arenaName  string

	arenaKind1       string
	arenaKind2       string
	arenaIterations1 int
	arenaIterations2 int
	arenaDuration1   time.Duration
	arenaDuration2   time.Duration
	arenaGoroutines1 int
	arenaGoroutines2 int
	arenaCutoff1     int
	arenaCutoff2     int

	arenaCmd = &cobra.Command{
		Use:   "arena",
		Short: "Benchmark two agent configurations over a batch of games",
		Long: `arena plays repeated two-seat games between agent 1 and agent 2,
alternating the starting seat, then prints win shares and game length
statistics. With --out, the full records are stored as CSV files.`,
		RunE: runArena,
	}
)

func init() {
	arenaCmd.Flags().IntVar(&arenaGames, "games", 20, "number of games to play")
	arenaCmd.Flags().Uint64Var(&arenaSeed, "seed", 1, "seed for deals and agents")
	arenaCmd.Flags().StringVar(&arenaOut, "out", "", "directory for CSV records, empty to skip")
	arenaCmd.Flags().StringVar(&arenaName, "name", "arena", "run name for the CSV directory")

	arenaCmd.Flags().StringVar(&arenaKind1, "kind1", "ismcts", "agent 1 kind: ismcts or random")
	arenaCmd.Flags().StringVar(&arenaKind2, "kind2", "random", "agent 2 kind: ismcts or random")
	arenaCmd.Flags().IntVar(&arenaIterations1, "iterations1", 1000, "agent 1 search episodes per move")
	arenaCmd.Flags().IntVar(&arenaIterations2, "iterations2", 1000, "agent 2 search episodes per move")
	arenaCmd.Flags().DurationVar(&arenaDuration1, "duration1", 0, "agent 1 time budget per move")
	arenaCmd.Flags().DurationVar(&arenaDuration2, "duration2", 0, "agent 2 time budget per move")
	arenaCmd.Flags().IntVar(&arenaGoroutines1, "goroutines1", 1, "agent 1 search workers")
	arenaCmd.Flags().IntVar(&arenaGoroutines2, "goroutines2", 1, "agent 2 search workers")
	arenaCmd.Flags().IntVar(&arenaCutoff1, "cutoff1", 0, "agent 1 playout cutoff")
	arenaCmd.Flags().IntVar(&arenaCutoff2, "cutoff2", 0, "agent 2 playout cutoff")
}

func runArena(cmd *cobra.Command, args []string) error {
	config1 := metrics.AgentConfig{
		ID:         1,
		Kind:       arenaKind1,
		Goroutines: arenaGoroutines1,
		Iterations: arenaIterations1,
		Duration:   arenaDuration1,
		Cutoff:     arenaCutoff1,
	}
	config2 := metrics.AgentConfig{
		ID:         2,
		Kind:       arenaKind2,
		Goroutines: arenaGoroutines2,
		Iterations: arenaIterations2,
		Duration:   arenaDuration2,
		Cutoff:     arenaCutoff2,
	}

	arena, err := experiments.NewArena(arenaGames, arenaSeed,
		experiments.WithLogger(log.Logger))
	if err != nil {
		return err
	}

	results, err := arena.Run(cmd.Context(), config1, config2)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), experiments.Summarize(results))

	if arenaOut != "" {
		writer, err := metrics.NewWriter(arenaOut, arenaName)
		if err != nil {
			return err
		}
		if err := results.Write(writer); err != nil {
			return err
		}
		log.Info().Str("dir", writer.Dir()).Msg("Stored run records")
	}
	return nil
}
