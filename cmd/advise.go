package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"coup/advisor"
	"coup/game"
	"coup/searcher"
)

var (
	advisePlayers     int
	adviseSeat        int
	adviseHand        string
	adviseTranscript  string
	adviseIterations  int
	adviseDuration    time.Duration
	adviseGoroutines  int
	adviseCutoff      int
	adviseExploration float64
	adviseSeed        uint64

	adviseCmd = &cobra.Command{
		Use:   "advise",
		Short: "Recommend a move for one seat of a live game",
		Long: `advise replays an observed game transcript from your seat's point of view
and searches for the best move. The transcript holds one event per line:

  0 tax                 seat 0 claims duke and takes tax
  1 challenge bluffed   seat 1 challenges; the claim was false
  0 reveal contessa     seat 0 surrenders a contessa
  hand duke captain     your own cards, e.g. after a redraw
  drawn duke assassin   your exchange draw

Pass "-" to read the transcript from stdin.`,
		RunE: runAdvise,
	}
)

func init() {
	adviseCmd.Flags().IntVar(&advisePlayers, "players", 2, "number of seats at the table (2-6)")
	adviseCmd.Flags().IntVar(&adviseSeat, "seat", 0, "the seat to advise")
	adviseCmd.Flags().StringVar(&adviseHand, "hand", "", "your two dealt cards, e.g. duke,captain")
	adviseCmd.Flags().StringVar(&adviseTranscript, "transcript", "", "path to the event transcript, - for stdin")
	adviseCmd.Flags().IntVar(&adviseIterations, "iterations", 5000, "search episodes per advice")
	adviseCmd.Flags().DurationVar(&adviseDuration, "duration", 0, "search time budget, overrides iterations when set")
	adviseCmd.Flags().IntVar(&adviseGoroutines, "goroutines", 1, "parallel search workers")
	adviseCmd.Flags().IntVar(&adviseCutoff, "cutoff", 0, "playout depth cutoff, 0 for the default")
	adviseCmd.Flags().Float64Var(&adviseExploration, "exploration", 0, "UCB1 exploration constant, 0 for the default")
	adviseCmd.Flags().Uint64Var(&adviseSeed, "seed", 0, "search seed, 0 for time-based")
	adviseCmd.MarkFlagRequired("hand")
}

func runAdvise(cmd *cobra.Command, args []string) error {
	hand, err := parseHand(adviseHand)
	if err != nil {
		return err
	}

	session, err := advisor.NewSession(advisePlayers, adviseSeat, hand,
		advisor.WithLogger(log.Logger))
	if err != nil {
		return err
	}

	if adviseTranscript != "" {
		events, err := readTranscript(adviseTranscript)
		if err != nil {
			return err
		}
		if err := session.Replay(events); err != nil {
			return err
		}
	}

	if winner := session.Winner(); winner != game.NoTarget {
		return fmt.Errorf("the game is already over, seat %d won", winner)
	}
	if session.Player() != adviseSeat {
		return fmt.Errorf("seat %d is to move, not seat %d", session.Player(), adviseSeat)
	}

	options := []searcher.Option{
		searcher.WithGoroutines(adviseGoroutines),
		searcher.WithMetrics(),
	}
	if adviseDuration > 0 {
		options = append(options, searcher.WithDuration(adviseDuration))
	} else {
		options = append(options, searcher.WithIterations(adviseIterations))
	}
	if adviseCutoff > 0 {
		options = append(options, searcher.WithCutoff(adviseCutoff))
	}
	if adviseExploration > 0 {
		options = append(options, searcher.WithExploration(adviseExploration))
	}
	if adviseSeed > 0 {
		options = append(options, searcher.WithSeed(adviseSeed))
	}

	rec, err := searcher.NewISMCTS(options...).Search(cmd.Context(), session.Perspective())
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), rec)
	return nil
}

func parseHand(s string) ([]game.Role, error) {
	parts := strings.Split(s, ",")
	hand := make([]game.Role, 0, len(parts))
	for _, p := range parts {
		r, err := game.ParseRole(strings.TrimSpace(strings.ToLower(p)))
		if err != nil {
			return nil, err
		}
		hand = append(hand, r)
	}
	return hand, nil
}

func readTranscript(path string) ([]advisor.Event, error) {
	if path == "-" {
		return advisor.ParseTranscript(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return advisor.ParseTranscript(f)
}
