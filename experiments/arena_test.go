package experiments

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"coup/experiments/metrics"
)

var (
	randomConfig1 = metrics.AgentConfig{ID: 1, Kind: "random"}
	randomConfig2 = metrics.AgentConfig{ID: 2, Kind: "random"}
)

func TestArenaRun(t *testing.T) {
	t.Run("plays the requested games and records them", func(t *testing.T) {
		arena, err := NewArena(4, 100)
		require.NoError(t, err)

		results, err := arena.Run(context.Background(), randomConfig1, randomConfig2)

		require.NoError(t, err)
		require.Len(t, results.GameRecords, 4)
		require.NotEmpty(t, results.MoveRecords)

		seen := map[string]bool{}
		for _, record := range results.GameRecords {
			require.NotEmpty(t, record.ID)
			require.False(t, seen[record.ID], "Game IDs must be unique")
			seen[record.ID] = true
			require.Greater(t, record.Moves, 0)
		}
	})

	t.Run("alternates the starting seat", func(t *testing.T) {
		arena, err := NewArena(4, 101)
		require.NoError(t, err)

		results, err := arena.Run(context.Background(), randomConfig1, randomConfig2)

		require.NoError(t, err)
		require.Equal(t, 1, results.GameRecords[0].Agent1)
		require.Equal(t, 2, results.GameRecords[1].Agent1)
		require.Equal(t, 1, results.GameRecords[2].Agent1)
	})

	t.Run("move records reference their game", func(t *testing.T) {
		arena, err := NewArena(1, 102)
		require.NoError(t, err)

		results, err := arena.Run(context.Background(), randomConfig1, randomConfig2)

		require.NoError(t, err)
		gameID := results.GameRecords[0].ID
		require.Equal(t, results.GameRecords[0].Moves, len(results.MoveRecords))
		for i, m := range results.MoveRecords {
			require.Equal(t, gameID, m.Game)
			require.Equal(t, i+1, m.Step)
			require.NotEmpty(t, m.Move)
		}
	})

	t.Run("search configs need a budget", func(t *testing.T) {
		arena, err := NewArena(1, 103)
		require.NoError(t, err)

		_, err = arena.Run(context.Background(),
			metrics.AgentConfig{ID: 1, Kind: "ismcts"}, randomConfig2)

		require.ErrorContains(t, err, "iterations or a duration")
	})

	t.Run("rejects unknown agent kinds", func(t *testing.T) {
		arena, err := NewArena(1, 104)
		require.NoError(t, err)

		_, err = arena.Run(context.Background(),
			metrics.AgentConfig{ID: 1, Kind: "oracle"}, randomConfig2)

		require.ErrorContains(t, err, "unknown agent kind")
	})
}

func TestSummarize(t *testing.T) {
	t.Run("tallies wins by config across alternating seats", func(t *testing.T) {
		results := Results{
			GameRecords: []metrics.GameRecord{
				{Agent1: 1, Agent2: 2, Winner: 0, Moves: 10},
				{Agent1: 2, Agent2: 1, Winner: 0, Moves: 20},
				{Agent1: 1, Agent2: 2, Winner: 1, Moves: 30},
				{Agent1: 2, Agent2: 1, Winner: -1, Moves: 40},
			},
		}

		summary := Summarize(results)

		require.Equal(t, 4, summary.Games)
		require.Equal(t, 1, summary.Wins[1], "Config 1 won only the first game")
		require.Equal(t, 2, summary.Wins[2], "Config 2 won from both seats")
		require.Equal(t, 1, summary.Draws)
		require.InDelta(t, 25.0, summary.MeanMoves, 0.0001)
		require.InDelta(t, 0.25, summary.WinShare(1), 0.0001)
		require.InDelta(t, 0.5, summary.WinShare(2), 0.0001)
	})

	t.Run("empty run yields zeroes", func(t *testing.T) {
		summary := Summarize(Results{})

		require.Equal(t, 0, summary.Games)
		require.Zero(t, summary.WinShare(1))
	})
}

func TestResultsWrite(t *testing.T) {
	arena, err := NewArena(2, 105)
	require.NoError(t, err)
	results, err := arena.Run(context.Background(), randomConfig1, randomConfig2)
	require.NoError(t, err)

	writer, err := metrics.NewWriter(t.TempDir(), "smoke")
	require.NoError(t, err)
	require.NoError(t, results.Write(writer))

	readCSV := func(name string) [][]string {
		f, err := os.Open(filepath.Join(writer.Dir(), name))
		require.NoError(t, err)
		defer f.Close()
		rows, err := csv.NewReader(f).ReadAll()
		require.NoError(t, err)
		return rows
	}

	configs := readCSV("agent_configs.csv")
	require.Len(t, configs, 3, "Header plus both configs")
	require.Equal(t, []string{"id", "kind", "goroutines", "iterations", "duration", "cutoff", "exploration"}, configs[0])

	games := readCSV("game_records.csv")
	require.Len(t, games, 3, "Header plus both games")

	moves := readCSV("move_records.csv")
	require.Len(t, moves, 1+len(results.MoveRecords))
}
