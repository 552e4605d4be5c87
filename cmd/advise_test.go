package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"coup/game"
)

func TestParseHand(t *testing.T) {
	t.Run("parses comma-separated roles", func(t *testing.T) {
		hand, err := parseHand("duke, Captain")

		require.NoError(t, err)
		require.Equal(t, []game.Role{game.Duke, game.Captain}, hand)
	})

	t.Run("rejects unknown roles", func(t *testing.T) {
		_, err := parseHand("duke,wizard")

		require.Error(t, err)
	})
}

func TestAdviseCommand(t *testing.T) {
	runAdviseWith := func(t *testing.T, args ...string) (string, error) {
		t.Helper()
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetErr(&out)
		rootCmd.SetArgs(append([]string{"advise"}, args...))
		err := rootCmd.Execute()
		return out.String(), err
	}

	t.Run("recommends the forced coup", func(t *testing.T) {
		transcript := filepath.Join(t.TempDir(), "game.txt")
		// Seat 0 taxes up to ten coins while seat 1 stalls on income.
		lines := "0 tax\n1 allow\n1 income\n" +
			"0 tax\n1 allow\n1 income\n" +
			"0 tax\n1 allow\n1 income\n"
		require.NoError(t, os.WriteFile(transcript, []byte(lines), 0644))

		out, err := runAdviseWith(t,
			"--players", "2",
			"--seat", "0",
			"--hand", "duke,contessa",
			"--transcript", transcript,
			"--iterations", "50",
			"--seed", "7",
		)

		require.NoError(t, err)
		require.Contains(t, out, "coup 1", "Eleven coins force a coup")
	})

	t.Run("refuses to advise out of turn", func(t *testing.T) {
		transcript := filepath.Join(t.TempDir(), "game.txt")
		require.NoError(t, os.WriteFile(transcript, []byte("0 income\n"), 0644))

		_, err := runAdviseWith(t,
			"--players", "2",
			"--seat", "0",
			"--hand", "duke,contessa",
			"--transcript", transcript,
			"--iterations", "50",
		)

		require.ErrorContains(t, err, "seat 1 is to move")
	})
}
