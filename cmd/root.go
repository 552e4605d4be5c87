// Package cmd wires the CLI: an advise command for live-game move advice and
// an arena command for head-to-head agent evaluation.
package cmd

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	verbose bool

	rootCmd = &cobra.Command{
		Use:   "coup",
		Short: "Monte Carlo move advisor and self-play arena for the card game Coup",
		Long: `coup advises a seat in a live game of Coup using information set
Monte Carlo tree search, and benchmarks agent configurations against each
other over batches of self-play games.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}
)

// Execute runs the root command. Cobra handles parsing the arguments.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(adviseCmd)
	rootCmd.AddCommand(arenaCmd)
}
