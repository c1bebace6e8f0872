package app

import (
	"github.com/spf13/cobra"

	"github.com/zjy-dev/hybrid-fuzz/internal/logger"
)

// NewHybridFuzzCommand creates the root command for the hybridfuzz tool.
func NewHybridFuzzCommand() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "hybridfuzz",
		Short: "Seed queue tooling for the hybrid fuzzer.",
		Long:  `HybridFuzz manages the seed queues shared by the concolic and random fuzzing loops.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(logLevel)
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(NewStatsCommand())

	return cmd
}
