package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjy-dev/hybrid-fuzz/internal/config"
	"github.com/zjy-dev/hybrid-fuzz/internal/corpus"
	"github.com/zjy-dev/hybrid-fuzz/internal/queue"
	"github.com/zjy-dev/hybrid-fuzz/internal/state"
)

// NewStatsCommand creates the "stats" subcommand.
func NewStatsCommand() *cobra.Command {
	var (
		queueDir   string
		configName string
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Inspect a queue directory.",
		Long: `Inspect a queue directory: normal-tier sizes for both loops and the
session counters of the random loop.

Examples:
  # Show stats for the default queue directory
  hybridfuzz stats --queue-dir fuzz_out/queue`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configName)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			for _, name := range []string{corpus.ConcolicSeedName, corpus.RandSeedName} {
				fq, err := queue.OpenFileQueue(name, queueDir, cfg.Queue.FileQueueMaxSize)
				if err != nil {
					return fmt.Errorf("failed to open %s queue: %w", name, err)
				}
				fmt.Printf("%s: %d spilled entries\n", name, fq.Len())
			}

			session := state.NewFileManager(queueDir)
			if err := session.Load(); err != nil {
				return err
			}
			st := session.GetState()
			fmt.Printf("enqueued: %d, dequeued: %d, culled: %d (favored pool was %d at last culling)\n",
				st.Stats.Enqueued, st.Stats.Dequeued, st.Stats.Removed, st.LastMinimizedCount)

			return nil
		},
	}

	cmd.Flags().StringVar(&queueDir, "queue-dir", "fuzz_out/queue", "Queue directory to inspect")
	cmd.Flags().StringVar(&configName, "config", "hybridfuzz", "Config file base name under configs/")

	return cmd
}
