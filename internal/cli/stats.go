package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"knowledge/internal/domain"
	"knowledge/internal/memory"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show corpus statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		corpus, snapshots, err := restoreCorpus(cmd.Context(), cfg, GetRootDir())
		if err != nil {
			return err
		}
		defer snapshots.Close()

		fmt.Printf("Index: %s\n", configIndexPath())
		printCorpusStats(corpus.Stats())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func printCorpusStats(stats domain.CorpusStats) {
	fmt.Printf("  Passages:   %d\n", stats.Passages)
	fmt.Printf("  Terms:      %d\n", stats.Terms)
	fmt.Printf("  Dimension:  %d\n", stats.Dimension)
	fmt.Printf("  Avg length: %.1f tokens\n", stats.AvgLength)
}

func printStats(stats domain.CorpusStats, mem memory.Stats) {
	printCorpusStats(stats)
	fmt.Printf("  Memory:     %d/%d turns (window %d)\n", mem.Turns, mem.Capacity, mem.Window)
}
