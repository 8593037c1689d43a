package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/semrank/internal/document"
)

// histogramWidth is the bar width of the largest category in human output.
const histogramWidth = 30

func init() {
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show collection statistics",
	Long: `Show counts by status, mean and median scores, and a histogram of
relevance categories.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	store := mustOpenStore(repoRoot)
	stats := store.Statistics()

	if !humanOutput {
		outputJSON(stats)
		return nil
	}

	fmt.Printf("Papers:     %d\n", stats.Total)
	fmt.Printf("  relevant:  %d\n", stats.Relevant)
	fmt.Printf("  discarded: %d\n", stats.Discarded)
	if stats.Total == 0 {
		return nil
	}

	fmt.Printf("\nScores:     mean %s, median %s\n",
		formatPercent(stats.Overall.Mean), formatPercent(stats.Overall.Median))
	for _, status := range []document.Status{document.StatusRelevant, document.StatusDiscarded} {
		s := stats.ByStatus[status]
		if s.Count == 0 {
			continue
		}
		fmt.Printf("  %-10s mean %s, median %s\n", string(status)+":",
			formatPercent(s.Mean), formatPercent(s.Median))
	}

	largest := 0
	for _, c := range stats.Categories {
		if c.Count > largest {
			largest = c.Count
		}
	}
	fmt.Println("\nCategories:")
	for i := len(stats.Categories) - 1; i >= 0; i-- {
		c := stats.Categories[i]
		bar := 0
		if largest > 0 {
			bar = c.Count * histogramWidth / largest
		}
		fmt.Printf("  %-20s %4d  %s\n", c.Category, c.Count,
			categoryColor(c.Category).Sprint(strings.Repeat("█", bar)))
	}
	return nil
}
