package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/semrank/internal/document"
	"github.com/matsen/semrank/internal/export"
)

var (
	listStatus string
	listLimit  int
	rankLimit  int
)

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(relevantCmd)
	rootCmd.AddCommand(discardedCmd)

	listCmd.Flags().StringVar(&listStatus, "status", "all", "Filter by status: relevant, discarded, or all")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", DefaultListLimit, "Maximum results (0 for all)")
	relevantCmd.Flags().IntVarP(&rankLimit, "limit", "n", DefaultListLimit, "Maximum results (0 for all)")
	discardedCmd.Flags().IntVarP(&rankLimit, "limit", "n", DefaultListLimit, "Maximum results (0 for all)")
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored papers by relevance",
	Long: `List stored papers ordered by descending relevance score.
Papers with equal scores are ordered by id.

Example:
  semrank list --status relevant --limit 20`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var relevantCmd = &cobra.Command{
	Use:   "relevant",
	Short: "List papers marked relevant",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listByStatus(document.StatusRelevant, rankLimit)
	},
}

var discardedCmd = &cobra.Command{
	Use:   "discarded",
	Short: "List papers marked discarded",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listByStatus(document.StatusDiscarded, rankLimit)
	},
}

// ListResult is the response for list commands.
type ListResult struct {
	Total     int                 `json:"total"`
	Documents []document.Document `json:"documents"`
}

func runList(cmd *cobra.Command, args []string) error {
	status, err := parseStatusFlag(listStatus)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	return printRanked(status, listLimit)
}

func listByStatus(status document.Status, limit int) error {
	return printRanked(&status, limit)
}

func printRanked(status *document.Status, limit int) error {
	repoRoot := mustFindRepository()
	store := mustOpenStore(repoRoot)

	docs := store.ListByRelevance(status)
	total := len(docs)
	docs = limitDocuments(docs, limit)

	if humanOutput {
		printDocumentsHuman(docs)
		if len(docs) < total {
			fmt.Println(dimColor.Sprintf("\nShowing %d of %d", len(docs), total))
		}
	} else {
		outputJSON(ListResult{Total: total, Documents: export.StripEmbeddings(docs)})
	}
	return nil
}
