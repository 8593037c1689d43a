package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matsen/semrank/internal/document"
	"github.com/matsen/semrank/internal/export"
)

var (
	searchLimit int
	ftsLimit    int
)

func init() {
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(ftsCmd)
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", DefaultListLimit, "Maximum results (0 for all)")
	ftsCmd.Flags().IntVarP(&ftsLimit, "limit", "n", DefaultListLimit, "Maximum results")
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Find papers whose title or abstract contains a phrase",
	Long: `Case-insensitive substring search over titles and abstracts.
Matches are ordered by relevance score.

Example:
  semrank search "log-structured"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

var ftsCmd = &cobra.Command{
	Use:   "fts <query>",
	Short: "Full-text search using the SQLite index",
	Long: `Full-text search over titles and abstracts using SQLite FTS5.
Supports FTS5 query syntax (AND, OR, NOT, prefix*). The index is rebuilt
automatically when it is out of date with papers.json.

Example:
  semrank fts "merge AND compaction"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFTS,
}

// SearchResult is the response for search commands.
type SearchResult struct {
	Query     string              `json:"query"`
	Total     int                 `json:"total"`
	Documents []document.Document `json:"documents"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	repoRoot := mustFindRepository()
	store := mustOpenStore(repoRoot)

	docs, err := store.Search(query)
	if err != nil {
		exitOnError(err, "searching")
	}
	printSearchResult(query, docs, searchLimit)
	return nil
}

func runFTS(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	repoRoot := mustFindRepository()
	store := mustOpenStore(repoRoot)
	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	fingerprint, err := store.Fingerprint()
	if err != nil {
		exitWithError(ExitError, "fingerprinting store: %v", err)
	}
	stale, err := db.IsStale(fingerprint)
	if err != nil {
		exitWithError(ExitError, "checking index: %v", err)
	}
	if stale {
		n, err := db.RebuildFromStore(store)
		if err != nil {
			exitWithError(ExitError, "rebuilding index: %v", err)
		}
		logger.Info("index rebuilt", zap.Int("documents", n))
	}

	docs, err := db.SearchFTS(query, ftsLimit)
	if err != nil {
		exitOnError(err, "searching")
	}
	printSearchResult(query, docs, 0)
	return nil
}

func printSearchResult(query string, docs []document.Document, limit int) {
	total := len(docs)
	docs = limitDocuments(docs, limit)

	if humanOutput {
		if total == 0 {
			fmt.Printf("No papers match %q\n", query)
			return
		}
		printDocumentsHuman(docs)
		if len(docs) < total {
			fmt.Println(dimColor.Sprintf("\nShowing %d of %d", len(docs), total))
		}
		return
	}
	outputJSON(SearchResult{Query: query, Total: total, Documents: export.StripEmbeddings(docs)})
}
