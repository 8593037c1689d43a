package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matsen/semrank/internal/config"
)

func init() {
	rootCmd.AddCommand(rebuildCmd)
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the SQLite query index from papers.json",
	Long: `Rebuild the SQLite database used by 'semrank fts' from papers.json.
The database is derived data and can be deleted at any time.`,
	Args: cobra.NoArgs,
	RunE: runRebuild,
}

// RebuildResult is the response for the rebuild command.
type RebuildResult struct {
	Status    string `json:"status"`
	Documents int    `json:"documents"`
	Path      string `json:"path"`
}

func runRebuild(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	store := mustOpenStore(repoRoot)
	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	n, err := db.RebuildFromStore(store)
	if err != nil {
		exitWithError(ExitError, "rebuilding database: %v", err)
	}
	logger.Info("index rebuilt", zap.Int("documents", n))

	if humanOutput {
		fmt.Printf("Rebuilt index with %d papers\n", n)
	} else {
		outputJSON(RebuildResult{Status: "rebuilt", Documents: n, Path: config.DBPath(repoRoot)})
	}
	return nil
}
