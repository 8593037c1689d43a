package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matsen/semrank/internal/relevance"
	"github.com/matsen/semrank/internal/storage"
)

var (
	batchStore string
	batchLimit int
)

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().StringVarP(&batchStore, "store", "s", string(storeNone),
		"Store decision: relevant, discarded, suggested, or none")
	batchCmd.Flags().IntVarP(&batchLimit, "limit", "n", 0, "Show only the top N results (0 for all)")
}

var batchCmd = &cobra.Command{
	Use:   "batch <file.jsonl>",
	Short: "Score many papers from a JSONL file",
	Long: `Score papers listed one JSON object per line, each with "title" and
optional "abstract". Use "-" to read from stdin.

Results are ranked by descending score. By default nothing is stored;
--store suggested stores each paper under its suggested status.

Example:
  semrank batch arxiv-today.jsonl --limit 10
  cat papers.jsonl | semrank batch - --store suggested`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

// BatchResult is the response for the batch command.
type BatchResult struct {
	Scored  int              `json:"scored"`
	Stored  int              `json:"stored"`
	Results []BatchResultRow `json:"results"`
}

// BatchResultRow is one scored paper in a batch.
type BatchResultRow struct {
	relevance.Result
	ID int `json:"id,omitempty"`
}

func runBatch(cmd *cobra.Command, args []string) error {
	mode, err := parseStoreMode(batchStore)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	var in io.Reader = os.Stdin
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			exitWithError(ExitError, "opening input: %v", err)
		}
		defer f.Close()
		in = f
	}
	candidates, err := readCandidates(in)
	if err != nil {
		exitWithError(ExitDataError, "reading candidates: %v", err)
	}

	ctx := context.Background()
	repoRoot := mustFindRepository()
	scorer := mustLoadScorer(ctx, repoRoot)

	results, err := scorer.ScoreBatch(ctx, candidates)
	if err != nil {
		exitOnError(err, "scoring batch")
	}
	logger.Info("batch scored", zap.Int("count", len(results)))

	out := BatchResult{Scored: len(results), Results: make([]BatchResultRow, 0, len(results))}
	var store *storage.Store
	if mode != storeNone {
		store = mustOpenStore(repoRoot)
	}

	for _, r := range results {
		row := BatchResultRow{Result: r}
		if status, ok := mode.statusFor(r); ok {
			id, err := store.Insert(storage.NewDocument{
				Title:     r.Title,
				Abstract:  r.Abstract,
				Score:     r.Score,
				Category:  r.Category,
				Status:    status,
				Model:     r.Model,
				Embedding: r.Vector,
				Source:    "batch",
			})
			if err != nil {
				exitOnError(err, fmt.Sprintf("storing %q", r.Title))
			}
			row.ID = id
			out.Stored++
		}
		out.Results = append(out.Results, row)
	}
	if out.Stored > 0 {
		logger.Info("batch stored", zap.Int("stored", out.Stored), zap.String("mode", string(mode)))
	}

	if batchLimit > 0 && len(out.Results) > batchLimit {
		out.Results = out.Results[:batchLimit]
	}

	if humanOutput {
		if len(out.Results) == 0 {
			fmt.Println("No papers to score")
			return nil
		}
		for i, row := range out.Results {
			fmt.Printf("%3d. %s\n", i+1, truncateString(row.Title, ListTitleMaxLen))
			fmt.Printf("     %s", formatScoreHuman(row.Score, row.Category))
			if row.ID > 0 {
				fmt.Printf("  %s", dimColor.Sprintf("stored as %d", row.ID))
			}
			fmt.Println()
		}
		fmt.Printf("\nScored %d papers, stored %d\n", out.Scored, out.Stored)
	} else {
		outputJSON(out)
	}
	return nil
}
