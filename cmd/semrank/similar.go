package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matsen/semrank/internal/document"
	"github.com/matsen/semrank/internal/semantic"
)

var similarLimit int

func init() {
	rootCmd.AddCommand(similarCmd)
	similarCmd.Flags().IntVarP(&similarLimit, "limit", "n", 10, "Maximum results")
}

var similarCmd = &cobra.Command{
	Use:   "similar <id>",
	Short: "Find relevant papers similar to a stored paper",
	Long: `Rank stored papers by the cosine similarity of their embeddings to
the given paper's embedding. Only relevant papers keep embeddings, and only
embeddings from the same model are compared.

Example:
  semrank similar 12 --limit 5`,
	Args: cobra.ExactArgs(1),
	RunE: runSimilar,
}

// SimilarRow is one neighbour in the similar command's output.
type SimilarRow struct {
	ID         int               `json:"id"`
	Title      string            `json:"title"`
	Similarity float64           `json:"similarity"`
	Score      float64           `json:"relevance_score"`
	Category   document.Category `json:"category"`
}

// SimilarResponse is the response for the similar command.
type SimilarResponse struct {
	ID      int          `json:"id"`
	Title   string       `json:"title"`
	Model   string       `json:"model"`
	Skipped int          `json:"skipped"`
	Results []SimilarRow `json:"results"`
}

func runSimilar(cmd *cobra.Command, args []string) error {
	id := mustParseID(args[0])
	repoRoot := mustFindRepository()
	store := mustOpenStore(repoRoot)

	source := lookupDocument(store, id)
	docs := store.All()

	res, err := semantic.FindSimilar(source, docs, similarLimit)
	if err != nil {
		exitWithError(ExitDataError, "finding similar papers: %v", err)
	}
	logger.Debug("similarity ranked", zap.Int("id", id), zap.Int("results", len(res.Results)), zap.Int("skipped", res.Skipped))

	byID := make(map[int]document.Document, len(docs))
	for _, d := range docs {
		byID[d.ID] = d
	}

	out := SimilarResponse{
		ID:      source.ID,
		Title:   source.Title,
		Model:   res.Model,
		Skipped: res.Skipped,
		Results: make([]SimilarRow, 0, len(res.Results)),
	}
	for _, r := range res.Results {
		d := byID[r.DocumentID]
		out.Results = append(out.Results, SimilarRow{
			ID:         d.ID,
			Title:      d.Title,
			Similarity: r.Similarity,
			Score:      d.Score,
			Category:   d.Category,
		})
	}

	if !humanOutput {
		outputJSON(out)
		return nil
	}

	fmt.Printf("Similar to [%d] %s\n\n", out.ID, truncateString(out.Title, DetailTitleMaxLen))
	if len(out.Results) == 0 {
		fmt.Println("No comparable papers found")
	}
	for i, r := range out.Results {
		fmt.Printf("%3d. [%d] %s\n", i+1, r.ID, truncateString(r.Title, ListTitleMaxLen))
		fmt.Printf("     similarity %.3f  %s\n", r.Similarity, formatScoreHuman(r.Score, r.Category))
	}
	if out.Skipped > 0 {
		fmt.Println(dimColor.Sprintf("\n%d papers skipped (no embedding from %s)", out.Skipped, out.Model))
	}
	return nil
}
