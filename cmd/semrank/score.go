package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matsen/semrank/internal/relevance"
	"github.com/matsen/semrank/internal/storage"
)

var (
	scoreInput documentInput
	addInput   documentInput
	addStore   string
)

func init() {
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(addCmd)

	for _, c := range []struct {
		cmd *cobra.Command
		in  *documentInput
	}{{scoreCmd, &scoreInput}, {addCmd, &addInput}} {
		c.cmd.Flags().StringVarP(&c.in.title, "title", "t", "", "Paper title")
		c.cmd.Flags().StringVarP(&c.in.abstract, "abstract", "a", "", "Paper abstract")
		c.cmd.Flags().StringVar(&c.in.abstractFile, "abstract-file", "", "Read the abstract from a file")
		c.cmd.Flags().BoolVar(&c.in.fromClip, "abstract-clipboard", false, "Read the abstract from the clipboard")
		c.cmd.Flags().StringVar(&c.in.pdfPath, "pdf", "", "Extract title and abstract from a local PDF")
	}
	addCmd.Flags().StringVarP(&addStore, "store", "s", string(storeSuggested),
		"Store decision: relevant, discarded, suggested, or none")
}

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a paper without storing it",
	Long: `Score a paper's title and abstract against the research context.

Nothing is stored. Use 'semrank add' to score and store in one step.

Example:
  semrank score --title "Write-Optimized B-Trees" --abstract "We present..."`,
	Args: cobra.NoArgs,
	RunE: runScore,
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Score a paper and store it",
	Long: `Score a paper and store it in the collection.

--store chooses the status: 'suggested' stores as relevant when the score is
at least 30% and as discarded otherwise; 'relevant' and 'discarded' force a
status regardless of score; 'none' only scores.

Examples:
  semrank add --title "Learned Index Structures" --abstract-file abstract.txt
  semrank add --pdf ~/Downloads/paper.pdf --store relevant`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

// AddResult is the response for the add command.
type AddResult struct {
	relevance.Result
	Stored bool   `json:"stored"`
	ID     int    `json:"id,omitempty"`
	Status string `json:"status,omitempty"`
	Source string `json:"source"`
}

func runScore(cmd *cobra.Command, args []string) error {
	candidate, _, err := scoreInput.resolve()
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	ctx := context.Background()
	repoRoot := mustFindRepository()
	scorer := mustLoadScorer(ctx, repoRoot)

	result, err := scorer.Score(ctx, candidate.Title, candidate.Abstract)
	if err != nil {
		exitOnError(err, "scoring")
	}
	logger.Info("scored", zap.String("title", candidate.Title), zap.Float64("score", result.Score))

	if humanOutput {
		printResultHuman(result)
	} else {
		outputJSON(result)
	}
	return nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	mode, err := parseStoreMode(addStore)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	candidate, source, err := addInput.resolve()
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	ctx := context.Background()
	repoRoot := mustFindRepository()
	scorer := mustLoadScorer(ctx, repoRoot)
	store := mustOpenStore(repoRoot)

	result, err := scorer.Score(ctx, candidate.Title, candidate.Abstract)
	if err != nil {
		exitOnError(err, "scoring")
	}

	out := AddResult{Result: result, Source: source}
	if status, ok := mode.statusFor(result); ok {
		id, err := store.Insert(storage.NewDocument{
			Title:     candidate.Title,
			Abstract:  candidate.Abstract,
			Score:     result.Score,
			Category:  result.Category,
			Status:    status,
			Model:     result.Model,
			Embedding: result.Vector,
			Source:    source,
		})
		if err != nil {
			exitOnError(err, "storing document")
		}
		out.Stored, out.ID, out.Status = true, id, string(status)
		logger.Info("document stored",
			zap.Int("id", id),
			zap.String("status", string(status)),
			zap.Float64("score", result.Score),
			zap.String("source", source))
	}

	if humanOutput {
		printResultHuman(result)
		if out.Stored {
			fmt.Printf("\nStored as %s with id %d\n", out.Status, out.ID)
		} else {
			fmt.Println("\nNot stored")
		}
	} else {
		outputJSON(out)
	}
	return nil
}

// printResultHuman prints a scoring result with its recommendation.
func printResultHuman(r relevance.Result) {
	fmt.Println(wrapText(r.Title, DetailTextWrapWidth, "  "))
	fmt.Printf("  Relevance:  %s\n", formatScoreHuman(r.Score, r.Category))
	fmt.Printf("  Similarity: %.4f (%s)\n", r.Similarity, r.Model)
	fmt.Printf("  Abstract:   %d characters\n", r.AbstractLength)
	fmt.Printf("  Suggested:  %s\n", r.Suggestion.Status)
	fmt.Printf("  %s\n", r.Suggestion.Advice)
}
