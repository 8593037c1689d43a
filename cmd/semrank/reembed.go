package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matsen/semrank/internal/embedding"
	"github.com/matsen/semrank/internal/relevance"
)

var reembedAll bool

func init() {
	rootCmd.AddCommand(reembedCmd)
	reembedCmd.Flags().BoolVar(&reembedAll, "all", false, "Re-embed every relevant paper, not only those from other models")
}

var reembedCmd = &cobra.Command{
	Use:   "reembed",
	Short: "Recompute stored embeddings with the active model",
	Long: `Recompute the embeddings of relevant papers with the active model so
that 'semrank similar' can compare them. Relevance scores are not changed.

Run this after 'semrank model switch'.`,
	Args: cobra.NoArgs,
	RunE: runReembed,
}

func runReembed(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)
	settings := mustLoadSettings(repoRoot, cfg)
	store := mustOpenStore(repoRoot)

	enc, err := embedding.Open(ctx, newRegistry(settings), settings.Model)
	if err != nil {
		exitOnError(err, "loading model")
	}

	var progress relevance.ProgressFunc
	shown := false
	if humanOutput {
		progress = func(current, total int) {
			fmt.Fprintf(os.Stderr, "\rEmbedding %d/%d", current, total)
			shown = true
		}
	}

	res, err := relevance.Reembed(ctx, enc, store.All(), reembedAll, progress)
	if shown {
		fmt.Fprintln(os.Stderr)
	}
	if err != nil {
		exitOnError(err, "re-embedding")
	}
	if err := store.UpdateEmbeddings(res.Model, res.Vectors); err != nil {
		exitOnError(err, "saving embeddings")
	}
	logger.Info("documents re-embedded",
		zap.String("model", res.Model),
		zap.Int("reembedded", res.Reembedded),
		zap.Int("already_current", res.Current),
		zap.Duration("duration", res.Duration))

	if humanOutput {
		fmt.Printf("Re-embedded %d papers with %s (%d already current)\n", res.Reembedded, res.Model, res.Current)
	} else {
		outputJSON(res)
	}
	return nil
}
