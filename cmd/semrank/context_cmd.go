package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matsen/semrank/internal/config"
	"github.com/matsen/semrank/internal/embedding"
	"github.com/matsen/semrank/internal/relevance"
)

func init() {
	rootCmd.AddCommand(contextCmd)
	contextCmd.AddCommand(contextShowCmd)
	contextCmd.AddCommand(contextSwitchCmd)
}

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Show or change the research context",
	Long: `The research context is a text file describing your interests. Papers
are scored by the similarity of their embedding to the context's embedding.`,
}

var contextShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the configured research context",
	Args:  cobra.NoArgs,
	RunE:  runContextShow,
}

var contextSwitchCmd = &cobra.Command{
	Use:   "switch <file>",
	Short: "Use a different research context file",
	Long: `Read and embed a new research context file, then make it the
repository's context. If reading or embedding fails, the previous context
stays configured.

Example:
  semrank context switch ~/notes/research-2026.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runContextSwitch,
}

// ContextInfo is the response for the context commands.
type ContextInfo struct {
	ContextFile string `json:"context_file"`
	Exists      bool   `json:"exists"`
	Characters  int    `json:"characters"`
	Model       string `json:"model"`
	Cached      bool   `json:"cached"` // Embedding for this text and model is cached
	Preview     string `json:"preview,omitempty"`
}

// contextPreviewLen is the number of runes of context text shown.
const contextPreviewLen = 200

func runContextShow(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)
	settings := mustLoadSettings(repoRoot, cfg)

	if settings.ContextFile == "" {
		exitOnError(fmt.Errorf("%w: no context_file configured (run 'semrank context switch <file>')",
			relevance.ErrContextNotLoaded), "showing context")
	}

	info := ContextInfo{ContextFile: settings.ContextFile, Model: settings.Model}
	text, err := relevance.ReadContextFile(settings.ContextFile)
	if err == nil {
		info.Exists = true
		info.Characters = len([]rune(text))
		info.Preview = truncateString(strings.Join(strings.Fields(text), " "), contextPreviewLen)
		cache := relevance.NewContextCache(config.CachePath(repoRoot))
		if _, cerr := cache.Load(text, settings.Model); cerr == nil {
			info.Cached = true
		}
	} else if !errors.Is(err, relevance.ErrContextNotLoaded) {
		exitOnError(err, "reading context")
	}

	if humanOutput {
		printContextHuman(info)
	} else {
		outputJSON(info)
	}
	return nil
}

func runContextSwitch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)
	settings := mustLoadSettings(repoRoot, cfg)

	path, err := filepath.Abs(config.ExpandPath(args[0]))
	if err != nil {
		exitWithError(ExitError, "resolving path: %v", err)
	}
	if err := config.ValidateContextFile(path); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	enc, err := embedding.Open(ctx, newRegistry(settings), settings.Model)
	if err != nil {
		exitOnError(err, "loading model")
	}
	scorer := relevance.NewScorer(enc)
	if err := scorer.LoadContext(ctx, path); err != nil {
		exitOnError(err, "loading context")
	}
	rc := scorer.Context()

	cfg.ContextFile = relativeToRoot(repoRoot, path)
	if err := cfg.Save(repoRoot); err != nil {
		exitWithError(ExitError, "%v", err)
	}
	saveContextCache(repoRoot, rc)
	logger.Info("context switched",
		zap.String("context_file", path),
		zap.String("model", rc.Model),
		zap.Int("characters", len([]rune(rc.Text))))

	info := ContextInfo{
		ContextFile: path,
		Exists:      true,
		Characters:  len([]rune(rc.Text)),
		Model:       rc.Model,
		Cached:      true,
	}
	if humanOutput {
		fmt.Println("Context switched")
		printContextHuman(info)
	} else {
		outputJSON(info)
	}
	return nil
}

// relativeToRoot stores paths inside the repository relative to its root so
// the repository can be moved.
func relativeToRoot(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}

func printContextHuman(info ContextInfo) {
	fmt.Printf("  File:       %s\n", info.ContextFile)
	if !info.Exists {
		fmt.Printf("  %s\n", lowColor.Sprint("file not found"))
		return
	}
	fmt.Printf("  Characters: %d\n", info.Characters)
	fmt.Printf("  Model:      %s\n", info.Model)
	cached := "no"
	if info.Cached {
		cached = "yes"
	}
	fmt.Printf("  Cached:     %s\n", cached)
	if info.Preview != "" {
		fmt.Printf("\n  %s\n", wrapText(info.Preview, DetailTextWrapWidth, "  "))
	}
}
