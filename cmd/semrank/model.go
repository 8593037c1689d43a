package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matsen/semrank/internal/config"
	"github.com/matsen/semrank/internal/embedding"
)

func init() {
	rootCmd.AddCommand(modelCmd)
	modelCmd.AddCommand(modelShowCmd)
	modelCmd.AddCommand(modelListCmd)
	modelCmd.AddCommand(modelSwitchCmd)
}

var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "Show or change the embedding model",
}

var modelShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the active embedding model",
	Args:  cobra.NoArgs,
	RunE:  runModelShow,
}

var modelListCmd = &cobra.Command{
	Use:   "list",
	Short: "List models that can be used by name",
	Long: `List models that can be selected without a prefix. Any other model
served by Ollama can be selected as ollama:<name>, and the local hashing
model with a custom dimension as hash:<dimensions>.`,
	Args: cobra.NoArgs,
	RunE: runModelList,
}

var modelSwitchCmd = &cobra.Command{
	Use:   "switch <id>",
	Short: "Switch to another embedding model",
	Long: `Load another embedding model and re-embed the research context with it.
The model is saved to the repository config only when both steps succeed.

Stored embeddings are not recomputed. Papers embedded by an earlier model are
skipped by 'semrank similar' when compared against the new model.

Example:
  semrank model switch nomic-embed-text
  semrank model switch hash`,
	Args: cobra.ExactArgs(1),
	RunE: runModelSwitch,
}

// ModelInfo is the response for model show and switch.
type ModelInfo struct {
	Model      string `json:"model"`
	Previous   string `json:"previous,omitempty"`
	Dimensions int    `json:"dimensions,omitempty"`
	Source     string `json:"source"` // env, repository, global, default
}

func runModelShow(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)
	settings := mustLoadSettings(repoRoot, cfg)

	info := ModelInfo{Model: settings.Model, Source: modelSource(cfg)}
	for _, m := range newRegistry(settings).Models() {
		if m.Name == settings.Model {
			info.Dimensions = m.Dimensions
		}
	}

	if humanOutput {
		fmt.Printf("Model: %s (%s)\n", info.Model, info.Source)
		if info.Dimensions > 0 {
			fmt.Printf("Dimensions: %d\n", info.Dimensions)
		}
	} else {
		outputJSON(info)
	}
	return nil
}

func runModelList(cmd *cobra.Command, args []string) error {
	models := embedding.NewRegistry().Models()
	if humanOutput {
		for _, m := range models {
			fmt.Printf("  %-20s %-7s %5d dims\n", m.Name, m.Backend, m.Dimensions)
		}
	} else {
		outputJSON(models)
	}
	return nil
}

func runModelSwitch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	id := args[0]
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)
	settings := mustLoadSettings(repoRoot, cfg)
	previous := settings.Model

	enc, _, err := switchModel(ctx, repoRoot, settings, id)
	if err != nil {
		exitOnError(err, "switching model")
	}
	dims := enc.Dimensions()

	cfg.Model = id
	if err := cfg.Save(repoRoot); err != nil {
		exitWithError(ExitError, "%v", err)
	}
	logger.Info("model switched", zap.String("from", previous), zap.String("to", id), zap.Int("dimensions", dims))

	info := ModelInfo{Model: id, Previous: previous, Dimensions: dims, Source: "repository"}
	if humanOutput {
		fmt.Printf("Switched model: %s -> %s (%d dims)\n", previous, id, dims)
	} else {
		outputJSON(info)
	}
	if env := os.Getenv(config.EnvModel); env != "" && env != id {
		logger.Warn("environment overrides the repository model",
			zap.String("variable", config.EnvModel), zap.String("value", env))
	}
	return nil
}

// modelSource names the configuration layer that selected the model.
func modelSource(cfg *config.Config) string {
	if os.Getenv(config.EnvModel) != "" {
		return "env"
	}
	if cfg.Model != "" {
		return "repository"
	}
	if global, err := config.LoadGlobalConfig(); err == nil && global.DefaultModel != "" {
		return "global"
	}
	return "default"
}
