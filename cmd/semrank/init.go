package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matsen/semrank/internal/config"
	"github.com/matsen/semrank/internal/storage"
)

var (
	initContextFile string
	initModel       string
)

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVarP(&initContextFile, "context", "c", "", "Research context text file")
	initCmd.Flags().StringVarP(&initModel, "model", "m", "", "Embedding model id (default from global config)")
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new semrank repository",
	Long: `Initialize a new semrank repository in the current directory.

Creates .semrank/ with config.json, an empty papers.json snapshot, and the
cache and logs directories.

Example:
  semrank init --context research.txt --model nomic-embed-text`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

// InitResult is the response for the init command.
type InitResult struct {
	Status      string `json:"status"`
	Path        string `json:"path"`
	ContextFile string `json:"context_file,omitempty"`
	Model       string `json:"model,omitempty"`
}

func runInit(cmd *cobra.Command, args []string) error {
	root, err := getStartingDirectory()
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if config.IsRepository(root) {
		exitWithError(ExitConfigError, "already a semrank repository: %s", config.SemrankPath(root))
	}

	cfg := &config.Config{ContextFile: initContextFile, Model: initModel}
	if cfg.ContextFile != "" {
		if err := config.ValidateContextFile(cfg.ResolveContextPath(root)); err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
	}
	if cfg.Model != "" {
		if _, err := newRegistry(config.Settings{}).Load(context.Background(), cfg.Model); err != nil {
			exitOnError(err, "checking model")
		}
	}

	for _, dir := range []string{
		config.SemrankPath(root),
		config.CachePath(root),
		filepath.Dir(config.LogPath(root)),
	} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			exitWithError(ExitError, "creating %s: %v", dir, err)
		}
	}

	if err := cfg.Save(root); err != nil {
		exitWithError(ExitError, "%v", err)
	}
	if err := storage.WriteSnapshot(config.PapersPath(root), storage.NewSnapshot()); err != nil {
		exitOnError(err, "creating snapshot")
	}

	logger.Info("repository initialized", zap.String("path", root))

	result := InitResult{
		Status:      "initialized",
		Path:        config.SemrankPath(root),
		ContextFile: cfg.ContextFile,
		Model:       cfg.Model,
	}
	if humanOutput {
		fmt.Printf("Initialized semrank repository in %s\n", result.Path)
		if result.ContextFile == "" {
			fmt.Println("Next: semrank context switch <file>")
		}
	} else {
		outputJSON(result)
	}
	return nil
}
