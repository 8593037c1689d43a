// Package main provides the semrank CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matsen/semrank/internal/config"
	"github.com/matsen/semrank/internal/embedding"
	"github.com/matsen/semrank/internal/logging"
	"github.com/matsen/semrank/internal/storage"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

// verbose enables debug logging on the console
var verbose bool

// logger is replaced in PersistentPreRunE once the repository is known.
var logger = zap.NewNop()

func main() {
	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		// Print the error since we have SilenceErrors: true
		// This ensures Cobra errors (like missing required flags) are visible
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "semrank",
	Short: "Score research papers against your research context",
	Long: `semrank scores papers by the semantic similarity of their title and
abstract to a research context you describe in a text file.

Core features:
  - Relevance scoring with local or Ollama-served embedding models
  - A persisted collection of relevant and discarded papers
  - Ranking, substring and full-text search, statistics
  - Export to JSON, JSONL, and BibTeX

Data is stored in .semrank/papers.json with an ephemeral SQLite mirror for queries.
All commands output JSON by default; use --human for readable output.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug logging on stderr")
	rootCmd.Version = Version
}

// setupLogging loads .env files and builds the logger. Outside a repository
// only the console core is active.
func setupLogging(cmd *cobra.Command, args []string) error {
	start, err := getStartingDirectory()
	if err != nil {
		return err
	}
	root, findErr := config.FindRepository(start)
	if findErr != nil {
		root = ""
	}
	config.LoadEnv(root)

	global, err := config.LoadGlobalConfig()
	if err != nil {
		return err
	}
	settings := config.Resolve(root, nil, global, embedding.DefaultModel)

	opts := logging.Options{
		Level:     settings.LogLevel,
		MaxSizeMB: settings.LogMaxSizeMB,
		Verbose:   verbose,
	}
	if root != "" {
		opts.FilePath = config.LogPath(root)
	}
	l, err := logging.New(opts)
	if err != nil {
		return err
	}
	logger = l.With(zap.String("command", cmd.CommandPath()))
	return nil
}

// getStartingDirectory returns the directory to start searching for a repository.
// SEMRANK_ROOT takes precedence over the current working directory.
func getStartingDirectory() (string, error) {
	if root := os.Getenv(config.EnvRoot); root != "" {
		return config.ExpandPath(root), nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting current directory: %w", err)
	}
	return cwd, nil
}

// mustFindRepository finds and validates the repository, exits on error.
// Returns the repository root path.
func mustFindRepository() string {
	start, err := getStartingDirectory()
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	repoRoot, err := config.FindRepository(start)
	if err != nil {
		exitWithError(ExitConfigError, "%v\n\nRun 'semrank init' to create one.", err)
	}
	return repoRoot
}

// mustLoadConfig loads configuration, exits on error.
func mustLoadConfig(repoRoot string) *config.Config {
	cfg, err := config.Load(repoRoot)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// mustLoadSettings resolves the effective settings for the repository.
func mustLoadSettings(repoRoot string, cfg *config.Config) config.Settings {
	global, err := config.LoadGlobalConfig()
	if err != nil {
		exitWithError(ExitConfigError, "loading global config: %v", err)
	}
	return config.Resolve(repoRoot, cfg, global, embedding.DefaultModel)
}

// mustOpenStore opens the document store, exits on error.
func mustOpenStore(repoRoot string) *storage.Store {
	s, err := storage.Open(config.PapersPath(repoRoot))
	if err != nil {
		exitOnError(err, "opening store")
	}
	return s
}

// mustOpenDatabase opens the SQLite mirror, exits on error.
// The caller is responsible for calling Close() on the returned DB.
func mustOpenDatabase(repoRoot string) *storage.DB {
	if err := os.MkdirAll(config.CachePath(repoRoot), 0755); err != nil {
		exitWithError(ExitError, "creating cache directory: %v", err)
	}
	db, err := storage.OpenDB(config.DBPath(repoRoot))
	if err != nil {
		exitWithError(ExitError, "opening database: %v", err)
	}
	return db
}
