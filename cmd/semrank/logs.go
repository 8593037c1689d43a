package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/matsen/semrank/internal/config"
	"github.com/matsen/semrank/internal/logging"
)

var (
	logsLevel string
	logsLimit int
)

func init() {
	rootCmd.AddCommand(logsCmd)
	logsCmd.Flags().StringVarP(&logsLevel, "level", "l", "", "Only show entries at this level (debug, info, warn, error)")
	logsCmd.Flags().IntVarP(&logsLimit, "limit", "n", 20, "Maximum entries (0 for all)")
}

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show recent log entries",
	Long: `Show entries from .semrank/logs/semrank.log, newest first.`,
	Args: cobra.NoArgs,
	RunE: runLogs,
}

func runLogs(cmd *cobra.Command, args []string) error {
	level := ""
	if logsLevel != "" {
		lvl, err := logging.ParseLevel(logsLevel)
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}
		level = lvl.CapitalString()
	}
	repoRoot := mustFindRepository()

	entries, err := logging.ReadEntries(config.LogPath(repoRoot), level, logsLimit)
	if err != nil {
		exitWithError(ExitError, "reading logs: %v", err)
	}

	if !humanOutput {
		outputJSON(entries)
		return nil
	}
	if len(entries) == 0 {
		fmt.Println("No log entries")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%s %-5s %s", dimColor.Sprint(e.Timestamp), e.Level, e.Message)
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf(" %s=%v", k, e.Fields[k])
		}
		fmt.Println()
	}
	return nil
}
