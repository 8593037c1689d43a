package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matsen/semrank/internal/clipboard"
	"github.com/matsen/semrank/internal/export"
	"github.com/matsen/semrank/internal/storage"
)

var (
	exportFormat     string
	exportStatus     string
	exportOutput     string
	exportEmbeddings bool
	exportCopy       bool
)

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Output format: json, jsonl, or bibtex (default from --output extension, else json)")
	exportCmd.Flags().StringVar(&exportStatus, "status", "all", "Filter by status: relevant, discarded, or all")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to a file instead of stdout")
	exportCmd.Flags().BoolVar(&exportEmbeddings, "embeddings", false, "Include embedding vectors (json and jsonl)")
	exportCmd.Flags().BoolVar(&exportCopy, "copy", false, "Copy the export to the clipboard instead of stdout")
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored papers",
	Long: `Export stored papers in relevance order as JSON, JSONL, or BibTeX.

Without --output or --copy the export is written to stdout. A file is written
atomically: on failure any existing file is left untouched.

Examples:
  semrank export --status relevant -o reading-list.bib
  semrank export --format jsonl --embeddings > papers.jsonl`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

// ExportResult is the response for export to a file.
type ExportResult struct {
	Status    string `json:"status"`
	Path      string `json:"path,omitempty"`
	Format    string `json:"format"`
	Documents int    `json:"documents"`
}

// exportFormatFor picks the format from the flag, then the output extension.
func exportFormatFor(flag, output string) (export.Format, error) {
	if flag != "" {
		return export.ParseFormat(flag)
	}
	if output != "" {
		ext := strings.TrimPrefix(filepath.Ext(output), ".")
		if f, err := export.ParseFormat(ext); err == nil {
			return f, nil
		}
	}
	return export.FormatJSON, nil
}

func runExport(cmd *cobra.Command, args []string) error {
	format, err := exportFormatFor(exportFormat, exportOutput)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	status, err := parseStatusFlag(exportStatus)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	repoRoot := mustFindRepository()
	store := mustOpenStore(repoRoot)
	opts := storage.ExportOptions{Format: format, Status: status, IncludeEmbeddings: exportEmbeddings}

	if exportCopy {
		var buf bytes.Buffer
		n, err := store.Export(&buf, opts)
		if err != nil {
			exitOnError(err, "exporting")
		}
		if err := clipboard.Copy(buf.String()); err != nil {
			if errors.Is(err, clipboard.ErrClipboardUnavailable) {
				exitWithError(ExitError, "clipboard unavailable (install pbcopy, wl-copy, xclip, or xsel)")
			}
			exitWithError(ExitError, "copying to clipboard: %v", err)
		}
		logger.Info("exported to clipboard", zap.String("format", string(format)), zap.Int("documents", n))
		if humanOutput {
			fmt.Printf("Copied %d papers to clipboard\n", n)
		} else {
			outputJSON(ExportResult{Status: "copied", Format: string(format), Documents: n})
		}
		return nil
	}

	if exportOutput == "" {
		n, err := store.Export(os.Stdout, opts)
		if err != nil {
			exitOnError(err, "exporting")
		}
		logger.Info("exported", zap.String("format", string(format)), zap.Int("documents", n))
		return nil
	}

	n, err := store.ExportFile(exportOutput, opts)
	if err != nil {
		exitOnError(err, "exporting")
	}
	logger.Info("exported",
		zap.String("format", string(format)),
		zap.String("path", exportOutput),
		zap.Int("documents", n))

	if humanOutput {
		fmt.Printf("Exported %d papers to %s\n", n, exportOutput)
	} else {
		outputJSON(ExportResult{Status: "exported", Path: exportOutput, Format: string(format), Documents: n})
	}
	return nil
}
