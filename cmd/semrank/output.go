package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/matsen/semrank/internal/document"
)

// Constants for output formatting.
// Names indicate the context where each constant is used.
const (
	DefaultListLimit = 50 // Default limit for list/search commands

	// Title truncation lengths by context
	ListTitleMaxLen   = 60 // Used in list and search output
	DetailTitleMaxLen = 70 // Used in get and score detail views

	// Text wrapping widths
	TextWrapWidth       = 60 // Standard text wrap width
	DetailTextWrapWidth = 68 // Wider wrap for detail views
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("command failed", zap.Int("exit_code", code), zap.String("error", msg))
	_ = logger.Sync()
	if humanOutput {
		fmt.Fprintf(os.Stderr, "%s %s\n", color.New(color.FgRed, color.Bold).Sprint("error:"), msg)
	} else {
		outputJSON(ErrorResponse{Error: msg, Code: code})
	}
	os.Exit(code)
}

// exitOnError exits with the code matching the error's kind.
func exitOnError(err error, action string) {
	exitWithError(exitCodeFor(err), "%s: %v", action, err)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
}

var (
	highColor     = color.New(color.FgGreen, color.Bold)
	moderateColor = color.New(color.FgGreen)
	someColor     = color.New(color.FgYellow)
	lowColor      = color.New(color.FgRed)
	dimColor      = color.New(color.Faint)
)

// categoryColor returns the color used for a category label.
func categoryColor(c document.Category) *color.Color {
	switch c {
	case document.CategoryHighly:
		return highColor
	case document.CategoryModerately:
		return moderateColor
	case document.CategorySomewhat:
		return someColor
	default:
		return lowColor
	}
}

// formatPercent formats a score in [0,1] as a percentage.
func formatPercent(score float64) string {
	return fmt.Sprintf("%.1f%%", score*100)
}

// formatScoreHuman formats a score with its colored category.
func formatScoreHuman(score float64, c document.Category) string {
	return categoryColor(c).Sprintf("%6s  %s", formatPercent(score), c)
}

// printDocumentsHuman prints a ranked document list.
func printDocumentsHuman(docs []document.Document) {
	if len(docs) == 0 {
		fmt.Println("No documents found")
		return
	}
	for i, d := range docs {
		fmt.Printf("%3d. [%d] %s\n", i+1, d.ID, truncateString(d.Title, ListTitleMaxLen))
		fmt.Printf("     %s  %s\n", formatScoreHuman(d.Score, d.Category), dimColor.Sprint(d.Status))
	}
}

// printDocumentHuman prints one document in detail.
func printDocumentHuman(d document.Document) {
	fmt.Printf("[%d] %s\n", d.ID, wrapText(d.Title, DetailTextWrapWidth, "     "))
	fmt.Printf("  Relevance: %s\n", formatScoreHuman(d.Score, d.Category))
	fmt.Printf("  Status:    %s\n", d.Status)
	fmt.Printf("  Added:     %s\n", d.CreatedAt.Local().Format("2006-01-02 15:04"))
	if d.UpdatedAt != nil {
		fmt.Printf("  Updated:   %s\n", d.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	if d.Model != "" {
		fmt.Printf("  Model:     %s\n", d.Model)
	}
	if d.Source != "" {
		fmt.Printf("  Source:    %s\n", d.Source)
	}
	if d.Abstract != "" {
		fmt.Printf("\n  %s\n", wrapText(d.Abstract, DetailTextWrapWidth, "  "))
	}
}

// truncateString truncates a string to maxLen runes, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}

// wrapText wraps text to the specified width with indentation on subsequent lines.
func wrapText(text string, width int, indent string) string {
	if len(text) <= width {
		return text
	}

	var lines []string
	words := strings.Fields(text)
	var currentLine strings.Builder

	for _, word := range words {
		if currentLine.Len() == 0 {
			currentLine.WriteString(word)
		} else if currentLine.Len()+1+len(word) <= width {
			currentLine.WriteString(" ")
			currentLine.WriteString(word)
		} else {
			lines = append(lines, currentLine.String())
			currentLine.Reset()
			currentLine.WriteString(word)
		}
	}
	if currentLine.Len() > 0 {
		lines = append(lines, currentLine.String())
	}

	return strings.Join(lines, "\n"+indent)
}

// parseStatusFlag converts an optional --status flag value into a filter.
func parseStatusFlag(s string) (*document.Status, error) {
	if s == "" || s == "all" {
		return nil, nil
	}
	st, err := document.ParseStatus(s)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// limitDocuments returns at most limit documents; zero or negative means all.
func limitDocuments(docs []document.Document, limit int) []document.Document {
	if limit > 0 && len(docs) > limit {
		return docs[:limit]
	}
	return docs
}
