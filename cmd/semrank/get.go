package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matsen/semrank/internal/document"
	"github.com/matsen/semrank/internal/storage"
)

var getEmbedding bool

func init() {
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(deleteCmd)
	getCmd.Flags().BoolVar(&getEmbedding, "embedding", false, "Include the stored embedding vector")
}

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a stored paper",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

var statusCmd = &cobra.Command{
	Use:   "status <id> <relevant|discarded>",
	Short: "Change a paper's status",
	Long: `Mark a stored paper relevant or discarded. The relevance score is kept.
A paper that leaves the relevant status loses its stored embedding.

Example:
  semrank status 12 discarded`,
	Args: cobra.ExactArgs(2),
	RunE: runStatus,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored paper",
	Long: `Delete a stored paper. Its id is never reused.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

// DeleteResult is the response for the delete command.
type DeleteResult struct {
	Status string `json:"status"`
	ID     int    `json:"id"`
	Title  string `json:"title"`
}

// parseID parses a positive document id argument.
func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q (want a positive integer)", s)
	}
	return id, nil
}

func mustParseID(s string) int {
	id, err := parseID(s)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	return id
}

func runGet(cmd *cobra.Command, args []string) error {
	id := mustParseID(args[0])
	repoRoot := mustFindRepository()
	store := mustOpenStore(repoRoot)

	doc := lookupDocument(store, id)
	if !getEmbedding {
		doc.Embedding = nil
		doc.EmbeddingModel = ""
	}

	if humanOutput {
		printDocumentHuman(doc)
	} else {
		outputJSON(doc)
	}
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	id := mustParseID(args[0])
	status, err := document.ParseStatus(args[1])
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	repoRoot := mustFindRepository()
	store := mustOpenStore(repoRoot)

	doc, err := store.UpdateStatus(id, status)
	if err != nil {
		exitOnError(err, "updating status")
	}
	logger.Info("status updated", zap.Int("id", id), zap.String("status", string(status)))
	doc.Embedding = nil
	doc.EmbeddingModel = ""

	if humanOutput {
		fmt.Printf("[%d] %s\n", doc.ID, truncateString(doc.Title, DetailTitleMaxLen))
		fmt.Printf("  now %s\n", doc.Status)
	} else {
		outputJSON(doc)
	}
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	id := mustParseID(args[0])
	repoRoot := mustFindRepository()
	store := mustOpenStore(repoRoot)

	doc := lookupDocument(store, id)
	if err := store.Delete(id); err != nil {
		exitOnError(err, "deleting document")
	}
	logger.Info("document deleted", zap.Int("id", id))

	if humanOutput {
		fmt.Printf("Deleted [%d] %s\n", id, truncateString(doc.Title, DetailTitleMaxLen))
	} else {
		outputJSON(DeleteResult{Status: "deleted", ID: id, Title: doc.Title})
	}
	return nil
}

// lookupDocument fetches a document or exits with not-found.
func lookupDocument(store *storage.Store, id int) document.Document {
	doc, err := store.Get(id)
	if err != nil {
		exitOnError(err, "getting document")
	}
	return doc
}
