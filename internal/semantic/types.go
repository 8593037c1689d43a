// Package semantic provides vector similarity over stored document embeddings.
package semantic

// SearchResult represents a document found by similarity search.
type SearchResult struct {
	DocumentID int     `json:"id"`
	Similarity float64 `json:"similarity"`
}

// SimilarResult holds ranked neighbours of one document.
type SimilarResult struct {
	Model   string         `json:"model"`
	Results []SearchResult `json:"results"`
	Skipped int            `json:"skipped"` // Candidates without a comparable embedding
}
