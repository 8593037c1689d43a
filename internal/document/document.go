// Package document defines the core domain types for scored documents.
package document

import (
	"fmt"
	"time"
)

// Document is a scored research document held by the store.
type Document struct {
	// Identity
	ID int `json:"id"` // Monotonically assigned, never reused

	// Content
	Title    string `json:"title"`
	Abstract string `json:"abstract"`

	// Relevance at insertion time
	Score    float64  `json:"relevance_score"` // Clamped cosine similarity in [0,1]
	Category Category `json:"category"`        // Always CategoryFor(Score)
	Status   Status   `json:"status"`

	// Timestamps
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"` // Set when status changes

	// Model is the encoder that produced Score. Embedding is kept only while
	// Status is relevant; EmbeddingModel is set once it is recomputed by
	// another model and is empty while the embedding came from Model.
	Model          string    `json:"model,omitempty"`
	Embedding      []float32 `json:"embedding,omitempty"`
	EmbeddingModel string    `json:"embedding_model,omitempty"`

	Source string `json:"source,omitempty"` // manual, pdf, batch
}

// Status is the user's decision about a stored document.
type Status string

const (
	StatusRelevant  Status = "relevant"
	StatusDiscarded Status = "discarded"
)

// Statuses lists the valid statuses in display order.
var Statuses = []Status{StatusRelevant, StatusDiscarded}

// ParseStatus converts a string into a Status.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusRelevant, StatusDiscarded:
		return Status(s), nil
	}
	return "", fmt.Errorf("invalid status: %q (valid: %s, %s)", s, StatusRelevant, StatusDiscarded)
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusRelevant || s == StatusDiscarded
}

// HasEmbedding reports whether the document carries an embedding vector.
func (d Document) HasEmbedding() bool {
	return len(d.Embedding) > 0
}

// VectorModel returns the encoder that produced Embedding.
func (d Document) VectorModel() string {
	if d.EmbeddingModel != "" {
		return d.EmbeddingModel
	}
	return d.Model
}

// AbstractLength returns the abstract length in characters.
func (d Document) AbstractLength() int {
	return len([]rune(d.Abstract))
}
