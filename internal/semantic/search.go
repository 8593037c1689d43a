package semantic

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/matsen/semrank/internal/document"
)

// Errors returned by checked similarity operations.
var (
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
	ErrNoEmbedding       = errors.New("document has no embedding")
)

// CosineSimilarity computes the cosine similarity between two vectors.
// Returns a value between -1 and 1, where 1 means identical direction.
// Vectors of different length, empty vectors, and zero-norm vectors give 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	denominator := math.Sqrt(normA) * math.Sqrt(normB)
	if denominator == 0 {
		return 0
	}

	sim := dot / denominator
	// Rounding can push identical vectors slightly past the bounds.
	return math.Max(-1, math.Min(1, sim))
}

// Compare computes cosine similarity, reporting vectors of different
// dimensions as ErrDimensionMismatch instead of returning 0.
func Compare(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}
	return CosineSimilarity(a, b), nil
}

// Clamp limits a similarity to [0,1]. Negative similarity means no relevance.
func Clamp(sim float64) float64 {
	if math.IsNaN(sim) || sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}

// FindSimilar ranks stored documents by similarity to the source document's
// embedding. The source is excluded. Candidates without an embedding, or whose
// embedding came from a different model, are counted in Skipped rather than
// compared. A candidate with the same model but a different dimension is an error.
func FindSimilar(source document.Document, candidates []document.Document, limit int) (*SimilarResult, error) {
	if !source.HasEmbedding() {
		return nil, fmt.Errorf("%w: document %d", ErrNoEmbedding, source.ID)
	}

	model := source.VectorModel()
	result := &SimilarResult{Model: model}
	for _, doc := range candidates {
		if doc.ID == source.ID {
			continue
		}
		if !doc.HasEmbedding() || doc.VectorModel() != model {
			result.Skipped++
			continue
		}
		sim, err := Compare(source.Embedding, doc.Embedding)
		if err != nil {
			return nil, fmt.Errorf("comparing document %d with %d: %w", source.ID, doc.ID, err)
		}
		result.Results = append(result.Results, SearchResult{
			DocumentID: doc.ID,
			Similarity: sim,
		})
	}

	// Sort by similarity descending, ties by id
	sort.SliceStable(result.Results, func(i, j int) bool {
		a, b := result.Results[i], result.Results[j]
		if a.Similarity != b.Similarity {
			return a.Similarity > b.Similarity
		}
		return a.DocumentID < b.DocumentID
	})

	// Apply limit
	if limit > 0 && len(result.Results) > limit {
		result.Results = result.Results[:limit]
	}

	return result, nil
}
