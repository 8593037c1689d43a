package relevance

import (
	"context"
	"fmt"
	"time"

	"github.com/matsen/semrank/internal/document"
	"github.com/matsen/semrank/internal/embedding"
)

// ProgressFunc receives progress updates while documents are re-embedded.
type ProgressFunc func(current, total int)

// ReembedResult holds new vectors for stored documents under one model.
type ReembedResult struct {
	Model      string            `json:"model"`
	Vectors    map[int][]float32 `json:"-"`
	Reembedded int               `json:"reembedded"`
	Current    int               `json:"already_current"` // Relevant documents already embedded by Model
	Duration   time.Duration     `json:"-"`
}

// Reembed computes embeddings under the encoder's active model for relevant
// documents whose stored embedding came from another model. With force, every
// relevant document is re-embedded. Other statuses are ignored since they keep
// no embedding. Nothing is written; the caller commits the vectors.
func Reembed(ctx context.Context, enc *embedding.Encoder, docs []document.Document, force bool, progress ProgressFunc) (*ReembedResult, error) {
	start := time.Now()
	model := enc.ModelName()
	result := &ReembedResult{Model: model, Vectors: make(map[int][]float32)}

	var todo []document.Document
	for _, d := range docs {
		if d.Status != document.StatusRelevant {
			continue
		}
		if !force && d.VectorModel() == model && len(d.Embedding) == enc.Dimensions() {
			result.Current++
			continue
		}
		todo = append(todo, d)
	}

	for i, d := range todo {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		if progress != nil {
			progress(i+1, len(todo))
		}

		emb, err := enc.Encode(ctx, JoinText(d.Title, d.Abstract))
		if err != nil {
			return nil, fmt.Errorf("embedding document %d: %w", d.ID, err)
		}
		result.Vectors[d.ID] = emb.Vector
	}

	result.Reembedded = len(result.Vectors)
	result.Duration = time.Since(start)
	return result, nil
}
