package semantic

import (
	"errors"
	"math"
	"testing"

	"github.com/matsen/semrank/internal/document"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float64
	}{
		{
			name:     "identical vectors",
			a:        []float32{1, 0, 0},
			b:        []float32{1, 0, 0},
			expected: 1.0,
		},
		{
			name:     "orthogonal vectors",
			a:        []float32{1, 0},
			b:        []float32{0, 1},
			expected: 0.0,
		},
		{
			name:     "opposite vectors",
			a:        []float32{1, 0},
			b:        []float32{-1, 0},
			expected: -1.0,
		},
		{
			name:     "similar vectors",
			a:        []float32{1, 1},
			b:        []float32{1, 0},
			expected: 0.7071067, // cos(45 degrees)
		},
		{
			name:     "empty vectors",
			a:        []float32{},
			b:        []float32{},
			expected: 0.0,
		},
		{
			name:     "different lengths",
			a:        []float32{1, 0},
			b:        []float32{1, 0, 0},
			expected: 0.0,
		},
		{
			name:     "zero vector a",
			a:        []float32{0, 0, 0},
			b:        []float32{1, 0, 0},
			expected: 0.0,
		},
		{
			name:     "zero vector b",
			a:        []float32{1, 0, 0},
			b:        []float32{0, 0, 0},
			expected: 0.0,
		},
		{
			name:     "normalized vectors",
			a:        []float32{0.6, 0.8},
			b:        []float32{0.6, 0.8},
			expected: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.expected) > 0.0001 {
				t.Errorf("CosineSimilarity(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.expected)
			}
			if math.IsNaN(got) {
				t.Errorf("CosineSimilarity(%v, %v) is NaN", tt.a, tt.b)
			}
		})
	}
}

func TestCosineSimilarity_Commutative(t *testing.T) {
	a := []float32{1, 2, 3}
	b := []float32{4, 5, 6}

	ab := CosineSimilarity(a, b)
	ba := CosineSimilarity(b, a)

	if math.Abs(ab-ba) > 0.0001 {
		t.Errorf("CosineSimilarity is not commutative: (%v, %v) = %v, (%v, %v) = %v",
			a, b, ab, b, a, ba)
	}
}

func TestCosineSimilarity_Bounds(t *testing.T) {
	vectors := [][]float32{
		{1, 2, 3},
		{-1, 0.5, 7},
		{1e-20, 1e-20, 1e-20},
		{3e10, -2e10, 1},
		{0.33333334, 0.33333334, 0.33333334},
	}
	for _, a := range vectors {
		for _, b := range vectors {
			sim := CosineSimilarity(a, b)
			if sim < -1 || sim > 1 {
				t.Errorf("CosineSimilarity(%v, %v) = %v, outside [-1,1]", a, b, sim)
			}
		}
	}
}

func TestCompare_DimensionMismatch(t *testing.T) {
	_, err := Compare([]float32{1, 0}, []float32{1, 0, 0})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("Compare() error = %v, want ErrDimensionMismatch", err)
	}

	sim, err := Compare([]float32{1, 0}, []float32{1, 0})
	if err != nil || sim != 1 {
		t.Errorf("Compare() = %v, %v; want 1, nil", sim, err)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-0.2, 0},
		{0, 0},
		{0.5, 0.5},
		{1, 1},
		{1.0000001, 1},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		if got := Clamp(tt.in); got != tt.want {
			t.Errorf("Clamp(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFindSimilar(t *testing.T) {
	source := document.Document{ID: 1, Model: "m", Embedding: []float32{1, 0, 0}}
	docs := []document.Document{
		source,
		{ID: 2, Model: "m", Embedding: []float32{0.9, 0.1, 0}},
		{ID: 3, Model: "m", Embedding: []float32{0, 1, 0}},
		{ID: 4, Model: "m", Embedding: []float32{0.9, 0.1, 0}},
		{ID: 5, Model: "m"},                                  // discarded, no embedding
		{ID: 6, Model: "other", Embedding: []float32{1, 0}}, // different model
	}

	result, err := FindSimilar(source, docs, 10)
	if err != nil {
		t.Fatalf("FindSimilar() error = %v", err)
	}
	if len(result.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(result.Results))
	}
	if result.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2", result.Skipped)
	}
	// Equal similarity: lower id first
	if result.Results[0].DocumentID != 2 || result.Results[1].DocumentID != 4 {
		t.Errorf("unexpected order: %+v", result.Results)
	}
	if result.Results[2].DocumentID != 3 {
		t.Errorf("expected document 3 last, got %d", result.Results[2].DocumentID)
	}

	t.Run("respects limit", func(t *testing.T) {
		result, _ := FindSimilar(source, docs, 1)
		if len(result.Results) != 1 {
			t.Errorf("expected 1 result, got %d", len(result.Results))
		}
	})
}

func TestFindSimilar_ComparesVectorModel(t *testing.T) {
	// Scored by "old", then re-embedded by "new".
	source := document.Document{ID: 1, Model: "old", EmbeddingModel: "new", Embedding: []float32{1, 0}}
	docs := []document.Document{
		source,
		{ID: 2, Model: "new", Embedding: []float32{1, 0}},
		{ID: 3, Model: "old", EmbeddingModel: "new", Embedding: []float32{0, 1}},
		{ID: 4, Model: "old", Embedding: []float32{1, 0}},
	}

	result, err := FindSimilar(source, docs, 0)
	if err != nil {
		t.Fatalf("FindSimilar() error = %v", err)
	}
	if result.Model != "new" {
		t.Errorf("Model = %s, want new", result.Model)
	}
	if len(result.Results) != 2 || result.Results[0].DocumentID != 2 || result.Results[1].DocumentID != 3 {
		t.Errorf("Results = %+v, want ids 2 then 3", result.Results)
	}
	if result.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", result.Skipped)
	}
}

func TestFindSimilar_Errors(t *testing.T) {
	_, err := FindSimilar(document.Document{ID: 1}, nil, 10)
	if !errors.Is(err, ErrNoEmbedding) {
		t.Errorf("FindSimilar() error = %v, want ErrNoEmbedding", err)
	}

	source := document.Document{ID: 1, Model: "m", Embedding: []float32{1, 0, 0}}
	bad := []document.Document{{ID: 2, Model: "m", Embedding: []float32{1, 0}}}
	_, err = FindSimilar(source, bad, 10)
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("FindSimilar() error = %v, want ErrDimensionMismatch", err)
	}
}
