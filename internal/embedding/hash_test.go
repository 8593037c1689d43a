package embedding

import (
	"context"
	"math"
	"testing"
)

func TestHashProvider_Deterministic(t *testing.T) {
	ctx := context.Background()
	p := NewHashProvider(0)

	texts := []string{"", "   ", "graph databases", "A Survey of B-Trees\n\nWe review B-tree variants."}
	for _, text := range texts {
		a, err := p.Embed(ctx, text)
		if err != nil {
			t.Fatalf("Embed(%q) error = %v", text, err)
		}
		b, _ := p.Embed(ctx, text)

		if a.Dimensions() != DefaultHashDimensions {
			t.Errorf("Embed(%q) dimensions = %d, want %d", text, a.Dimensions(), DefaultHashDimensions)
		}
		for i := range a.Vector {
			if a.Vector[i] != b.Vector[i] {
				t.Fatalf("Embed(%q) not deterministic at %d", text, i)
			}
		}
	}
}

func TestHashProvider_EmptyTextIsZero(t *testing.T) {
	emb, err := NewHashProvider(64).Embed(context.Background(), "  \n ")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if !emb.IsZero() {
		t.Error("whitespace-only text should yield a zero vector")
	}
}

func TestHashProvider_Normalized(t *testing.T) {
	emb, err := NewHashProvider(128).Embed(context.Background(), "distributed query planning for graph databases")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	var norm float64
	for _, v := range emb.Vector {
		norm += float64(v) * float64(v)
	}
	if math.Abs(math.Sqrt(norm)-1) > 1e-5 {
		t.Errorf("norm = %v, want 1", math.Sqrt(norm))
	}
}

func TestHashProvider_CaseInsensitive(t *testing.T) {
	p := NewHashProvider(64)
	a, _ := p.Embed(context.Background(), "Graph Databases")
	b, _ := p.Embed(context.Background(), "graph databases")
	for i := range a.Vector {
		if a.Vector[i] != b.Vector[i] {
			t.Fatal("embedding should ignore case")
		}
	}
}

func TestHashProvider_ModelName(t *testing.T) {
	if got := NewHashProvider(DefaultHashDimensions).ModelName(); got != "hash" {
		t.Errorf("ModelName() = %q, want hash", got)
	}
	if got := NewHashProvider(64).ModelName(); got != "hash:64" {
		t.Errorf("ModelName() = %q, want hash:64", got)
	}
}

func TestHashProvider_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewHashProvider(8).Embed(ctx, "text"); err == nil {
		t.Error("Embed() should fail with canceled context")
	}
}

func TestHashProvider_ImplementsProvider(t *testing.T) {
	var _ Provider = (*HashProvider)(nil)
}
