package relevance

import (
	"errors"
	"os"
	"testing"
)

func TestContextCache_RoundTrip(t *testing.T) {
	cache := NewContextCache(t.TempDir())
	rc := &Context{
		Text:     "graph databases",
		Source:   "context.txt",
		TextHash: HashText("graph databases"),
		Model:    "hash",
		Vector:   []float32{0.1, 0.2, 0.3},
	}

	if err := cache.Save(rc); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := cache.Load("graph databases", "hash")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Source != rc.Source || got.Model != rc.Model || len(got.Vector) != 3 {
		t.Errorf("Load() = %+v, want %+v", got, rc)
	}
	for i := range rc.Vector {
		if got.Vector[i] != rc.Vector[i] {
			t.Errorf("Vector[%d] = %v, want %v", i, got.Vector[i], rc.Vector[i])
		}
	}

	if _, err := os.Stat(cache.Path() + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind")
	}
}

func TestContextCache_Miss(t *testing.T) {
	cache := NewContextCache(t.TempDir())

	if _, err := cache.Load("text", "hash"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Load() on empty cache error = %v, want ErrCacheMiss", err)
	}

	cache.Save(&Context{Text: "text", TextHash: HashText("text"), Model: "hash", Vector: []float32{1}})

	if _, err := cache.Load("other text", "hash"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Load() with changed text error = %v, want ErrCacheMiss", err)
	}
	if _, err := cache.Load("text", "nomic-embed-text"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Load() with changed model error = %v, want ErrCacheMiss", err)
	}
}

func TestContextCache_Corrupt(t *testing.T) {
	cache := NewContextCache(t.TempDir())
	if err := os.WriteFile(cache.Path(), []byte("not gob"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := cache.Load("text", "hash")
	if err == nil || errors.Is(err, ErrCacheMiss) {
		t.Errorf("Load() on corrupt cache error = %v, want decode error", err)
	}
}

func TestContextCache_Clear(t *testing.T) {
	cache := NewContextCache(t.TempDir())
	if err := cache.Clear(); err != nil {
		t.Errorf("Clear() on missing file error = %v", err)
	}
	cache.Save(&Context{Text: "t", TextHash: HashText("t"), Model: "hash", Vector: []float32{1}})
	if err := cache.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, err := os.Stat(cache.Path()); !os.IsNotExist(err) {
		t.Error("cache file still exists")
	}
}
