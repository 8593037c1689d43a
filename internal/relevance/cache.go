package relevance

import (
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Errors returned by the context cache.
var (
	ErrCacheMiss          = errors.New("context embedding not cached")
	ErrUnsupportedVersion = errors.New("unsupported context cache version")
)

const (
	// CacheFileName is the name of the context embedding cache file.
	CacheFileName = "context.gob"

	// CurrentCacheVersion is the format version for compatibility checking.
	// Increment this when making breaking changes to the cache format.
	CurrentCacheVersion = 1
)

// cachedContext is the on-disk form of a context embedding.
type cachedContext struct {
	Version   int
	Source    string
	Text      string
	TextHash  string
	Model     string
	Vector    []float32
	CreatedAt time.Time
}

// ContextCache persists the most recent context embedding so the context is
// embedded once per (text, model) pair instead of on every invocation.
type ContextCache struct {
	path string
}

// NewContextCache creates a cache stored in dir.
func NewContextCache(dir string) *ContextCache {
	return &ContextCache{path: filepath.Join(dir, CacheFileName)}
}

// Path returns the cache file path.
func (c *ContextCache) Path() string {
	return c.path
}

// Save persists the context using GOB encoding.
func (c *ContextCache) Save(rc *Context) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	// Write to a temp file first, then rename for atomicity
	tempPath := c.path + ".tmp"
	f, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	entry := cachedContext{
		Version:   CurrentCacheVersion,
		Source:    rc.Source,
		Text:      rc.Text,
		TextHash:  rc.TextHash,
		Model:     rc.Model,
		Vector:    rc.Vector,
		CreatedAt: time.Now(),
	}
	if err := gob.NewEncoder(f).Encode(entry); err != nil {
		f.Close()
		os.Remove(tempPath)
		return fmt.Errorf("encoding context: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("closing file: %w", err)
	}

	if err := os.Rename(tempPath, c.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}

// Load returns the cached context for the given text and model.
// Returns ErrCacheMiss if nothing is cached or the cache was built from
// different text or by a different model.
func (c *ContextCache) Load(text, model string) (*Context, error) {
	f, err := os.Open(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("opening context cache: %w", err)
	}
	defer f.Close()

	var entry cachedContext
	if err := gob.NewDecoder(f).Decode(&entry); err != nil {
		return nil, fmt.Errorf("decoding context cache: %w", err)
	}

	if entry.Version != CurrentCacheVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrUnsupportedVersion, entry.Version, CurrentCacheVersion)
	}
	if entry.Model != model || entry.TextHash != HashText(text) || len(entry.Vector) == 0 {
		return nil, ErrCacheMiss
	}

	return &Context{
		Text:     entry.Text,
		Source:   entry.Source,
		TextHash: entry.TextHash,
		Model:    entry.Model,
		Vector:   entry.Vector,
		LoadedAt: entry.CreatedAt,
	}, nil
}

// Clear removes the cache file. A missing file is not an error.
func (c *ContextCache) Clear() error {
	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing context cache: %w", err)
	}
	return nil
}
