// Package relevance scores documents against a research context.
package relevance

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/matsen/semrank/internal/embedding"
)

// Errors returned by context loading and scoring.
var (
	// ErrContextNotLoaded indicates no context embedding is available for scoring.
	ErrContextNotLoaded = errors.New("research context not loaded")

	// ErrContextStale indicates the context was embedded by a different model
	// than the one currently active. It is a kind of ErrContextNotLoaded.
	ErrContextStale = fmt.Errorf("%w: context embedding does not match active model", ErrContextNotLoaded)

	// ErrEmptyContext indicates the context source has no text.
	ErrEmptyContext = errors.New("context file is empty")
)

// Context is a research context and its embedding under one model.
// It is replaced wholesale on reload; the fields are never edited in place.
type Context struct {
	Text     string    `json:"text"`
	Source   string    `json:"source"` // File the text was read from
	TextHash string    `json:"text_hash"`
	Model    string    `json:"model"`
	Vector   []float32 `json:"-"`
	LoadedAt time.Time `json:"loaded_at"`
}

// ReadContextFile reads a context description in full.
func ReadContextFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: context file not found: %s", ErrContextNotLoaded, path)
		}
		return "", fmt.Errorf("%w: reading context file: %w", ErrContextNotLoaded, err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("%w: %s", ErrEmptyContext, path)
	}
	return text, nil
}

// NewContext embeds text with the encoder's active model.
func NewContext(ctx context.Context, text, source string, enc *embedding.Encoder) (*Context, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyContext
	}
	emb, err := enc.Encode(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embedding context: %w", err)
	}
	return &Context{
		Text:     text,
		Source:   source,
		TextHash: HashText(text),
		Model:    enc.ModelName(),
		Vector:   emb.Vector,
		LoadedAt: time.Now(),
	}, nil
}

// LoadContext reads a context file and embeds it.
func LoadContext(ctx context.Context, path string, enc *embedding.Encoder) (*Context, error) {
	text, err := ReadContextFile(path)
	if err != nil {
		return nil, err
	}
	return NewContext(ctx, text, path, enc)
}

// Matches reports whether the context vector was produced by the encoder's
// active model and has its dimension.
func (c *Context) Matches(enc *embedding.Encoder) bool {
	if c == nil || enc == nil {
		return false
	}
	return c.Model == enc.ModelName() && len(c.Vector) == enc.Dimensions()
}

// Dimensions returns the context vector's dimension.
func (c *Context) Dimensions() int {
	return len(c.Vector)
}

// HashText computes a SHA256 hash of context text.
func HashText(text string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(text)))
}
