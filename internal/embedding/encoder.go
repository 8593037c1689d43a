package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	// cacheExpiration bounds how long an embedding stays cached.
	cacheExpiration = 1 * time.Hour

	// cacheCleanupInterval is how often expired embeddings are purged.
	cacheCleanupInterval = 10 * time.Minute
)

// Encoder maps text to vectors using the active model and supports swapping
// models at runtime. Vectors produced before a switch are never served after it.
type Encoder struct {
	registry *Registry
	provider Provider
	cache    *cache.Cache
}

// NewEncoder creates an encoder. provider may be nil until a model is loaded.
func NewEncoder(registry *Registry, provider Provider) *Encoder {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Encoder{
		registry: registry,
		provider: provider,
		cache:    cache.New(cacheExpiration, cacheCleanupInterval),
	}
}

// Open loads the model named by id and returns an encoder using it.
func Open(ctx context.Context, registry *Registry, id string) (*Encoder, error) {
	enc := NewEncoder(registry, nil)
	if err := enc.SwitchModel(ctx, id); err != nil {
		return nil, err
	}
	return enc, nil
}

// Encode maps text to a vector under the active model. Empty text is valid.
func (e *Encoder) Encode(ctx context.Context, text string) (Embedding, error) {
	if e.provider == nil {
		return Embedding{}, fmt.Errorf("%w: no model loaded", ErrEncoderUnavailable)
	}

	key := e.cacheKey(text)
	if cached, found := e.cache.Get(key); found {
		return Embedding{Vector: copyVector(cached.([]float32))}, nil
	}

	emb, err := e.provider.Embed(ctx, text)
	if err != nil {
		return Embedding{}, fmt.Errorf("%w: encoding with %s: %w", ErrEncoderUnavailable, e.provider.ModelName(), err)
	}
	if dims := e.provider.Dimensions(); dims > 0 && emb.Dimensions() != dims {
		return Embedding{}, fmt.Errorf("%w: %s returned %d dimensions, want %d",
			ErrEncoderUnavailable, e.provider.ModelName(), emb.Dimensions(), dims)
	}

	e.cache.Set(key, copyVector(emb.Vector), cache.DefaultExpiration)
	return emb, nil
}

// Load resolves a model without activating it.
func (e *Encoder) Load(ctx context.Context, id string) (Provider, error) {
	return e.registry.Load(ctx, id)
}

// SwitchModel loads the model named by id and makes it active.
// On failure the current model stays active.
func (e *Encoder) SwitchModel(ctx context.Context, id string) error {
	provider, err := e.registry.Load(ctx, id)
	if err != nil {
		return err
	}
	e.Use(provider)
	return nil
}

// Use activates an already loaded provider and drops all cached vectors.
func (e *Encoder) Use(provider Provider) {
	e.provider = provider
	e.cache.Flush()
}

// Provider returns the active provider, or nil.
func (e *Encoder) Provider() Provider {
	return e.provider
}

// ModelName returns the active model name, or "" if none is loaded.
func (e *Encoder) ModelName() string {
	if e.provider == nil {
		return ""
	}
	return e.provider.ModelName()
}

// Dimensions returns the active model's output dimension, or 0.
func (e *Encoder) Dimensions() int {
	if e.provider == nil {
		return 0
	}
	return e.provider.Dimensions()
}

// CachedCount returns the number of cached embeddings.
func (e *Encoder) CachedCount() int {
	return e.cache.ItemCount()
}

func (e *Encoder) cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return e.provider.ModelName() + "\x00" + hex.EncodeToString(sum[:])
}

func copyVector(v []float32) []float32 {
	out := make([]float32, len(v))
	copy(out, v)
	return out
}
