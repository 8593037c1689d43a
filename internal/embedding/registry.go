package embedding

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// OllamaModelPrefix selects an arbitrary Ollama model, e.g. "ollama:bge-m3".
const OllamaModelPrefix = "ollama:"

// dimensionSample is embedded once to learn the output size of models with
// no known dimension.
const dimensionSample = "dimension sample"

// KnownOllamaModels maps commonly used Ollama embedding models to their output dimensions.
var KnownOllamaModels = map[string]int{
	"all-minilm:l6-v2":  384,
	"all-minilm":        384,
	"nomic-embed-text":  768,
	"mxbai-embed-large": 1024,
}

// ModelInfo describes a model the registry can load without a prefix.
type ModelInfo struct {
	Name       string `json:"name"`
	Backend    string `json:"backend"` // ollama, local
	Dimensions int    `json:"dimensions"`
}

// Registry resolves model identifiers to loaded providers.
type Registry struct {
	ollamaOpts []OllamaOption
}

// NewRegistry creates a registry. The options are applied to every Ollama
// provider it loads (base URL, timeout, rate limit).
func NewRegistry(ollamaOpts ...OllamaOption) *Registry {
	return &Registry{ollamaOpts: ollamaOpts}
}

// Models lists the identifiers that can be used without a prefix.
func (r *Registry) Models() []ModelInfo {
	models := []ModelInfo{{Name: HashModelPrefix, Backend: "local", Dimensions: DefaultHashDimensions}}
	names := make([]string, 0, len(KnownOllamaModels))
	for name := range KnownOllamaModels {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		models = append(models, ModelInfo{Name: name, Backend: "ollama", Dimensions: KnownOllamaModels[name]})
	}
	return models
}

// Load resolves an identifier and returns a provider that is ready to embed.
//
// Accepted identifiers:
//
//	hash, hash:<dims>      local feature-hashing model
//	ollama:<name>          any model served by Ollama
//	<name>                 a model listed in KnownOllamaModels
//
// Unrecognized identifiers fail with ErrUnknownModel. A recognized model that
// cannot be reached or is not installed fails with ErrEncoderUnavailable.
func (r *Registry) Load(ctx context.Context, id string) (Provider, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: %w: empty model identifier", ErrEncoderUnavailable, ErrUnknownModel)
	}

	if id == HashModelPrefix || strings.HasPrefix(id, HashModelPrefix+":") {
		return loadHash(id)
	}

	name := id
	dims, known := KnownOllamaModels[id]
	if strings.HasPrefix(id, OllamaModelPrefix) {
		name = strings.TrimPrefix(id, OllamaModelPrefix)
		if name == "" {
			return nil, fmt.Errorf("%w: %w: %q", ErrEncoderUnavailable, ErrUnknownModel, id)
		}
		dims = KnownOllamaModels[name]
	} else if !known {
		return nil, fmt.Errorf("%w: %w: %q", ErrEncoderUnavailable, ErrUnknownModel, id)
	}

	return r.loadOllama(ctx, name, dims)
}

func loadHash(id string) (Provider, error) {
	if id == HashModelPrefix {
		return NewHashProvider(DefaultHashDimensions), nil
	}
	dims, err := strconv.Atoi(strings.TrimPrefix(id, HashModelPrefix+":"))
	if err != nil || dims <= 0 {
		return nil, fmt.Errorf("%w: %w: %q (want hash:<positive dimensions>)", ErrEncoderUnavailable, ErrUnknownModel, id)
	}
	return NewHashProvider(dims), nil
}

func (r *Registry) loadOllama(ctx context.Context, name string, dims int) (Provider, error) {
	opts := append([]OllamaOption{}, r.ollamaOpts...)
	opts = append(opts, WithModel(name), WithDimensions(dims))
	provider := NewOllamaProvider(opts...)

	if err := provider.IsAvailable(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncoderUnavailable, err)
	}

	hasModel, err := provider.HasModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncoderUnavailable, err)
	}
	if !hasModel {
		return nil, fmt.Errorf("%w: model %q is not installed (run 'ollama pull %s')", ErrEncoderUnavailable, name, name)
	}

	if provider.Dimensions() == 0 {
		if _, err := provider.Embed(ctx, dimensionSample); err != nil {
			return nil, fmt.Errorf("%w: measuring dimensions of %s: %w", ErrEncoderUnavailable, name, err)
		}
	}

	return provider, nil
}
