package embedding

import (
	"context"
	"errors"
)

// Provider generates embeddings from text.
type Provider interface {
	// Embed generates an embedding for the given text.
	Embed(ctx context.Context, text string) (Embedding, error)

	// ModelName returns the name of the embedding model.
	ModelName() string

	// Dimensions returns the expected vector dimensions.
	Dimensions() int
}

// Errors returned when a model cannot be loaded or used.
var (
	// ErrEncoderUnavailable indicates the model failed to load or failed to encode.
	ErrEncoderUnavailable = errors.New("encoder unavailable")

	// ErrUnknownModel indicates the model identifier is not recognized.
	ErrUnknownModel = errors.New("unknown embedding model")
)
