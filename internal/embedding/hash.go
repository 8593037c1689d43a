package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"strconv"
	"strings"
	"unicode"
)

const (
	// HashModelPrefix names the local feature-hashing model family.
	HashModelPrefix = "hash"

	// DefaultHashDimensions is the vector size of the "hash" model.
	DefaultHashDimensions = 256

	// bigramWeight scales adjacent-token features relative to single tokens.
	bigramWeight = 0.5
)

// HashProvider is a local, deterministic embedder based on feature hashing of
// lowercased word unigrams and bigrams. It needs no model weights, so it works
// offline. Vectors are L2-normalized; text without words yields a zero vector.
type HashProvider struct {
	dimensions int
}

// NewHashProvider creates a feature-hashing provider with the given dimensions.
func NewHashProvider(dims int) *HashProvider {
	if dims <= 0 {
		dims = DefaultHashDimensions
	}
	return &HashProvider{dimensions: dims}
}

// Embed generates an embedding for the given text.
func (p *HashProvider) Embed(ctx context.Context, text string) (Embedding, error) {
	if err := ctx.Err(); err != nil {
		return Embedding{}, err
	}

	vec := make([]float64, p.dimensions)
	tokens := tokenize(text)
	for i, tok := range tokens {
		p.add(vec, tok, 1)
		if i > 0 {
			p.add(vec, tokens[i-1]+" "+tok, bigramWeight)
		}
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	out := make([]float32, p.dimensions)
	if norm == 0 {
		return Embedding{Vector: out}, nil
	}
	norm = math.Sqrt(norm)
	for i, v := range vec {
		out[i] = float32(v / norm)
	}
	return Embedding{Vector: out}, nil
}

// add hashes a feature into a bucket with a hash-derived sign.
func (p *HashProvider) add(vec []float64, feature string, weight float64) {
	h := fnv.New64a()
	h.Write([]byte(feature))
	sum := h.Sum64()
	bucket := int(sum % uint64(p.dimensions))
	if sum>>63 == 1 {
		weight = -weight
	}
	vec[bucket] += weight
}

// ModelName returns the name of the embedding model.
func (p *HashProvider) ModelName() string {
	if p.dimensions == DefaultHashDimensions {
		return HashModelPrefix
	}
	return HashModelPrefix + ":" + strconv.Itoa(p.dimensions)
}

// Dimensions returns the vector dimensions.
func (p *HashProvider) Dimensions() int {
	return p.dimensions
}

// tokenize splits text into lowercased words of letters and digits.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
