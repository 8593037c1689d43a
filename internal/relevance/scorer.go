package relevance

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/matsen/semrank/internal/document"
	"github.com/matsen/semrank/internal/embedding"
	"github.com/matsen/semrank/internal/semantic"
)

// StoreThreshold is the score at or above which storing as relevant is suggested.
// It only drives the suggestion; callers may store any document with any status.
const StoreThreshold = 0.30

// Result is the outcome of scoring one document.
type Result struct {
	Title          string            `json:"title"`
	AbstractLength int               `json:"abstract_length"`
	Similarity     float64           `json:"similarity"` // Raw cosine similarity in [-1,1]
	Score          float64           `json:"relevance_score"`
	Category       document.Category `json:"category"`
	Model          string            `json:"model"`
	Suggestion     Suggestion        `json:"suggestion"`
	Abstract       string            `json:"-"`
	Vector         []float32         `json:"-"`
}

// Suggestion is the recommended action for a scored document.
type Suggestion struct {
	Status document.Status `json:"status"`
	Advice string          `json:"advice"`
}

// Candidate is an unscored title and abstract.
type Candidate struct {
	Title    string `json:"title"`
	Abstract string `json:"abstract"`
}

// Scorer compares documents with the current research context.
// It holds the context and the encoder explicitly; nothing is global.
type Scorer struct {
	encoder *embedding.Encoder
	context *Context
}

// NewScorer creates a scorer with no context loaded.
func NewScorer(enc *embedding.Encoder) *Scorer {
	return &Scorer{encoder: enc}
}

// Encoder returns the scorer's encoder.
func (s *Scorer) Encoder() *embedding.Encoder {
	return s.encoder
}

// Context returns the current context, or nil before the first load.
func (s *Scorer) Context() *Context {
	return s.context
}

// SetContext replaces the context. It must match the active model.
func (s *Scorer) SetContext(c *Context) error {
	if c == nil {
		return ErrContextNotLoaded
	}
	if !c.Matches(s.encoder) {
		return fmt.Errorf("%w: context model %s (%d dims), encoder %s (%d dims)",
			ErrContextStale, c.Model, c.Dimensions(), s.encoder.ModelName(), s.encoder.Dimensions())
	}
	s.context = c
	return nil
}

// LoadContext reads and embeds a context file, replacing the current context
// only when both steps succeed.
func (s *Scorer) LoadContext(ctx context.Context, path string) error {
	c, err := LoadContext(ctx, path, s.encoder)
	if err != nil {
		return err
	}
	s.context = c
	return nil
}

// SwitchModel activates another model and re-embeds the current context with it.
// The new model and the new context vector are committed together; on any
// failure the previous model and context stay in place.
func (s *Scorer) SwitchModel(ctx context.Context, id string) error {
	provider, err := s.encoder.Load(ctx, id)
	if err != nil {
		return err
	}

	var next *Context
	if s.context != nil {
		emb, err := provider.Embed(ctx, s.context.Text)
		if err != nil {
			return fmt.Errorf("%w: re-embedding context with %s: %w", embedding.ErrEncoderUnavailable, provider.ModelName(), err)
		}
		c := *s.context
		c.Model = provider.ModelName()
		c.Vector = emb.Vector
		next = &c
	}

	s.encoder.Use(provider)
	s.context = next
	return nil
}

// JoinText builds the text encoded for a document: the trimmed title, a blank
// line, then the trimmed abstract. The separator is kept even when the abstract
// is empty so that framing never depends on the input.
func JoinText(title, abstract string) string {
	return strings.TrimSpace(title) + "\n\n" + strings.TrimSpace(abstract)
}

// Score computes the relevance of a document to the current context.
// It has no side effects.
func (s *Scorer) Score(ctx context.Context, title, abstract string) (Result, error) {
	if s.context == nil {
		return Result{}, ErrContextNotLoaded
	}
	if !s.context.Matches(s.encoder) {
		return Result{}, fmt.Errorf("%w: context model %s, encoder %s", ErrContextStale, s.context.Model, s.encoder.ModelName())
	}

	emb, err := s.encoder.Encode(ctx, JoinText(title, abstract))
	if err != nil {
		return Result{}, err
	}

	sim, err := semantic.Compare(s.context.Vector, emb.Vector)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrContextStale, err)
	}

	score := semantic.Clamp(sim)
	category := document.CategoryFor(score)
	return Result{
		Title:          title,
		AbstractLength: len([]rune(abstract)),
		Similarity:     sim,
		Score:          score,
		Category:       category,
		Model:          s.encoder.ModelName(),
		Suggestion:     Suggest(score),
		Abstract:       abstract,
		Vector:         emb.Vector,
	}, nil
}

// ScoreBatch scores candidates and returns results by descending score.
// Equal scores keep input order.
func (s *Scorer) ScoreBatch(ctx context.Context, candidates []Candidate) ([]Result, error) {
	results := make([]Result, 0, len(candidates))
	for i, c := range candidates {
		r, err := s.Score(ctx, c.Title, c.Abstract)
		if err != nil {
			return nil, fmt.Errorf("scoring candidate %d: %w", i+1, err)
		}
		results = append(results, r)
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results, nil
}

// Suggest returns the recommended status and advice for a score.
func Suggest(score float64) Suggestion {
	status := document.StatusDiscarded
	if score >= StoreThreshold {
		status = document.StatusRelevant
	}

	var advice string
	switch document.CategoryFor(score) {
	case document.CategoryHighly:
		advice = "Highly relevant to your research; read this paper."
	case document.CategoryModerately:
		advice = "Moderately relevant; consider reading if you have time."
	case document.CategorySomewhat:
		advice = "Some relevance; skim for potentially useful insights."
	default:
		advice = "Low relevance; you can safely skip this paper."
	}
	return Suggestion{Status: status, Advice: advice}
}
