package storage

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/matsen/semrank/internal/document"
)

// NewDocument is the caller-supplied part of a record to insert.
// The store assigns ID and CreatedAt.
type NewDocument struct {
	Title     string `validate:"required"`
	Abstract  string
	Score     float64           `validate:"gte=0,lte=1"`
	Category  document.Category `validate:"required"`
	Status    document.Status   `validate:"required,oneof=relevant discarded"`
	Model     string            `validate:"required_with=Embedding"`
	Embedding []float32
	Source    string `validate:"omitempty,oneof=manual pdf batch"`
}

// Store holds the document collection and its snapshot file.
// It is not safe for concurrent use; a single process owns it at a time.
type Store struct {
	path     string
	nextID   int
	docs     []document.Document // ascending by ID
	validate *validator.Validate
	now      func() time.Time
}

// Open loads the store at path. A missing file yields an empty store.
func Open(path string) (*Store, error) {
	snap, err := ReadSnapshot(path)
	if err != nil {
		return nil, err
	}

	docs := append([]document.Document(nil), snap.Documents...)
	sort.SliceStable(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })

	return &Store{
		path:     path,
		nextID:   snap.NextID,
		docs:     docs,
		validate: newValidator(),
		now:      time.Now,
	}, nil
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		nd := sl.Current().Interface().(NewDocument)
		if nd.Category != "" && nd.Category != document.CategoryFor(nd.Score) {
			sl.ReportError(nd.Category, "Category", "Category", "matches_score", "")
		}
	}, NewDocument{})
	return v
}

// Path returns the snapshot file path.
func (s *Store) Path() string {
	return s.path
}

// Count returns the number of stored documents.
func (s *Store) Count() int {
	return len(s.docs)
}

// NextID returns the identifier the next insert will receive.
func (s *Store) NextID() int {
	return s.nextID
}

// Fingerprint identifies the current collection state.
func (s *Store) Fingerprint() (string, error) {
	return s.snapshot(s.docs, s.nextID).Fingerprint()
}

// Insert validates nd, assigns it the next id, and persists it.
// Title is trimmed. An empty Category is derived from Score. The embedding
// is kept only for relevant documents.
func (s *Store) Insert(nd NewDocument) (int, error) {
	nd.Title = strings.TrimSpace(nd.Title)
	if nd.Category == "" {
		nd.Category = document.CategoryFor(nd.Score)
	}
	if err := s.validate.Struct(nd); err != nil {
		return 0, invalidInput(err)
	}

	doc := document.Document{
		ID:        s.nextID,
		Title:     nd.Title,
		Abstract:  nd.Abstract,
		Score:     nd.Score,
		Category:  nd.Category,
		Status:    nd.Status,
		CreatedAt: s.now().Round(0).UTC(),
		Model:     nd.Model,
		Source:    nd.Source,
	}
	if nd.Status == document.StatusRelevant && len(nd.Embedding) > 0 {
		doc.Embedding = append([]float32(nil), nd.Embedding...)
	}

	docs := make([]document.Document, len(s.docs), len(s.docs)+1)
	copy(docs, s.docs)
	docs = append(docs, doc)

	if err := s.commit(docs, s.nextID+1); err != nil {
		return 0, err
	}
	return doc.ID, nil
}

// invalidInput converts validator errors into an ErrInvalidInput error
// naming each failing field.
func invalidInput(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", strings.ToLower(fe.Field())))
		case "matches_score":
			msgs = append(msgs, fmt.Sprintf("category %q does not match score", fe.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s fails %s=%s (got %v)", strings.ToLower(fe.Field()), fe.Tag(), fe.Param(), fe.Value()))
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(msgs, "; "))
}

// Get returns the document with the given id.
func (s *Store) Get(id int) (document.Document, error) {
	i := s.indexOf(id)
	if i < 0 {
		return document.Document{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return cloneDocument(s.docs[i]), nil
}

// All returns every document in id order.
func (s *Store) All() []document.Document {
	out := make([]document.Document, len(s.docs))
	for i, d := range s.docs {
		out[i] = cloneDocument(d)
	}
	return out
}

// ListByRelevance returns documents ranked by score descending, ties by id
// ascending. A nil status returns every document.
func (s *Store) ListByRelevance(status *document.Status) []document.Document {
	out := make([]document.Document, 0, len(s.docs))
	for _, d := range s.docs {
		if status != nil && d.Status != *status {
			continue
		}
		out = append(out, cloneDocument(d))
	}
	SortByRelevance(out)
	return out
}

// Search returns documents whose title or abstract contains query,
// case-insensitively, in relevance order. No match is an empty result.
func (s *Store) Search(query string) ([]document.Document, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, fmt.Errorf("%w: search query is empty", ErrInvalidInput)
	}

	out := []document.Document{}
	for _, d := range s.docs {
		if strings.Contains(strings.ToLower(d.Title), q) ||
			strings.Contains(strings.ToLower(d.Abstract), q) {
			out = append(out, cloneDocument(d))
		}
	}
	SortByRelevance(out)
	return out, nil
}

// UpdateStatus reclassifies a document. Moving to discarded drops its
// embedding; moving back to relevant does not restore it. Setting the
// current status again is a no-op.
func (s *Store) UpdateStatus(id int, status document.Status) (document.Document, error) {
	if !status.Valid() {
		return document.Document{}, fmt.Errorf("%w: invalid status %q", ErrInvalidInput, status)
	}
	i := s.indexOf(id)
	if i < 0 {
		return document.Document{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if s.docs[i].Status == status {
		return cloneDocument(s.docs[i]), nil
	}

	docs := make([]document.Document, len(s.docs))
	copy(docs, s.docs)

	updated := cloneDocument(docs[i])
	updated.Status = status
	now := s.now().Round(0).UTC()
	updated.UpdatedAt = &now
	if status != document.StatusRelevant {
		updated.Embedding = nil
		updated.EmbeddingModel = ""
	}
	docs[i] = updated

	if err := s.commit(docs, s.nextID); err != nil {
		return document.Document{}, err
	}
	return cloneDocument(updated), nil
}

// UpdateEmbeddings replaces the embeddings of relevant documents with vectors
// produced by model, in a single write. Model, Score, and Category keep
// describing the original scoring. Every id must name a relevant document and
// every vector must be non-empty; otherwise nothing changes.
func (s *Store) UpdateEmbeddings(model string, vectors map[int][]float32) error {
	if strings.TrimSpace(model) == "" {
		return fmt.Errorf("%w: model is required", ErrInvalidInput)
	}
	if len(vectors) == 0 {
		return nil
	}

	docs := make([]document.Document, len(s.docs))
	copy(docs, s.docs)
	for id, vec := range vectors {
		i := s.indexOf(id)
		if i < 0 {
			return fmt.Errorf("%w: %d", ErrNotFound, id)
		}
		if docs[i].Status != document.StatusRelevant {
			return fmt.Errorf("%w: document %d is %s and keeps no embedding", ErrInvalidInput, id, docs[i].Status)
		}
		if len(vec) == 0 {
			return fmt.Errorf("%w: empty embedding for document %d", ErrInvalidInput, id)
		}
		updated := cloneDocument(docs[i])
		updated.EmbeddingModel = ""
		if model != updated.Model {
			updated.EmbeddingModel = model
		}
		updated.Embedding = append([]float32(nil), vec...)
		docs[i] = updated
	}

	return s.commit(docs, s.nextID)
}

// Delete removes a document. Its id is not reused.
func (s *Store) Delete(id int) error {
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}

	docs := make([]document.Document, 0, len(s.docs)-1)
	docs = append(docs, s.docs[:i]...)
	docs = append(docs, s.docs[i+1:]...)

	return s.commit(docs, s.nextID)
}

// commit persists the new collection, then swaps it in.
// On a write failure the in-memory state is left untouched.
func (s *Store) commit(docs []document.Document, nextID int) error {
	if err := WriteSnapshot(s.path, s.snapshot(docs, nextID)); err != nil {
		return err
	}
	s.docs = docs
	s.nextID = nextID
	return nil
}

func (s *Store) snapshot(docs []document.Document, nextID int) *Snapshot {
	if docs == nil {
		docs = []document.Document{}
	}
	return &Snapshot{
		Version:   CurrentSnapshotVersion,
		NextID:    nextID,
		Documents: docs,
	}
}

func (s *Store) indexOf(id int) int {
	i := sort.Search(len(s.docs), func(i int) bool { return s.docs[i].ID >= id })
	if i < len(s.docs) && s.docs[i].ID == id {
		return i
	}
	return -1
}

// SortByRelevance orders documents by score descending, then id ascending.
func SortByRelevance(docs []document.Document) {
	sort.SliceStable(docs, func(i, j int) bool {
		if docs[i].Score != docs[j].Score {
			return docs[i].Score > docs[j].Score
		}
		return docs[i].ID < docs[j].ID
	})
}

func cloneDocument(d document.Document) document.Document {
	if d.Embedding != nil {
		d.Embedding = append([]float32(nil), d.Embedding...)
	}
	if d.UpdatedAt != nil {
		t := *d.UpdatedAt
		d.UpdatedAt = &t
	}
	return d
}
