// Package storage persists scored documents and serves ranking, search,
// statistics, and export queries over them.
package storage

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/matsen/semrank/internal/document"
)

// CurrentSnapshotVersion is the format version for compatibility checking.
// Increment this when making breaking changes to the snapshot format.
const CurrentSnapshotVersion = 1

// Snapshot is the complete persisted state of a store.
type Snapshot struct {
	Version   int                 `json:"version"`
	NextID    int                 `json:"next_id"` // Next identifier to assign; never decreases
	Documents []document.Document `json:"documents"`
}

// NewSnapshot returns an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Version:   CurrentSnapshotVersion,
		NextID:    1,
		Documents: []document.Document{},
	}
}

// ReadSnapshot reads and validates a snapshot file.
// A missing file yields an empty snapshot. Unknown fields, trailing data, and
// any record that violates the document invariants are reported as ErrCorrupt;
// nothing is repaired.
func ReadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewSnapshot(), nil
		}
		return nil, &PersistenceError{Op: "load", Path: path, Err: err}
	}

	snap, err := decodeSnapshot(data)
	if err != nil {
		return nil, &PersistenceError{Op: "load", Path: path, Err: err}
	}
	return snap, nil
}

func decodeSnapshot(data []byte) (*Snapshot, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var snap Snapshot
	if err := dec.Decode(&snap); err != nil {
		return nil, fmt.Errorf("%w: parsing: %v", ErrCorrupt, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: unexpected data after snapshot", ErrCorrupt)
	}

	if err := snap.Validate(); err != nil {
		return nil, err
	}
	if snap.Documents == nil {
		snap.Documents = []document.Document{}
	}
	return &snap, nil
}

// Validate checks the snapshot header and every record (fail-fast).
func (s *Snapshot) Validate() error {
	if s.Version != CurrentSnapshotVersion {
		return fmt.Errorf("%w: unsupported version %d (want %d)", ErrCorrupt, s.Version, CurrentSnapshotVersion)
	}
	if s.NextID < 1 {
		return fmt.Errorf("%w: next_id must be positive, got %d", ErrCorrupt, s.NextID)
	}

	seen := make(map[int]bool, len(s.Documents))
	for i, doc := range s.Documents {
		if err := validateStored(doc, s.NextID); err != nil {
			return fmt.Errorf("%w: invalid document at index %d: %v", ErrCorrupt, i, err)
		}
		if seen[doc.ID] {
			return fmt.Errorf("%w: duplicate document id %d", ErrCorrupt, doc.ID)
		}
		seen[doc.ID] = true
	}
	return nil
}

// validateStored checks the invariants a persisted record must satisfy.
func validateStored(doc document.Document, nextID int) error {
	switch {
	case doc.ID < 1:
		return fmt.Errorf("id must be positive, got %d", doc.ID)
	case doc.ID >= nextID:
		return fmt.Errorf("id %d not below next_id %d", doc.ID, nextID)
	case doc.Title == "":
		return fmt.Errorf("document %d has no title", doc.ID)
	case math.IsNaN(doc.Score) || doc.Score < 0 || doc.Score > 1:
		return fmt.Errorf("document %d score %v outside [0,1]", doc.ID, doc.Score)
	case doc.Category != document.CategoryFor(doc.Score):
		return fmt.Errorf("document %d category %q does not match score %v", doc.ID, doc.Category, doc.Score)
	case !doc.Status.Valid():
		return fmt.Errorf("document %d has invalid status %q", doc.ID, doc.Status)
	case doc.Status != document.StatusRelevant && doc.HasEmbedding():
		return fmt.Errorf("document %d is %s but carries an embedding", doc.ID, doc.Status)
	case doc.HasEmbedding() && doc.VectorModel() == "":
		return fmt.Errorf("document %d has an embedding without a model", doc.ID)
	case doc.EmbeddingModel != "" && !doc.HasEmbedding():
		return fmt.Errorf("document %d has an embedding model but no embedding", doc.ID)
	case doc.CreatedAt.IsZero():
		return fmt.Errorf("document %d has no creation time", doc.ID)
	}
	return nil
}

// Fingerprint returns a SHA-256 digest of the snapshot's encoded content.
// Any change to a document or to NextID yields a different value.
func (s *Snapshot) Fingerprint() (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("encoding snapshot: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// WriteSnapshot writes a complete snapshot to a temp file in the same
// directory, syncs it, then renames it over path. Readers see either the old
// snapshot or the new one, never a partial write.
func WriteSnapshot(path string, snap *Snapshot) error {
	if err := writeAtomic(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(snap)
	}); err != nil {
		return &PersistenceError{Op: "save", Path: path, Err: err}
	}
	return nil
}

// writeAtomic streams content into a temp file and renames it into place.
func writeAtomic(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := f.Name()

	if err := write(f); err != nil {
		f.Close()
		os.Remove(tempPath)
		return fmt.Errorf("encoding: %w", err)
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tempPath)
		return fmt.Errorf("syncing temp file: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("closing file: %w", err)
	}

	if err := os.Chmod(tempPath, 0644); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("setting permissions: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}
