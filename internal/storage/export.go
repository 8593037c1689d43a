package storage

import (
	"fmt"
	"io"

	"github.com/matsen/semrank/internal/document"
	"github.com/matsen/semrank/internal/export"
)

// ExportOptions selects what an export contains.
type ExportOptions struct {
	Format            export.Format
	Status            *document.Status // nil exports every document
	IncludeEmbeddings bool
}

// Export writes the selected documents to w in relevance order.
func (s *Store) Export(w io.Writer, opts ExportOptions) (int, error) {
	docs, err := s.exportDocs(opts)
	if err != nil {
		return 0, err
	}
	if err := export.Write(w, docs, opts.Format, opts.IncludeEmbeddings); err != nil {
		return 0, fmt.Errorf("writing export: %w", err)
	}
	return len(docs), nil
}

// ExportFile writes the selected documents to path atomically.
// On failure the destination is left as it was.
func (s *Store) ExportFile(path string, opts ExportOptions) (int, error) {
	docs, err := s.exportDocs(opts)
	if err != nil {
		return 0, err
	}
	if err := writeAtomic(path, func(w io.Writer) error {
		return export.Write(w, docs, opts.Format, opts.IncludeEmbeddings)
	}); err != nil {
		return 0, &PersistenceError{Op: "export", Path: path, Err: err}
	}
	return len(docs), nil
}

func (s *Store) exportDocs(opts ExportOptions) ([]document.Document, error) {
	switch opts.Format {
	case export.FormatJSON, export.FormatJSONL, export.FormatBibTeX:
	default:
		return nil, fmt.Errorf("%w: unknown export format %q", ErrInvalidInput, opts.Format)
	}
	if opts.Status != nil && !opts.Status.Valid() {
		return nil, fmt.Errorf("%w: invalid status %q", ErrInvalidInput, *opts.Status)
	}
	return s.ListByRelevance(opts.Status), nil
}
