package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matsen/semrank/internal/document"
	"github.com/matsen/semrank/internal/export"
)

func populatedStore(t *testing.T) *Store {
	t.Helper()
	s := newTestStore(t)

	rel := newDoc("Relevant paper", 0.8, document.StatusRelevant)
	rel.Embedding = []float32{0.6, 0.8}
	mustInsert(t, s, rel)
	mustInsert(t, s, newDoc("Discarded paper", 0.2, document.StatusDiscarded))
	mustInsert(t, s, newDoc("Top paper", 0.9, document.StatusRelevant))
	return s
}

func decodeExport(t *testing.T, data []byte) []document.Document {
	t.Helper()
	var docs []document.Document
	if err := json.Unmarshal(data, &docs); err != nil {
		t.Fatalf("export is not a JSON array: %v\n%s", err, data)
	}
	return docs
}

func TestExport_JSONRankedOrder(t *testing.T) {
	s := populatedStore(t)

	var buf bytes.Buffer
	n, err := s.Export(&buf, ExportOptions{Format: export.FormatJSON})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if n != 3 {
		t.Errorf("Export() count = %d, want 3", n)
	}

	docs := decodeExport(t, buf.Bytes())
	if got := ids(docs); !equalInts(got, []int{3, 1, 2}) {
		t.Errorf("export order = %v, want [3 1 2]", got)
	}
	for _, d := range docs {
		if d.HasEmbedding() {
			t.Errorf("document %d exported with embedding", d.ID)
		}
	}
}

func TestExport_StatusFilterAndEmbeddings(t *testing.T) {
	s := populatedStore(t)
	relevant := document.StatusRelevant

	var buf bytes.Buffer
	if _, err := s.Export(&buf, ExportOptions{
		Format:            export.FormatJSON,
		Status:            &relevant,
		IncludeEmbeddings: true,
	}); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	docs := decodeExport(t, buf.Bytes())
	if got := ids(docs); !equalInts(got, []int{3, 1}) {
		t.Errorf("export ids = %v, want [3 1]", got)
	}
	if !docs[1].HasEmbedding() {
		t.Error("IncludeEmbeddings should keep stored embeddings")
	}
}

func TestExport_InvalidOptions(t *testing.T) {
	s := populatedStore(t)
	bad := document.Status("archived")

	var buf bytes.Buffer
	if _, err := s.Export(&buf, ExportOptions{Format: "xml"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Export(xml) error = %v, want ErrInvalidInput", err)
	}
	if _, err := s.Export(&buf, ExportOptions{Format: export.FormatJSON, Status: &bad}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Export(bad status) error = %v, want ErrInvalidInput", err)
	}
}

func TestExportFile(t *testing.T) {
	s := populatedStore(t)
	path := filepath.Join(t.TempDir(), "out.bib")

	n, err := s.ExportFile(path, ExportOptions{Format: export.FormatBibTeX})
	if err != nil {
		t.Fatalf("ExportFile() error = %v", err)
	}
	if n != 3 {
		t.Errorf("ExportFile() count = %d, want 3", n)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "@misc{semrank3,") {
		t.Errorf("BibTeX export should start with the top document, got:\n%s", data)
	}
}

func TestExportFile_UnwritablePath(t *testing.T) {
	s := populatedStore(t)
	path := filepath.Join(t.TempDir(), "no", "such", "dir", "out.json")

	_, err := s.ExportFile(path, ExportOptions{Format: export.FormatJSON})
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("ExportFile() error = %v, want ErrPersistence", err)
	}
	var perr *PersistenceError
	if !errors.As(err, &perr) || perr.Op != "export" {
		t.Errorf("error = %#v, want *PersistenceError with op export", err)
	}
}

func TestExportFile_EmptyStore(t *testing.T) {
	s := newTestStore(t)
	path := filepath.Join(t.TempDir(), "out.json")

	if _, err := s.ExportFile(path, ExportOptions{Format: export.FormatJSON}); err != nil {
		t.Fatalf("ExportFile() error = %v", err)
	}
	data, _ := os.ReadFile(path)
	if strings.TrimSpace(string(data)) != "[]" {
		t.Errorf("empty export = %q, want []", data)
	}
}
