package export

import (
	"bufio"
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/matsen/semrank/internal/document"
)

func sampleDocs() []document.Document {
	return []document.Document{
		{ID: 2, Title: "B-tree variants", Score: 0.9, Category: document.CategoryHighly,
			Status: document.StatusRelevant, Model: "hash", Embedding: []float32{0.6, 0.8}},
		{ID: 1, Title: "Garden soil", Score: 0.1, Category: document.CategoryLow,
			Status: document.StatusDiscarded},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"JSONL", FormatJSONL, false},
		{"ndjson", FormatJSONL, false},
		{"bibtex", FormatBibTeX, false},
		{" bib ", FormatBibTeX, false},
		{"csv", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatExtension(t *testing.T) {
	if got := FormatBibTeX.Extension(); got != ".bib" {
		t.Errorf("FormatBibTeX.Extension() = %q, want .bib", got)
	}
	if got := FormatJSONL.Extension(); got != ".jsonl" {
		t.Errorf("FormatJSONL.Extension() = %q, want .jsonl", got)
	}
}

func TestWrite_JSONExcludesEmbeddings(t *testing.T) {
	docs := sampleDocs()
	var buf bytes.Buffer
	if err := Write(&buf, docs, FormatJSON, false); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var got []document.Document
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not a JSON array: %v\n%s", err, buf.String())
	}
	if len(got) != 2 || got[0].ID != 2 || got[1].ID != 1 {
		t.Fatalf("Write() order = %+v, want ids [2 1]", got)
	}
	if got[0].HasEmbedding() {
		t.Error("Write() included an embedding without includeEmbeddings")
	}
	if !docs[0].HasEmbedding() {
		t.Error("Write() modified the caller's documents")
	}
}

func TestWrite_JSONIncludesEmbeddings(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleDocs(), FormatJSON, true); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !strings.Contains(buf.String(), `"embedding"`) {
		t.Errorf("Write() should include embeddings when requested, got:\n%s", buf.String())
	}
}

func TestWrite_JSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, nil, FormatJSON, false); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("Write(nil) = %q, want []", buf.String())
	}
}

func TestWrite_JSONL(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleDocs(), FormatJSONL, false); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	scanner := bufio.NewScanner(&buf)
	var ids []int
	for scanner.Scan() {
		var doc document.Document
		if err := json.Unmarshal(scanner.Bytes(), &doc); err != nil {
			t.Fatalf("line is not a JSON object: %v", err)
		}
		ids = append(ids, doc.ID)
	}
	if len(ids) != 2 || ids[0] != 2 || ids[1] != 1 {
		t.Errorf("JSONL ids = %v, want [2 1]", ids)
	}
}

func TestWrite_BibTeX(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleDocs(), FormatBibTeX, false); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !strings.HasPrefix(buf.String(), "@misc{semrank2,") {
		t.Errorf("BibTeX export should start with the first document, got:\n%s", buf.String())
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleDocs(), Format("xml"), false); err == nil {
		t.Error("Write() with unknown format should fail")
	}
}
