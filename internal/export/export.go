package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/matsen/semrank/internal/document"
)

// Format is an export serialization.
type Format string

const (
	FormatJSON   Format = "json"
	FormatJSONL  Format = "jsonl"
	FormatBibTeX Format = "bibtex"
)

// Formats lists the supported export formats.
var Formats = []Format{FormatJSON, FormatJSONL, FormatBibTeX}

// ParseFormat converts a format name (case-insensitive, "bib" accepted) into a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "jsonl", "ndjson":
		return FormatJSONL, nil
	case "bibtex", "bib":
		return FormatBibTeX, nil
	}
	return "", fmt.Errorf("unknown export format %q (valid: json, jsonl, bibtex)", s)
}

// Extension returns the conventional file extension for the format.
func (f Format) Extension() string {
	if f == FormatBibTeX {
		return ".bib"
	}
	return "." + string(f)
}

// Write serializes docs to w in the given format, preserving their order.
// Embeddings are stripped unless includeEmbeddings is set.
func Write(w io.Writer, docs []document.Document, format Format, includeEmbeddings bool) error {
	if !includeEmbeddings {
		docs = StripEmbeddings(docs)
	}

	switch format {
	case FormatJSON:
		return ToJSON(w, docs)
	case FormatJSONL:
		return ToJSONL(w, docs)
	case FormatBibTeX:
		_, err := io.WriteString(w, ToBibTeXList(docs))
		return err
	}
	return fmt.Errorf("unknown export format %q", format)
}

// ToJSON writes docs as an indented JSON array. An empty list is written as [].
func ToJSON(w io.Writer, docs []document.Document) error {
	if docs == nil {
		docs = []document.Document{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(docs)
}

// ToJSONL writes one JSON object per line.
func ToJSONL(w io.Writer, docs []document.Document) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for i, doc := range docs {
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding document %d (line %d): %w", doc.ID, i+1, err)
		}
	}
	return nil
}

// StripEmbeddings returns copies of docs without their embedding vectors.
func StripEmbeddings(docs []document.Document) []document.Document {
	out := make([]document.Document, len(docs))
	for i, d := range docs {
		d.Embedding = nil
		d.EmbeddingModel = ""
		out[i] = d
	}
	return out
}
