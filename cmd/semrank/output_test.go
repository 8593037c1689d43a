package main

import (
	"testing"

	"github.com/matsen/semrank/internal/document"
)

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"short string unchanged", "hello", 10, "hello"},
		{"exact length unchanged", "hello", 5, "hello"},
		{"long string truncated", "hello world", 8, "hello..."},
		{"multibyte runes", "héllo wörld", 8, "héllo..."},
		{"empty string", "", 5, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncateString(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("truncateString(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		width  int
		indent string
		want   string
	}{
		{"fits on one line", "short text", 60, "  ", "short text"},
		{"wraps at word boundary", "aaa bbb ccc", 7, "  ", "aaa bbb\n  ccc"},
		{"every word on its own line", "alpha beta gamma", 5, "", "alpha\nbeta\ngamma"},
		{"collapses whitespace when wrapping", "one   two three", 7, "-", "one two\n-three"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := wrapText(tt.text, tt.width, tt.indent); got != tt.want {
				t.Errorf("wrapText(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
			}
		})
	}
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{0, "0.0%"},
		{0.3, "30.0%"},
		{0.4567, "45.7%"},
		{1, "100.0%"},
	}
	for _, tt := range tests {
		if got := formatPercent(tt.score); got != tt.want {
			t.Errorf("formatPercent(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestParseStatusFlag(t *testing.T) {
	tests := []struct {
		input   string
		want    *document.Status
		wantErr bool
	}{
		{"", nil, false},
		{"all", nil, false},
		{"relevant", statusPtr(document.StatusRelevant), false},
		{"discarded", statusPtr(document.StatusDiscarded), false},
		{"pending", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseStatusFlag(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseStatusFlag(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.want == nil {
				if got != nil {
					t.Errorf("parseStatusFlag(%q) = %v, want nil", tt.input, *got)
				}
				return
			}
			if got == nil || *got != *tt.want {
				t.Errorf("parseStatusFlag(%q) = %v, want %v", tt.input, got, *tt.want)
			}
		})
	}
}

func statusPtr(s document.Status) *document.Status {
	return &s
}

func TestLimitDocuments(t *testing.T) {
	docs := []document.Document{{ID: 1}, {ID: 2}, {ID: 3}}

	tests := []struct {
		limit int
		want  int
	}{
		{0, 3},
		{-1, 3},
		{2, 2},
		{3, 3},
		{10, 3},
	}
	for _, tt := range tests {
		if got := limitDocuments(docs, tt.limit); len(got) != tt.want {
			t.Errorf("limitDocuments(limit=%d) returned %d docs, want %d", tt.limit, len(got), tt.want)
		}
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"1", 1, false},
		{"42", 42, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := parseID(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseID(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestRelativeToRoot(t *testing.T) {
	tests := []struct {
		name string
		root string
		path string
		want string
	}{
		{"inside root", "/home/u/papers", "/home/u/papers/context.txt", "context.txt"},
		{"nested inside root", "/home/u/papers", "/home/u/papers/notes/ctx.txt", "notes/ctx.txt"},
		{"outside root", "/home/u/papers", "/home/u/notes/ctx.txt", "/home/u/notes/ctx.txt"},
		{"sibling with common prefix", "/home/u/papers", "/home/u/papers2/ctx.txt", "/home/u/papers2/ctx.txt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := relativeToRoot(tt.root, tt.path); got != tt.want {
				t.Errorf("relativeToRoot(%q, %q) = %q, want %q", tt.root, tt.path, got, tt.want)
			}
		})
	}
}
