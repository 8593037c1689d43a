package pdf

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseFrontMatter_WithAbstractHeading(t *testing.T) {
	text := strings.Join([]string{
		"Journal of Database Systems, Volume 12, Issue 3",
		"Write-Optimized B-Trees for Modern Storage",
		"A. Author, B. Author",
		"Abstract",
		"We present a B-tree variant that batches",
		"updates in buffers, reducing write ampli-",
		"fication on flash storage.",
		"1 Introduction",
		"B-trees are everywhere.",
	}, "\n")

	got := ParseFrontMatter(text)

	if got.Title != "Write-Optimized B-Trees for Modern Storage" {
		t.Errorf("Title = %q", got.Title)
	}
	if !got.AbstractFound {
		t.Error("AbstractFound = false, want true")
	}
	want := "We present a B-tree variant that batches updates in buffers, reducing write amplification on flash storage."
	if got.Abstract != want {
		t.Errorf("Abstract = %q, want %q", got.Abstract, want)
	}
}

func TestParseFrontMatter_InlineAbstract(t *testing.T) {
	text := "Learned Index Structures Revisited\nAbstract. Indexes are models.\nKeywords: learned indexes"

	got := ParseFrontMatter(text)

	if got.Abstract != "Indexes are models." {
		t.Errorf("Abstract = %q, want %q", got.Abstract, "Indexes are models.")
	}
}

func TestParseFrontMatter_NoHeadingFallsBack(t *testing.T) {
	text := "Cache-Oblivious Search Trees in Practice\nThe text right after the title.\nMore text."

	got := ParseFrontMatter(text)

	if got.AbstractFound {
		t.Error("AbstractFound = true, want false")
	}
	if got.Abstract != "The text right after the title. More text." {
		t.Errorf("Abstract = %q", got.Abstract)
	}
}

func TestParseFrontMatter_Empty(t *testing.T) {
	got := ParseFrontMatter("")
	if got.Title != "" || got.Abstract != "" {
		t.Errorf("ParseFrontMatter(\"\") = %+v, want empty", got)
	}
}

func TestParseFrontMatter_AbstractCapped(t *testing.T) {
	long := strings.Repeat("word ", MaxAbstractRunes)
	got := ParseFrontMatter("A Sufficiently Long Paper Title\nAbstract\n" + long)

	if n := len([]rune(got.Abstract)); n > MaxAbstractRunes {
		t.Errorf("abstract has %d runes, want at most %d", n, MaxAbstractRunes)
	}
}

func TestIsHeaderLine(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"Journal of Machine Learning Research", true},
		{"Volume 5, Issue 2", true},
		{"Copyright 2026 the authors", true},
		{"arXiv:2401.00001v2 [cs.DB] 3 Jan 2024", true},
		{"Preprint. Under review.", true},
		{"Write-Optimized B-Trees", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			if got := isHeaderLine(tt.line); got != tt.want {
				t.Errorf("isHeaderLine(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestJoinHyphenated(t *testing.T) {
	got := joinHyphenated([]string{"write ampli-", "fication and", "self-tuning"})
	want := "write amplification and self-tuning"
	if got != want {
		t.Errorf("joinHyphenated() = %q, want %q", got, want)
	}
}

func TestExtractDocument_MissingFile(t *testing.T) {
	_, err := ExtractDocument(filepath.Join(t.TempDir(), "missing.pdf"), DefaultMaxPages)
	if err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("ExtractDocument(missing) error = %v, want does not exist", err)
	}
}

func TestExtractDocument_NotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.pdf")
	if err := os.WriteFile(path, []byte("plain text, not a PDF"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ExtractDocument(path, DefaultMaxPages); err == nil {
		t.Error("ExtractDocument(non-PDF) should fail")
	}
}
