// Package pdf extracts a title and abstract from a local PDF so it can be
// scored like any other document.
package pdf

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	// DefaultMaxPages is how many leading pages are read for title and abstract.
	DefaultMaxPages = 2

	// MaxAbstractRunes caps the abstract taken from running text.
	MaxAbstractRunes = 3000

	// minTitleLength skips running headers, page numbers, and author initials.
	minTitleLength = 20
)

// Extracted is the text pulled from the front of a PDF.
type Extracted struct {
	Title    string `json:"title"`
	Abstract string `json:"abstract"`
	// AbstractFound is false when no "Abstract" heading was seen and the
	// abstract is the text following the title instead.
	AbstractFound bool `json:"abstract_found"`
	Pages         int  `json:"pages"`
}

// abstractHeading matches a line that opens the abstract, with or without
// text after it on the same line.
var abstractHeading = regexp.MustCompile(`(?i)^\s*abstract\b[\s.:\-—]*`)

// sectionHeading matches the first heading after an abstract.
var sectionHeading = regexp.MustCompile(`(?i)^\s*((\d+|I)\.?\s+)?(introduction|background|keywords|index terms|key words)\b`)

// ExtractDocument reads the first pages of a PDF and returns its title and abstract.
func ExtractDocument(filePath string, maxPages int) (*Extracted, error) {
	if _, err := os.Stat(filePath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("PDF file does not exist: %s", filePath)
		}
		return nil, fmt.Errorf("checking PDF file: %w", err)
	}

	text, pages, err := ExtractText(filePath, maxPages)
	if err != nil {
		return nil, fmt.Errorf("reading PDF: %w", err)
	}

	ex := ParseFrontMatter(text)
	ex.Pages = pages
	if ex.Title == "" {
		return nil, fmt.Errorf("no title found in %s", filePath)
	}
	return ex, nil
}

// ExtractText extracts all text from the first N pages of a PDF.
// It returns the text and the number of pages read.
func ExtractText(filePath string, maxPages int) (string, int, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	return readPages(r, maxPages)
}

// ExtractTextReader extracts text from a PDF reader.
func ExtractTextReader(r io.ReaderAt, size int64, maxPages int) (string, int, error) {
	pdfReader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", 0, err
	}
	return readPages(pdfReader, maxPages)
}

func readPages(r *pdf.Reader, maxPages int) (string, int, error) {
	if maxPages <= 0 || maxPages > r.NumPage() {
		maxPages = r.NumPage()
	}

	var builder strings.Builder
	for i := 1; i <= maxPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}

	return builder.String(), maxPages, nil
}

// ParseFrontMatter finds the title and abstract in extracted text.
// The title is the first substantial line that is not a running header.
// The abstract runs from an "Abstract" heading to the next section heading.
// Without such a heading it falls back to the text after the title.
func ParseFrontMatter(text string) *Extracted {
	lines := strings.Split(text, "\n")
	ex := &Extracted{}

	titleIdx := -1
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if len(line) > minTitleLength && !isHeaderLine(line) && !abstractHeading.MatchString(line) {
			ex.Title = line
			titleIdx = i
			break
		}
	}

	start := -1
	for i, line := range lines {
		if loc := abstractHeading.FindStringIndex(line); loc != nil {
			rest := strings.TrimSpace(line[loc[1]:])
			lines[i] = rest
			start = i
			ex.AbstractFound = true
			break
		}
	}
	if start < 0 {
		start = titleIdx + 1
	}
	if start < 0 || start >= len(lines) {
		return ex
	}

	var parts []string
	for _, line := range lines[start:] {
		if sectionHeading.MatchString(line) {
			break
		}
		if line = strings.TrimSpace(line); line != "" {
			parts = append(parts, line)
		}
	}
	ex.Abstract = truncateRunes(joinHyphenated(parts), MaxAbstractRunes)
	return ex
}

// joinHyphenated joins wrapped lines, removing end-of-line hyphenation.
func joinHyphenated(lines []string) string {
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			prev := lines[i-1]
			if strings.HasSuffix(prev, "-") && len(prev) > 1 {
				// Hyphen already written; drop it and join directly
				s := b.String()
				b.Reset()
				b.WriteString(s[:len(s)-1])
			} else {
				b.WriteString(" ")
			}
		}
		b.WriteString(line)
	}
	return b.String()
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimSpace(string(runes[:max]))
}

// isHeaderLine checks if a line is likely a header/footer.
func isHeaderLine(line string) bool {
	lower := strings.ToLower(line)
	// Common header patterns
	if strings.Contains(lower, "journal") {
		return true
	}
	if strings.Contains(lower, "volume") && strings.Contains(lower, "issue") {
		return true
	}
	if strings.Contains(lower, "copyright") || strings.Contains(lower, "arxiv:") {
		return true
	}
	if strings.Contains(lower, "article") && strings.Contains(lower, "published") {
		return true
	}
	if strings.HasPrefix(lower, "preprint") || strings.HasPrefix(lower, "proceedings") {
		return true
	}
	return false
}
