package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matsen/semrank/internal/clipboard"
	"github.com/matsen/semrank/internal/document"
	"github.com/matsen/semrank/internal/pdf"
	"github.com/matsen/semrank/internal/relevance"
)

// storeMode is what add and batch do with a scored document.
type storeMode string

const (
	storeRelevant  storeMode = "relevant"
	storeDiscarded storeMode = "discarded"
	storeSuggested storeMode = "suggested"
	storeNone      storeMode = "none"
)

// parseStoreMode validates a --store flag value.
func parseStoreMode(s string) (storeMode, error) {
	switch m := storeMode(strings.ToLower(strings.TrimSpace(s))); m {
	case storeRelevant, storeDiscarded, storeSuggested, storeNone:
		return m, nil
	}
	return "", fmt.Errorf("invalid --store value %q (valid: relevant, discarded, suggested, none)", s)
}

// statusFor returns the status to store a result under, or false to skip storing.
func (m storeMode) statusFor(r relevance.Result) (document.Status, bool) {
	switch m {
	case storeRelevant:
		return document.StatusRelevant, true
	case storeDiscarded:
		return document.StatusDiscarded, true
	case storeSuggested:
		return r.Suggestion.Status, true
	}
	return "", false
}

// documentInput collects the title and abstract flags shared by score and add.
type documentInput struct {
	title        string
	abstract     string
	abstractFile string
	fromClip     bool
	pdfPath      string
}

// resolve returns the candidate described by the flags and its source label.
// A PDF supplies title and abstract unless the flags override them.
func (in documentInput) resolve() (relevance.Candidate, string, error) {
	c := relevance.Candidate{Title: in.title, Abstract: in.abstract}
	source := "manual"

	if in.abstractFile != "" {
		data, err := os.ReadFile(in.abstractFile)
		if err != nil {
			return c, "", fmt.Errorf("reading abstract file: %w", err)
		}
		c.Abstract = string(data)
	}

	if in.fromClip {
		text, err := clipboard.Paste()
		if err != nil {
			return c, "", fmt.Errorf("reading abstract from clipboard: %w", err)
		}
		c.Abstract = text
	}

	if in.pdfPath != "" {
		ex, err := pdf.ExtractDocument(in.pdfPath, pdf.DefaultMaxPages)
		if err != nil {
			return c, "", err
		}
		if c.Title == "" {
			c.Title = ex.Title
		}
		if c.Abstract == "" {
			c.Abstract = ex.Abstract
		}
		source = "pdf"
	}

	c.Title = strings.TrimSpace(c.Title)
	c.Abstract = strings.TrimSpace(c.Abstract)
	if c.Title == "" {
		return c, "", fmt.Errorf("a title is required (--title or --pdf)")
	}
	return c, source, nil
}

// readCandidates parses one JSON object per line with title and abstract.
// Blank lines are skipped; any malformed line fails the whole read.
func readCandidates(r io.Reader) ([]relevance.Candidate, error) {
	var candidates []relevance.Candidate
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		// Extra fields such as ids or authors are ignored
		var c relevance.Candidate
		if err := json.Unmarshal([]byte(line), &c); err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		c.Title = strings.TrimSpace(c.Title)
		c.Abstract = strings.TrimSpace(c.Abstract)
		if c.Title == "" {
			return nil, fmt.Errorf("line %d: title is required", lineNum)
		}
		candidates = append(candidates, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return candidates, nil
}
