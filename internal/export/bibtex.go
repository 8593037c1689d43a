// Package export serializes scored documents to JSON, JSONL, and BibTeX.
package export

import (
	"fmt"
	"strings"

	"github.com/matsen/semrank/internal/document"
)

// CitationKey returns the BibTeX key for a document.
func CitationKey(doc document.Document) string {
	return fmt.Sprintf("semrank%d", doc.ID)
}

// ToBibTeX converts a document to a BibTeX @misc entry. Relevance data goes
// into the note field so it survives import into reference managers.
func ToBibTeX(doc document.Document) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("@misc{%s,\n", CitationKey(doc)))

	// Title
	b.WriteString(fmt.Sprintf("  title = {%s},\n", escapeLatex(doc.Title)))

	// Year of scoring
	if !doc.CreatedAt.IsZero() {
		b.WriteString(fmt.Sprintf("  year = {%d},\n", doc.CreatedAt.Year()))
	}

	// Relevance
	b.WriteString(fmt.Sprintf("  note = {Relevance %.1f\\%%, %s, %s},\n",
		doc.Score*100, doc.Category, doc.Status))
	b.WriteString(fmt.Sprintf("  keywords = {%s},\n", doc.Status))

	// Abstract (optional, if present)
	if doc.Abstract != "" {
		b.WriteString(fmt.Sprintf("  abstract = {%s},\n", escapeLatex(doc.Abstract)))
	}

	b.WriteString("}\n")

	return b.String()
}

// ToBibTeXList converts multiple documents to BibTeX format.
func ToBibTeXList(docs []document.Document) string {
	var entries []string
	for _, doc := range docs {
		entries = append(entries, ToBibTeX(doc))
	}
	return strings.Join(entries, "\n")
}

// escapeLatex escapes special LaTeX characters.
func escapeLatex(s string) string {
	// Replacer makes a single pass, so inserted braces are not re-escaped
	replacer := strings.NewReplacer(
		`\`, `\textbackslash{}`,
		"&", `\&`,
		"%", `\%`,
		"$", `\$`,
		"#", `\#`,
		"_", `\_`,
		"{", `\{`,
		"}", `\}`,
		"~", `\textasciitilde{}`,
		"^", `\textasciicircum{}`,
	)
	return replacer.Replace(s)
}
