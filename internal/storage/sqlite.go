package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/matsen/semrank/internal/document"
)

// DB is a SQLite query mirror of the snapshot. The snapshot stays the
// source of truth; the mirror is rebuilt from it and never written back.
type DB struct {
	db *sql.DB
}

// selectDocFields contains the standard field list for SELECT queries.
const selectDocFields = `id, title, abstract, relevance_score, category, status,
	created_at, updated_at, model, source`

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// createSchema creates the database schema if it doesn't exist.
func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS documents (
			id INTEGER PRIMARY KEY,
			title TEXT NOT NULL,
			abstract TEXT NOT NULL,
			relevance_score REAL NOT NULL,
			category TEXT NOT NULL,
			status TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT,
			model TEXT,
			source TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_documents_rank ON documents(relevance_score DESC, id ASC);
		CREATE INDEX IF NOT EXISTS idx_documents_status ON documents(status);

		-- Full-text search virtual table (standalone, not external content)
		CREATE VIRTUAL TABLE IF NOT EXISTS documents_fts USING fts5(
			doc_id UNINDEXED,
			title,
			abstract
		);

		-- Fingerprint of the snapshot the mirror was built from
		CREATE TABLE IF NOT EXISTS mirror_meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`

	_, err := db.Exec(schema)
	return err
}

// RebuildFromStore clears the mirror and reloads it from the store.
func (d *DB) RebuildFromStore(s *Store) (int, error) {
	return d.Rebuild(s.All(), s.NextID())
}

// Rebuild replaces the mirror contents with docs in a single transaction
// and records the fingerprint of the snapshot they form.
func (d *DB) Rebuild(docs []document.Document, nextID int) (int, error) {
	snap := &Snapshot{Version: CurrentSnapshotVersion, NextID: nextID, Documents: docs}
	if docs == nil {
		snap.Documents = []document.Document{}
	}
	fingerprint, err := snap.Fingerprint()
	if err != nil {
		return 0, err
	}

	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"documents", "documents_fts", "mirror_meta"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return 0, fmt.Errorf("clearing %s table: %w", table, err)
		}
	}

	docStmt, err := tx.Prepare(`
		INSERT INTO documents (
			id, title, abstract, relevance_score, category, status,
			created_at, updated_at, model, source
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing documents insert: %w", err)
	}
	defer docStmt.Close()

	ftsStmt, err := tx.Prepare(`INSERT INTO documents_fts (doc_id, title, abstract) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing fts insert: %w", err)
	}
	defer ftsStmt.Close()

	for _, doc := range docs {
		var updatedAt sql.NullString
		if doc.UpdatedAt != nil {
			updatedAt = sql.NullString{String: doc.UpdatedAt.Format(time.RFC3339Nano), Valid: true}
		}

		_, err = docStmt.Exec(
			doc.ID, doc.Title, doc.Abstract, doc.Score, string(doc.Category), string(doc.Status),
			doc.CreatedAt.Format(time.RFC3339Nano), updatedAt,
			nullableStringValue(doc.Model), nullableStringValue(doc.Source),
		)
		if err != nil {
			return 0, fmt.Errorf("inserting document %d: %w", doc.ID, err)
		}

		if _, err := ftsStmt.Exec(doc.ID, doc.Title, doc.Abstract); err != nil {
			return 0, fmt.Errorf("inserting fts for %d: %w", doc.ID, err)
		}
	}

	if _, err := tx.Exec(`INSERT INTO mirror_meta (key, value) VALUES ('fingerprint', ?)`,
		fingerprint); err != nil {
		return 0, fmt.Errorf("recording fingerprint: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing rebuild: %w", err)
	}
	return len(docs), nil
}

// IsStale reports whether the mirror was built from a snapshot other than
// the one with the given fingerprint.
func (d *DB) IsStale(fingerprint string) (bool, error) {
	var built string
	err := d.db.QueryRow(`SELECT value FROM mirror_meta WHERE key = 'fingerprint'`).Scan(&built)
	if err == sql.ErrNoRows {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return built != fingerprint, nil
}

// SearchFTS performs a full-text search over titles and abstracts.
// Matches are returned in relevance order rather than FTS rank.
func (d *DB) SearchFTS(query string, limit int) ([]document.Document, error) {
	ftsQuery := prepareFTSQuery(query)
	if ftsQuery == "" {
		return nil, fmt.Errorf("%w: search query is empty", ErrInvalidInput)
	}

	q := `
		SELECT ` + selectDocFields + `
		FROM documents
		WHERE id IN (SELECT CAST(doc_id AS INTEGER) FROM documents_fts WHERE documents_fts MATCH ?)
		ORDER BY relevance_score DESC, id ASC`
	args := []interface{}{ftsQuery}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := d.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	defer rows.Close()

	return scanDocuments(rows)
}

func scanDocument(s *sql.Rows) (*document.Document, error) {
	var doc document.Document
	var category, status, createdAt string
	var updatedAt, model, source sql.NullString

	err := s.Scan(
		&doc.ID, &doc.Title, &doc.Abstract, &doc.Score, &category, &status,
		&createdAt, &updatedAt, &model, &source,
	)
	if err != nil {
		return nil, err
	}

	doc.Category = document.Category(category)
	doc.Status = document.Status(status)
	doc.Model = model.String
	doc.Source = source.String

	doc.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at for %d: %w", doc.ID, err)
	}
	if updatedAt.Valid {
		t, err := time.Parse(time.RFC3339Nano, updatedAt.String)
		if err != nil {
			return nil, fmt.Errorf("parsing updated_at for %d: %w", doc.ID, err)
		}
		doc.UpdatedAt = &t
	}

	return &doc, nil
}

func scanDocuments(rows *sql.Rows) ([]document.Document, error) {
	docs := []document.Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, rows.Err()
}

// nullableStringValue converts a string to sql.NullString, treating empty as NULL.
func nullableStringValue(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// prepareFTSQuery escapes special characters for FTS5 queries.
func prepareFTSQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	// FTS5 uses double quotes for phrase matching
	if strings.ContainsAny(query, "\"*+-:(){}[]^~.,/'") {
		query = strings.ReplaceAll(query, "\"", "\"\"")
		return "\"" + query + "\""
	}

	return query
}
