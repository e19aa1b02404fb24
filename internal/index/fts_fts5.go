//go:build sqlite_fts5

package index

import (
	"database/sql"
	"fmt"
	"strings"
)

// documents_fts mirrors each document's title, flattened text and tags so
// search sees what a reader of the converted page sees, not the raw source
// or its wiki rendering.
func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS documents_fts USING fts5(
			path UNINDEXED,
			title,
			plain,
			tags,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

// ftsUpsert replaces the mirror row for path inside the document upsert tx.
func ftsUpsert(tx *sql.Tx, path, title, plain string, tags []string) error {
	if _, err := tx.Exec(`DELETE FROM documents_fts WHERE path = ?`, path); err != nil {
		return fmt.Errorf("index: clear fts row: %w", err)
	}
	_, err := tx.Exec(`INSERT INTO documents_fts (path, title, plain, tags) VALUES (?, ?, ?, ?)`,
		path, title, plain, strings.Join(tags, " "))
	if err != nil {
		return fmt.Errorf("index: upsert fts: %w", err)
	}
	return nil
}

func ftsDelete(tx *sql.Tx, path string) {
	_, _ = tx.Exec(`DELETE FROM documents_fts WHERE path = ?`, path)
}

// matchQuery turns free text into an FTS5 query: every whitespace-separated
// word becomes a quoted term, so punctuation such as "a-b" or a stray quote
// is matched literally instead of parsed as query syntax. Terms are ANDed.
func matchQuery(q string) string {
	words := strings.Fields(q)
	for i, w := range words {
		words[i] = `"` + strings.ReplaceAll(w, `"`, `""`) + `"`
	}
	return strings.Join(words, " ")
}

// Search ranks documents whose title, flattened text or tags contain every
// word of query, best match first. The snippet is taken from the flattened
// text with hits wrapped in <b>.
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	match := matchQuery(query)
	if match == "" {
		return nil, nil
	}
	rows, err := db.conn.Query(`
		SELECT path,
		       title,
		       snippet(documents_fts, 2, '<b>', '</b>', '...', 64)
		FROM documents_fts
		WHERE documents_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, match, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	return scanSearchResults(rows)
}
