//go:build !sqlite_fts5

package index

import (
	"database/sql"
	"fmt"
	"strings"
)

// Without FTS5 there is no mirror table; Search scans documents directly.
func initFTS(_ *sql.DB) error { return nil }

func ftsUpsert(_ *sql.Tx, _, _, _ string, _ []string) error { return nil }

func ftsDelete(_ *sql.Tx, _ string) {}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search returns documents whose title, flattened text or tags contain query
// as a literal substring (ASCII case-insensitive, % and _ included), most
// recently converted first. The snippet is the start of the flattened text.
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	like := "%" + likeEscaper.Replace(query) + "%"
	rows, err := db.conn.Query(`
		SELECT path, title, substr(plain, 1, 200)
		FROM documents
		WHERE title LIKE ?1 ESCAPE '\'
		   OR plain LIKE ?1 ESCAPE '\'
		   OR tags  LIKE ?1 ESCAPE '\'
		ORDER BY updated_at DESC
		LIMIT ?2
	`, like, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	return scanSearchResults(rows)
}
