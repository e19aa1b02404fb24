package index

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/starford/adfbridge/internal/adf"
	"github.com/starford/adfbridge/internal/checksum"
	"github.com/starford/adfbridge/internal/parser"
	"github.com/starford/adfbridge/internal/wiki"
)

// Render converts a source document into an index row: the body without
// frontmatter is parsed to ADF, rewritten as wiki markup and flattened back
// to plain text.
func Render(path string, data []byte) (DocumentRow, error) {
	res, err := parser.Parse(data)
	if err != nil {
		return DocumentRow{}, err
	}
	doc := adf.Parse(res.Body)
	adfJSON, err := json.Marshal(doc)
	if err != nil {
		return DocumentRow{}, fmt.Errorf("index: encode adf %s: %w", path, err)
	}
	return DocumentRow{
		Path:      path,
		Title:     res.Title,
		Checksum:  checksum.Sum(data),
		Tags:      res.Tags,
		Size:      int64(len(data)),
		ADF:       string(adfJSON),
		Wiki:      wiki.FromMarkdown(res.Body),
		Plain:     adf.Flatten(doc),
		UpdatedAt: time.Now().UTC(),
	}, nil
}

// convertFile renders data and upserts it into the DB.
func convertFile(db *DB, path string, data []byte) error {
	row, err := Render(path, data)
	if err != nil {
		return err
	}
	_, err = db.UpsertDocument(row)
	return err
}
