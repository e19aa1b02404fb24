// Package storage keeps the workspace of Markdown-like source documents.
package storage

import "github.com/starford/adfbridge/internal/models"

// Provider is the set of workspace operations the converter and index need.
// Paths are slash-separated and relative to the workspace root. Missing
// files yield errors matching both apperr.ErrNotFound and os.ErrNotExist.
type Provider interface {
	// List returns metadata for every source document under dir. Hidden
	// entries (leading dot) are skipped.
	List(dir string) ([]models.SourceMeta, error)
	Read(path string) ([]byte, error)
	// Exists reports whether path names a regular file.
	Exists(path string) (bool, error)
	// Write replaces path atomically, creating parent directories.
	Write(path string, content []byte) error
	Delete(path string) error
	// Root returns the absolute workspace directory.
	Root() string
}
