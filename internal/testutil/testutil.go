// Package testutil builds the throwaway workspace and document index that
// converter, API and MCP tests run against.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/adfbridge/internal/index"
	"github.com/starford/adfbridge/internal/storage"
)

// TestDB opens an empty document index in a temp file. The file and the
// connection are released when the test ends.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	db, err := index.Open(filepath.Join(t.TempDir(), "adfbridge-test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// TestWorkspace returns an empty workspace directory and a provider rooted
// at it. Optional files are written first as path/content pairs, e.g.
// TestWorkspace(t, "a.md", "# A").
func TestWorkspace(t *testing.T, files ...string) (string, storage.Provider) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i+1 < len(files); i += 2 {
		if err := store.Write(files[i], []byte(files[i+1])); err != nil {
			t.Fatal(err)
		}
	}
	return dir, store
}

// WriteFile writes content below dir bypassing the provider, the way an
// editor or sync tool would.
func WriteFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
