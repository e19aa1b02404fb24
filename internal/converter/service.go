package converter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/starford/adfbridge/internal/apperr"
	"github.com/starford/adfbridge/internal/checksum"
	"github.com/starford/adfbridge/internal/index"
	"github.com/starford/adfbridge/internal/models"
	"github.com/starford/adfbridge/internal/parser"
	"github.com/starford/adfbridge/internal/storage"
)

// DocumentDetail is the full representation of a converted document.
type DocumentDetail struct {
	ID          string          `json:"id"`
	Path        string          `json:"path"`
	Title       string          `json:"title"`
	Checksum    string          `json:"checksum"`
	Tags        []string        `json:"tags"`
	Frontmatter map[string]any  `json:"frontmatter,omitempty"`
	Source      string          `json:"source"`
	Size        int64           `json:"size"`
	ADF         json.RawMessage `json:"adf"`
	Wiki        string          `json:"wiki"`
	Plain       string          `json:"plain"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// DocumentListItem is a lightweight item in a list response.
type DocumentListItem struct {
	ID        string    `json:"id"`
	Path      string    `json:"path"`
	Title     string    `json:"title"`
	Checksum  string    `json:"checksum"`
	Tags      []string  `json:"tags"`
	Size      int64     `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Option configures a Service.
type Option func(*Service)

// WithNotifier registers fn to be called after the service converts or
// deletes a document.
func WithNotifier(fn index.EventCallback) Option {
	return func(s *Service) {
		s.notify = fn
	}
}

// Service coordinates storage, index and conversion of workspace documents.
type Service struct {
	store  storage.Provider
	db     index.DocumentIndex
	md     goldmark.Markdown
	notify index.EventCallback
}

// NewService creates a new document service.
func NewService(store storage.Provider, db index.DocumentIndex, opts ...Option) *Service {
	s := &Service{
		store: store,
		db:    db,
		md:    goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetDocument reads a source document and returns it with its conversions.
// A missing or stale index row is refreshed first.
func (s *Service) GetDocument(_ context.Context, path string) (*DocumentDetail, error) {
	data, err := s.store.Read(path)
	if err != nil {
		return nil, err
	}
	row, err := s.db.GetDocument(path)
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}
	if err != nil || row.Checksum != checksum.Sum(data) {
		if row, err = s.convert(path, data); err != nil {
			return nil, err
		}
	}
	return buildDetail(row, data)
}

// CreateDocument writes a new source document and converts it.
func (s *Service) CreateDocument(_ context.Context, path string, content []byte) (*DocumentDetail, error) {
	if err := validatePath(path); err != nil {
		return nil, err
	}
	exists, err := s.store.Exists(path)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.ErrAlreadyExists
	}
	if err := s.store.Write(path, content); err != nil {
		return nil, err
	}
	row, err := s.convert(path, content)
	if err != nil {
		return nil, err
	}
	s.emit(index.EventConverted, path)
	return buildDetail(row, content)
}

// UpdateDocument replaces a source document. A non-empty ifMatch must equal
// the checksum of the current content.
func (s *Service) UpdateDocument(_ context.Context, path string, content []byte, ifMatch string) (*DocumentDetail, error) {
	if err := validatePath(path); err != nil {
		return nil, err
	}
	existing, err := s.store.Read(path)
	if err != nil {
		return nil, err
	}
	if ifMatch != "" && ifMatch != checksum.Sum(existing) {
		return nil, apperr.ErrConflict
	}
	if err := s.store.Write(path, content); err != nil {
		return nil, err
	}
	row, err := s.convert(path, content)
	if err != nil {
		return nil, err
	}
	s.emit(index.EventConverted, path)
	return buildDetail(row, content)
}

// DeleteDocument removes a source document and its index row.
func (s *Service) DeleteDocument(_ context.Context, path string) error {
	if err := s.store.Delete(path); err != nil {
		return err
	}
	if err := s.db.DeleteDocument(path); err != nil {
		return err
	}
	s.emit(index.EventDeleted, path)
	return nil
}

// ListDocuments returns paginated documents with an optional tag filter.
func (s *Service) ListDocuments(_ context.Context, limit, offset int, tag, sort string) ([]DocumentListItem, int, error) {
	rows, total, err := s.db.ListDocuments(limit, offset, tag, sort)
	if err != nil {
		return nil, 0, err
	}
	items := make([]DocumentListItem, len(rows))
	for i, r := range rows {
		items[i] = DocumentListItem{
			ID:        r.ID,
			Path:      r.Path,
			Title:     r.Title,
			Checksum:  r.Checksum,
			Tags:      nonNilSlice(r.Tags),
			Size:      r.Size,
			UpdatedAt: r.UpdatedAt,
		}
	}
	return items, total, nil
}

// ListSources returns the source documents under folder straight from the
// workspace ("" lists everything).
func (s *Service) ListSources(_ context.Context, folder string) ([]models.SourceMeta, error) {
	return s.store.List(folder)
}

// Search delegates full-text search to the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	hits, err := s.db.Search(query, limit)
	if err != nil {
		return nil, err
	}
	return nonNilSlice(hits), nil
}

// Preview renders the flattened text of a document as HTML.
func (s *Service) Preview(ctx context.Context, path string) ([]byte, error) {
	d, err := s.GetDocument(ctx, path)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(d.Plain), &buf); err != nil {
		return nil, fmt.Errorf("converter: render preview %s: %w", path, err)
	}
	return buf.Bytes(), nil
}

func (s *Service) convert(path string, data []byte) (*index.DocumentRow, error) {
	row, err := index.Render(path, data)
	if err != nil {
		return nil, err
	}
	id, err := s.db.UpsertDocument(row)
	if err != nil {
		return nil, err
	}
	row.ID = id
	return &row, nil
}

func (s *Service) emit(kind, path string) {
	if s.notify != nil {
		s.notify(kind, path)
	}
}

func buildDetail(row *index.DocumentRow, data []byte) (*DocumentDetail, error) {
	res, err := parser.Parse(data)
	if err != nil {
		return nil, err
	}
	return &DocumentDetail{
		ID:          row.ID,
		Path:        row.Path,
		Title:       row.Title,
		Checksum:    row.Checksum,
		Tags:        nonNilSlice(row.Tags),
		Frontmatter: res.Frontmatter,
		Source:      string(data),
		Size:        row.Size,
		ADF:         json.RawMessage(row.ADF),
		Wiki:        row.Wiki,
		Plain:       row.Plain,
		UpdatedAt:   row.UpdatedAt,
	}, nil
}

func validatePath(path string) error {
	if path == "" || !strings.HasSuffix(path, storage.SourceExt) {
		return fmt.Errorf("converter: %q must end in %s: %w", path, storage.SourceExt, apperr.ErrInvalidPath)
	}
	return nil
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
