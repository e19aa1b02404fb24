package api

import (
	"encoding/json"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/starford/adfbridge/internal/converter"
)

// TextRequest is the request body for conversions that take text.
type TextRequest struct {
	Text string `json:"text" example:"## Title\n- **item**"`
}

// ADFRequest is the request body for flattening an ADF document.
type ADFRequest struct {
	ADF json.RawMessage `json:"adf" validate:"required"`
}

// TextResponse wraps converted text.
type TextResponse struct {
	Text string `json:"text" example:"## Title\n\n- item"`
}

// WikiResponse wraps wiki markup.
type WikiResponse struct {
	Wiki string `json:"wiki" example:"h2. Title\n* **item**"`
}

// CreateDocumentRequest is the request body for creating a document.
type CreateDocumentRequest struct {
	Path    string `json:"path" example:"team/plan.md" validate:"required"`
	Content string `json:"content" example:"h1. Plan\n- ship it" validate:"required"`
}

// UpdateDocumentRequest is the request body for updating a document.
type UpdateDocumentRequest struct {
	Content string `json:"content" example:"h1. Plan\n- shipped" validate:"required"`
}

// DocumentDetail is the full document response type (aliased from the domain layer).
type DocumentDetail = converter.DocumentDetail

// DocumentListItem is one row of a document listing.
type DocumentListItem struct {
	ID        string    `json:"id" example:"0b8f3c1e-6c3a-4d8e-9a51-2f7d4b1c9e20"`
	Path      string    `json:"path" example:"team/plan.md"`
	Title     string    `json:"title" example:"Plan"`
	Checksum  string    `json:"checksum" example:"abc123..."`
	Tags      []string  `json:"tags" example:"tag1,tag2"`
	Size      int64     `json:"size" example:"2048"`
	SizeHuman string    `json:"size_human" example:"2.0 kB"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DocumentListResponse wraps paginated document listings.
type DocumentListResponse struct {
	Documents []DocumentListItem `json:"documents" validate:"required"`
	Total     int                `json:"total" example:"42" validate:"required"`
}

// SearchResult is a single search hit in the API response.
type SearchResult struct {
	Path    string `json:"path" example:"team/plan.md" validate:"required"`
	Title   string `json:"title" example:"Plan" validate:"required"`
	Snippet string `json:"snippet" example:"...matched text..." validate:"required"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []SearchResult `json:"results" validate:"required"`
}

func toListItems(items []converter.DocumentListItem) []DocumentListItem {
	out := make([]DocumentListItem, len(items))
	for i, it := range items {
		out[i] = DocumentListItem{
			ID:        it.ID,
			Path:      it.Path,
			Title:     it.Title,
			Checksum:  it.Checksum,
			Tags:      it.Tags,
			Size:      it.Size,
			SizeHuman: humanize.Bytes(uint64(it.Size)),
			UpdatedAt: it.UpdatedAt,
		}
	}
	return out
}
