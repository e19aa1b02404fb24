package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/adfbridge/internal/apperr"
	"github.com/starford/adfbridge/internal/checksum"
	"github.com/starford/adfbridge/internal/converter"
)

const defaultMaxBody = 10 << 20

// Handler holds API route handlers.
type Handler struct {
	svc     *converter.Service
	maxBody int64
}

// NewHandler creates a new Handler.
func NewHandler(svc *converter.Service, maxBody int64) *Handler {
	if maxBody <= 0 {
		maxBody = defaultMaxBody
	}
	return &Handler{svc: svc, maxBody: maxBody}
}

// documentPath extracts the document path from the URL (everything after the
// route prefix). Supports encoded slashes from OpenAPI clients
// (e.g. team%2Fplan.md).
func documentPath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// decodeBody reads a size-capped JSON body into v.
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		} else {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
		}
		return false
	}
	return true
}

// writeServiceError maps sentinel errors to HTTP statuses and logs the rest.
func writeServiceError(w http.ResponseWriter, op, path string, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, apperr.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "document already exists")
	case errors.Is(err, apperr.ErrConflict):
		writeError(w, http.StatusConflict, "checksum mismatch")
	case errors.Is(err, apperr.ErrInvalidPath):
		writeError(w, http.StatusBadRequest, "invalid path")
	default:
		slog.Error(op+" failed", slog.String("path", path), slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// ConvertADF handles POST /api/convert/adf.
//
//	@Summary		Parse Markdown-like or wiki text into an ADF document
//	@Tags			convert
//	@Accept			json
//	@Produce		json
//	@Param			body	body		TextRequest	true	"Source text"
//	@Success		200		{object}	object
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/convert/adf [post]
func (h *Handler) ConvertADF(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, converter.ToADF(req.Text))
}

// ConvertText handles POST /api/convert/text.
//
//	@Summary		Flatten an ADF document to Markdown-like text
//	@Tags			convert
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ADFRequest	true	"ADF document"
//	@Success		200		{object}	TextResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/convert/text [post]
func (h *Handler) ConvertText(w http.ResponseWriter, r *http.Request) {
	var req ADFRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	if len(req.ADF) == 0 {
		writeError(w, http.StatusBadRequest, "adf is required")
		return
	}
	text, err := converter.ADFToText(req.ADF)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, TextResponse{Text: text})
}

// ConvertWiki handles POST /api/convert/wiki.
//
//	@Summary		Rewrite Markdown-like text as wiki markup
//	@Tags			convert
//	@Accept			json
//	@Produce		json
//	@Param			body	body		TextRequest	true	"Source text"
//	@Success		200		{object}	WikiResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/convert/wiki [post]
func (h *Handler) ConvertWiki(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, WikiResponse{Wiki: converter.ToWiki(req.Text)})
}

// ConvertNormalize handles POST /api/convert/normalize.
//
//	@Summary		Normalize wiki-style text into Markdown-like text
//	@Tags			convert
//	@Accept			json
//	@Produce		json
//	@Param			body	body		TextRequest	true	"Wiki-style text"
//	@Success		200		{object}	TextResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/convert/normalize [post]
func (h *Handler) ConvertNormalize(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, TextResponse{Text: converter.Normalize(req.Text)})
}

// ListDocuments handles GET /api/documents.
//
//	@Summary		List converted documents with optional pagination and filtering
//	@Tags			documents
//	@Produce		json
//	@Param			limit	query		int		false	"Page size"
//	@Param			offset	query		int		false	"Page offset"
//	@Param			tag		query		string	false	"Filter by tag"
//	@Param			sort	query		string	false	"Sort field"	Enums(updated_at, title, path)
//	@Success		200		{object}	DocumentListResponse
//	@Security		BearerAuth
//	@Router			/documents [get]
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	items, total, err := h.svc.ListDocuments(r.Context(), limit, offset, q.Get("tag"), q.Get("sort"))
	if err != nil {
		slog.Error("list documents failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, DocumentListResponse{
		Documents: toListItems(items),
		Total:     total,
	})
}

// GetDocument handles GET /api/documents/*.
//
//	@Summary		Get a document with its ADF, wiki and plain conversions
//	@Tags			documents
//	@Produce		json
//	@Param			path	path		string	true	"Document path"
//	@Success		200		{object}	DocumentDetail
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/documents/{path} [get]
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	path := documentPath(r)
	if path == "" {
		writeError(w, http.StatusBadRequest, "path is required")
		return
	}
	doc, err := h.svc.GetDocument(r.Context(), path)
	if err != nil {
		writeServiceError(w, "get document", path, err)
		return
	}
	w.Header().Set("ETag", checksum.ETag(doc.Checksum))
	writeJSON(w, http.StatusOK, doc)
}

// CreateDocument handles POST /api/documents.
//
//	@Summary		Create a source document and convert it
//	@Tags			documents
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateDocumentRequest	true	"Document to create"
//	@Success		201		{object}	DocumentDetail
//	@Failure		400		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/documents [post]
func (h *Handler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	var req CreateDocumentRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	if req.Path == "" || req.Content == "" {
		writeError(w, http.StatusBadRequest, "path and content are required")
		return
	}
	doc, err := h.svc.CreateDocument(r.Context(), req.Path, []byte(req.Content))
	if err != nil {
		writeServiceError(w, "create document", req.Path, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

// UpdateDocument handles PUT /api/documents/*.
//
//	@Summary		Update a document with optimistic concurrency
//	@Tags			documents
//	@Accept			json
//	@Produce		json
//	@Param			path		path	string					true	"Document path"
//	@Param			If-Match	header	string					false	"SHA-256 checksum for optimistic concurrency"
//	@Param			body		body	UpdateDocumentRequest	true	"Updated content"
//	@Success		200		{object}	DocumentDetail
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/documents/{path} [put]
func (h *Handler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	path := documentPath(r)
	if path == "" {
		writeError(w, http.StatusBadRequest, "path is required")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	var req UpdateDocumentRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}

	ifMatch := checksum.FromETag(r.Header.Get("If-Match"))

	doc, err := h.svc.UpdateDocument(r.Context(), path, []byte(req.Content), ifMatch)
	if err != nil {
		writeServiceError(w, "update document", path, err)
		return
	}
	w.Header().Set("ETag", checksum.ETag(doc.Checksum))
	writeJSON(w, http.StatusOK, doc)
}

// DeleteDocument handles DELETE /api/documents/*.
//
//	@Summary		Delete a document
//	@Tags			documents
//	@Param			path	path	string	true	"Document path"
//	@Success		204		"Document deleted"
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/documents/{path} [delete]
func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	path := documentPath(r)
	if path == "" {
		writeError(w, http.StatusBadRequest, "path is required")
		return
	}
	if err := h.svc.DeleteDocument(r.Context(), path); err != nil {
		writeServiceError(w, "delete document", path, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Preview handles GET /api/preview/*.
//
//	@Summary		Render the flattened text of a document as HTML
//	@Tags			documents
//	@Produce		html
//	@Param			path	path	string	true	"Document path"
//	@Success		200		{string}	string
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/preview/{path} [get]
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	path := documentPath(r)
	if path == "" {
		writeError(w, http.StatusBadRequest, "path is required")
		return
	}
	html, err := h.svc.Preview(r.Context(), path)
	if err != nil {
		writeServiceError(w, "preview document", path, err)
		return
	}
	writeText(w, http.StatusOK, "text/html", string(html))
}

// Search handles GET /api/search.
//
//	@Summary		Full-text search across converted documents
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	hits, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		slog.Error("search failed", slog.String("query", q), slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	results := make([]SearchResult, len(hits))
	for i, hit := range hits {
		results[i] = SearchResult(hit)
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}
