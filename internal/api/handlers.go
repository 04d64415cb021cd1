package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/specpress/internal/docservice"
	"github.com/starford/specpress/internal/importer"
	"github.com/starford/specpress/internal/render"
)

// Handler holds API route handlers.
type Handler struct {
	svc *docservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *docservice.Service) *Handler {
	return &Handler{svc: svc}
}

// ListDocuments handles GET /api/documents.
//
//	@Summary		List imported documents with optional filtering and pagination
//	@Tags			documents
//	@Produce		json
//	@Param			type	query		string	false	"Filter by document type"
//	@Param			project	query		string	false	"Filter by project"
//	@Param			limit	query		int		false	"Page size"
//	@Param			offset	query		int		false	"Page offset"
//	@Param			sort	query		string	false	"Sort field"	Enums(path, title, modified)
//	@Success		200		{object}	DocumentListResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/documents [get]
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	q, err := parseListQuery(r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	items, total, err := h.svc.ListDocuments(r.Context(), q.Filter())
	if err != nil {
		writeError(w, "list documents", err)
		return
	}
	writeJSON(w, http.StatusOK, DocumentListResponse{Documents: items, Total: total})
}

// GetDocument handles GET /api/documents/{id}.
//
//	@Summary		Get a single imported document
//	@Tags			documents
//	@Produce		json
//	@Param			id	path		string	true	"Document ID"
//	@Success		200	{object}	DocumentDetail
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/documents/{id} [get]
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	doc, err := h.svc.GetDocument(r.Context(), id)
	if err != nil {
		writeError(w, "get document", err, slog.String("document_id", id))
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// DocumentHTML handles GET /api/documents/{id}/html.
//
//	@Summary		Get the formatted document as a standalone HTML page
//	@Tags			documents
//	@Produce		html
//	@Param			id	path		string	true	"Document ID"
//	@Success		200	{string}	string	"HTML page"
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/documents/{id}/html [get]
func (h *Handler) DocumentHTML(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	page, err := h.svc.DocumentPage(r.Context(), id)
	if err != nil {
		writeError(w, "document html", err, slog.String("document_id", id))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, page)
}

// Search handles GET /api/search.
//
//	@Summary		Full-text search across imported documents
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
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		writeError(w, "search", err, slog.String("query", q))
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}

// Types handles GET /api/types.
//
//	@Summary		Count documents per type
//	@Tags			facets
//	@Produce		json
//	@Success		200	{object}	CountsResponse
//	@Security		BearerAuth
//	@Router			/types [get]
func (h *Handler) Types(w http.ResponseWriter, r *http.Request) {
	counts, err := h.svc.Types(r.Context())
	if err != nil {
		writeError(w, "types", err)
		return
	}
	writeJSON(w, http.StatusOK, CountsResponse{Counts: counts})
}

// Projects handles GET /api/projects.
//
//	@Summary		Count documents per project
//	@Tags			facets
//	@Produce		json
//	@Success		200	{object}	CountsResponse
//	@Security		BearerAuth
//	@Router			/projects [get]
func (h *Handler) Projects(w http.ResponseWriter, r *http.Request) {
	counts, err := h.svc.Projects(r.Context())
	if err != nil {
		writeError(w, "projects", err)
		return
	}
	writeJSON(w, http.StatusOK, CountsResponse{Counts: counts})
}

// Import handles POST /api/import.
//
//	@Summary		Import markdown files from the source directory
//	@Tags			pipeline
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ImportRequest	false	"Import options"
//	@Success		200		{object}	ImportResponse
//	@Failure		400		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/import [post]
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<10)
	var req ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	res, err := h.svc.Import(r.Context(), importer.Options{Force: req.Force, Prune: req.Prune})
	if err != nil {
		writeError(w, "import", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Render handles POST /api/render.
//
//	@Summary		Render a markdown body to HTML
//	@Tags			pipeline
//	@Accept			json
//	@Produce		json
//	@Param			body	body		RenderRequest	true	"Markdown to render"
//	@Success		200		{object}	RenderResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/render [post]
func (h *Handler) Render(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 2*MaxRenderBytes)
	var req RenderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, RenderResponse{HTML: h.svc.Render(r.Context(), req.Content)})
}

// Preview handles GET /api/preview.
//
//	@Summary		Parse and format a source file without importing it
//	@Tags			pipeline
//	@Produce		json
//	@Param			path	query		string	false	"Path relative to the source root; latest file when empty"
//	@Success		200		{object}	PreviewResponse
//	@Failure		404		{object}	errResponse
//	@Failure		422		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/preview [get]
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	p, err := h.svc.Preview(r.Context(), path)
	if err != nil {
		writeError(w, "preview", err, slog.String("path", path))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Style handles GET /api/style.css.
//
//	@Summary		Get the document stylesheet
//	@Tags			pipeline
//	@Produce		text/css
//	@Success		200	{string}	string	"CSS"
//	@Security		BearerAuth
//	@Router			/style.css [get]
func (h *Handler) Style(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("ETag", `"`+render.StyleVersion+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, render.CSS())
}
