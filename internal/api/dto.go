package api

import (
	"net/url"
	"regexp"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/specpress/internal/docservice"
	"github.com/starford/specpress/internal/importer"
	"github.com/starford/specpress/internal/index"
)

// MaxRenderBytes bounds the body of POST /render.
const MaxRenderBytes = 1 << 20

var keyRe = regexp.MustCompile(`^[a-z0-9_-]+$`)

// DocumentDetail is the full document response type (aliased from the domain layer).
type DocumentDetail = docservice.DocumentDetail

// DocumentListItem is a lightweight item in a list response (aliased from the domain layer).
type DocumentListItem = docservice.DocumentListItem

// DocumentListResponse wraps paginated document listings.
type DocumentListResponse struct {
	Documents []DocumentListItem `json:"documents" validate:"required"`
	Total     int                `json:"total" example:"42" validate:"required"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []docservice.SearchHit `json:"results" validate:"required"`
}

// CountsResponse wraps grouped counts for types or projects.
type CountsResponse struct {
	Counts []docservice.Count `json:"counts" validate:"required"`
}

// ImportResponse is the summary of an import run (aliased from the importer).
type ImportResponse = importer.Result

// PreviewResponse is an unsaved parse and render (aliased from the importer).
type PreviewResponse = importer.Preview

// ListQuery holds the query parameters of GET /documents.
type ListQuery struct {
	Type    string
	Project string
	Sort    string
	Limit   int
	Offset  int
}

func parseListQuery(q url.Values) (ListQuery, error) {
	lq := ListQuery{
		Type:    q.Get("type"),
		Project: q.Get("project"),
		Sort:    q.Get("sort"),
	}
	var err error
	if s := q.Get("limit"); s != "" {
		if lq.Limit, err = strconv.Atoi(s); err != nil {
			return lq, validation.Errors{"limit": validation.NewError("validation_is_int", "must be an integer")}
		}
	}
	if s := q.Get("offset"); s != "" {
		if lq.Offset, err = strconv.Atoi(s); err != nil {
			return lq, validation.Errors{"offset": validation.NewError("validation_is_int", "must be an integer")}
		}
	}
	return lq, lq.Validate()
}

// Validate validates the list query.
func (q ListQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.Type, validation.Match(keyRe)),
		validation.Field(&q.Project, validation.Match(keyRe)),
		validation.Field(&q.Sort, validation.In("path", "title", "modified")),
		validation.Field(&q.Limit, validation.Min(0), validation.Max(500)),
		validation.Field(&q.Offset, validation.Min(0)),
	)
}

// Filter converts the query to an index filter.
func (q ListQuery) Filter() index.ListFilter {
	return index.ListFilter{
		Type:    q.Type,
		Project: q.Project,
		Sort:    q.Sort,
		Limit:   q.Limit,
		Offset:  q.Offset,
	}
}

// ImportRequest is the optional request body for POST /import.
type ImportRequest struct {
	Force bool `json:"force" example:"false"`
	Prune bool `json:"prune" example:"true"`
}

// RenderRequest is the request body for POST /render.
type RenderRequest struct {
	Content string `json:"content" example:"# Hello\n\n**World**" validate:"required"`
}

// Validate validates the render request.
func (r RenderRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Content, validation.Required, validation.Length(1, MaxRenderBytes)),
	)
}

// RenderResponse carries rendered HTML.
type RenderResponse struct {
	HTML string `json:"html" example:"<h1 class=\"openspec-h1\">Hello</h1>" validate:"required"`
}
