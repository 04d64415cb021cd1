// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the document pipeline to LLM clients via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/specpress/internal/apperr"
	"github.com/starford/specpress/internal/docservice"
	"github.com/starford/specpress/internal/importer"
	"github.com/starford/specpress/internal/index"
	"github.com/starford/specpress/internal/render"
)

// Resource URIs.
const (
	FormatURI = "openspec://format"
	StyleURI  = "openspec://style.css"
)

// Version is reported to MCP clients.
const Version = "1.0.0"

// Server wraps the MCP server with the document tools.
type Server struct {
	mcp *server.MCPServer
	svc *docservice.Service
}

// New creates a new MCP server with all tools and resources registered.
func New(svc *docservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"specpress",
		Version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_documents",
		mcp.WithDescription("List imported OpenSpec documents, optionally filtered by type or project."),
		mcp.WithString("type", mcp.Description("Document type, e.g. design, tasks, spec")),
		mcp.WithString("project", mcp.Description("Project name (directory under specs/ or changes/)")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of documents (default 50)")),
	), s.listDocuments)

	s.mcp.AddTool(mcp.NewTool("read_document",
		mcp.WithDescription("Read an imported document: metadata, frontmatter and Markdown body."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Document ID, e.g. specs-auth-design")),
	), s.readDocument)

	s.mcp.AddTool(mcp.NewTool("render_document",
		mcp.WithDescription("Return the formatted HTML of an imported document."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Document ID")),
	), s.renderDocument)

	s.mcp.AddTool(mcp.NewTool("search_documents",
		mcp.WithDescription("Full-text search through document titles and bodies."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of hits (default 20)")),
	), s.searchDocuments)

	s.mcp.AddTool(mcp.NewTool("parse_file",
		mcp.WithDescription("Parse a Markdown file from the openspec directory without importing it. "+
			"Returns the document ID, type, title, frontmatter and body."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path relative to the openspec directory (e.g. changes/x/tasks.md)")),
	), s.parseFile)

	s.mcp.AddTool(mcp.NewTool("render_markdown",
		mcp.WithDescription("Render a Markdown body to HTML with the configured engine."),
		mcp.WithString("content", mcp.Required(), mcp.Description("Markdown text")),
	), s.renderMarkdown)

	s.mcp.AddTool(mcp.NewTool("import_documents",
		mcp.WithDescription("Import the openspec directory into the index and report per-file outcomes."),
		mcp.WithBoolean("force", mcp.Description("Re-render files that are already up to date")),
		mcp.WithBoolean("prune", mcp.Description("Remove documents whose file is gone")),
	), s.importDocuments)

	s.mcp.AddTool(mcp.NewTool("get_format_contract",
		mcp.WithDescription("Returns the OpenSpec document conventions: layout, frontmatter, "+
			"classification and title rules. Read it before writing documents."),
	), s.getFormatContract)

	s.mcp.AddResource(
		mcp.NewResource(FormatURI, "OpenSpec Document Format",
			mcp.WithResourceDescription("How documents are laid out, classified, titled and rendered."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readFormatResource,
	)

	s.mcp.AddResource(
		mcp.NewResource(StyleURI, "Document Stylesheet",
			mcp.WithResourceDescription("CSS matching the rendered HTML classes."),
			mcp.WithMIMEType("text/css"),
		),
		s.readStyleResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

// toolError turns a domain error into a tool error result.
func toolError(err error, subject string) *mcp.CallToolResult {
	switch {
	case errors.Is(err, apperr.ErrNotFound), errors.Is(err, apperr.ErrFileNotFound):
		return mcp.NewToolResultError("not found: " + subject)
	case errors.Is(err, apperr.ErrEmptyDocument):
		return mcp.NewToolResultError("document is empty: " + subject)
	}
	return mcp.NewToolResultError(err.Error())
}

func (s *Server) listDocuments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, total, err := s.svc.ListDocuments(ctx, index.ListFilter{
		Type:    req.GetString("type", ""),
		Project: req.GetString("project", ""),
		Limit:   req.GetInt("limit", 0),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{"documents": items, "total": total})
}

func (s *Server) readDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	doc, err := s.svc.GetDocument(ctx, id)
	if err != nil {
		return toolError(err, id), nil
	}
	doc.HTML = ""
	return jsonResult(doc)
}

func (s *Server) renderDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	doc, err := s.svc.GetDocument(ctx, id)
	if err != nil {
		return toolError(err, id), nil
	}
	return mcp.NewToolResultText(doc.HTML), nil
}

func (s *Server) searchDocuments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	hits, err := s.svc.Search(ctx, query, req.GetInt("limit", 20))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(hits) == 0 {
		return mcp.NewToolResultText("no documents found"), nil
	}
	return jsonResult(hits)
}

func (s *Server) parseFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	doc, err := s.svc.Parse(ctx, path)
	if err != nil {
		return toolError(err, path), nil
	}
	return jsonResult(doc)
}

func (s *Server) renderMarkdown(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(s.svc.Render(ctx, content)), nil
}

func (s *Server) importDocuments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := s.svc.Import(ctx, importer.Options{
		Force: req.GetBool("force", false),
		Prune: req.GetBool("prune", false),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(res)
}

func (s *Server) getFormatContract(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(FormatContract), nil
}

func (s *Server) readFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      FormatURI,
			MIMEType: "text/markdown",
			Text:     FormatContract,
		},
	}, nil
}

func (s *Server) readStyleResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      StyleURI,
			MIMEType: "text/css",
			Text:     render.CSS(),
		},
	}, nil
}
