// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes adfbridge conversions for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/adfbridge/internal/apperr"
	"github.com/starford/adfbridge/internal/converter"
)

const syntaxURI = "adfbridge://syntax"

// Document formats returned by read_document.
var readFormats = []string{"adf", "wiki", "plain", "source"}

// Server wraps the MCP server with adfbridge tools.
type Server struct {
	mcp *server.MCPServer
	svc *converter.Service
}

// New creates a new MCP server with all adfbridge tools registered.
func New(svc *converter.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"adfbridge",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("markdown_to_adf",
		mcp.WithDescription("Convert Markdown-like or wiki text into an Atlassian Document Format (ADF) JSON document."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Source text")),
	), s.markdownToADF)

	s.mcp.AddTool(mcp.NewTool("adf_to_text",
		mcp.WithDescription("Flatten an ADF JSON document into normalized Markdown-like text."),
		mcp.WithString("adf", mcp.Required(), mcp.Description("ADF document as a JSON string")),
	), s.adfToText)

	s.mcp.AddTool(mcp.NewTool("markdown_to_wiki",
		mcp.WithDescription("Rewrite Markdown-like text as Confluence wiki markup."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Source text")),
	), s.markdownToWiki)

	s.mcp.AddTool(mcp.NewTool("normalize_wiki",
		mcp.WithDescription("Normalize wiki-style text (hN. headers, panels, color macros, checkboxes) into Markdown-like text."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Wiki-style text")),
	), s.normalizeWiki)

	s.mcp.AddTool(mcp.NewTool("read_document",
		mcp.WithDescription("Read a workspace document in one of its converted forms."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the document (e.g. team/plan.md)")),
		mcp.WithString("format",
			mcp.Description("Output format"),
			mcp.Enum(readFormats...),
			mcp.DefaultString("plain"),
		),
	), s.readDocument)

	s.mcp.AddTool(mcp.NewTool("create_document",
		mcp.WithDescription("Create a new workspace document and convert it. "+
			"Read the syntax contract first via get_syntax_contract or the "+syntaxURI+" resource."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path for the new document (must end with .md)")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Document source text")),
	), s.createDocument)

	s.mcp.AddTool(mcp.NewTool("list_documents",
		mcp.WithDescription("List all workspace documents or those in a specific folder."),
		mcp.WithString("folder", mcp.Description("Optional folder to list (empty for all)")),
	), s.listDocuments)

	s.mcp.AddTool(mcp.NewTool("search_documents",
		mcp.WithDescription("Full-text search through converted document titles and text."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchDocuments)

	s.mcp.AddTool(mcp.NewTool("get_syntax_contract",
		mcp.WithDescription("Returns the syntax accepted by the converter and how it maps to ADF and wiki markup."),
	), s.getSyntaxContract)

	s.mcp.AddResource(
		mcp.NewResource(syntaxURI, "Syntax Contract",
			mcp.WithResourceDescription("Markdown-like and wiki syntax accepted by adfbridge."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readSyntaxResource,
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

func (s *Server) markdownToADF(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, err := json.MarshalIndent(converter.ToADF(text), "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) adfToText(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("adf")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := converter.ADFToText([]byte(raw))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) markdownToWiki(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(converter.ToWiki(text)), nil
}

func (s *Server) normalizeWiki(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(converter.Normalize(text)), nil
}

func (s *Server) readDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	format := req.GetString("format", "plain")

	doc, err := s.svc.GetDocument(ctx, path)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}

	switch format {
	case "adf":
		return mcp.NewToolResultText(string(doc.ADF)), nil
	case "wiki":
		return mcp.NewToolResultText(doc.Wiki), nil
	case "plain":
		return mcp.NewToolResultText(doc.Plain), nil
	case "source":
		return mcp.NewToolResultText(doc.Source), nil
	}
	return mcp.NewToolResultError(fmt.Sprintf("unknown format %q (want one of %s)", format, strings.Join(readFormats, ", "))), nil
}

func (s *Server) createDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	doc, err := s.svc.CreateDocument(ctx, path, []byte(content))
	if err != nil {
		if errors.Is(err, apperr.ErrAlreadyExists) {
			return mcp.NewToolResultError(fmt.Sprintf("document already exists: %s", path)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s (id %s)", doc.Path, doc.ID)), nil
}

func (s *Server) listDocuments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	metas, err := s.svc.ListSources(ctx, req.GetString("folder", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	paths := make([]string, 0, len(metas))
	for _, m := range metas {
		paths = append(paths, m.Path)
	}
	if len(paths) == 0 {
		return mcp.NewToolResultText("no documents found"), nil
	}
	return mcp.NewToolResultText(strings.Join(paths, "\n")), nil
}

func (s *Server) searchDocuments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getSyntaxContract(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(SyntaxContract), nil
}

func (s *Server) readSyntaxResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      syntaxURI,
			MIMEType: "text/markdown",
			Text:     SyntaxContract,
		},
	}, nil
}
