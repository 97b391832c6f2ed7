// Package resources serves the bundled GitLab reference documents as MCP
// resources.
//
// Each document is an embedded markdown file. Its display name is read
// from the document's first level-one heading so the two cannot drift.
package resources

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const mimeMarkdown = "text/markdown"

//go:embed docs/*.md
var docs embed.FS

// Document is one reference document.
type Document struct {
	URI         string
	Name        string
	Description string
	Text        string
}

type entry struct {
	uri         string
	file        string
	description string
}

var catalog = []entry{
	{
		uri:         "resource://rules/gitlab-ci",
		file:        "gitlab-ci.md",
		description: "Workflow rules, DAG with needs, caching, artifact expiry, secrets, environment tracking, and anti-patterns for .gitlab-ci.yml",
	},
	{
		uri:         "resource://rules/git-workflow",
		file:        "git-workflow.md",
		description: "Trunk-based development, branch naming, rebase discipline, force-with-lease, feature flags, and stale branch cleanup",
	},
	{
		uri:         "resource://rules/mr-hygiene",
		file:        "mr-hygiene.md",
		description: "MR size limits, description template, stacked MRs, conventional comments, thread resolution, and merge checklist",
	},
	{
		uri:         "resource://rules/conventional-commits",
		file:        "conventional-commits.md",
		description: "Commit message format, types, scopes, breaking changes, footers, and semantic versioning mapping",
	},
	{
		uri:         "resource://guides/code-review",
		file:        "code-review.md",
		description: "Review priority order, conventional comment labels, reviewer and author responsibilities, and anti-patterns",
	},
	{
		uri:         "resource://guides/codeowners",
		file:        "codeowners.md",
		description: "CODEOWNERS file location, pattern syntax, sections with approval counts, owner types, and governance",
	},
}

// Documents loads every bundled document in catalog order.
func Documents() ([]Document, error) {
	md := goldmark.New()
	out := make([]Document, 0, len(catalog))
	for _, e := range catalog {
		raw, err := docs.ReadFile("docs/" + e.file)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", e.file, err)
		}
		name := title(md, raw)
		if name == "" {
			return nil, fmt.Errorf("%s: missing level-one heading", e.file)
		}
		out = append(out, Document{
			URI:         e.uri,
			Name:        name,
			Description: e.description,
			Text:        string(raw),
		})
	}
	return out, nil
}

// title returns the plain text of the first level-one heading.
func title(md goldmark.Markdown, source []byte) string {
	doc := md.Parser().Parse(text.NewReader(source))

	var heading *ast.Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok && h.Level == 1 {
			heading = h
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	if heading == nil {
		return ""
	}

	var buf bytes.Buffer
	_ = ast.Walk(heading, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *ast.Text:
			buf.Write(v.Segment.Value(source))
			if v.SoftLineBreak() || v.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(buf.String())
}

// Handler serves the loaded documents.
type Handler struct {
	docs []Document
}

// NewHandler loads the bundled documents.
func NewHandler() (*Handler, error) {
	d, err := Documents()
	if err != nil {
		return nil, err
	}
	return &Handler{docs: d}, nil
}

// Register adds one resource per document to srv.
func (h *Handler) Register(srv *server.MCPServer) {
	for _, d := range h.docs {
		srv.AddResource(resource(d), h.read(d))
	}
}

func resource(d Document) mcp.Resource {
	return mcp.NewResource(
		d.URI,
		d.Name,
		mcp.WithResourceDescription(d.Description),
		mcp.WithMIMEType(mimeMarkdown),
	)
}

func (h *Handler) read(d Document) server.ResourceHandlerFunc {
	return func(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		uri := req.Params.URI
		if uri == "" {
			uri = d.URI
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      uri,
				MIMEType: mimeMarkdown,
				Text:     d.Text,
			},
		}, nil
	}
}
