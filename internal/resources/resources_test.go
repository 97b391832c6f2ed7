package resources

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
)

func TestDocuments_Catalog(t *testing.T) {
	docs, err := Documents()
	require.NoError(t, err)

	want := map[string]string{
		"resource://rules/gitlab-ci":            "GitLab CI/CD Pipeline Patterns",
		"resource://rules/git-workflow":         "Git Workflow Standards",
		"resource://rules/mr-hygiene":           "Merge Request Best Practices",
		"resource://rules/conventional-commits": "Conventional Commits Spec",
		"resource://guides/code-review":         "Code Review Standards",
		"resource://guides/codeowners":          "GitLab CODEOWNERS Reference",
	}
	require.Len(t, docs, len(want))
	for _, d := range docs {
		assert.Equal(t, want[d.URI], d.Name, d.URI)
		assert.NotEmpty(t, d.Description, d.URI)
		assert.True(t, strings.HasPrefix(d.Text, "# "+d.Name+"\n"), d.URI)
	}
}

func TestDocuments_Topics(t *testing.T) {
	docs, err := Documents()
	require.NoError(t, err)

	byURI := map[string]string{}
	for _, d := range docs {
		byURI[d.URI] = d.Text
	}
	assert.Contains(t, byURI["resource://rules/gitlab-ci"], "needs:")
	assert.Contains(t, byURI["resource://rules/git-workflow"], "--force-with-lease")
	assert.Contains(t, byURI["resource://rules/mr-hygiene"], "Stacked Merge Requests")
	assert.Contains(t, byURI["resource://rules/conventional-commits"], "BREAKING CHANGE")
	assert.Contains(t, byURI["resource://guides/code-review"], "nitpick")
	assert.Contains(t, byURI["resource://guides/codeowners"], "[Backend][2]")
}

func TestTitle(t *testing.T) {
	md := goldmark.New()
	tests := map[string]string{
		"# Plain\n\nbody":              "Plain",
		"intro\n\n## Two\n\n# One\n":   "One",
		"# With *emphasis* and `code`": "With emphasis and code",
		"## Only level two\n":          "",
		"":                             "",
	}
	for in, want := range tests {
		assert.Equal(t, want, title(md, []byte(in)), "title(%q)", in)
	}
}

func TestHandler_Read(t *testing.T) {
	h, err := NewHandler()
	require.NoError(t, err)

	srv := server.NewMCPServer("test", "0.0.0", server.WithResourceCapabilities(false, false))
	h.Register(srv)

	for _, d := range h.docs {
		req := mcp.ReadResourceRequest{}
		req.Params.URI = d.URI
		contents, err := h.read(d)(context.Background(), req)
		require.NoError(t, err)
		require.Len(t, contents, 1)

		tc, ok := contents[0].(mcp.TextResourceContents)
		require.True(t, ok)
		assert.Equal(t, d.URI, tc.URI)
		assert.Equal(t, "text/markdown", tc.MIMEType)
		assert.Equal(t, d.Text, tc.Text)
	}
}

func TestResourceDefinition(t *testing.T) {
	d := Document{URI: "resource://x", Name: "X", Description: "about x"}
	r := resource(d)
	assert.Equal(t, "resource://x", r.URI)
	assert.Equal(t, "X", r.Name)
	assert.Equal(t, "about x", r.Description)
	assert.Equal(t, "text/markdown", r.MIMEType)
}
