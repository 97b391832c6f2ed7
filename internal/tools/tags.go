package tools

import (
	"context"
	"net/url"

	"github.com/HendryAvila/gitlab-mcp/internal/gitlab"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func (t *Toolset) tagTools() []server.ServerTool {
	return []server.ServerTool{
		t.tool("gitlab_list_tags",
			"List repository tags.",
			kindRead, t.listTags,
			projectIDParam(),
			mcp.WithString("search", mcp.Description("Filter by tag name")),
			mcp.WithString("order_by", mcp.Description("Sort field"), mcp.Enum("name", "updated", "version")),
			mcp.WithString("sort", mcp.Description("Sort direction"), mcp.Enum("asc", "desc")),
			perPageParam(),
		),
		t.tool("gitlab_get_tag",
			"Get details of a specific tag.",
			kindRead, t.getTag,
			projectIDParam(),
			mcp.WithString("tag_name", mcp.Required(), mcp.Description("Tag name")),
		),
		t.tool("gitlab_create_tag",
			"Create a new tag. Pass a message to create an annotated tag.",
			kindWrite, t.createTag,
			projectIDParam(),
			mcp.WithString("tag_name", mcp.Required(), mcp.Description("Tag name")),
			mcp.WithString("ref", mcp.Required(), mcp.Description("Branch or commit SHA to tag")),
			mcp.WithString("message", mcp.Description("Annotated tag message")),
		),
		t.tool("gitlab_delete_tag",
			"Delete a tag.",
			kindDestructive, t.deleteTag,
			projectIDParam(),
			mcp.WithString("tag_name", mcp.Required(), mcp.Description("Tag name to delete")),
		),
	}
}

func (t *Toolset) listTags(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	query := url.Values{}
	b.queryString(query, "search")
	b.queryString(query, "order_by")
	b.queryString(query, "sort")
	b.queryInt(query, "per_page")
	if b.err != nil {
		return invalid(b.err), nil
	}

	items, err := t.client.ListTags(ctx, project, query)
	if err != nil {
		return failure(err), nil
	}
	return page(items), nil
}

func (t *Toolset) getTag(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	tag := b.requiredString("tag_name")
	if b.err != nil {
		return invalid(b.err), nil
	}

	data, err := t.client.GetTag(ctx, project, tag)
	if err != nil {
		return failure(err), nil
	}
	return success(data), nil
}

func (t *Toolset) createTag(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	body := gitlab.Body{
		"tag_name": b.requiredString("tag_name"),
		"ref":      b.requiredString("ref"),
	}
	if msg, ok := b.optString("message"); ok && msg != "" {
		body["message"] = msg
	}
	if b.err != nil {
		return invalid(b.err), nil
	}

	data, err := t.client.CreateTag(ctx, project, body)
	if err != nil {
		return failure(err), nil
	}
	return success(data), nil
}

func (t *Toolset) deleteTag(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	tag := b.requiredString("tag_name")
	if b.err != nil {
		return invalid(b.err), nil
	}

	if err := t.client.DeleteTag(ctx, project, tag); err != nil {
		return failure(err), nil
	}
	return deleted("tag", tag), nil
}
