package tools

import (
	"context"
	"net/url"

	"github.com/HendryAvila/gitlab-mcp/internal/gitlab"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func (t *Toolset) releaseTools() []server.ServerTool {
	releaseTag := mcp.WithString("tag_name", mcp.Required(), mcp.Description("Tag name of the release"))

	return []server.ServerTool{
		t.tool("gitlab_list_releases",
			"List project releases, newest first.",
			kindRead, t.listReleases,
			projectIDParam(),
			perPageParam(),
		),
		t.tool("gitlab_get_release",
			"Get details of a specific release.",
			kindRead, t.getRelease,
			projectIDParam(),
			releaseTag,
		),
		t.tool("gitlab_create_release",
			"Create a new release. The tag is created from 'ref' if it does not exist yet.",
			kindWrite, t.createRelease,
			projectIDParam(),
			mcp.WithString("tag_name", mcp.Required(), mcp.Description("Tag name for the release")),
			mcp.WithString("name", mcp.Description("Release name")),
			mcp.WithString("description", mcp.Description("Release description (markdown)")),
			mcp.WithString("ref", mcp.Description("Branch or commit if the tag doesn't exist yet")),
			mcp.WithString("released_at", mcp.Description("ISO 8601 release date")),
			mcp.WithArray("links",
				mcp.Description("Asset links: [{name, url, link_type?}]"),
				mcp.Items(map[string]any{
					"type": "object",
					"properties": map[string]any{
						"name":      map[string]any{"type": "string"},
						"url":       map[string]any{"type": "string"},
						"link_type": map[string]any{"type": "string"},
					},
					"required": []string{"name", "url"},
				}),
			),
		),
		t.tool("gitlab_update_release",
			"Update an existing release. Only the fields you pass are changed.",
			kindIdempotent, t.updateRelease,
			projectIDParam(),
			releaseTag,
			mcp.WithString("name", mcp.Description("New release name")),
			mcp.WithString("description", mcp.Description("New release description")),
			mcp.WithString("released_at", mcp.Description("New release date (ISO 8601)")),
		),
		t.tool("gitlab_delete_release",
			"Delete a release. The tag itself is kept.",
			kindDestructive, t.deleteRelease,
			projectIDParam(),
			releaseTag,
		),
	}
}

func (t *Toolset) listReleases(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	query := url.Values{}
	b.queryInt(query, "per_page")
	if b.err != nil {
		return invalid(b.err), nil
	}

	items, err := t.client.ListReleases(ctx, project, query)
	if err != nil {
		return failure(err), nil
	}
	return page(items), nil
}

func (t *Toolset) getRelease(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	tag := b.requiredString("tag_name")
	if b.err != nil {
		return invalid(b.err), nil
	}

	data, err := t.client.GetRelease(ctx, project, tag)
	if err != nil {
		return failure(err), nil
	}
	return success(data), nil
}

func (t *Toolset) createRelease(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	body := gitlab.Body{"tag_name": b.requiredString("tag_name")}
	b.setString(body, "name")
	b.setString(body, "description")
	b.setString(body, "ref")
	b.setString(body, "released_at")
	if links, ok := b.optObjects("links"); ok {
		body["assets"] = map[string]any{"links": links}
	}
	if b.err != nil {
		return invalid(b.err), nil
	}

	data, err := t.client.CreateRelease(ctx, project, body)
	if err != nil {
		return failure(err), nil
	}
	return success(data), nil
}

func (t *Toolset) updateRelease(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	tag := b.requiredString("tag_name")
	body := gitlab.Body{}
	b.setString(body, "name")
	b.setString(body, "description")
	b.setString(body, "released_at")
	if b.err != nil {
		return invalid(b.err), nil
	}

	data, err := t.client.UpdateRelease(ctx, project, tag, body)
	if err != nil {
		return failure(err), nil
	}
	return success(data), nil
}

func (t *Toolset) deleteRelease(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	tag := b.requiredString("tag_name")
	if b.err != nil {
		return invalid(b.err), nil
	}

	if err := t.client.DeleteRelease(ctx, project, tag); err != nil {
		return failure(err), nil
	}
	return deleted("tag_name", tag), nil
}
