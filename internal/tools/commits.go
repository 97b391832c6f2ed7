package tools

import (
	"context"
	"net/url"

	"github.com/HendryAvila/gitlab-mcp/internal/gitlab"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func (t *Toolset) commitTools() []server.ServerTool {
	return []server.ServerTool{
		t.tool("gitlab_list_commits",
			"List repository commits, newest first.",
			kindRead, t.listCommits,
			projectIDParam(),
			mcp.WithString("ref_name", mcp.Description("Branch or tag name")),
			mcp.WithString("since", mcp.Description("ISO 8601 date, commits after")),
			mcp.WithString("until", mcp.Description("ISO 8601 date, commits before")),
			mcp.WithString("path", mcp.Description("File path filter")),
			perPageParam(),
		),
		t.tool("gitlab_get_commit",
			"Get a specific commit, optionally with its diff under 'diffs'.",
			kindRead, t.getCommit,
			projectIDParam(),
			mcp.WithString("sha", mcp.Required(), mcp.Description("Commit SHA, branch or tag")),
			mcp.WithBoolean("include_diff", mcp.Description("Include file diffs")),
		),
		t.tool("gitlab_create_commit",
			"Create a commit with multiple file actions in one call.",
			kindWrite, t.createCommit,
			projectIDParam(),
			mcp.WithString("branch", mcp.Required(), mcp.Description("Target branch")),
			mcp.WithString("commit_message", mcp.Required(), mcp.Description("Commit message")),
			mcp.WithArray("actions",
				mcp.Required(),
				mcp.Description("File actions: [{action: create|delete|move|update|chmod, file_path, content?, previous_path?}]"),
				mcp.Items(map[string]any{
					"type": "object",
					"properties": map[string]any{
						"action":        map[string]any{"type": "string", "enum": []string{"create", "delete", "move", "update", "chmod"}},
						"file_path":     map[string]any{"type": "string"},
						"content":       map[string]any{"type": "string"},
						"previous_path": map[string]any{"type": "string"},
					},
					"required": []string{"action", "file_path"},
				}),
			),
			mcp.WithString("start_branch", mcp.Description("Branch to start from when 'branch' does not exist yet")),
		),
		t.tool("gitlab_compare",
			"Compare two branches, tags or commits.",
			kindRead, t.compare,
			projectIDParam(),
			mcp.WithString("from", mcp.Required(), mcp.Description("Source branch/tag/SHA")),
			mcp.WithString("to", mcp.Required(), mcp.Description("Target branch/tag/SHA")),
		),
	}
}

func (t *Toolset) listCommits(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	query := url.Values{}
	b.queryString(query, "ref_name")
	b.queryString(query, "since")
	b.queryString(query, "until")
	b.queryString(query, "path")
	b.queryInt(query, "per_page")
	if b.err != nil {
		return invalid(b.err), nil
	}

	items, err := t.client.ListCommits(ctx, project, query)
	if err != nil {
		return failure(err), nil
	}
	return page(items), nil
}

func (t *Toolset) getCommit(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	sha := b.requiredString("sha")
	includeDiff := b.boolOr("include_diff", false)
	if b.err != nil {
		return invalid(b.err), nil
	}

	commit, err := t.client.GetCommit(ctx, project, sha)
	if err != nil {
		return failure(err), nil
	}
	if includeDiff {
		diff, err := t.client.GetCommitDiff(ctx, project, sha)
		if err != nil {
			return failure(err), nil
		}
		commit = attach(commit, "diffs", diff)
	}
	return success(commit), nil
}

func (t *Toolset) createCommit(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	body := gitlab.Body{
		"branch":         b.requiredString("branch"),
		"commit_message": b.requiredString("commit_message"),
	}
	actions, ok := b.optObjects("actions")
	if !ok {
		b.fail("'actions' is required")
	}
	body["actions"] = actions
	if start, ok := b.optString("start_branch"); ok && start != "" {
		body["start_branch"] = start
	}
	if b.err != nil {
		return invalid(b.err), nil
	}

	data, err := t.client.CreateCommit(ctx, project, body)
	if err != nil {
		return failure(err), nil
	}
	return success(data), nil
}

func (t *Toolset) compare(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	from := b.requiredString("from")
	to := b.requiredString("to")
	if b.err != nil {
		return invalid(b.err), nil
	}

	data, err := t.client.Compare(ctx, project, from, to)
	if err != nil {
		return failure(err), nil
	}
	return success(data), nil
}

// attach adds a field to an object payload. Non-object payloads are
// returned unchanged.
func attach(payload any, key string, value any) any {
	obj, ok := payload.(map[string]any)
	if !ok {
		return payload
	}
	obj[key] = value
	return obj
}
