package tools

import (
	"context"
	"net/url"

	"github.com/HendryAvila/gitlab-mcp/internal/gitlab"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func (t *Toolset) mergeRequestTools() []server.ServerTool {
	return []server.ServerTool{
		t.tool("gitlab_list_mrs",
			"List merge requests for a project.",
			kindRead, t.listMergeRequests,
			projectIDParam(),
			mcp.WithString("state", mcp.Description("Filter by state"), mcp.Enum("opened", "closed", "locked", "merged", "all")),
			mcp.WithString("scope", mcp.Description("Filter by scope"), mcp.Enum("created_by_me", "assigned_to_me", "all")),
			mcp.WithString("source_branch", mcp.Description("Filter by source branch")),
			mcp.WithString("target_branch", mcp.Description("Filter by target branch")),
			mcp.WithString("search", mcp.Description("Search in title and description")),
			mcp.WithString("labels", mcp.Description("Comma-separated labels")),
			perPageParam(),
		),
		t.tool("gitlab_get_mr",
			"Get merge request details: title, state, branches, author, diff_refs and merge status. "+
				"'project_id' may also be a merge request URL, in which case 'mr_iid' can be omitted.",
			kindRead, t.getMergeRequest,
			mcp.WithString("project_id",
				mcp.Required(),
				mcp.Description("Project ID, path, project URL or merge request URL"),
			),
			mcp.WithNumber("mr_iid", mcp.Description("Merge request IID")),
		),
		t.tool("gitlab_create_mr",
			"Create a new merge request.",
			kindWrite, t.createMergeRequest,
			projectIDParam(),
			mcp.WithString("source_branch", mcp.Required(), mcp.Description("Source branch")),
			mcp.WithString("target_branch", mcp.Required(), mcp.Description("Target branch")),
			mcp.WithString("title", mcp.Required(), mcp.Description("MR title")),
			mcp.WithString("description", mcp.Description("MR description (markdown)")),
			mcp.WithBoolean("draft", mcp.Description("Create as draft")),
			mcp.WithBoolean("squash", mcp.Description("Squash commits on merge")),
			mcp.WithBoolean("remove_source_branch", mcp.Description("Delete source branch on merge")),
			mcp.WithString("labels", mcp.Description("Comma-separated labels")),
		),
		t.tool("gitlab_update_mr",
			"Update a merge request. Only the fields you pass are changed.",
			kindIdempotent, t.updateMergeRequest,
			projectIDParam(),
			mrIIDParam(),
			mcp.WithString("title", mcp.Description("New title")),
			mcp.WithString("description", mcp.Description("New description")),
			mcp.WithString("target_branch", mcp.Description("New target branch")),
			mcp.WithString("labels", mcp.Description("Comma-separated labels")),
			mcp.WithBoolean("squash", mcp.Description("Squash commits on merge")),
			mcp.WithBoolean("remove_source_branch", mcp.Description("Delete source branch on merge")),
			mcp.WithBoolean("draft", mcp.Description("Set draft status")),
			mcp.WithString("state_event", mcp.Description("Close or reopen"), mcp.Enum("close", "reopen")),
		),
		t.tool("gitlab_merge_mr",
			"Merge a merge request.",
			kindWrite, t.mergeMergeRequest,
			projectIDParam(),
			mrIIDParam(),
			mcp.WithBoolean("squash", mcp.Description("Squash commits")),
			mcp.WithBoolean("delete_source_branch", mcp.Description("Delete source branch after merge")),
			mcp.WithString("merge_commit_message", mcp.Description("Custom merge commit message")),
			mcp.WithString("squash_commit_message", mcp.Description("Custom squash commit message")),
			mcp.WithBoolean("merge_when_pipeline_succeeds", mcp.Description("Merge when the pipeline passes")),
		),
		t.tool("gitlab_merge_mr_sequence",
			"Merge several merge requests one after another in the given order. "+
				"Stops at the first failure and reports which ones were merged.",
			kindWrite, t.mergeSequence,
			projectIDParam(),
			intArrayParam("mr_iids", "Merge request IIDs to merge, in order", mcp.Required()),
			mcp.WithBoolean("squash", mcp.Description("Squash commits")),
			mcp.WithBoolean("delete_source_branch", mcp.Description("Delete source branches after merge")),
			mcp.WithBoolean("merge_when_pipeline_succeeds", mcp.Description("Merge when the pipeline passes")),
			mcp.WithBoolean("require_mergeable_status", mcp.Description("Check each merge request is mergeable first (default true)")),
		),
		t.tool("gitlab_rebase_mr",
			"Rebase a merge request onto its target branch.",
			kindWrite, t.rebaseMergeRequest,
			projectIDParam(),
			mrIIDParam(),
			mcp.WithBoolean("skip_ci", mcp.Description("Skip the CI pipeline for the rebase")),
		),
		t.tool("gitlab_mr_changes",
			"Get the file changes of a merge request: diffs with old and new paths.",
			kindRead, t.mergeRequestChanges,
			projectIDParam(),
			mrIIDParam(),
		),
	}
}

func (t *Toolset) listMergeRequests(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	query := url.Values{}
	for _, key := range []string{"state", "scope", "source_branch", "target_branch", "search", "labels"} {
		b.queryString(query, key)
	}
	b.queryInt(query, "per_page")
	if b.err != nil {
		return invalid(b.err), nil
	}

	items, err := t.client.ListMergeRequests(ctx, project, query)
	if err != nil {
		return failure(err), nil
	}
	return page(items), nil
}

func (t *Toolset) getMergeRequest(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project, iid := b.projectItem("mr_iid", gitlab.ParseMergeRequestURL)
	if b.err != nil {
		return invalid(b.err), nil
	}

	data, err := t.client.GetMergeRequest(ctx, project, iid)
	if err != nil {
		return failure(err), nil
	}
	return success(data), nil
}

func (t *Toolset) createMergeRequest(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	body := gitlab.Body{
		"source_branch": b.requiredString("source_branch"),
		"target_branch": b.requiredString("target_branch"),
		"title":         b.requiredString("title"),
	}
	b.setString(body, "description")
	b.setBool(body, "draft")
	b.setBool(body, "squash")
	b.setBool(body, "remove_source_branch")
	b.setString(body, "labels")
	if b.err != nil {
		return invalid(b.err), nil
	}

	data, err := t.client.CreateMergeRequest(ctx, project, body)
	if err != nil {
		return failure(err), nil
	}
	return success(data), nil
}

func (t *Toolset) updateMergeRequest(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	iid := b.requiredInt("mr_iid")
	body := gitlab.Body{}
	for _, key := range []string{"title", "description", "target_branch", "labels"} {
		b.setString(body, key)
	}
	b.setBool(body, "squash")
	b.setBool(body, "remove_source_branch")
	b.setBool(body, "draft")
	b.setString(body, "state_event")
	if b.err != nil {
		return invalid(b.err), nil
	}

	data, err := t.client.UpdateMergeRequest(ctx, project, iid, body)
	if err != nil {
		return failure(err), nil
	}
	return success(data), nil
}

// mergeOptions reads the options shared by single and sequential merges.
func mergeOptions(b *binder) gitlab.Body {
	body := gitlab.Body{}
	b.setBool(body, "squash")
	b.setBoolAs(body, "delete_source_branch", "should_remove_source_branch")
	b.setBool(body, "merge_when_pipeline_succeeds")
	return body
}

func (t *Toolset) mergeMergeRequest(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	iid := b.requiredInt("mr_iid")
	body := mergeOptions(b)
	b.setString(body, "merge_commit_message")
	b.setString(body, "squash_commit_message")
	if b.err != nil {
		return invalid(b.err), nil
	}

	data, err := t.client.MergeMergeRequest(ctx, project, iid, body)
	if err != nil {
		return failure(err), nil
	}
	return success(data), nil
}

func (t *Toolset) rebaseMergeRequest(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	iid := b.requiredInt("mr_iid")
	skipCI := b.boolOr("skip_ci", false)
	if b.err != nil {
		return invalid(b.err), nil
	}

	data, err := t.client.RebaseMergeRequest(ctx, project, iid, skipCI)
	if err != nil {
		return failure(err), nil
	}
	return success(data), nil
}

func (t *Toolset) mergeRequestChanges(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	iid := b.requiredInt("mr_iid")
	if b.err != nil {
		return invalid(b.err), nil
	}

	data, err := t.client.GetMergeRequestChanges(ctx, project, iid)
	if err != nil {
		return failure(err), nil
	}
	return success(data), nil
}

// projectItem reads project_id together with an item number. When
// project_id is a web URL naming the item (a merge request or pipeline
// link), both come from the URL and the number argument may be omitted.
func (b *binder) projectItem(key string, parse func(string) (string, int, bool)) (string, int) {
	raw := b.requiredString("project_id")
	if b.err != nil {
		return "", 0
	}
	if project, n, ok := parse(raw); ok {
		if explicit, given := b.optInt(key); given {
			n = explicit
		}
		return project, n
	}
	return gitlab.ParseProjectURL(raw), b.requiredInt(key)
}
