package tools

import (
	"context"
	"net/url"

	"github.com/HendryAvila/gitlab-mcp/internal/gitlab"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func issueIIDParam() mcp.ToolOption {
	return mcp.WithNumber("issue_iid", mcp.Required(), mcp.Description("Issue IID"))
}

func (t *Toolset) issueTools() []server.ServerTool {
	return []server.ServerTool{
		t.tool("gitlab_list_issues",
			"List issues for a project.",
			kindRead, t.listIssues,
			projectIDParam(),
			mcp.WithString("state", mcp.Description("Filter by state"), mcp.Enum("opened", "closed", "all")),
			mcp.WithString("labels", mcp.Description("Comma-separated labels")),
			mcp.WithString("search", mcp.Description("Search in title and description")),
			mcp.WithNumber("assignee_id", mcp.Description("Filter by assignee user ID")),
			perPageParam(),
		),
		t.tool("gitlab_get_issue",
			"Get details of a specific issue.",
			kindRead, t.getIssue,
			projectIDParam(),
			issueIIDParam(),
		),
		t.tool("gitlab_create_issue",
			"Create a new issue.",
			kindWrite, t.createIssue,
			projectIDParam(),
			mcp.WithString("title", mcp.Required(), mcp.Description("Issue title")),
			mcp.WithString("description", mcp.Description("Issue description (markdown)")),
			mcp.WithString("labels", mcp.Description("Comma-separated labels")),
			intArrayParam("assignee_ids", "Assignee user IDs"),
			mcp.WithNumber("milestone_id", mcp.Description("Milestone ID")),
			mcp.WithBoolean("confidential", mcp.Description("Mark as confidential")),
			mcp.WithNumber("weight", mcp.Description("Issue weight"), mcp.Min(0)),
		),
		t.tool("gitlab_update_issue",
			"Update an existing issue. Only the fields you pass are changed.",
			kindIdempotent, t.updateIssue,
			projectIDParam(),
			issueIIDParam(),
			mcp.WithString("title", mcp.Description("New title")),
			mcp.WithString("description", mcp.Description("New description")),
			mcp.WithString("labels", mcp.Description("Comma-separated labels")),
			intArrayParam("assignee_ids", "Assignee user IDs"),
			mcp.WithString("state_event", mcp.Description("Close or reopen"), mcp.Enum("close", "reopen")),
			mcp.WithNumber("weight", mcp.Description("Issue weight"), mcp.Min(0)),
		),
		t.tool("gitlab_add_issue_comment",
			"Add a comment to an issue.",
			kindWrite, t.addIssueComment,
			projectIDParam(),
			issueIIDParam(),
			mcp.WithString("body", mcp.Required(), mcp.Description("Comment body (markdown)")),
		),
	}
}

func (t *Toolset) listIssues(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	query := url.Values{}
	b.queryString(query, "state")
	b.queryString(query, "labels")
	b.queryString(query, "search")
	b.queryInt(query, "assignee_id")
	b.queryInt(query, "per_page")
	if b.err != nil {
		return invalid(b.err), nil
	}

	items, err := t.client.ListIssues(ctx, project, query)
	if err != nil {
		return failure(err), nil
	}
	return page(items), nil
}

func (t *Toolset) getIssue(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	iid := b.requiredInt("issue_iid")
	if b.err != nil {
		return invalid(b.err), nil
	}

	data, err := t.client.GetIssue(ctx, project, iid)
	if err != nil {
		return failure(err), nil
	}
	return success(data), nil
}

func (t *Toolset) createIssue(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	body := gitlab.Body{"title": b.requiredString("title")}
	b.setString(body, "description")
	b.setString(body, "labels")
	b.setIntSlice(body, "assignee_ids")
	b.setInt(body, "milestone_id")
	b.setBool(body, "confidential")
	b.setInt(body, "weight")
	if b.err != nil {
		return invalid(b.err), nil
	}

	data, err := t.client.CreateIssue(ctx, project, body)
	if err != nil {
		return failure(err), nil
	}
	return success(data), nil
}

func (t *Toolset) updateIssue(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	iid := b.requiredInt("issue_iid")
	body := gitlab.Body{}
	b.setString(body, "title")
	b.setString(body, "description")
	b.setString(body, "labels")
	b.setIntSlice(body, "assignee_ids")
	b.setString(body, "state_event")
	b.setInt(body, "weight")
	if b.err != nil {
		return invalid(b.err), nil
	}

	data, err := t.client.UpdateIssue(ctx, project, iid, body)
	if err != nil {
		return failure(err), nil
	}
	return success(data), nil
}

func (t *Toolset) addIssueComment(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	iid := b.requiredInt("issue_iid")
	body := b.requiredString("body")
	if b.err != nil {
		return invalid(b.err), nil
	}

	data, err := t.client.AddIssueComment(ctx, project, iid, body)
	if err != nil {
		return failure(err), nil
	}
	return success(data), nil
}
