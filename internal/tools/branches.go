package tools

import (
	"context"
	"net/url"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func (t *Toolset) branchTools() []server.ServerTool {
	return []server.ServerTool{
		t.tool("gitlab_list_branches",
			"List repository branches.",
			kindRead, t.listBranches,
			projectIDParam(),
			mcp.WithString("search", mcp.Description("Filter by branch name")),
			perPageParam(),
		),
		t.tool("gitlab_create_branch",
			"Create a new branch from a branch, tag or commit.",
			kindWrite, t.createBranch,
			projectIDParam(),
			mcp.WithString("branch_name", mcp.Required(), mcp.Description("New branch name")),
			mcp.WithString("ref", mcp.Required(), mcp.Description("Source branch or commit SHA")),
		),
		t.tool("gitlab_delete_branch",
			"Delete a branch.",
			kindDestructive, t.deleteBranch,
			projectIDParam(),
			mcp.WithString("branch_name", mcp.Required(), mcp.Description("Branch name to delete")),
		),
		t.tool("gitlab_list_repository_tree",
			"List files and directories in the repository. Recursive by default.",
			kindRead, t.listRepositoryTree,
			projectIDParam(),
			mcp.WithString("path", mcp.Description("Directory inside the repository")),
			mcp.WithString("ref", mcp.Description("Branch, tag or commit. Defaults to the default branch")),
			mcp.WithBoolean("recursive", mcp.Description("List subdirectories too (default true)")),
			perPageParam(),
		),
	}
}

func (t *Toolset) listBranches(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	query := url.Values{}
	b.queryString(query, "search")
	b.queryInt(query, "per_page")
	if b.err != nil {
		return invalid(b.err), nil
	}

	items, err := t.client.ListBranches(ctx, project, query)
	if err != nil {
		return failure(err), nil
	}
	return page(items), nil
}

func (t *Toolset) createBranch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	branch := b.requiredString("branch_name")
	ref := b.requiredString("ref")
	if b.err != nil {
		return invalid(b.err), nil
	}

	data, err := t.client.CreateBranch(ctx, project, branch, ref)
	if err != nil {
		return failure(err), nil
	}
	return success(data), nil
}

func (t *Toolset) deleteBranch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	branch := b.requiredString("branch_name")
	if b.err != nil {
		return invalid(b.err), nil
	}

	if err := t.client.DeleteBranch(ctx, project, branch); err != nil {
		return failure(err), nil
	}
	return deleted("branch", branch), nil
}

func (t *Toolset) listRepositoryTree(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	query := url.Values{}
	b.queryString(query, "path")
	b.queryString(query, "ref")
	if recursive, ok := b.optBool("recursive"); ok {
		query.Set("recursive", strconv.FormatBool(recursive))
	}
	b.queryInt(query, "per_page")
	if b.err != nil {
		return invalid(b.err), nil
	}

	items, err := t.client.ListRepositoryTree(ctx, project, query)
	if err != nil {
		return failure(err), nil
	}
	return page(items), nil
}
