package tools

import (
	"context"

	"github.com/HendryAvila/gitlab-mcp/internal/gitlab"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func (t *Toolset) projectTools() []server.ServerTool {
	return []server.ServerTool{
		t.tool("gitlab_get_project",
			"Get project details by ID or path. Returns the project with its settings, default branch and web URL.",
			kindRead, t.getProject,
			projectIDParam(),
		),
		t.tool("gitlab_create_project",
			"Create a new GitLab project.",
			kindWrite, t.createProject,
			mcp.WithString("name", mcp.Required(), mcp.Description("Project name")),
			mcp.WithString("path", mcp.Description("Project path (URL slug). Defaults to a slug of the name")),
			mcp.WithNumber("namespace_id", mcp.Description("Namespace (group) ID to create the project in")),
			mcp.WithString("description", mcp.Description("Project description")),
			mcp.WithString("visibility",
				mcp.Description("Project visibility"),
				mcp.Enum("private", "internal", "public"),
			),
			mcp.WithBoolean("initialize_with_readme", mcp.Description("Create an initial commit with a README")),
			mcp.WithString("default_branch", mcp.Description("Default branch name")),
		),
		t.tool("gitlab_delete_project",
			"Delete a project. This removes the repository, issues and merge requests.",
			kindDestructive, t.deleteProject,
			projectIDParam(),
		),
		t.tool("gitlab_update_project_merge_settings",
			"Update a project's merge request settings. Only the settings you pass are changed.",
			kindIdempotent, t.updateProjectMergeSettings,
			projectIDParam(),
			mcp.WithBoolean("only_allow_merge_if_pipeline_succeeds", mcp.Description("Require a successful pipeline before merging")),
			mcp.WithBoolean("only_allow_merge_if_all_discussions_are_resolved", mcp.Description("Require all discussions to be resolved before merging")),
			mcp.WithBoolean("remove_source_branch_after_merge", mcp.Description("Delete the source branch by default after merge")),
			mcp.WithString("squash_option",
				mcp.Description("Squash policy"),
				mcp.Enum("never", "always", "default_on", "default_off"),
			),
			mcp.WithString("merge_method",
				mcp.Description("Merge method"),
				mcp.Enum("merge", "rebase_merge", "ff"),
			),
		),
	}
}

func (t *Toolset) getProject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	if b.err != nil {
		return invalid(b.err), nil
	}

	data, err := t.client.GetProject(ctx, project)
	if err != nil {
		return failure(err), nil
	}
	return success(data), nil
}

func (t *Toolset) createProject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	body := gitlab.Body{"name": b.requiredString("name")}
	b.setString(body, "path")
	b.setInt(body, "namespace_id")
	b.setString(body, "description")
	b.setString(body, "visibility")
	b.setBool(body, "initialize_with_readme")
	b.setString(body, "default_branch")
	if b.err != nil {
		return invalid(b.err), nil
	}

	data, err := t.client.CreateProject(ctx, body)
	if err != nil {
		return failure(err), nil
	}
	return success(data), nil
}

func (t *Toolset) deleteProject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	if b.err != nil {
		return invalid(b.err), nil
	}

	if err := t.client.DeleteProject(ctx, project); err != nil {
		return failure(err), nil
	}
	return deleted("project_id", project), nil
}

func (t *Toolset) updateProjectMergeSettings(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	body := gitlab.Body{}
	b.setBool(body, "only_allow_merge_if_pipeline_succeeds")
	b.setBool(body, "only_allow_merge_if_all_discussions_are_resolved")
	b.setBool(body, "remove_source_branch_after_merge")
	b.setString(body, "squash_option")
	b.setString(body, "merge_method")
	if b.err != nil {
		return invalid(b.err), nil
	}

	data, err := t.client.UpdateProject(ctx, project, body)
	if err != nil {
		return failure(err), nil
	}
	return success(data), nil
}
