package tools

import (
	"context"

	"github.com/HendryAvila/gitlab-mcp/internal/envelope"
	"github.com/HendryAvila/gitlab-mcp/internal/gitlab"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func variableKeyParam() mcp.ToolOption {
	return mcp.WithString("key", mcp.Required(), mcp.Description("Variable key"))
}

// variableSettingParams are the optional flags shared by create and update.
func variableSettingParams() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("variable_type", mcp.Description("Variable type"), mcp.Enum("env_var", "file")),
		mcp.WithBoolean("protected", mcp.Description("Only available on protected branches and tags")),
		mcp.WithBoolean("masked", mcp.Description("Mask the value in job logs")),
		mcp.WithBoolean("raw", mcp.Description("Do not expand variable references")),
		mcp.WithString("description", mcp.Description("Variable description")),
	}
}

func environmentScopeParam(description string) mcp.ToolOption {
	return mcp.WithString("environment_scope", mcp.Description(description))
}

func (t *Toolset) variableTools() []server.ServerTool {
	valueParam := mcp.WithString("value", mcp.Required(), mcp.Description("Variable value"))

	createProject := []mcp.ToolOption{projectIDParam(), variableKeyParam(), valueParam,
		environmentScopeParam("Environment scope (default: *)")}
	updateProject := []mcp.ToolOption{projectIDParam(), variableKeyParam(), valueParam,
		environmentScopeParam("Environment scope selecting which variable to update")}
	createGroup := []mcp.ToolOption{groupIDParam(), variableKeyParam(), valueParam,
		environmentScopeParam("Environment scope (default: *)")}
	updateGroup := []mcp.ToolOption{groupIDParam(), variableKeyParam(), valueParam}

	return []server.ServerTool{
		t.tool("gitlab_list_variables",
			"List project CI/CD variables. Values of masked variables are shown as '"+envelope.MaskedValue+"'.",
			kindRead, t.listVariables,
			projectIDParam(),
		),
		t.tool("gitlab_create_variable",
			"Create a project CI/CD variable.",
			kindWrite, t.createVariable,
			append(createProject, variableSettingParams()...)...,
		),
		t.tool("gitlab_update_variable",
			"Update a project CI/CD variable.",
			kindIdempotent, t.updateVariable,
			append(updateProject, variableSettingParams()...)...,
		),
		t.tool("gitlab_delete_variable",
			"Delete a project CI/CD variable.",
			kindDestructive, t.deleteVariable,
			projectIDParam(),
			variableKeyParam(),
			environmentScopeParam("Environment scope filter"),
		),
		t.tool("gitlab_list_group_variables",
			"List group CI/CD variables. Values of masked variables are shown as '"+envelope.MaskedValue+"'.",
			kindRead, t.listGroupVariables,
			groupIDParam(),
		),
		t.tool("gitlab_create_group_variable",
			"Create a group CI/CD variable.",
			kindWrite, t.createGroupVariable,
			append(createGroup, variableSettingParams()...)...,
		),
		t.tool("gitlab_update_group_variable",
			"Update a group CI/CD variable.",
			kindIdempotent, t.updateGroupVariable,
			append(updateGroup, variableSettingParams()...)...,
		),
		t.tool("gitlab_delete_group_variable",
			"Delete a group CI/CD variable.",
			kindDestructive, t.deleteGroupVariable,
			groupIDParam(),
			variableKeyParam(),
		),
	}
}

func variableSettings(b *binder, body gitlab.Body) {
	b.setString(body, "variable_type")
	b.setBool(body, "protected")
	b.setBool(body, "masked")
	b.setBool(body, "raw")
	b.setString(body, "description")
}

// createVariableBody is shared by project and group creation.
func createVariableBody(b *binder) gitlab.Body {
	body := gitlab.Body{
		"key":   b.requiredString("key"),
		"value": b.presentString("value"),
	}
	variableSettings(b, body)
	b.setString(body, "environment_scope")
	return body
}

func updateVariableBody(b *binder) gitlab.Body {
	body := gitlab.Body{"value": b.presentString("value")}
	variableSettings(b, body)
	return body
}

func (t *Toolset) listVariables(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	if b.err != nil {
		return invalid(b.err), nil
	}

	items, err := t.client.ListVariables(ctx, project)
	if err != nil {
		return failure(err), nil
	}
	return page(envelope.MaskVariables(items)), nil
}

func (t *Toolset) createVariable(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	body := createVariableBody(b)
	if b.err != nil {
		return invalid(b.err), nil
	}

	data, err := t.client.CreateVariable(ctx, project, body)
	if err != nil {
		return failure(err), nil
	}
	return success(data), nil
}

func (t *Toolset) updateVariable(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	key := b.requiredString("key")
	body := updateVariableBody(b)
	scope, _ := b.optString("environment_scope")
	if b.err != nil {
		return invalid(b.err), nil
	}

	data, err := t.client.UpdateVariable(ctx, project, key, body, scope)
	if err != nil {
		return failure(err), nil
	}
	return success(data), nil
}

func (t *Toolset) deleteVariable(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	key := b.requiredString("key")
	scope, _ := b.optString("environment_scope")
	if b.err != nil {
		return invalid(b.err), nil
	}

	if err := t.client.DeleteVariable(ctx, project, key, scope); err != nil {
		return failure(err), nil
	}
	return deleted("key", key), nil
}

func (t *Toolset) listGroupVariables(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	group := b.requiredString("group_id")
	if b.err != nil {
		return invalid(b.err), nil
	}

	items, err := t.client.ListGroupVariables(ctx, group)
	if err != nil {
		return failure(err), nil
	}
	return page(envelope.MaskVariables(items)), nil
}

func (t *Toolset) createGroupVariable(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	group := b.requiredString("group_id")
	body := createVariableBody(b)
	if b.err != nil {
		return invalid(b.err), nil
	}

	data, err := t.client.CreateGroupVariable(ctx, group, body)
	if err != nil {
		return failure(err), nil
	}
	return success(data), nil
}

func (t *Toolset) updateGroupVariable(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	group := b.requiredString("group_id")
	key := b.requiredString("key")
	body := updateVariableBody(b)
	if b.err != nil {
		return invalid(b.err), nil
	}

	data, err := t.client.UpdateGroupVariable(ctx, group, key, body)
	if err != nil {
		return failure(err), nil
	}
	return success(data), nil
}

func (t *Toolset) deleteGroupVariable(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	group := b.requiredString("group_id")
	key := b.requiredString("key")
	if b.err != nil {
		return invalid(b.err), nil
	}

	if err := t.client.DeleteGroupVariable(ctx, group, key); err != nil {
		return failure(err), nil
	}
	return deleted("key", key), nil
}
