package tools

import (
	"context"

	"github.com/HendryAvila/gitlab-mcp/internal/gitlab"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func (t *Toolset) approvalTools() []server.ServerTool {
	return []server.ServerTool{
		t.tool("gitlab_get_project_approvals",
			"Get project-level approval configuration.",
			kindRead, t.getProjectApprovals,
			projectIDParam(),
		),
		t.tool("gitlab_update_project_approvals",
			"Update project-level approval settings. Only the settings you pass are changed.",
			kindIdempotent, t.updateProjectApprovals,
			projectIDParam(),
			mcp.WithNumber("approvals_before_merge", mcp.Description("Required approvals count"), mcp.Min(0)),
			mcp.WithBoolean("reset_approvals_on_push", mcp.Description("Reset approvals on new push")),
			mcp.WithBoolean("disable_overriding_approvers_per_merge_request", mcp.Description("Disable per-MR approver override")),
			mcp.WithBoolean("merge_requests_author_approval", mcp.Description("Allow author self-approval")),
			mcp.WithBoolean("merge_requests_disable_committers_approval", mcp.Description("Disable committer approval")),
		),
		t.tool("gitlab_list_project_approval_rules",
			"List project-level approval rules.",
			kindRead, t.listProjectApprovalRules,
			projectIDParam(),
		),
		t.tool("gitlab_create_project_approval_rule",
			"Create a project-level approval rule.",
			kindWrite, t.createProjectApprovalRule,
			append([]mcp.ToolOption{projectIDParam()}, createRuleParams()...)...,
		),
		t.tool("gitlab_update_project_approval_rule",
			"Update a project-level approval rule. Only the fields you pass are changed.",
			kindIdempotent, t.updateProjectApprovalRule,
			append([]mcp.ToolOption{projectIDParam(), ruleIDParam()}, updateRuleParams()...)...,
		),
		t.tool("gitlab_delete_project_approval_rule",
			"Delete a project-level approval rule.",
			kindDestructive, t.deleteProjectApprovalRule,
			projectIDParam(),
			ruleIDParam(),
		),
		t.tool("gitlab_list_mr_approval_rules",
			"List merge request approval rules.",
			kindRead, t.listMRApprovalRules,
			projectIDParam(),
			mrIIDParam(),
		),
		t.tool("gitlab_create_mr_approval_rule",
			"Create a merge request approval rule.",
			kindWrite, t.createMRApprovalRule,
			append([]mcp.ToolOption{projectIDParam(), mrIIDParam()}, createRuleParams()...)...,
		),
		t.tool("gitlab_update_mr_approval_rule",
			"Update a merge request approval rule. Only the fields you pass are changed.",
			kindIdempotent, t.updateMRApprovalRule,
			append([]mcp.ToolOption{projectIDParam(), mrIIDParam(), ruleIDParam()}, updateRuleParams()...)...,
		),
		t.tool("gitlab_delete_mr_approval_rule",
			"Delete a merge request approval rule.",
			kindDestructive, t.deleteMRApprovalRule,
			projectIDParam(),
			mrIIDParam(),
			ruleIDParam(),
		),
	}
}

func ruleIDParam() mcp.ToolOption {
	return mcp.WithNumber("rule_id", mcp.Required(), mcp.Description("Approval rule ID"))
}

func createRuleParams() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("name", mcp.Required(), mcp.Description("Rule name")),
		mcp.WithNumber("approvals_required", mcp.Required(), mcp.Description("Number of approvals required"), mcp.Min(0)),
		intArrayParam("user_ids", "User IDs for the rule"),
		intArrayParam("group_ids", "Group IDs for the rule"),
	}
}

func updateRuleParams() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("name", mcp.Description("Rule name")),
		mcp.WithNumber("approvals_required", mcp.Description("Number of approvals required"), mcp.Min(0)),
		intArrayParam("user_ids", "User IDs for the rule"),
		intArrayParam("group_ids", "Group IDs for the rule"),
	}
}

// createRuleBody sends user and group IDs only when the lists are
// non-empty; GitLab treats an empty list on create as "nobody".
func createRuleBody(b *binder) gitlab.Body {
	body := gitlab.Body{
		"name":               b.requiredString("name"),
		"approvals_required": b.requiredInt("approvals_required"),
	}
	for _, key := range []string{"user_ids", "group_ids"} {
		if ids, ok := b.optIntSlice(key); ok && len(ids) > 0 {
			body[key] = ids
		}
	}
	return body
}

// updateRuleBody forwards every supplied field, so an empty list clears
// the rule's users or groups.
func updateRuleBody(b *binder) gitlab.Body {
	body := gitlab.Body{}
	b.setString(body, "name")
	b.setInt(body, "approvals_required")
	b.setIntSlice(body, "user_ids")
	b.setIntSlice(body, "group_ids")
	return body
}

func (t *Toolset) getProjectApprovals(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	if b.err != nil {
		return invalid(b.err), nil
	}

	data, err := t.client.GetProjectApprovals(ctx, project)
	if err != nil {
		return failure(err), nil
	}
	return success(data), nil
}

func (t *Toolset) updateProjectApprovals(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	body := gitlab.Body{}
	b.setInt(body, "approvals_before_merge")
	b.setBool(body, "reset_approvals_on_push")
	b.setBool(body, "disable_overriding_approvers_per_merge_request")
	b.setBool(body, "merge_requests_author_approval")
	b.setBool(body, "merge_requests_disable_committers_approval")
	if b.err != nil {
		return invalid(b.err), nil
	}

	data, err := t.client.UpdateProjectApprovals(ctx, project, body)
	if err != nil {
		return failure(err), nil
	}
	return success(data), nil
}

func (t *Toolset) listProjectApprovalRules(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	if b.err != nil {
		return invalid(b.err), nil
	}

	items, err := t.client.ListProjectApprovalRules(ctx, project)
	if err != nil {
		return failure(err), nil
	}
	return page(items), nil
}

func (t *Toolset) createProjectApprovalRule(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	body := createRuleBody(b)
	if b.err != nil {
		return invalid(b.err), nil
	}

	data, err := t.client.CreateProjectApprovalRule(ctx, project, body)
	if err != nil {
		return failure(err), nil
	}
	return success(data), nil
}

func (t *Toolset) updateProjectApprovalRule(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	ruleID := b.requiredInt("rule_id")
	body := updateRuleBody(b)
	if b.err != nil {
		return invalid(b.err), nil
	}

	data, err := t.client.UpdateProjectApprovalRule(ctx, project, ruleID, body)
	if err != nil {
		return failure(err), nil
	}
	return success(data), nil
}

func (t *Toolset) deleteProjectApprovalRule(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	ruleID := b.requiredInt("rule_id")
	if b.err != nil {
		return invalid(b.err), nil
	}

	if err := t.client.DeleteProjectApprovalRule(ctx, project, ruleID); err != nil {
		return failure(err), nil
	}
	return deleted("rule_id", ruleID), nil
}

func (t *Toolset) listMRApprovalRules(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	iid := b.requiredInt("mr_iid")
	if b.err != nil {
		return invalid(b.err), nil
	}

	items, err := t.client.ListMRApprovalRules(ctx, project, iid)
	if err != nil {
		return failure(err), nil
	}
	return page(items), nil
}

func (t *Toolset) createMRApprovalRule(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	iid := b.requiredInt("mr_iid")
	body := createRuleBody(b)
	if b.err != nil {
		return invalid(b.err), nil
	}

	data, err := t.client.CreateMRApprovalRule(ctx, project, iid, body)
	if err != nil {
		return failure(err), nil
	}
	return success(data), nil
}

func (t *Toolset) updateMRApprovalRule(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	iid := b.requiredInt("mr_iid")
	ruleID := b.requiredInt("rule_id")
	body := updateRuleBody(b)
	if b.err != nil {
		return invalid(b.err), nil
	}

	data, err := t.client.UpdateMRApprovalRule(ctx, project, iid, ruleID, body)
	if err != nil {
		return failure(err), nil
	}
	return success(data), nil
}

func (t *Toolset) deleteMRApprovalRule(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	iid := b.requiredInt("mr_iid")
	ruleID := b.requiredInt("rule_id")
	if b.err != nil {
		return invalid(b.err), nil
	}

	if err := t.client.DeleteMRApprovalRule(ctx, project, iid, ruleID); err != nil {
		return failure(err), nil
	}
	return deleted("rule_id", ruleID), nil
}
