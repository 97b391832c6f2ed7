package gitlab

import "context"

func (c *Client) GetProjectApprovals(ctx context.Context, projectID string) (any, error) {
	return c.get(ctx, projectPath(projectID, "approvals"), nil)
}

// UpdateProjectApprovals changes project-level approval settings. GitLab
// takes a POST here, not a PUT.
func (c *Client) UpdateProjectApprovals(ctx context.Context, projectID string, body Body) (any, error) {
	return c.post(ctx, projectPath(projectID, "approvals"), body)
}

func (c *Client) ListProjectApprovalRules(ctx context.Context, projectID string) ([]any, error) {
	return c.getList(ctx, projectPath(projectID, "approval_rules"), nil)
}

func (c *Client) CreateProjectApprovalRule(ctx context.Context, projectID string, body Body) (any, error) {
	return c.post(ctx, projectPath(projectID, "approval_rules"), body)
}

func (c *Client) UpdateProjectApprovalRule(ctx context.Context, projectID string, ruleID int, body Body) (any, error) {
	return c.put(ctx, projectPath(projectID, "approval_rules", EncodeIntID(ruleID)), body, nil)
}

func (c *Client) DeleteProjectApprovalRule(ctx context.Context, projectID string, ruleID int) error {
	return c.delete(ctx, projectPath(projectID, "approval_rules", EncodeIntID(ruleID)), nil)
}

func (c *Client) ListMRApprovalRules(ctx context.Context, projectID string, mrIID int) ([]any, error) {
	return c.getList(ctx, mrPath(projectID, mrIID, "approval_rules"), nil)
}

func (c *Client) CreateMRApprovalRule(ctx context.Context, projectID string, mrIID int, body Body) (any, error) {
	return c.post(ctx, mrPath(projectID, mrIID, "approval_rules"), body)
}

func (c *Client) UpdateMRApprovalRule(ctx context.Context, projectID string, mrIID, ruleID int, body Body) (any, error) {
	return c.put(ctx, mrPath(projectID, mrIID, "approval_rules", EncodeIntID(ruleID)), body, nil)
}

func (c *Client) DeleteMRApprovalRule(ctx context.Context, projectID string, mrIID, ruleID int) error {
	return c.delete(ctx, mrPath(projectID, mrIID, "approval_rules", EncodeIntID(ruleID)), nil)
}
