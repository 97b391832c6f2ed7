package gitlab

import (
	"context"
	"net/url"
)

// ListIssues lists issues, 20 per page by default.
func (c *Client) ListIssues(ctx context.Context, projectID string, query url.Values) ([]any, error) {
	return c.getList(ctx, projectPath(projectID, "issues"),
		withDefaults(query, url.Values{"per_page": {"20"}}))
}

func (c *Client) GetIssue(ctx context.Context, projectID string, iid int) (any, error) {
	return c.get(ctx, projectPath(projectID, "issues", EncodeIntID(iid)), nil)
}

func (c *Client) CreateIssue(ctx context.Context, projectID string, body Body) (any, error) {
	return c.post(ctx, projectPath(projectID, "issues"), body)
}

func (c *Client) UpdateIssue(ctx context.Context, projectID string, iid int, body Body) (any, error) {
	return c.put(ctx, projectPath(projectID, "issues", EncodeIntID(iid)), body, nil)
}

func (c *Client) AddIssueComment(ctx context.Context, projectID string, iid int, body string) (any, error) {
	return c.post(ctx, projectPath(projectID, "issues", EncodeIntID(iid), "notes"), Body{"body": body})
}
