package gitlab

import (
	"context"
	"net/url"
)

// scopeFilter selects one variable among several sharing a key.
func scopeFilter(environmentScope string) url.Values {
	if environmentScope == "" {
		return nil
	}
	return url.Values{"filter[environment_scope]": {environmentScope}}
}

// ListVariables lists project CI/CD variables, 100 per page. Values of
// masked variables are returned as GitLab sends them; callers mask them
// before display.
func (c *Client) ListVariables(ctx context.Context, projectID string) ([]any, error) {
	return c.getList(ctx, projectPath(projectID, "variables"), url.Values{"per_page": {"100"}})
}

func (c *Client) CreateVariable(ctx context.Context, projectID string, body Body) (any, error) {
	return c.post(ctx, projectPath(projectID, "variables"), body)
}

func (c *Client) UpdateVariable(ctx context.Context, projectID, key string, body Body, environmentScope string) (any, error) {
	return c.put(ctx, projectPath(projectID, "variables", EncodeRef(key)), body, scopeFilter(environmentScope))
}

func (c *Client) DeleteVariable(ctx context.Context, projectID, key, environmentScope string) error {
	return c.delete(ctx, projectPath(projectID, "variables", EncodeRef(key)), scopeFilter(environmentScope))
}

func (c *Client) ListGroupVariables(ctx context.Context, groupID string) ([]any, error) {
	return c.getList(ctx, groupPath(groupID, "variables"), url.Values{"per_page": {"100"}})
}

func (c *Client) CreateGroupVariable(ctx context.Context, groupID string, body Body) (any, error) {
	return c.post(ctx, groupPath(groupID, "variables"), body)
}

func (c *Client) UpdateGroupVariable(ctx context.Context, groupID, key string, body Body) (any, error) {
	return c.put(ctx, groupPath(groupID, "variables", EncodeRef(key)), body, nil)
}

func (c *Client) DeleteGroupVariable(ctx context.Context, groupID, key string) error {
	return c.delete(ctx, groupPath(groupID, "variables", EncodeRef(key)), nil)
}
