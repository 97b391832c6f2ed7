package gitlab

import (
	"context"
	"net/url"
)

// GetProject fetches a project by numeric ID or namespaced path.
func (c *Client) GetProject(ctx context.Context, projectID string) (any, error) {
	return c.get(ctx, projectPath(projectID), nil)
}

func (c *Client) CreateProject(ctx context.Context, body Body) (any, error) {
	return c.post(ctx, "/projects", body)
}

// UpdateProject edits project settings, including the merge settings.
func (c *Client) UpdateProject(ctx context.Context, projectID string, body Body) (any, error) {
	return c.put(ctx, projectPath(projectID), body, nil)
}

func (c *Client) DeleteProject(ctx context.Context, projectID string) error {
	return c.delete(ctx, projectPath(projectID), nil)
}

// ListGroups lists groups visible to the token, 50 per page by default.
func (c *Client) ListGroups(ctx context.Context, query url.Values) ([]any, error) {
	return c.getList(ctx, "/groups", withDefaults(query, url.Values{"per_page": {"50"}}))
}

func (c *Client) GetGroup(ctx context.Context, groupID string) (any, error) {
	return c.get(ctx, groupPath(groupID), nil)
}

// ShareProjectWithGroup grants a group access to a project.
func (c *Client) ShareProjectWithGroup(ctx context.Context, projectID string, groupID, access int) error {
	_, err := c.post(ctx, projectPath(projectID, "share"), Body{
		"group_id":     groupID,
		"group_access": access,
	})
	return err
}

func (c *Client) UnshareProjectWithGroup(ctx context.Context, projectID string, groupID int) error {
	return c.delete(ctx, projectPath(projectID, "share", EncodeIntID(groupID)), nil)
}

// ShareGroupWithGroup grants sourceGroupID access to targetGroupID.
func (c *Client) ShareGroupWithGroup(ctx context.Context, targetGroupID string, sourceGroupID, access int) error {
	_, err := c.post(ctx, groupPath(targetGroupID, "share"), Body{
		"group_id":     sourceGroupID,
		"group_access": access,
	})
	return err
}

func (c *Client) UnshareGroupWithGroup(ctx context.Context, targetGroupID string, sourceGroupID int) error {
	return c.delete(ctx, groupPath(targetGroupID, "share", EncodeIntID(sourceGroupID)), nil)
}
