package gitlab

import (
	"context"
	"net/url"
)

// ListReleases lists releases, 20 per page by default.
func (c *Client) ListReleases(ctx context.Context, projectID string, query url.Values) ([]any, error) {
	return c.getList(ctx, projectPath(projectID, "releases"),
		withDefaults(query, url.Values{"per_page": {"20"}}))
}

func (c *Client) GetRelease(ctx context.Context, projectID, tagName string) (any, error) {
	return c.get(ctx, projectPath(projectID, "releases", EncodeRef(tagName)), nil)
}

func (c *Client) CreateRelease(ctx context.Context, projectID string, body Body) (any, error) {
	return c.post(ctx, projectPath(projectID, "releases"), body)
}

func (c *Client) UpdateRelease(ctx context.Context, projectID, tagName string, body Body) (any, error) {
	return c.put(ctx, projectPath(projectID, "releases", EncodeRef(tagName)), body, nil)
}

// DeleteRelease removes the release but keeps its tag.
func (c *Client) DeleteRelease(ctx context.Context, projectID, tagName string) error {
	return c.delete(ctx, projectPath(projectID, "releases", EncodeRef(tagName)), nil)
}
