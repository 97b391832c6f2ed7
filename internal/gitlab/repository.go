package gitlab

import (
	"context"
	"net/url"
)

// ListBranches lists branches, 100 per page by default.
func (c *Client) ListBranches(ctx context.Context, projectID string, query url.Values) ([]any, error) {
	return c.getList(ctx, projectPath(projectID, "repository", "branches"),
		withDefaults(query, url.Values{"per_page": {"100"}}))
}

func (c *Client) CreateBranch(ctx context.Context, projectID, branch, ref string) (any, error) {
	return c.post(ctx, projectPath(projectID, "repository", "branches"), Body{
		"branch": branch,
		"ref":    ref,
	})
}

func (c *Client) DeleteBranch(ctx context.Context, projectID, branch string) error {
	return c.delete(ctx, projectPath(projectID, "repository", "branches", EncodeRef(branch)), nil)
}

// ListCommits lists commits, 40 per page by default.
func (c *Client) ListCommits(ctx context.Context, projectID string, query url.Values) ([]any, error) {
	return c.getList(ctx, projectPath(projectID, "repository", "commits"),
		withDefaults(query, url.Values{"per_page": {"40"}}))
}

func (c *Client) GetCommit(ctx context.Context, projectID, sha string) (any, error) {
	return c.get(ctx, projectPath(projectID, "repository", "commits", EncodeRef(sha)), nil)
}

func (c *Client) GetCommitDiff(ctx context.Context, projectID, sha string) ([]any, error) {
	return c.getList(ctx, projectPath(projectID, "repository", "commits", EncodeRef(sha), "diff"), nil)
}

// CreateCommit creates a commit from a list of file actions.
func (c *Client) CreateCommit(ctx context.Context, projectID string, body Body) (any, error) {
	return c.post(ctx, projectPath(projectID, "repository", "commits"), body)
}

// Compare diffs two refs.
func (c *Client) Compare(ctx context.Context, projectID, from, to string) (any, error) {
	return c.get(ctx, projectPath(projectID, "repository", "compare"), url.Values{
		"from": {from},
		"to":   {to},
	})
}

// ListRepositoryTree lists files recursively, 100 per page by default.
func (c *Client) ListRepositoryTree(ctx context.Context, projectID string, query url.Values) ([]any, error) {
	return c.getList(ctx, projectPath(projectID, "repository", "tree"),
		withDefaults(query, url.Values{"per_page": {"100"}, "recursive": {"true"}}))
}

// ListTags lists tags, 20 per page by default.
func (c *Client) ListTags(ctx context.Context, projectID string, query url.Values) ([]any, error) {
	return c.getList(ctx, projectPath(projectID, "repository", "tags"),
		withDefaults(query, url.Values{"per_page": {"20"}}))
}

func (c *Client) GetTag(ctx context.Context, projectID, tagName string) (any, error) {
	return c.get(ctx, projectPath(projectID, "repository", "tags", EncodeRef(tagName)), nil)
}

func (c *Client) CreateTag(ctx context.Context, projectID string, body Body) (any, error) {
	return c.post(ctx, projectPath(projectID, "repository", "tags"), body)
}

func (c *Client) DeleteTag(ctx context.Context, projectID, tagName string) error {
	return c.delete(ctx, projectPath(projectID, "repository", "tags", EncodeRef(tagName)), nil)
}
