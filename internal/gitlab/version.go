package gitlab

import "context"

// ServerVersion fetches the instance version. Any authenticated token
// can read it, which makes it a cheap credentials check.
func (c *Client) ServerVersion(ctx context.Context) (any, error) {
	return c.get(ctx, "/version", nil)
}
