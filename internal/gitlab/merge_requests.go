package gitlab

import (
	"context"
	"net/url"
)

// ListMergeRequests lists merge requests, 20 per page by default.
func (c *Client) ListMergeRequests(ctx context.Context, projectID string, query url.Values) ([]any, error) {
	return c.getList(ctx, projectPath(projectID, "merge_requests"),
		withDefaults(query, url.Values{"per_page": {"20"}}))
}

func (c *Client) GetMergeRequest(ctx context.Context, projectID string, iid int) (any, error) {
	return c.get(ctx, mrPath(projectID, iid), nil)
}

func (c *Client) CreateMergeRequest(ctx context.Context, projectID string, body Body) (any, error) {
	return c.post(ctx, projectPath(projectID, "merge_requests"), body)
}

func (c *Client) UpdateMergeRequest(ctx context.Context, projectID string, iid int, body Body) (any, error) {
	return c.put(ctx, mrPath(projectID, iid), body, nil)
}

// MergeMergeRequest accepts a merge request. A nil body is sent as {}.
func (c *Client) MergeMergeRequest(ctx context.Context, projectID string, iid int, body Body) (any, error) {
	if body == nil {
		body = Body{}
	}
	return c.put(ctx, mrPath(projectID, iid, "merge"), body, nil)
}

func (c *Client) RebaseMergeRequest(ctx context.Context, projectID string, iid int, skipCI bool) (any, error) {
	return c.put(ctx, mrPath(projectID, iid, "rebase"), Body{"skip_ci": skipCI}, nil)
}

// GetMergeRequestChanges returns the merge request with its file diffs.
func (c *Client) GetMergeRequestChanges(ctx context.Context, projectID string, iid int) (any, error) {
	return c.get(ctx, mrPath(projectID, iid, "changes"), nil)
}

// ListMRNotes lists the comments on a merge request, 100 per page.
func (c *Client) ListMRNotes(ctx context.Context, projectID string, iid int) ([]any, error) {
	return c.getList(ctx, mrPath(projectID, iid, "notes"), url.Values{"per_page": {"100"}})
}

// AddMRNote comments on a merge request. internal marks the note as
// visible to project members only.
func (c *Client) AddMRNote(ctx context.Context, projectID string, iid int, body string, internal bool) (any, error) {
	data := Body{"body": body}
	if internal {
		data["internal"] = true
	}
	return c.post(ctx, mrPath(projectID, iid, "notes"), data)
}

func (c *Client) UpdateMRNote(ctx context.Context, projectID string, iid, noteID int, body string) (any, error) {
	return c.put(ctx, mrPath(projectID, iid, "notes", EncodeIntID(noteID)), Body{"body": body}, nil)
}

func (c *Client) DeleteMRNote(ctx context.Context, projectID string, iid, noteID int) error {
	return c.delete(ctx, mrPath(projectID, iid, "notes", EncodeIntID(noteID)), nil)
}

// AwardEmoji reacts to a merge request note.
func (c *Client) AwardEmoji(ctx context.Context, projectID string, iid, noteID int, name string) (any, error) {
	return c.post(ctx, mrPath(projectID, iid, "notes", EncodeIntID(noteID), "award_emoji"), Body{"name": name})
}

func (c *Client) DeleteAwardEmoji(ctx context.Context, projectID string, iid, noteID, awardID int) error {
	return c.delete(ctx, mrPath(projectID, iid, "notes", EncodeIntID(noteID), "award_emoji", EncodeIntID(awardID)), nil)
}

// ListMRDiscussions lists discussion threads, 100 per page.
func (c *Client) ListMRDiscussions(ctx context.Context, projectID string, iid int) ([]any, error) {
	return c.getList(ctx, mrPath(projectID, iid, "discussions"), url.Values{"per_page": {"100"}})
}

// CreateMRDiscussion starts a thread, optionally anchored to a diff
// position.
func (c *Client) CreateMRDiscussion(ctx context.Context, projectID string, iid int, body Body) (any, error) {
	return c.post(ctx, mrPath(projectID, iid, "discussions"), body)
}

func (c *Client) ReplyToDiscussion(ctx context.Context, projectID string, iid int, discussionID, body string) (any, error) {
	return c.post(ctx, mrPath(projectID, iid, "discussions", EncodeRef(discussionID), "notes"), Body{"body": body})
}

func (c *Client) ResolveDiscussion(ctx context.Context, projectID string, iid int, discussionID string, resolved bool) (any, error) {
	return c.put(ctx, mrPath(projectID, iid, "discussions", EncodeRef(discussionID)), Body{"resolved": resolved}, nil)
}
