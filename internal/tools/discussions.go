package tools

import (
	"context"

	"github.com/HendryAvila/gitlab-mcp/internal/gitlab"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func discussionIDParam() mcp.ToolOption {
	return mcp.WithString("discussion_id", mcp.Required(), mcp.Description("Discussion ID"))
}

func (t *Toolset) discussionTools() []server.ServerTool {
	return []server.ServerTool{
		t.tool("gitlab_list_mr_discussions",
			"List discussion threads on a merge request. Threads made only of system notes are left out.",
			kindRead, t.listMRDiscussions,
			projectIDParam(),
			mrIIDParam(),
		),
		t.tool("gitlab_create_mr_discussion",
			"Start a discussion on a merge request. For an inline comment pass the diff_refs SHAs "+
				"(base_sha, head_sha, start_sha) and new_path plus a line.",
			kindWrite, t.createMRDiscussion,
			projectIDParam(),
			mrIIDParam(),
			mcp.WithString("body", mcp.Required(), mcp.Description("Discussion body (markdown)")),
			mcp.WithString("base_sha", mcp.Description("Base commit SHA (from diff_refs)")),
			mcp.WithString("head_sha", mcp.Description("Head commit SHA (from diff_refs)")),
			mcp.WithString("start_sha", mcp.Description("Start commit SHA (from diff_refs)")),
			mcp.WithString("new_path", mcp.Description("File path for an inline comment")),
			mcp.WithString("old_path", mcp.Description("Old file path for renames. Defaults to new_path")),
			mcp.WithNumber("new_line", mcp.Description("Line number in the new file")),
			mcp.WithNumber("old_line", mcp.Description("Line number in the old file")),
			mcp.WithNumber("line_range_start_line", mcp.Description("Multi-line range start")),
			mcp.WithNumber("line_range_end_line", mcp.Description("Multi-line range end")),
			mcp.WithString("line_range_type", mcp.Description("Side of the line range (default new)"), mcp.Enum("new", "old")),
		),
		t.tool("gitlab_reply_to_discussion",
			"Reply to an existing discussion thread.",
			kindWrite, t.replyToDiscussion,
			projectIDParam(),
			mrIIDParam(),
			discussionIDParam(),
			mcp.WithString("body", mcp.Required(), mcp.Description("Reply body (markdown)")),
		),
		t.tool("gitlab_resolve_discussion",
			"Resolve or unresolve a discussion thread.",
			kindIdempotent, t.resolveDiscussion,
			projectIDParam(),
			mrIIDParam(),
			discussionIDParam(),
			mcp.WithBoolean("resolved", mcp.Required(), mcp.Description("True to resolve, false to unresolve")),
		),
	}
}

// hasHumanNote reports whether a discussion contains at least one note
// that is not a system note.
func hasHumanNote(discussion any) bool {
	obj, ok := discussion.(map[string]any)
	if !ok {
		return false
	}
	notes, _ := obj["notes"].([]any)
	for _, n := range notes {
		if !isSystemNote(n) {
			return true
		}
	}
	return false
}

func (t *Toolset) listMRDiscussions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	iid := b.requiredInt("mr_iid")
	if b.err != nil {
		return invalid(b.err), nil
	}

	discussions, err := t.client.ListMRDiscussions(ctx, project, iid)
	if err != nil {
		return failure(err), nil
	}

	kept := make([]any, 0, len(discussions))
	for _, d := range discussions {
		if hasHumanNote(d) {
			kept = append(kept, d)
		}
	}
	return page(kept), nil
}

// diffPosition builds the inline position for a new discussion. It
// returns nil unless all three diff SHAs and new_path are present, in
// which case the discussion is a general (non-inline) comment.
func diffPosition(b *binder) map[string]any {
	baseSHA, _ := b.optString("base_sha")
	headSHA, _ := b.optString("head_sha")
	startSHA, _ := b.optString("start_sha")
	newPath, _ := b.optString("new_path")
	if baseSHA == "" || headSHA == "" || startSHA == "" || newPath == "" {
		return nil
	}

	oldPath, _ := b.optString("old_path")
	if oldPath == "" {
		oldPath = newPath
	}

	position := map[string]any{
		"base_sha":      baseSHA,
		"start_sha":     startSHA,
		"head_sha":      headSHA,
		"position_type": "text",
		"new_path":      newPath,
		"old_path":      oldPath,
	}
	if line, ok := b.optInt("new_line"); ok {
		position["new_line"] = line
	}
	if line, ok := b.optInt("old_line"); ok {
		position["old_line"] = line
	}

	start, hasStart := b.optInt("line_range_start_line")
	end, hasEnd := b.optInt("line_range_end_line")
	if hasStart && hasEnd {
		rangeType, _ := b.optString("line_range_type")
		if rangeType == "" {
			rangeType = "new"
		}
		lineKey := "old_line"
		if rangeType == "new" {
			lineKey = "new_line"
		}
		position["line_range"] = map[string]any{
			"start": map[string]any{"type": rangeType, lineKey: start},
			"end":   map[string]any{"type": rangeType, lineKey: end},
		}
	}
	return position
}

func (t *Toolset) createMRDiscussion(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	iid := b.requiredInt("mr_iid")
	body := gitlab.Body{"body": b.requiredString("body")}
	if position := diffPosition(b); position != nil {
		body["position"] = position
	}
	if b.err != nil {
		return invalid(b.err), nil
	}

	data, err := t.client.CreateMRDiscussion(ctx, project, iid, body)
	if err != nil {
		return failure(err), nil
	}
	return success(data), nil
}

func (t *Toolset) replyToDiscussion(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	iid := b.requiredInt("mr_iid")
	discussionID := b.requiredString("discussion_id")
	body := b.requiredString("body")
	if b.err != nil {
		return invalid(b.err), nil
	}

	data, err := t.client.ReplyToDiscussion(ctx, project, iid, discussionID, body)
	if err != nil {
		return failure(err), nil
	}
	return success(data), nil
}

func (t *Toolset) resolveDiscussion(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	iid := b.requiredInt("mr_iid")
	discussionID := b.requiredString("discussion_id")
	resolved := b.requiredBool("resolved")
	if b.err != nil {
		return invalid(b.err), nil
	}

	data, err := t.client.ResolveDiscussion(ctx, project, iid, discussionID, resolved)
	if err != nil {
		return failure(err), nil
	}
	return success(data), nil
}
