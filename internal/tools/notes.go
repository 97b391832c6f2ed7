package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func noteIDParam(description string) mcp.ToolOption {
	return mcp.WithNumber("note_id", mcp.Required(), mcp.Description(description))
}

func (t *Toolset) noteTools() []server.ServerTool {
	return []server.ServerTool{
		t.tool("gitlab_list_mr_notes",
			"List notes (comments) on a merge request. System notes are left out unless requested.",
			kindRead, t.listMRNotes,
			projectIDParam(),
			mrIIDParam(),
			mcp.WithBoolean("include_system", mcp.Description("Include system-generated notes")),
		),
		t.tool("gitlab_add_mr_note",
			"Add a note (comment) to a merge request.",
			kindWrite, t.addMRNote,
			projectIDParam(),
			mrIIDParam(),
			mcp.WithString("body", mcp.Required(), mcp.Description("Comment body (markdown)")),
			mcp.WithBoolean("internal", mcp.Description("Internal note, hidden from non-members")),
		),
		t.tool("gitlab_delete_mr_note",
			"Delete a note from a merge request.",
			kindDestructive, t.deleteMRNote,
			projectIDParam(),
			mrIIDParam(),
			noteIDParam("Note ID to delete"),
		),
		t.tool("gitlab_update_mr_note",
			"Replace the body of a note on a merge request.",
			kindIdempotent, t.updateMRNote,
			projectIDParam(),
			mrIIDParam(),
			noteIDParam("Note ID to update"),
			mcp.WithString("body", mcp.Required(), mcp.Description("New note body")),
		),
		t.tool("gitlab_award_emoji",
			"Award an emoji reaction to a note.",
			kindWrite, t.awardEmoji,
			projectIDParam(),
			mrIIDParam(),
			noteIDParam("Note ID"),
			mcp.WithString("emoji", mcp.Required(), mcp.Description("Emoji name (e.g. thumbsup, 100, eyes)")),
		),
		t.tool("gitlab_remove_emoji",
			"Remove an emoji reaction from a note.",
			kindDestructive, t.removeEmoji,
			projectIDParam(),
			mrIIDParam(),
			noteIDParam("Note ID"),
			mcp.WithNumber("award_id", mcp.Required(), mcp.Description("Award emoji ID to remove")),
		),
	}
}

// isSystemNote reports whether a note was generated by GitLab itself
// (label changes, pushes, status updates).
func isSystemNote(note any) bool {
	obj, ok := note.(map[string]any)
	if !ok {
		return false
	}
	system, _ := obj["system"].(bool)
	return system
}

func (t *Toolset) listMRNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	iid := b.requiredInt("mr_iid")
	includeSystem := b.boolOr("include_system", false)
	if b.err != nil {
		return invalid(b.err), nil
	}

	notes, err := t.client.ListMRNotes(ctx, project, iid)
	if err != nil {
		return failure(err), nil
	}
	if includeSystem {
		return page(notes), nil
	}

	human := make([]any, 0, len(notes))
	for _, n := range notes {
		if !isSystemNote(n) {
			human = append(human, n)
		}
	}
	return page(human), nil
}

func (t *Toolset) addMRNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	iid := b.requiredInt("mr_iid")
	body := b.requiredString("body")
	internal := b.boolOr("internal", false)
	if b.err != nil {
		return invalid(b.err), nil
	}

	data, err := t.client.AddMRNote(ctx, project, iid, body, internal)
	if err != nil {
		return failure(err), nil
	}
	return success(data), nil
}

func (t *Toolset) deleteMRNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	iid := b.requiredInt("mr_iid")
	noteID := b.requiredInt("note_id")
	if b.err != nil {
		return invalid(b.err), nil
	}

	if err := t.client.DeleteMRNote(ctx, project, iid, noteID); err != nil {
		return failure(err), nil
	}
	return deleted("note_id", noteID), nil
}

func (t *Toolset) updateMRNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	iid := b.requiredInt("mr_iid")
	noteID := b.requiredInt("note_id")
	body := b.requiredString("body")
	if b.err != nil {
		return invalid(b.err), nil
	}

	data, err := t.client.UpdateMRNote(ctx, project, iid, noteID, body)
	if err != nil {
		return failure(err), nil
	}
	return success(data), nil
}

func (t *Toolset) awardEmoji(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	iid := b.requiredInt("mr_iid")
	noteID := b.requiredInt("note_id")
	emoji := b.requiredString("emoji")
	if b.err != nil {
		return invalid(b.err), nil
	}

	data, err := t.client.AwardEmoji(ctx, project, iid, noteID, emoji)
	if err != nil {
		return failure(err), nil
	}
	return success(data), nil
}

func (t *Toolset) removeEmoji(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	iid := b.requiredInt("mr_iid")
	noteID := b.requiredInt("note_id")
	awardID := b.requiredInt("award_id")
	if b.err != nil {
		return invalid(b.err), nil
	}

	if err := t.client.DeleteAwardEmoji(ctx, project, iid, noteID, awardID); err != nil {
		return failure(err), nil
	}
	return success(map[string]any{"status": "removed", "award_id": awardID}), nil
}
