package tools

import (
	"context"
	"net/url"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// accessLevelNames lists the accepted role names in ascending order.
var accessLevelNames = []string{"guest", "reporter", "developer", "maintainer", "owner"}

// accessLevels maps role names to GitLab access level values.
var accessLevels = map[string]int{
	"guest":      10,
	"reporter":   20,
	"developer":  30,
	"maintainer": 40,
	"owner":      50,
}

func lookupAccessLevel(name string) (int, bool) {
	level, ok := accessLevels[strings.ToLower(strings.TrimSpace(name))]
	return level, ok
}

func accessLevelParam() mcp.ToolOption {
	return mcp.WithString("access_level",
		mcp.Required(),
		mcp.Description("guest, reporter, developer, maintainer, or owner"),
	)
}

func (t *Toolset) groupTools() []server.ServerTool {
	return []server.ServerTool{
		t.tool("gitlab_list_groups",
			"List GitLab groups visible to the token.",
			kindRead, t.listGroups,
			mcp.WithString("search", mcp.Description("Search by name")),
			perPageParam(),
		),
		t.tool("gitlab_get_group",
			"Get details of a GitLab group.",
			kindRead, t.getGroup,
			groupIDParam(),
		),
		t.tool("gitlab_share_project_with_group",
			"Share a project with a group at the given access level.",
			kindWrite, t.shareProjectWithGroup,
			projectIDParam(),
			mcp.WithNumber("group_id", mcp.Required(), mcp.Description("Group ID to share with")),
			accessLevelParam(),
		),
		t.tool("gitlab_unshare_project_with_group",
			"Remove group sharing from a project.",
			kindDestructive, t.unshareProjectWithGroup,
			projectIDParam(),
			mcp.WithNumber("group_id", mcp.Required(), mcp.Description("Group ID to unshare")),
		),
		t.tool("gitlab_share_group_with_group",
			"Share a group with another group at the given access level.",
			kindWrite, t.shareGroupWithGroup,
			mcp.WithString("target_group_id", mcp.Required(), mcp.Description("Target group ID or path")),
			mcp.WithNumber("source_group_id", mcp.Required(), mcp.Description("Source group ID to share")),
			accessLevelParam(),
		),
		t.tool("gitlab_unshare_group_with_group",
			"Remove group sharing between groups.",
			kindDestructive, t.unshareGroupWithGroup,
			mcp.WithString("target_group_id", mcp.Required(), mcp.Description("Target group ID or path")),
			mcp.WithNumber("source_group_id", mcp.Required(), mcp.Description("Source group ID to remove")),
		),
	}
}

func (t *Toolset) listGroups(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	query := url.Values{}
	b.queryString(query, "search")
	b.queryInt(query, "per_page")
	if b.err != nil {
		return invalid(b.err), nil
	}

	items, err := t.client.ListGroups(ctx, query)
	if err != nil {
		return failure(err), nil
	}
	return page(items), nil
}

func (t *Toolset) getGroup(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	group := b.requiredString("group_id")
	if b.err != nil {
		return invalid(b.err), nil
	}

	data, err := t.client.GetGroup(ctx, group)
	if err != nil {
		return failure(err), nil
	}
	return success(data), nil
}

func (t *Toolset) shareProjectWithGroup(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	groupID := b.requiredInt("group_id")
	levelName := b.requiredString("access_level")
	if b.err != nil {
		return invalid(b.err), nil
	}

	level, ok := lookupAccessLevel(levelName)
	if !ok {
		return errorMessage("Invalid access level: %s. Use: %s", levelName, strings.Join(accessLevelNames, ", ")), nil
	}

	if err := t.client.ShareProjectWithGroup(ctx, project, groupID, level); err != nil {
		return failure(err), nil
	}
	return success(map[string]any{"status": "shared", "project_id": project, "group_id": groupID}), nil
}

func (t *Toolset) unshareProjectWithGroup(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	groupID := b.requiredInt("group_id")
	if b.err != nil {
		return invalid(b.err), nil
	}

	if err := t.client.UnshareProjectWithGroup(ctx, project, groupID); err != nil {
		return failure(err), nil
	}
	return success(map[string]any{"status": "unshared", "project_id": project, "group_id": groupID}), nil
}

func (t *Toolset) shareGroupWithGroup(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	target := b.requiredString("target_group_id")
	source := b.requiredInt("source_group_id")
	levelName := b.requiredString("access_level")
	if b.err != nil {
		return invalid(b.err), nil
	}

	level, ok := lookupAccessLevel(levelName)
	if !ok {
		return errorMessage("Invalid access level: %s", levelName), nil
	}

	if err := t.client.ShareGroupWithGroup(ctx, target, source, level); err != nil {
		return failure(err), nil
	}
	return success(map[string]any{"status": "shared"}), nil
}

func (t *Toolset) unshareGroupWithGroup(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	target := b.requiredString("target_group_id")
	source := b.requiredInt("source_group_id")
	if b.err != nil {
		return invalid(b.err), nil
	}

	if err := t.client.UnshareGroupWithGroup(ctx, target, source); err != nil {
		return failure(err), nil
	}
	return success(map[string]any{"status": "unshared"}), nil
}
