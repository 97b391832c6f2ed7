// Package tools exposes GitLab operations as MCP tools.
//
// Each resource area (projects, merge requests, pipelines, ...) lives in
// its own file and contributes a slice of server.ServerTool. Handlers
// read arguments, call one gitlab.Client operation and render the result
// through the envelope package. Failures are returned as error results
// carrying a JSON envelope, never as Go errors, so the calling agent
// always gets something it can parse.
package tools

import (
	"context"

	"github.com/HendryAvila/gitlab-mcp/internal/envelope"
	"github.com/HendryAvila/gitlab-mcp/internal/gitlab"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// kind classifies a tool for annotations and the write guard.
type kind int

const (
	// kindRead never changes GitLab state.
	kindRead kind = iota
	// kindWrite creates or triggers something.
	kindWrite
	// kindIdempotent updates state; repeating the call is harmless.
	kindIdempotent
	// kindDestructive deletes, cancels or revokes.
	kindDestructive
)

func (k kind) mutates() bool { return k != kindRead }

// Toolset holds the dependencies shared by every GitLab tool.
type Toolset struct {
	client   *gitlab.Client
	readOnly bool
}

// New creates a Toolset. When readOnly is set every mutating tool
// answers with the write-disabled envelope without contacting GitLab.
func New(client *gitlab.Client, readOnly bool) *Toolset {
	return &Toolset{client: client, readOnly: readOnly}
}

// All returns every tool with its handler, grouped by resource area.
func (t *Toolset) All() []server.ServerTool {
	var all []server.ServerTool
	for _, group := range [][]server.ServerTool{
		t.projectTools(),
		t.approvalTools(),
		t.groupTools(),
		t.branchTools(),
		t.commitTools(),
		t.mergeRequestTools(),
		t.noteTools(),
		t.discussionTools(),
		t.pipelineTools(),
		t.jobTools(),
		t.tagTools(),
		t.releaseTools(),
		t.variableTools(),
		t.issueTools(),
	} {
		all = append(all, group...)
	}
	return all
}

// AddTo registers every tool on srv.
func (t *Toolset) AddTo(srv *server.MCPServer) {
	srv.AddTools(t.All()...)
}

// tool builds the definition, sets annotations from k and wraps mutating
// handlers with the write guard.
func (t *Toolset) tool(name, description string, k kind, handler server.ToolHandlerFunc, opts ...mcp.ToolOption) server.ServerTool {
	base := []mcp.ToolOption{
		mcp.WithDescription(description),
		mcp.WithReadOnlyHintAnnotation(k == kindRead),
		mcp.WithDestructiveHintAnnotation(k == kindDestructive),
		mcp.WithIdempotentHintAnnotation(k == kindRead || k == kindIdempotent),
		mcp.WithOpenWorldHintAnnotation(true),
	}
	def := mcp.NewTool(name, append(base, opts...)...)

	if k.mutates() {
		handler = t.guard(handler)
	}
	return server.ServerTool{Tool: def, Handler: handler}
}

// guard rejects the call before any argument parsing or HTTP traffic
// when the server is read-only.
func (t *Toolset) guard(next server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if t.readOnly {
			return failure(gitlab.ErrWriteDisabled), nil
		}
		return next(ctx, req)
	}
}

// ─── Results ─────────────────────────────────────────────────────────────────

func success(v any) *mcp.CallToolResult {
	return mcp.NewToolResultText(envelope.OK(v))
}

func page(items []any) *mcp.CallToolResult {
	return mcp.NewToolResultText(envelope.Paginated(items))
}

func failure(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(envelope.Error(err))
}

// invalid reports a bad or missing argument.
func invalid(err error) *mcp.CallToolResult {
	return errorMessage("%s", err)
}

func errorMessage(format string, args ...any) *mcp.CallToolResult {
	return mcp.NewToolResultError(envelope.Message(format, args...))
}

// ─── Shared parameters ───────────────────────────────────────────────────────

func projectIDParam() mcp.ToolOption {
	return mcp.WithString("project_id",
		mcp.Required(),
		mcp.Description("Project ID, URL-encoded path (e.g. 'my-group/my-project') or project web URL"),
	)
}

func groupIDParam() mcp.ToolOption {
	return mcp.WithString("group_id",
		mcp.Required(),
		mcp.Description("Group ID or full path"),
	)
}

func mrIIDParam() mcp.ToolOption {
	return mcp.WithNumber("mr_iid",
		mcp.Required(),
		mcp.Description("Merge request IID"),
	)
}

func perPageParam() mcp.ToolOption {
	return mcp.WithNumber("per_page",
		mcp.Description("Results per page (1-100)"),
		mcp.Min(1),
		mcp.Max(100),
	)
}

func intArrayParam(name, description string, opts ...mcp.PropertyOption) mcp.ToolOption {
	opts = append([]mcp.PropertyOption{
		mcp.Description(description),
		mcp.Items(map[string]any{"type": "integer"}),
	}, opts...)
	return mcp.WithArray(name, opts...)
}

// deleted is the acknowledgement for delete-style tools. GitLab answers
// these with 204 and no body.
func deleted(key string, id any) *mcp.CallToolResult {
	return success(map[string]any{"status": "deleted", key: id})
}
