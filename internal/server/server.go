// Package server is the composition root: it builds the GitLab client and
// registers tools, prompts and resources on one MCP server.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/HendryAvila/gitlab-mcp/internal/config"
	"github.com/HendryAvila/gitlab-mcp/internal/gitlab"
	"github.com/HendryAvila/gitlab-mcp/internal/prompts"
	"github.com/HendryAvila/gitlab-mcp/internal/resources"
	"github.com/HendryAvila/gitlab-mcp/internal/tools"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Name is the server name reported to MCP clients.
const Name = "gitlab-mcp"

// New creates the GitLab client and an MCP server with every tool, prompt
// and resource registered. The client is returned so callers can run a
// connectivity check against the same instance.
func New(cfg *config.Config, logger *slog.Logger) (*server.MCPServer, *gitlab.Client, error) {
	client := gitlab.NewClient(gitlab.Options{
		BaseURL:   cfg.APIURL(),
		Token:     cfg.GitLab.Token,
		Timeout:   cfg.Timeout(),
		SSLVerify: cfg.GitLab.SSLVerify,
		UserAgent: Name + "/" + Version,
		Logger:    logger.With("component", "gitlab"),
	})

	docs, err := resources.NewHandler()
	if err != nil {
		return nil, nil, fmt.Errorf("loading resources: %w", err)
	}

	s := server.NewMCPServer(
		Name,
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithToolHandlerMiddleware(logCalls(logger)),
		server.WithInstructions(instructions(cfg.GitLab.ReadOnly)),
	)

	tools.New(client, cfg.GitLab.ReadOnly).AddTo(s)
	prompts.Register(s)
	docs.Register(s)

	return s, client, nil
}

// logCalls logs every tool invocation with a per-call ID. Arguments are
// not logged; they may carry variable values.
func logCalls(logger *slog.Logger) server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			id := uuid.NewString()
			start := time.Now()
			logger.Debug("tool call started", "call_id", id, "tool", req.Params.Name)

			res, err := next(ctx, req)

			failed := err != nil || (res != nil && res.IsError)
			attrs := []any{
				"call_id", id,
				"tool", req.Params.Name,
				"duration", time.Since(start),
				"is_error", failed,
			}
			if err != nil {
				attrs = append(attrs, "error", err)
			}
			if failed {
				logger.Warn("tool call failed", attrs...)
			} else {
				logger.Info("tool call", attrs...)
			}
			return res, err
		}
	}
}

func instructions(readOnly bool) string {
	s := `You have access to a GitLab instance through the gitlab_* tools.

Identifiers:
- project_id accepts a numeric ID, a full path such as "group/subgroup/project", or a
  project URL. Paths are encoded for you.
- Merge requests and issues are addressed by their project-scoped IID, not the global ID.
- gitlab_get_mr and gitlab_get_pipeline also accept a web URL in place of the IDs.

Results:
- Every result is JSON. Lists come back as {"items", "count", "total", "has_more"}.
- Failures come back as {"error", "status_code", "hint"}. Follow the hint before retrying.
- Masked CI/CD variable values are replaced with ***MASKED***.

Workflows:
- Use gitlab_merge_mr_sequence to merge a stack of merge requests in order; it stops at
  the first failure and reports which ones were merged.
- The prompts review_mr, diagnose_pipeline, prepare_release, setup_branch_protection and
  triage_issues walk through common multi-step tasks.
- resource://rules/* and resource://guides/* hold reference conventions for CI, branching,
  merge requests, commits, code review and CODEOWNERS.`
	if readOnly {
		s += `

This server is in read-only mode. Every tool that creates, changes or deletes data
returns a write-disabled error without contacting GitLab. Do not call them.`
	}
	return s
}
