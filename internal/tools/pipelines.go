package tools

import (
	"context"
	"net/url"

	"github.com/HendryAvila/gitlab-mcp/internal/gitlab"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func pipelineIDParam() mcp.ToolOption {
	return mcp.WithNumber("pipeline_id", mcp.Required(), mcp.Description("Pipeline ID"))
}

func variablesParam(description string) mcp.ToolOption {
	return mcp.WithArray("variables",
		mcp.Description(description),
		mcp.Items(map[string]any{
			"type": "object",
			"properties": map[string]any{
				"key":           map[string]any{"type": "string"},
				"value":         map[string]any{"type": "string"},
				"variable_type": map[string]any{"type": "string", "enum": []string{"env_var", "file"}},
			},
			"required": []string{"key", "value"},
		}),
	)
}

func (t *Toolset) pipelineTools() []server.ServerTool {
	return []server.ServerTool{
		t.tool("gitlab_list_pipelines",
			"List pipelines for a project, newest first. Returns id, status, ref, source and created_at.",
			kindRead, t.listPipelines,
			projectIDParam(),
			mcp.WithString("ref", mcp.Description("Filter by branch or tag")),
			mcp.WithString("status", mcp.Description("Filter by status (running, pending, success, failed, ...)")),
			mcp.WithString("source", mcp.Description("Filter by source (push, web, trigger, ...)")),
			perPageParam(),
		),
		t.tool("gitlab_get_pipeline",
			"Get pipeline details, optionally with its jobs under 'jobs'. "+
				"'project_id' may also be a pipeline URL, in which case 'pipeline_id' can be omitted.",
			kindRead, t.getPipeline,
			mcp.WithString("project_id",
				mcp.Required(),
				mcp.Description("Project ID, path, project URL or pipeline URL"),
			),
			mcp.WithNumber("pipeline_id", mcp.Description("Pipeline ID")),
			mcp.WithBoolean("include_jobs", mcp.Description("Include pipeline jobs")),
		),
		t.tool("gitlab_create_pipeline",
			"Create (trigger) a new pipeline on a branch or tag.",
			kindWrite, t.createPipeline,
			projectIDParam(),
			mcp.WithString("ref", mcp.Required(), mcp.Description("Branch or tag to run the pipeline on")),
			variablesParam("Pipeline variables: [{key, value, variable_type?}]"),
		),
		t.tool("gitlab_retry_pipeline",
			"Retry all failed jobs in a pipeline.",
			kindWrite, t.retryPipeline,
			projectIDParam(),
			pipelineIDParam(),
		),
		t.tool("gitlab_cancel_pipeline",
			"Cancel a running pipeline.",
			kindDestructive, t.cancelPipeline,
			projectIDParam(),
			pipelineIDParam(),
		),
	}
}

func (t *Toolset) listPipelines(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	query := url.Values{}
	b.queryString(query, "ref")
	b.queryString(query, "status")
	b.queryString(query, "source")
	b.queryInt(query, "per_page")
	if b.err != nil {
		return invalid(b.err), nil
	}

	items, err := t.client.ListPipelines(ctx, project, query)
	if err != nil {
		return failure(err), nil
	}
	return page(items), nil
}

func (t *Toolset) getPipeline(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project, pipelineID := b.projectItem("pipeline_id", gitlab.ParsePipelineURL)
	includeJobs := b.boolOr("include_jobs", false)
	if b.err != nil {
		return invalid(b.err), nil
	}

	pipeline, err := t.client.GetPipeline(ctx, project, pipelineID)
	if err != nil {
		return failure(err), nil
	}
	if includeJobs {
		jobs, err := t.client.ListPipelineJobs(ctx, project, pipelineID)
		if err != nil {
			return failure(err), nil
		}
		pipeline = attach(pipeline, "jobs", jobs)
	}
	return success(pipeline), nil
}

func (t *Toolset) createPipeline(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	ref := b.requiredString("ref")
	vars := b.optVariables("variables")
	if b.err != nil {
		return invalid(b.err), nil
	}

	data, err := t.client.CreatePipeline(ctx, project, ref, vars)
	if err != nil {
		return failure(err), nil
	}
	return success(data), nil
}

func (t *Toolset) retryPipeline(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	pipelineID := b.requiredInt("pipeline_id")
	if b.err != nil {
		return invalid(b.err), nil
	}

	data, err := t.client.RetryPipeline(ctx, project, pipelineID)
	if err != nil {
		return failure(err), nil
	}
	return success(data), nil
}

func (t *Toolset) cancelPipeline(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	pipelineID := b.requiredInt("pipeline_id")
	if b.err != nil {
		return invalid(b.err), nil
	}

	data, err := t.client.CancelPipeline(ctx, project, pipelineID)
	if err != nil {
		return failure(err), nil
	}
	return success(data), nil
}
