package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// defaultTailLines is how much of a job log is returned when the caller
// does not say.
const defaultTailLines = 200

func jobIDParam() mcp.ToolOption {
	return mcp.WithNumber("job_id", mcp.Required(), mcp.Description("Job ID"))
}

func (t *Toolset) jobTools() []server.ServerTool {
	return []server.ServerTool{
		t.tool("gitlab_retry_job",
			"Retry a failed job.",
			kindWrite, t.retryJob,
			projectIDParam(),
			jobIDParam(),
		),
		t.tool("gitlab_play_job",
			"Trigger a manual job.",
			kindWrite, t.playJob,
			projectIDParam(),
			jobIDParam(),
			variablesParam("Job variables: [{key, value}]"),
		),
		t.tool("gitlab_cancel_job",
			"Cancel a running job.",
			kindDestructive, t.cancelJob,
			projectIDParam(),
			jobIDParam(),
		),
		t.tool("gitlab_get_job_log",
			"Get the log (trace) output of a job. Returns the last lines only.",
			kindRead, t.getJobLog,
			projectIDParam(),
			jobIDParam(),
			mcp.WithNumber("tail_lines",
				mcp.Description("Number of lines from the end to return (default 200, 0 for all)"),
				mcp.Min(0),
			),
		),
	}
}

func (t *Toolset) retryJob(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	jobID := b.requiredInt("job_id")
	if b.err != nil {
		return invalid(b.err), nil
	}

	data, err := t.client.RetryJob(ctx, project, jobID)
	if err != nil {
		return failure(err), nil
	}
	return success(data), nil
}

func (t *Toolset) playJob(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	jobID := b.requiredInt("job_id")
	vars := b.optVariables("variables")
	if b.err != nil {
		return invalid(b.err), nil
	}

	data, err := t.client.PlayJob(ctx, project, jobID, vars)
	if err != nil {
		return failure(err), nil
	}
	return success(data), nil
}

func (t *Toolset) cancelJob(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	jobID := b.requiredInt("job_id")
	if b.err != nil {
		return invalid(b.err), nil
	}

	data, err := t.client.CancelJob(ctx, project, jobID)
	if err != nil {
		return failure(err), nil
	}
	return success(data), nil
}

type jobLog struct {
	Log        string `json:"log"`
	TotalLines int    `json:"total_lines"`
	ShownLines int    `json:"shown_lines"`
}

func (t *Toolset) getJobLog(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	jobID := b.requiredInt("job_id")
	tail := defaultTailLines
	if n, ok := b.optInt("tail_lines"); ok {
		tail = n
	}
	if b.err != nil {
		return invalid(b.err), nil
	}

	trace, err := t.client.GetJobLog(ctx, project, jobID)
	if err != nil {
		return failure(err), nil
	}
	return success(tailLog(trace, tail)), nil
}

// tailLog keeps the last n lines of a trace. n <= 0 keeps everything.
func tailLog(trace string, n int) jobLog {
	lines := splitLines(trace)
	total := len(lines)
	if n > 0 && total > n {
		lines = lines[total-n:]
	}
	return jobLog{
		Log:        strings.Join(lines, "\n"),
		TotalLines: total,
		ShownLines: len(lines),
	}
}

// splitLines splits on \n, \r\n and \r. A trailing line break does not
// start a new empty line.
func splitLines(s string) []string {
	if s == "" {
		return []string{}
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}
