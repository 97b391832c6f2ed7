package gitlab

import (
	"context"
	"net/url"
)

// ListPipelines lists pipelines, 20 per page by default.
func (c *Client) ListPipelines(ctx context.Context, projectID string, query url.Values) ([]any, error) {
	return c.getList(ctx, projectPath(projectID, "pipelines"),
		withDefaults(query, url.Values{"per_page": {"20"}}))
}

func (c *Client) GetPipeline(ctx context.Context, projectID string, pipelineID int) (any, error) {
	return c.get(ctx, projectPath(projectID, "pipelines", EncodeIntID(pipelineID)), nil)
}

// ListPipelineJobs lists the jobs of one pipeline, 100 per page.
func (c *Client) ListPipelineJobs(ctx context.Context, projectID string, pipelineID int) ([]any, error) {
	return c.getList(ctx, projectPath(projectID, "pipelines", EncodeIntID(pipelineID), "jobs"),
		url.Values{"per_page": {"100"}})
}

// PipelineVariable is a key/value pair passed to a new pipeline or a
// manual job.
type PipelineVariable struct {
	Key          string `json:"key"`
	Value        string `json:"value"`
	VariableType string `json:"variable_type,omitempty"`
}

// CreatePipeline triggers a pipeline on ref. Note the singular
// "pipeline" in the path.
func (c *Client) CreatePipeline(ctx context.Context, projectID, ref string, variables []PipelineVariable) (any, error) {
	body := Body{"ref": ref}
	if len(variables) > 0 {
		body["variables"] = variables
	}
	return c.post(ctx, projectPath(projectID, "pipeline"), body)
}

func (c *Client) RetryPipeline(ctx context.Context, projectID string, pipelineID int) (any, error) {
	return c.post(ctx, projectPath(projectID, "pipelines", EncodeIntID(pipelineID), "retry"), nil)
}

func (c *Client) CancelPipeline(ctx context.Context, projectID string, pipelineID int) (any, error) {
	return c.post(ctx, projectPath(projectID, "pipelines", EncodeIntID(pipelineID), "cancel"), nil)
}

func (c *Client) RetryJob(ctx context.Context, projectID string, jobID int) (any, error) {
	return c.post(ctx, projectPath(projectID, "jobs", EncodeIntID(jobID), "retry"), nil)
}

// PlayJob starts a manual job. Without variables no body is sent.
func (c *Client) PlayJob(ctx context.Context, projectID string, jobID int, variables []PipelineVariable) (any, error) {
	var body Body
	if len(variables) > 0 {
		body = Body{"job_variables_attributes": variables}
	}
	return c.post(ctx, projectPath(projectID, "jobs", EncodeIntID(jobID), "play"), body)
}

func (c *Client) CancelJob(ctx context.Context, projectID string, jobID int) (any, error) {
	return c.post(ctx, projectPath(projectID, "jobs", EncodeIntID(jobID), "cancel"), nil)
}

// GetJobLog returns the raw job trace.
func (c *Client) GetJobLog(ctx context.Context, projectID string, jobID int) (string, error) {
	return c.getRaw(ctx, projectPath(projectID, "jobs", EncodeIntID(jobID), "trace"))
}
