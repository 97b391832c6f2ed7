package tools

import (
	"context"
	"fmt"

	"github.com/HendryAvila/gitlab-mcp/internal/envelope"
	"github.com/HendryAvila/gitlab-mcp/internal/gitlab"
	"github.com/mark3labs/mcp-go/mcp"
)

// mergeableStatuses are the merge statuses that allow a merge to proceed.
var mergeableStatuses = map[string]bool{
	"mergeable":     true,
	"can_be_merged": true,
}

// sequenceFailure reports where a sequential merge stopped.
type sequenceFailure struct {
	Error       string `json:"error"`
	MergedSoFar []int  `json:"merged_so_far"`
	StatusCode  int    `json:"status_code,omitempty"`
	Body        string `json:"body,omitempty"`
}

type sequenceResult struct {
	Status string `json:"status"`
	Merged []int  `json:"merged"`
}

// mergeSequence merges merge requests strictly in the order given. It
// stops at the first request that is not mergeable or fails to merge;
// nothing is retried or rolled back.
func (t *Toolset) mergeSequence(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b := bind(req)
	project := b.project()
	iids, ok := b.optIntSlice("mr_iids")
	if !ok {
		b.fail("'mr_iids' is required")
	}
	opts := mergeOptions(b)
	checkStatus := b.boolOr("require_mergeable_status", true)
	if b.err != nil {
		return invalid(b.err), nil
	}

	merged := []int{}
	for _, iid := range iids {
		if checkStatus {
			mr, err := t.client.GetMergeRequest(ctx, project, iid)
			if err != nil {
				return sequenceError(err, merged), nil
			}
			if status := mergeStatus(mr); !mergeableStatuses[status] {
				return mcp.NewToolResultError(envelope.OK(sequenceFailure{
					Error:       fmt.Sprintf("MR !%d is not mergeable (status: %s)", iid, status),
					MergedSoFar: merged,
				})), nil
			}
		}

		if _, err := t.client.MergeMergeRequest(ctx, project, iid, opts); err != nil {
			return sequenceError(err, merged), nil
		}
		merged = append(merged, iid)
	}

	return success(sequenceResult{Status: "all_merged", Merged: merged}), nil
}

// mergeStatus prefers detailed_merge_status and falls back to the older
// merge_status field.
func mergeStatus(mr any) string {
	obj, ok := mr.(map[string]any)
	if !ok {
		return ""
	}
	if s, ok := obj["detailed_merge_status"].(string); ok && s != "" {
		return s
	}
	s, _ := obj["merge_status"].(string)
	return s
}

func sequenceError(err error, merged []int) *mcp.CallToolResult {
	f := sequenceFailure{Error: err.Error(), MergedSoFar: merged}
	if apiErr, ok := gitlab.AsAPIError(err); ok {
		f.StatusCode = apiErr.StatusCode
		f.Body = apiErr.Body
	}
	return mcp.NewToolResultError(envelope.OK(f))
}
