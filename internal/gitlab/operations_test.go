package gitlab

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListDefaults(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		call      func(c *Client) error
		wantPath  string
		wantQuery url.Values
	}{
		{"groups", func(c *Client) error { _, err := c.ListGroups(ctx, nil); return err },
			"/api/v4/groups", url.Values{"per_page": {"50"}}},
		{"branches", func(c *Client) error { _, err := c.ListBranches(ctx, "123", nil); return err },
			"/api/v4/projects/123/repository/branches", url.Values{"per_page": {"100"}}},
		{"commits", func(c *Client) error { _, err := c.ListCommits(ctx, "123", nil); return err },
			"/api/v4/projects/123/repository/commits", url.Values{"per_page": {"40"}}},
		{"tree", func(c *Client) error { _, err := c.ListRepositoryTree(ctx, "123", nil); return err },
			"/api/v4/projects/123/repository/tree", url.Values{"per_page": {"100"}, "recursive": {"true"}}},
		{"merge requests", func(c *Client) error { _, err := c.ListMergeRequests(ctx, "123", nil); return err },
			"/api/v4/projects/123/merge_requests", url.Values{"per_page": {"20"}}},
		{"mr notes", func(c *Client) error { _, err := c.ListMRNotes(ctx, "123", 5); return err },
			"/api/v4/projects/123/merge_requests/5/notes", url.Values{"per_page": {"100"}}},
		{"mr discussions", func(c *Client) error { _, err := c.ListMRDiscussions(ctx, "123", 5); return err },
			"/api/v4/projects/123/merge_requests/5/discussions", url.Values{"per_page": {"100"}}},
		{"pipelines", func(c *Client) error { _, err := c.ListPipelines(ctx, "123", nil); return err },
			"/api/v4/projects/123/pipelines", url.Values{"per_page": {"20"}}},
		{"pipeline jobs", func(c *Client) error { _, err := c.ListPipelineJobs(ctx, "123", 9); return err },
			"/api/v4/projects/123/pipelines/9/jobs", url.Values{"per_page": {"100"}}},
		{"tags", func(c *Client) error { _, err := c.ListTags(ctx, "123", nil); return err },
			"/api/v4/projects/123/repository/tags", url.Values{"per_page": {"20"}}},
		{"releases", func(c *Client) error { _, err := c.ListReleases(ctx, "123", nil); return err },
			"/api/v4/projects/123/releases", url.Values{"per_page": {"20"}}},
		{"variables", func(c *Client) error { _, err := c.ListVariables(ctx, "123"); return err },
			"/api/v4/projects/123/variables", url.Values{"per_page": {"100"}}},
		{"group variables", func(c *Client) error { _, err := c.ListGroupVariables(ctx, "my-group"); return err },
			"/api/v4/groups/my-group/variables", url.Values{"per_page": {"100"}}},
		{"issues", func(c *Client) error { _, err := c.ListIssues(ctx, "123", nil); return err },
			"/api/v4/projects/123/issues", url.Values{"per_page": {"20"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, fake := newTestClient(t, jsonResponse(200, `[]`))
			require.NoError(t, tt.call(c))

			got := fake.last(t)
			assert.Equal(t, http.MethodGet, got.Method)
			assert.Equal(t, tt.wantPath, got.Path)
			assert.Equal(t, tt.wantQuery, got.Query)
		})
	}
}

func TestListDefaults_CallerOverrides(t *testing.T) {
	c, fake := newTestClient(t, jsonResponse(200, `[]`))

	_, err := c.ListBranches(context.Background(), "123", url.Values{
		"per_page": {"5"},
		"search":   {"feat"},
	})
	require.NoError(t, err)

	assert.Equal(t, url.Values{"per_page": {"5"}, "search": {"feat"}}, fake.last(t).Query)
}

func TestListBranches_EndToEnd(t *testing.T) {
	c, _ := newTestClient(t, jsonResponse(200, `[{"name":"main"},{"name":"develop"}]`))

	items, err := c.ListBranches(context.Background(), "123", nil)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "main", items[0].(map[string]any)["name"])
}

func TestPathEncoding(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		call    func(c *Client) error
		wantURI string
	}{
		{"namespaced project", func(c *Client) error { _, err := c.GetProject(ctx, "group/sub/app"); return err },
			"/api/v4/projects/group%2Fsub%2Fapp"},
		{"numeric string normalized", func(c *Client) error { _, err := c.GetProject(ctx, "007"); return err },
			"/api/v4/projects/7"},
		{"branch with slash", func(c *Client) error { return c.DeleteBranch(ctx, "1", "feature/login") },
			"/api/v4/projects/1/repository/branches/feature%2Flogin"},
		{"tag keeps digits", func(c *Client) error { _, err := c.GetTag(ctx, "1", "007"); return err },
			"/api/v4/projects/1/repository/tags/007"},
		{"release tag", func(c *Client) error { _, err := c.GetRelease(ctx, "1", "v1.0.0"); return err },
			"/api/v4/projects/1/releases/v1.0.0"},
		{"group path", func(c *Client) error { _, err := c.GetGroup(ctx, "org/team"); return err },
			"/api/v4/groups/org%2Fteam"},
		{"share group", func(c *Client) error { return c.UnshareProjectWithGroup(ctx, "a/b", 42) },
			"/api/v4/projects/a%2Fb/share/42"},
		{"award emoji", func(c *Client) error { return c.DeleteAwardEmoji(ctx, "1", 2, 3, 4) },
			"/api/v4/projects/1/merge_requests/2/notes/3/award_emoji/4"},
		{"create pipeline is singular", func(c *Client) error { _, err := c.CreatePipeline(ctx, "1", "main", nil); return err },
			"/api/v4/projects/1/pipeline"},
		{"variable with scope", func(c *Client) error { return c.DeleteVariable(ctx, "1", "TOKEN", "production") },
			"/api/v4/projects/1/variables/TOKEN?filter%5Benvironment_scope%5D=production"},
		{"compare", func(c *Client) error { _, err := c.Compare(ctx, "1", "main", "feature/x"); return err },
			"/api/v4/projects/1/repository/compare?from=main&to=feature%2Fx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, fake := newTestClient(t, jsonResponse(200, `{}`))
			require.NoError(t, tt.call(c))
			assert.Equal(t, tt.wantURI, fake.last(t).RequestURI)
		})
	}
}

func decodeBody(t *testing.T, raw string) map[string]any {
	t.Helper()
	if raw == "" {
		return nil
	}
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &m))
	return m
}

func TestBodies(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		call       func(c *Client) error
		wantMethod string
		wantBody   map[string]any
	}{
		{"merge without options sends empty object",
			func(c *Client) error { _, err := c.MergeMergeRequest(ctx, "1", 2, nil); return err },
			http.MethodPut, map[string]any{}},
		{"rebase carries skip_ci",
			func(c *Client) error { _, err := c.RebaseMergeRequest(ctx, "1", 2, false); return err },
			http.MethodPut, map[string]any{"skip_ci": false}},
		{"note without internal omits the key",
			func(c *Client) error { _, err := c.AddMRNote(ctx, "1", 2, "LGTM", false); return err },
			http.MethodPost, map[string]any{"body": "LGTM"}},
		{"internal note",
			func(c *Client) error { _, err := c.AddMRNote(ctx, "1", 2, "psst", true); return err },
			http.MethodPost, map[string]any{"body": "psst", "internal": true}},
		{"pipeline without variables",
			func(c *Client) error { _, err := c.CreatePipeline(ctx, "1", "main", nil); return err },
			http.MethodPost, map[string]any{"ref": "main"}},
		{"pipeline with variables",
			func(c *Client) error {
				_, err := c.CreatePipeline(ctx, "1", "main", []PipelineVariable{{Key: "A", Value: "1"}})
				return err
			},
			http.MethodPost, map[string]any{"ref": "main", "variables": []any{map[string]any{"key": "A", "value": "1"}}}},
		{"play without variables sends no body",
			func(c *Client) error { _, err := c.PlayJob(ctx, "1", 3, nil); return err },
			http.MethodPost, nil},
		{"play with variables",
			func(c *Client) error {
				_, err := c.PlayJob(ctx, "1", 3, []PipelineVariable{{Key: "K", Value: "V"}})
				return err
			},
			http.MethodPost, map[string]any{"job_variables_attributes": []any{map[string]any{"key": "K", "value": "V"}}}},
		{"retry sends no body",
			func(c *Client) error { _, err := c.RetryPipeline(ctx, "1", 3); return err },
			http.MethodPost, nil},
		{"project approvals use POST",
			func(c *Client) error {
				_, err := c.UpdateProjectApprovals(ctx, "1", Body{"approvals_before_merge": 2})
				return err
			},
			http.MethodPost, map[string]any{"approvals_before_merge": float64(2)}},
		{"share project",
			func(c *Client) error { return c.ShareProjectWithGroup(ctx, "1", 9, 30) },
			http.MethodPost, map[string]any{"group_id": float64(9), "group_access": float64(30)}},
		{"resolve discussion",
			func(c *Client) error { _, err := c.ResolveDiscussion(ctx, "1", 2, "abc123", true); return err },
			http.MethodPut, map[string]any{"resolved": true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, fake := newTestClient(t, jsonResponse(200, `{}`))
			require.NoError(t, tt.call(c))

			got := fake.last(t)
			assert.Equal(t, tt.wantMethod, got.Method)
			assert.Equal(t, tt.wantBody, decodeBody(t, got.Body))
		})
	}
}

func TestDeleteReturnsNilOn204(t *testing.T) {
	c, fake := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.DeleteTag(context.Background(), "1", "v1"))
	assert.Equal(t, http.MethodDelete, fake.last(t).Method)
}

func TestGetList_RejectsObject(t *testing.T) {
	c, _ := newTestClient(t, jsonResponse(200, `{"message":"not a list"}`))

	_, err := c.ListIssues(context.Background(), "1", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected a JSON array")
}
