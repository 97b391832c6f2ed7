package envelope

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/HendryAvila/gitlab-mcp/internal/gitlab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, s string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &m), "output: %s", s)
	return m
}

func TestPaginated_Branches(t *testing.T) {
	items := []any{
		map[string]any{"name": "main"},
		map[string]any{"name": "develop"},
	}

	got := Paginated(items)

	assert.JSONEq(t,
		`{"items":[{"name":"main"},{"name":"develop"}],"count":2,"total":null,"has_more":false}`,
		got)
}

func TestPaginated_NilIsEmptyList(t *testing.T) {
	assert.JSONEq(t, `{"items":[],"count":0,"total":null,"has_more":false}`, Paginated(nil))
}

func TestOK_PreservesUnknownFieldsAndIndents(t *testing.T) {
	payload := map[string]any{
		"id":           json.Number("12"),
		"web_url":      "https://gitlab.example.com/a/b?x=1&y=<2>",
		"custom_field": []any{"ünïcode"},
	}

	got := OK(payload)

	assert.Contains(t, got, "\n  \"custom_field\"")
	assert.Contains(t, got, "&y=<2>", "html characters are not escaped")
	assert.Contains(t, got, "ünïcode")
	assert.JSONEq(t, `{"id":12,"web_url":"https://gitlab.example.com/a/b?x=1&y=<2>","custom_field":["ünïcode"]}`, got)
}

func TestOK_Nil(t *testing.T) {
	assert.Equal(t, "null", OK(nil))
}

func TestMaskVariables(t *testing.T) {
	items := []any{
		map[string]any{"key": "SECRET", "value": "hunter2", "masked": true},
		map[string]any{"key": "PLAIN", "value": "visible", "masked": false},
		map[string]any{"key": "NOFLAG", "value": "also-visible"},
	}

	got := MaskVariables(items)

	require.Len(t, got, 3)
	assert.Equal(t, MaskedValue, got[0].(map[string]any)["value"])
	assert.Equal(t, "SECRET", got[0].(map[string]any)["key"])
	assert.Equal(t, "visible", got[1].(map[string]any)["value"])
	assert.Equal(t, "also-visible", got[2].(map[string]any)["value"])

	// The input is not modified.
	assert.Equal(t, "hunter2", items[0].(map[string]any)["value"])
	assert.NotContains(t, Paginated(got), "hunter2")
}

func TestError_Hints(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantHint   string
		wantStatus float64
	}{
		{"write disabled", gitlab.ErrWriteDisabled, HintWriteDisabled, 0},
		{"not found", &gitlab.NotFoundError{APIError: gitlab.APIError{StatusCode: 404, StatusText: "Not Found", Body: "{}"}}, HintNotFound, 404},
		{"unauthorized", &gitlab.AuthError{APIError: gitlab.APIError{StatusCode: 401, StatusText: "Unauthorized"}}, HintAuth, 401},
		{"forbidden", &gitlab.AuthError{APIError: gitlab.APIError{StatusCode: 403, StatusText: "Forbidden"}}, HintAuth, 403},
		{"conflict", &gitlab.APIError{StatusCode: 409, StatusText: "Conflict"}, HintConflict, 409},
		{"validation", &gitlab.APIError{StatusCode: 422, StatusText: "Unprocessable Entity"}, HintValidation, 422},
		{"rate limited", &gitlab.APIError{StatusCode: 429, StatusText: "Too Many Requests"}, HintRateLimited, 429},
		{"wrapped conflict", fmt.Errorf("creating branch: %w", &gitlab.APIError{StatusCode: 409}), HintConflict, 409},
		{"transport", fmt.Errorf("GET /projects/1: connection refused"), HintTransport, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := decode(t, Error(tt.err))

			assert.Equal(t, tt.err.Error(), m["error"])
			assert.Equal(t, tt.wantHint, m["hint"])
			if tt.wantStatus == 0 {
				assert.NotContains(t, m, "status_code")
			} else {
				assert.Equal(t, tt.wantStatus, m["status_code"])
			}
		})
	}
}

func TestError_OtherAPIErrorHasNoHint(t *testing.T) {
	m := decode(t, Error(&gitlab.APIError{StatusCode: 500, StatusText: "Internal Server Error", Body: "boom"}))

	assert.Equal(t, float64(500), m["status_code"])
	assert.Equal(t, "boom", m["body"])
	assert.NotContains(t, m, "hint")
	assert.Equal(t, "GitLab API Error 500 Internal Server Error: boom", m["error"])
}

func TestError_WriteDisabledMessage(t *testing.T) {
	m := decode(t, Error(gitlab.ErrWriteDisabled))
	assert.Equal(t, "Write operations are disabled (GITLAB_READ_ONLY=true)", m["error"])
	assert.NotContains(t, m, "body")
}

func TestMessage(t *testing.T) {
	m := decode(t, Message("Invalid access level: %s", "boss"))
	assert.Equal(t, map[string]any{"error": "Invalid access level: boss"}, m)
}
