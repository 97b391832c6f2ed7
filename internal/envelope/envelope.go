// Package envelope renders GitLab payloads and failures as the JSON text
// returned to the calling agent.
//
// Success output is the upstream payload untouched (pretty-printed), or a
// pagination envelope for lists. Failures always carry an "error" field
// and, where the failure class suggests a corrective action, a "hint".
package envelope

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/HendryAvila/gitlab-mcp/internal/gitlab"
)

// MaskedValue replaces the value of masked CI/CD variables.
const MaskedValue = "***MASKED***"

// Hints keyed by failure class.
const (
	HintWriteDisabled = "Server is in read-only mode. Set GITLAB_READ_ONLY=false to enable writes."
	HintNotFound      = "Verify the resource ID/path. Use gitlab_get_project to confirm it exists."
	HintAuth          = "Check GITLAB_TOKEN permissions. Token needs 'api' scope."
	HintConflict      = "Conflict: resource may already exist or be locked."
	HintValidation    = "Validation failed: check required fields and formats."
	HintRateLimited   = "Rate limited. Wait before retrying."
	HintTransport     = "Request to GitLab failed. Check GITLAB_URL, network connectivity and GITLAB_TIMEOUT."
)

// statusHints maps plain API error statuses to hints. Statuses not listed
// get no hint.
var statusHints = map[int]string{
	http.StatusConflict:            HintConflict,
	http.StatusUnprocessableEntity: HintValidation,
	http.StatusTooManyRequests:     HintRateLimited,
}

// Page is the list envelope. Total is always null and HasMore always
// false: the list endpoints used here do not report a total, and no
// guess is made from the page size.
type Page struct {
	Items   []any `json:"items"`
	Count   int   `json:"count"`
	Total   *int  `json:"total"`
	HasMore bool  `json:"has_more"`
}

// Failure is the error envelope.
type Failure struct {
	Error      string `json:"error"`
	StatusCode int    `json:"status_code,omitempty"`
	Body       string `json:"body,omitempty"`
	Hint       string `json:"hint,omitempty"`
}

// OK renders any payload as indented JSON. A nil payload renders as null.
func OK(v any) string {
	return render(v)
}

// Paginated wraps items in a Page.
func Paginated(items []any) string {
	if items == nil {
		items = []any{}
	}
	return render(Page{Items: items, Count: len(items)})
}

// MaskVariables returns a copy of items where every variable flagged
// masked has its value replaced. Unmasked entries are untouched.
func MaskVariables(items []any) []any {
	out := make([]any, len(items))
	for i, item := range items {
		v, ok := item.(map[string]any)
		if !ok || v["masked"] != true {
			out[i] = item
			continue
		}
		masked := make(map[string]any, len(v))
		for k, val := range v {
			masked[k] = val
		}
		masked["value"] = MaskedValue
		out[i] = masked
	}
	return out
}

// Classify converts err into a Failure.
func Classify(err error) Failure {
	if errors.Is(err, gitlab.ErrWriteDisabled) {
		return Failure{Error: err.Error(), Hint: HintWriteDisabled}
	}

	var notFound *gitlab.NotFoundError
	if errors.As(err, &notFound) {
		return Failure{Error: err.Error(), StatusCode: notFound.StatusCode, Body: notFound.Body, Hint: HintNotFound}
	}

	var authErr *gitlab.AuthError
	if errors.As(err, &authErr) {
		return Failure{Error: err.Error(), StatusCode: authErr.StatusCode, Body: authErr.Body, Hint: HintAuth}
	}

	var apiErr *gitlab.APIError
	if errors.As(err, &apiErr) {
		return Failure{
			Error:      err.Error(),
			StatusCode: apiErr.StatusCode,
			Body:       apiErr.Body,
			Hint:       statusHints[apiErr.StatusCode],
		}
	}

	return Failure{Error: err.Error(), Hint: HintTransport}
}

// Error renders err as a Failure envelope.
func Error(err error) string {
	return render(Classify(err))
}

// Message renders a bare {"error": msg} envelope for local argument
// problems that never reached GitLab.
func Message(format string, args ...any) string {
	return render(Failure{Error: fmt.Sprintf(format, args...)})
}

func render(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Sprintf(`{"error": %q}`, "rendering response: "+err.Error())
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}
