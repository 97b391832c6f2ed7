package tools

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/HendryAvila/gitlab-mcp/internal/gitlab"
	"github.com/mark3labs/mcp-go/mcp"
)

// binder reads typed arguments from a tool request. The first problem
// is kept in err and later reads become no-ops, so a handler can read
// everything and check once.
//
// Optional arguments are either present or absent; a JSON null counts
// as absent. Absent arguments never reach the GitLab request.
type binder struct {
	args map[string]any
	err  error
}

func bind(req mcp.CallToolRequest) *binder {
	args := req.GetArguments()
	if args == nil {
		args = map[string]any{}
	}
	return &binder{args: args}
}

func (b *binder) fail(format string, a ...any) {
	if b.err == nil {
		b.err = fmt.Errorf(format, a...)
	}
}

// lookup returns the raw value when present and non-null.
func (b *binder) lookup(key string) (any, bool) {
	if b.err != nil {
		return nil, false
	}
	v, ok := b.args[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func (b *binder) optString(key string) (string, bool) {
	v, ok := b.lookup(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		b.fail("'%s' must be a string", key)
		return "", false
	}
	return s, true
}

func (b *binder) requiredString(key string) string {
	s, ok := b.optString(key)
	if !ok || strings.TrimSpace(s) == "" {
		b.fail("'%s' is required", key)
		return ""
	}
	return s
}

// presentString is like requiredString but accepts an empty value.
func (b *binder) presentString(key string) string {
	if b.err != nil {
		return ""
	}
	s, ok := b.optString(key)
	if !ok {
		b.fail("'%s' is required", key)
	}
	return s
}

func (b *binder) optInt(key string) (int, bool) {
	v, ok := b.lookup(key)
	if !ok {
		return 0, false
	}
	n, ok := toInt(v)
	if !ok {
		b.fail("'%s' must be an integer", key)
		return 0, false
	}
	return n, true
}

func (b *binder) requiredInt(key string) int {
	if b.err != nil {
		return 0
	}
	n, ok := b.optInt(key)
	if !ok {
		b.fail("'%s' is required", key)
	}
	return n
}

func (b *binder) optBool(key string) (bool, bool) {
	v, ok := b.lookup(key)
	if !ok {
		return false, false
	}
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		parsed, err := strconv.ParseBool(t)
		if err == nil {
			return parsed, true
		}
	}
	b.fail("'%s' must be a boolean", key)
	return false, false
}

// boolOr returns the argument or def when absent.
func (b *binder) boolOr(key string, def bool) bool {
	v, ok := b.optBool(key)
	if !ok {
		return def
	}
	return v
}

func (b *binder) requiredBool(key string) bool {
	if b.err != nil {
		return false
	}
	v, ok := b.optBool(key)
	if !ok {
		b.fail("'%s' is required", key)
	}
	return v
}

func (b *binder) optIntSlice(key string) ([]int, bool) {
	v, ok := b.lookup(key)
	if !ok {
		return nil, false
	}
	raw, ok := v.([]any)
	if !ok {
		b.fail("'%s' must be an array of integers", key)
		return nil, false
	}
	out := make([]int, 0, len(raw))
	for _, item := range raw {
		n, ok := toInt(item)
		if !ok {
			b.fail("'%s' must be an array of integers", key)
			return nil, false
		}
		out = append(out, n)
	}
	return out, true
}

// optObjects reads an array of JSON objects.
func (b *binder) optObjects(key string) ([]any, bool) {
	v, ok := b.lookup(key)
	if !ok {
		return nil, false
	}
	raw, ok := v.([]any)
	if !ok {
		b.fail("'%s' must be an array of objects", key)
		return nil, false
	}
	for _, item := range raw {
		if _, ok := item.(map[string]any); !ok {
			b.fail("'%s' must be an array of objects", key)
			return nil, false
		}
	}
	return raw, true
}

// optVariables reads [{key, value, variable_type?}] pairs.
func (b *binder) optVariables(key string) []gitlab.PipelineVariable {
	objs, ok := b.optObjects(key)
	if !ok {
		return nil
	}
	vars := make([]gitlab.PipelineVariable, 0, len(objs))
	for _, o := range objs {
		m := o.(map[string]any)
		k, kOK := m["key"].(string)
		v, vOK := m["value"].(string)
		if !kOK || k == "" || !vOK {
			b.fail("each entry of '%s' needs a string 'key' and 'value'", key)
			return nil
		}
		typ, _ := m["variable_type"].(string)
		vars = append(vars, gitlab.PipelineVariable{Key: k, Value: v, VariableType: typ})
	}
	return vars
}

// project reads project_id and accepts a GitLab web URL in its place.
func (b *binder) project() string {
	return gitlab.ParseProjectURL(b.requiredString("project_id"))
}

// Body setters copy an argument into a request body only when the caller
// supplied it, even if the value is empty or false.

func (b *binder) setString(body gitlab.Body, key string) {
	b.setStringAs(body, key, key)
}

func (b *binder) setStringAs(body gitlab.Body, arg, field string) {
	if v, ok := b.optString(arg); ok {
		body[field] = v
	}
}

func (b *binder) setInt(body gitlab.Body, key string) {
	if v, ok := b.optInt(key); ok {
		body[key] = v
	}
}

func (b *binder) setBool(body gitlab.Body, key string) {
	b.setBoolAs(body, key, key)
}

func (b *binder) setBoolAs(body gitlab.Body, arg, field string) {
	if v, ok := b.optBool(arg); ok {
		body[field] = v
	}
}

func (b *binder) setIntSlice(body gitlab.Body, key string) {
	if v, ok := b.optIntSlice(key); ok {
		body[key] = v
	}
}

// Query setters skip empty strings and zeros: a list filter with no
// value means "no filter".

func (b *binder) queryString(q url.Values, key string) {
	if v, ok := b.optString(key); ok && v != "" {
		q.Set(key, v)
	}
}

func (b *binder) queryInt(q url.Values, key string) {
	if v, ok := b.optInt(key); ok && v != 0 {
		q.Set(key, strconv.Itoa(v))
	}
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		return i, err == nil
	}
	return 0, false
}
