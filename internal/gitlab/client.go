// Package gitlab is a thin client for the GitLab REST API v4.
//
// Every operation maps to one endpoint and returns the decoded payload
// untouched: objects as map[string]any, lists as []any, numbers as
// json.Number. HTTP failures come back as *AuthError, *NotFoundError or
// *APIError so callers can branch on the failure class.
package gitlab

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-faster/errors"
)

// bodyExcerptLimit caps how much of an undecodable body is echoed back.
const bodyExcerptLimit = 500

// Options configures a Client.
type Options struct {
	// BaseURL is the API root, e.g. https://gitlab.example.com/api/v4.
	BaseURL   string
	Token     string
	Timeout   time.Duration
	SSLVerify bool
	UserAgent string
	Logger    *slog.Logger

	// HTTPClient replaces the pooled client built from Timeout and
	// SSLVerify. Tests use it to talk to httptest servers.
	HTTPClient *http.Client
}

// Client issues requests against one GitLab instance. It is safe for
// concurrent use; the only shared state is the pooled *http.Client.
type Client struct {
	baseURL   string
	token     string
	userAgent string
	http      *http.Client
	logger    *slog.Logger
}

// NewClient creates a Client. The underlying connection pool lives for
// the lifetime of the Client.
func NewClient(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		if !opts.SSLVerify {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in via GITLAB_SSL_VERIFY=false
		}
		hc = &http.Client{Timeout: opts.Timeout, Transport: transport}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	ua := opts.UserAgent
	if ua == "" {
		ua = "gitlab-mcp"
	}

	return &Client{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		token:     opts.Token,
		userAgent: ua,
		http:      hc,
		logger:    logger,
	}
}

// Request describes one HTTP exchange.
type Request struct {
	Method string
	// Path is relative to the API root and must already contain encoded
	// identifiers.
	Path  string
	Query url.Values
	// JSON is marshalled as the request body when non-nil.
	JSON any
	// Content is sent verbatim when JSON is nil.
	Content []byte
	Header  http.Header
	// Raw returns the body as a string instead of decoding JSON.
	Raw bool
}

// Do performs req and classifies the response. A nil payload with a
// nil error means the server answered 204 or sent an empty body.
func (c *Client) Do(ctx context.Context, req Request) (any, error) {
	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	switch {
	case req.JSON != nil:
		data, err := json.Marshal(req.JSON)
		if err != nil {
			return nil, errors.Wrap(err, "encoding request body")
		}
		body = bytes.NewReader(data)
	case req.Content != nil:
		body = bytes.NewReader(req.Content)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, errors.Wrapf(err, "building %s %s", req.Method, req.Path)
	}
	httpReq.Header.Set("PRIVATE-TOKEN", c.token)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	for k, vs := range req.Header {
		httpReq.Header.Del(k)
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Debug("gitlab request failed", "method", req.Method, "path", req.Path, "error", err)
		return nil, errors.Wrapf(err, "%s %s", req.Method, req.Path)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "reading response of %s %s", req.Method, req.Path)
	}

	c.logger.Debug("gitlab request",
		"method", req.Method,
		"path", req.Path,
		"status", resp.StatusCode,
		"bytes", len(raw),
		"duration", time.Since(start),
	)

	return classify(resp, raw, req.Raw)
}

// classify applies the response rules in order; the first match wins.
func classify(resp *http.Response, raw []byte, wantRaw bool) (any, error) {
	code := resp.StatusCode
	text := string(raw)

	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return nil, &AuthError{APIError{StatusCode: code, StatusText: http.StatusText(code), Body: text}}
	case code == http.StatusNotFound:
		return nil, &NotFoundError{APIError{StatusCode: code, StatusText: http.StatusText(code), Body: text}}
	case code < 200 || code > 299:
		return nil, &APIError{StatusCode: code, StatusText: http.StatusText(code), Body: text}
	}

	if code == http.StatusNoContent || len(raw) == 0 {
		return nil, nil
	}
	if wantRaw {
		return text, nil
	}

	if strings.Contains(resp.Header.Get("Content-Type"), "text/html") {
		return nil, &APIError{
			StatusCode: code,
			StatusText: "Unexpected HTML response: check GITLAB_URL and authentication",
			Body:       truncate(text, bodyExcerptLimit),
		}
	}

	payload, err := decodeJSON(raw)
	if err != nil {
		return nil, &APIError{
			StatusCode: code,
			StatusText: "JSON parse error: " + err.Error(),
			Body:       truncate(text, bodyExcerptLimit),
		}
	}
	return payload, nil
}

// decodeJSON decodes exactly one JSON value, keeping numbers exact.
func decodeJSON(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after top-level value")
	}
	return v, nil
}

// truncate returns at most n runes of s.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (any, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query})
}

func (c *Client) getRaw(ctx context.Context, path string) (string, error) {
	v, err := c.Do(ctx, Request{Method: http.MethodGet, Path: path, Raw: true})
	if err != nil {
		return "", err
	}
	s, _ := v.(string)
	return s, nil
}

// getList performs a GET that must yield a JSON array. An empty body is
// treated as an empty list.
func (c *Client) getList(ctx context.Context, path string, query url.Values) ([]any, error) {
	v, err := c.get(ctx, path, query)
	if err != nil {
		return nil, err
	}
	switch items := v.(type) {
	case nil:
		return []any{}, nil
	case []any:
		return items, nil
	default:
		return nil, errors.Errorf("GET %s: expected a JSON array, got %T", path, v)
	}
}

// Body is a JSON request body. Operations only set the keys the caller
// supplied; a nil Body sends no body at all.
type Body map[string]any

// jsonBody keeps a nil Body from being marshalled as "null".
func jsonBody(b Body) any {
	if b == nil {
		return nil
	}
	return b
}

func (c *Client) post(ctx context.Context, path string, body Body) (any, error) {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, JSON: jsonBody(body)})
}

func (c *Client) put(ctx context.Context, path string, body Body, query url.Values) (any, error) {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, JSON: jsonBody(body), Query: query})
}

// withDefaults returns a copy of query with defaults filled in for keys
// the caller did not set.
func withDefaults(query url.Values, defaults url.Values) url.Values {
	out := url.Values{}
	for k, v := range query {
		out[k] = v
	}
	for k, v := range defaults {
		if _, ok := out[k]; !ok {
			out[k] = v
		}
	}
	return out
}

func (c *Client) delete(ctx context.Context, path string, query url.Values) error {
	_, err := c.Do(ctx, Request{Method: http.MethodDelete, Path: path, Query: query})
	return err
}
