package gitlab

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─── Test helpers ────────────────────────────────────────────────────────────

// recorded is one request seen by the fake GitLab.
type recorded struct {
	Method     string
	RequestURI string
	Path       string
	Query      url.Values
	Header     http.Header
	Body       string
}

// fakeGitLab serves canned responses and records every request.
type fakeGitLab struct {
	mu       sync.Mutex
	requests []recorded
	handler  http.HandlerFunc
}

func (f *fakeGitLab) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, recorded{
		Method:     r.Method,
		RequestURI: r.RequestURI,
		Path:       r.URL.Path,
		Query:      r.URL.Query(),
		Header:     r.Header.Clone(),
		Body:       string(body),
	})
	f.mu.Unlock()
	f.handler(w, r)
}

func (f *fakeGitLab) last(t *testing.T) recorded {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.requests, "no request reached the server")
	return f.requests[len(f.requests)-1]
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *fakeGitLab) {
	t.Helper()
	fake := &fakeGitLab{handler: handler}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	c := NewClient(Options{
		BaseURL:    srv.URL + "/api/v4",
		Token:      "glpat-test",
		HTTPClient: srv.Client(),
	})
	return c, fake
}

func jsonResponse(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

// ─── Executor ────────────────────────────────────────────────────────────────

func TestDo_SendsAuthAndContentHeaders(t *testing.T) {
	c, fake := newTestClient(t, jsonResponse(200, `{"id":1}`))

	_, err := c.GetProject(context.Background(), "1")
	require.NoError(t, err)

	got := fake.last(t)
	assert.Equal(t, "glpat-test", got.Header.Get("PRIVATE-TOKEN"))
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
	assert.Equal(t, "/api/v4/projects/1", got.Path)
}

func TestDo_ExtraHeaders(t *testing.T) {
	c, fake := newTestClient(t, jsonResponse(200, `{}`))

	_, err := c.Do(context.Background(), Request{
		Method: http.MethodGet,
		Path:   "/user",
		Header: http.Header{"X-Trace": {"abc"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "abc", fake.last(t).Header.Get("X-Trace"))
}

func TestDo_ExtraHeaderReplacesDefault(t *testing.T) {
	c, fake := newTestClient(t, jsonResponse(200, `{}`))

	_, err := c.Do(context.Background(), Request{
		Method:  http.MethodPost,
		Path:    "/markdown",
		Content: []byte("abc"),
		Header:  http.Header{"content-type": {"text/plain"}},
	})
	require.NoError(t, err)

	got := fake.last(t).Header
	assert.Equal(t, []string{"text/plain"}, got.Values("Content-Type"))
	assert.Equal(t, []string{"application/json"}, got.Values("Accept"))
}

func TestDo_RawContent(t *testing.T) {
	c, fake := newTestClient(t, jsonResponse(201, `{"ok":true}`))

	_, err := c.Do(context.Background(), Request{
		Method:  http.MethodPost,
		Path:    "/projects/1/uploads",
		Content: []byte("plain bytes"),
	})
	require.NoError(t, err)
	assert.Equal(t, "plain bytes", fake.last(t).Body)
}

func TestDo_Classification(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		check       func(t *testing.T, payload any, err error)
	}{
		{
			name: "401 is auth error", status: 401, body: `{"message":"401 Unauthorized"}`,
			check: func(t *testing.T, _ any, err error) {
				var authErr *AuthError
				require.True(t, errors.As(err, &authErr))
				assert.Equal(t, 401, authErr.StatusCode)
				assert.Equal(t, "Unauthorized", authErr.StatusText)
				assert.Contains(t, authErr.Body, "401 Unauthorized")
			},
		},
		{
			name: "403 is auth error", status: 403, body: `{"message":"403 Forbidden"}`,
			check: func(t *testing.T, _ any, err error) {
				var authErr *AuthError
				require.True(t, errors.As(err, &authErr))
				assert.Equal(t, "Forbidden", authErr.StatusText)
			},
		},
		{
			name: "404 is not found", status: 404, body: `{"message":"404 Project Not Found"}`,
			check: func(t *testing.T, _ any, err error) {
				var nf *NotFoundError
				require.True(t, errors.As(err, &nf))
				assert.Equal(t, 404, nf.StatusCode)
				assert.Equal(t, `{"message":"404 Project Not Found"}`, nf.Body)
			},
		},
		{
			name: "other non-2xx is api error", status: 409, body: `{"message":"Branch already exists"}`,
			check: func(t *testing.T, _ any, err error) {
				var apiErr *APIError
				require.True(t, errors.As(err, &apiErr))
				assert.Equal(t, 409, apiErr.StatusCode)
				assert.Equal(t, "Conflict", apiErr.StatusText)
				assert.Equal(t, "GitLab API Error 409 Conflict: {\"message\":\"Branch already exists\"}", err.Error())
			},
		},
		{
			name: "204 yields nil", status: 204,
			check: func(t *testing.T, payload any, err error) {
				require.NoError(t, err)
				assert.Nil(t, payload)
			},
		},
		{
			name: "200 empty body yields nil without decoding", status: 200, contentType: "text/html",
			check: func(t *testing.T, payload any, err error) {
				require.NoError(t, err)
				assert.Nil(t, payload)
			},
		},
		{
			name: "html on 200 is api error", status: 200, contentType: "text/html; charset=utf-8",
			body: "<html><body>Sign in</body></html>",
			check: func(t *testing.T, _ any, err error) {
				var apiErr *APIError
				require.True(t, errors.As(err, &apiErr))
				assert.Contains(t, apiErr.StatusText, "Unexpected HTML response")
				assert.Contains(t, apiErr.Body, "Sign in")
			},
		},
		{
			name: "bad json is api error", status: 200, body: `{"id":`,
			check: func(t *testing.T, _ any, err error) {
				var apiErr *APIError
				require.True(t, errors.As(err, &apiErr))
				assert.True(t, strings.HasPrefix(apiErr.StatusText, "JSON parse error: "))
				assert.Equal(t, `{"id":`, apiErr.Body)
			},
		},
		{
			name: "trailing data is api error", status: 200, body: `{"id":1} {"id":2}`,
			check: func(t *testing.T, _ any, err error) {
				var apiErr *APIError
				require.True(t, errors.As(err, &apiErr))
				assert.Contains(t, apiErr.StatusText, "JSON parse error")
			},
		},
		{
			name: "json object decoded with exact numbers", status: 200,
			body: `{"id":9007199254740993,"name":"app","extra":{"x":[1,2]}}`,
			check: func(t *testing.T, payload any, err error) {
				require.NoError(t, err)
				m, ok := payload.(map[string]any)
				require.True(t, ok)
				assert.Equal(t, json.Number("9007199254740993"), m["id"])
				assert.Equal(t, "app", m["name"])
				assert.Contains(t, m, "extra")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				ct := tt.contentType
				if ct == "" {
					ct = "application/json"
				}
				w.Header().Set("Content-Type", ct)
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})
			payload, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/x"})
			tt.check(t, payload, err)
		})
	}
}

func TestDo_StatusBeatsContentType(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(404)
		_, _ = io.WriteString(w, "<html>404</html>")
	})

	_, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/x"})
	var nf *NotFoundError
	assert.True(t, errors.As(err, &nf))
}

func TestDo_HTMLBodyTruncatedTo500Runes(t *testing.T) {
	long := strings.Repeat("é", 800)
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, long)
	})

	_, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/x"})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 500, len([]rune(apiErr.Body)))
}

func TestDo_RawBypassesDecoding(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, "line 1\nline 2\n")
	})

	log, err := c.GetJobLog(context.Background(), "1", 7)
	require.NoError(t, err)
	assert.Equal(t, "line 1\nline 2\n", log)
}

func TestDo_TransportErrorIsGeneric(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c := NewClient(Options{BaseURL: srv.URL + "/api/v4", Token: "t", HTTPClient: srv.Client()})
	_, err := c.GetProject(context.Background(), "1")
	require.Error(t, err)

	_, isAPI := AsAPIError(err)
	assert.False(t, isAPI)
	assert.Contains(t, err.Error(), "GET /projects/1")
}

func TestDo_ConcurrentUse(t *testing.T) {
	c, fake := newTestClient(t, jsonResponse(200, `{"id":1}`))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.GetProject(context.Background(), "1")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Len(t, fake.requests, 16)
}

func TestDo_CancelledContext(t *testing.T) {
	c, _ := newTestClient(t, jsonResponse(200, `{}`))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.GetProject(ctx, "1")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	_, isAPI := AsAPIError(err)
	assert.False(t, isAPI)
}

// ─── Errors ──────────────────────────────────────────────────────────────────

func TestAsAPIError(t *testing.T) {
	auth := &AuthError{APIError{StatusCode: 403, StatusText: "Forbidden"}}
	wrapped := errors.Wrap(auth, "merging")

	got, ok := AsAPIError(wrapped)
	require.True(t, ok)
	assert.Equal(t, 403, got.StatusCode)

	_, ok = AsAPIError(ErrWriteDisabled)
	assert.False(t, ok)
}
