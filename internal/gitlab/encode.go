package gitlab

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// EncodeID turns a project or group identifier into a path segment.
// Numeric identifiers are returned in canonical decimal form. Anything
// else is a namespaced path and is escaped as a single segment, slashes
// included, so "group/sub/project" becomes "group%2Fsub%2Fproject".
func EncodeID(id string) string {
	if n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64); err == nil {
		return strconv.FormatInt(n, 10)
	}
	return EncodeRef(id)
}

// EncodeIntID formats a numeric identifier.
func EncodeIntID(id int) string {
	return strconv.Itoa(id)
}

// EncodeRef escapes a branch, tag, SHA or key as one path segment.
// Unlike EncodeID it never normalizes digits, so a tag named "007"
// keeps its leading zeros.
func EncodeRef(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

var (
	mergeRequestURL = regexp.MustCompile(`^https?://[^/]+/(.+?)/-/merge_requests/(\d+)`)
	pipelineURL     = regexp.MustCompile(`^https?://[^/]+/(.+?)/-/pipelines/(\d+)`)
	projectURL      = regexp.MustCompile(`^https?://[^/]+/(.+?)(?:/-/.*)?/?$`)
)

// ParseMergeRequestURL extracts the project path and IID from a merge
// request web URL such as https://gitlab.com/group/app/-/merge_requests/42.
func ParseMergeRequestURL(raw string) (project string, iid int, ok bool) {
	return parseItemURL(mergeRequestURL, raw)
}

// ParsePipelineURL extracts the project path and pipeline ID from a
// pipeline web URL.
func ParsePipelineURL(raw string) (project string, id int, ok bool) {
	return parseItemURL(pipelineURL, raw)
}

func parseItemURL(re *regexp.Regexp, raw string) (string, int, bool) {
	m := re.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return "", 0, false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return "", 0, false
	}
	return unescapePath(m[1]), n, true
}

// unescapePath decodes a path copied from a browser address bar so it is
// not percent-encoded twice. Malformed escapes are kept as they are.
func unescapePath(p string) string {
	if u, err := url.PathUnescape(p); err == nil {
		return u
	}
	return p
}

// ParseProjectURL extracts the project path from any project web URL.
// Values that are not http(s) URLs are returned unchanged, so plain IDs
// and paths pass straight through.
func ParseProjectURL(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return raw
	}
	s = strings.SplitN(s, "?", 2)[0]
	s = strings.SplitN(s, "#", 2)[0]
	m := projectURL.FindStringSubmatch(s)
	if m == nil {
		return raw
	}
	return unescapePath(strings.TrimSuffix(m[1], ".git"))
}
