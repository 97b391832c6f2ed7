package gitlab

import "strings"

// projectPath builds /projects/:id/<segments...>. Segments must already
// be encoded.
func projectPath(projectID string, segments ...string) string {
	return join("/projects/"+EncodeID(projectID), segments)
}

// groupPath builds /groups/:id/<segments...>.
func groupPath(groupID string, segments ...string) string {
	return join("/groups/"+EncodeID(groupID), segments)
}

func join(prefix string, segments []string) string {
	if len(segments) == 0 {
		return prefix
	}
	return prefix + "/" + strings.Join(segments, "/")
}

func mrPath(projectID string, iid int, segments ...string) string {
	return projectPath(projectID, append([]string{"merge_requests", EncodeIntID(iid)}, segments...)...)
}
