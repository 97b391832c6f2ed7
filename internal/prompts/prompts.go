// Package prompts implements the MCP prompts: multi-step GitLab workflows
// the user triggers and the assistant then carries out with the tools.
//
// Each prompt renders an embedded text/template. Argument values are
// passed as template data, never spliced into template source, so a value
// containing "{{", "{" or "%" comes out exactly as given.
package prompts

import (
	"context"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

//go:embed templates/*.md
var templateFS embed.FS

var templates = template.Must(
	template.New("prompts").Option("missingkey=error").ParseFS(templateFS, "templates/*.md"),
)

type argument struct {
	name        string
	description string
	required    bool
	fallback    string
}

// workflow is one prompt definition.
type workflow struct {
	name        string
	description string
	template    string
	args        []argument
	ack         func(args map[string]string) string
}

var workflows = []workflow{
	{
		name:        "review_mr",
		description: "Review a GitLab merge request: fetch details, check the pipeline, review changes, and write discussion comments.",
		template:    "review-mr.md",
		args: []argument{
			{name: "project_id", description: "Project ID or URL-encoded path", required: true},
			{name: "mr_iid", description: "Merge request IID", required: true},
		},
		ack: func(a map[string]string) string {
			return fmt.Sprintf("I'll review MR !%s in project %s. Let me start by fetching the MR details and pipeline status.",
				a["mr_iid"], a["project_id"])
		},
	},
	{
		name:        "diagnose_pipeline",
		description: "Diagnose a failed CI/CD pipeline: identify failed jobs, read their logs, analyse errors, and suggest fixes.",
		template:    "diagnose-pipeline.md",
		args: []argument{
			{name: "project_id", description: "Project ID or URL-encoded path", required: true},
			{name: "pipeline_id", description: "Pipeline ID", required: true},
		},
		ack: func(a map[string]string) string {
			return fmt.Sprintf("I'll diagnose pipeline %s in project %s. Let me fetch the pipeline details and check for failed jobs.",
				a["pipeline_id"], a["project_id"])
		},
	},
	{
		name:        "prepare_release",
		description: "Prepare a release: compare commits since the last tag, draft a changelog, then create the tag and release.",
		template:    "prepare-release.md",
		args: []argument{
			{name: "project_id", description: "Project ID or URL-encoded path", required: true},
			{name: "tag_name", description: "Tag for the new release, e.g. v1.2.0", required: true},
			{name: "ref", description: "Branch or commit to release from (default: main)", fallback: "main"},
		},
		ack: func(a map[string]string) string {
			return fmt.Sprintf("I'll prepare release %s from %s in project %s. Let me find the previous tag and compare commits.",
				a["tag_name"], a["ref"], a["project_id"])
		},
	},
	{
		name:        "setup_branch_protection",
		description: "Set up branch protection: review settings, configure the merge method, and create approval rules.",
		template:    "setup-branch-protection.md",
		args: []argument{
			{name: "project_id", description: "Project ID or URL-encoded path", required: true},
		},
		ack: func(a map[string]string) string {
			return fmt.Sprintf("I'll help set up branch protection for project %s. Let me review the current project settings and approval configuration.",
				a["project_id"])
		},
	},
	{
		name:        "triage_issues",
		description: "Triage open issues: categorise, prioritise, spot duplicates, and suggest labels.",
		template:    "triage-issues.md",
		args: []argument{
			{name: "project_id", description: "Project ID or URL-encoded path", required: true},
			{name: "label", description: "Only triage issues with this label"},
		},
		ack: func(a map[string]string) string {
			var s strings.Builder
			s.WriteString("I'll triage open issues in project " + a["project_id"])
			if a["label"] != "" {
				fmt.Fprintf(&s, " filtered by label %q", a["label"])
			}
			s.WriteString(". Let me start by listing the open issues.")
			return s.String()
		},
	},
}

// Register adds every prompt to srv.
func Register(srv *server.MCPServer) {
	for _, w := range workflows {
		srv.AddPrompt(w.definition(), w.handle)
	}
}

func (w workflow) definition() mcp.Prompt {
	opts := []mcp.PromptOption{mcp.WithPromptDescription(w.description)}
	for _, a := range w.args {
		argOpts := []mcp.ArgumentOption{mcp.ArgumentDescription(a.description)}
		if a.required {
			argOpts = append(argOpts, mcp.RequiredArgument())
		}
		opts = append(opts, mcp.WithArgument(a.name, argOpts...))
	}
	return mcp.NewPrompt(w.name, opts...)
}

// resolve applies defaults and rejects missing required arguments.
func (w workflow) resolve(given map[string]string) (map[string]string, error) {
	out := make(map[string]string, len(w.args))
	for _, a := range w.args {
		v := given[a.name]
		if v == "" {
			if a.required {
				return nil, fmt.Errorf("prompt %s: missing required argument %q", w.name, a.name)
			}
			v = a.fallback
		}
		out[a.name] = v
	}
	return out, nil
}

func (w workflow) render(args map[string]string) (string, error) {
	var buf strings.Builder
	if err := templates.ExecuteTemplate(&buf, w.template, args); err != nil {
		return "", fmt.Errorf("rendering prompt %s: %w", w.name, err)
	}
	return buf.String(), nil
}

func (w workflow) handle(_ context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	args, err := w.resolve(req.Params.Arguments)
	if err != nil {
		return nil, err
	}
	text, err := w.render(args)
	if err != nil {
		return nil, err
	}

	return &mcp.GetPromptResult{
		Description: w.description,
		Messages: []mcp.PromptMessage{
			{Role: mcp.RoleUser, Content: mcp.NewTextContent(text)},
			{Role: mcp.RoleAssistant, Content: mcp.NewTextContent(w.ack(args))},
		},
	}, nil
}
