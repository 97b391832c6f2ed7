// gitlab-mcp: GitLab REST API v4 as an MCP server.
//
// Usage:
//
//	gitlab-mcp [serve] [flags]   # Start the MCP server
//	gitlab-mcp version           # Print the version
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/HendryAvila/gitlab-mcp/internal/config"
	"github.com/HendryAvila/gitlab-mcp/internal/gitlab"
	"github.com/HendryAvila/gitlab-mcp/internal/logging"
	glserver "github.com/HendryAvila/gitlab-mcp/internal/server"
	"github.com/spf13/pflag"
)

const connectivityTimeout = 10 * time.Second

// Commands parseCommand can return.
const (
	cmdServe   = "serve"
	cmdHelp    = "help"
	cmdVersion = "version"
)

func main() {
	cmd, args := parseCommand(os.Args[1:])

	switch cmd {
	case cmdServe:
		if err := run(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case cmdHelp:
		printUsage()
		os.Exit(0)
	case cmdVersion:
		fmt.Printf("gitlab-mcp v%s\n", glserver.Version)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

// parseCommand picks the subcommand and the arguments left for it. With
// no subcommand the server starts, so "gitlab-mcp" and
// "gitlab-mcp --read-only" both serve.
func parseCommand(args []string) (string, []string) {
	if len(args) == 0 {
		return cmdServe, nil
	}
	switch args[0] {
	case "serve":
		return cmdServe, args[1:]
	case "--help", "-h", "help":
		return cmdHelp, nil
	case "--version", "-v", "version":
		return cmdVersion, nil
	}
	if strings.HasPrefix(args[0], "-") {
		return cmdServe, args
	}
	return args[0], nil
}

func run(args []string) error {
	fs := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	flags := config.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	path := flags.ConfigPath
	if path == "" {
		path = os.Getenv("GITLAB_MCP_CONFIG")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	flags.Apply(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("starting gitlab-mcp",
		"version", glserver.Version,
		"gitlab_url", cfg.GitLab.URL,
		"read_only", cfg.GitLab.ReadOnly,
		"transport", cfg.Server.Transport,
	)

	s, client, err := glserver.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Best effort. A bad token or unreachable host is reported on stderr
	// but does not stop the server; every tool call reports it too.
	go checkConnectivity(ctx, client, logger)

	return glserver.Serve(ctx, s, cfg, logger)
}

func checkConnectivity(ctx context.Context, client *gitlab.Client, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(ctx, connectivityTimeout)
	defer cancel()

	v, err := client.ServerVersion(ctx)
	if err != nil {
		logger.Warn("gitlab connectivity check failed", "error", err)
		return
	}
	attrs := []any{}
	if m, ok := v.(map[string]any); ok {
		attrs = append(attrs, "gitlab_version", m["version"], "revision", m["revision"])
	}
	logger.Info("connected to gitlab", attrs...)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `gitlab-mcp v%s - GitLab MCP Server

Usage:
  gitlab-mcp [serve] [flags]   Start the MCP server (default)
  gitlab-mcp version           Print the version

Flags (serve):
  --gitlab-url URL           GitLab instance URL (env: GITLAB_URL)
  --gitlab-token TOKEN       Access token (env: GITLAB_TOKEN)
  --read-only                Reject every write operation (env: GITLAB_READ_ONLY)
  --timeout SECONDS          Request timeout (env: GITLAB_TIMEOUT, default 30)
  --ssl-verify               Verify TLS certificates (env: GITLAB_SSL_VERIFY, default true)
  --transport NAME           stdio, sse or streamable-http (env: GITLAB_MCP_TRANSPORT)
  --host HOST                Listen host for HTTP transports (env: GITLAB_MCP_HOST)
  --port PORT                Listen port for HTTP transports (env: GITLAB_MCP_PORT)
  --config PATH              YAML config file (env: GITLAB_MCP_CONFIG)
  --log-level LEVEL          debug, info, warn or error (env: GITLAB_MCP_LOG_LEVEL)
  --log-format FORMAT        text or json (env: GITLAB_MCP_LOG_FORMAT)

Configuration:
  Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "gitlab": {
        "command": "gitlab-mcp",
        "args": ["serve"],
        "env": {
          "GITLAB_URL": "https://gitlab.example.com",
          "GITLAB_TOKEN": "glpat-..."
        }
      }
    }
  }
`, glserver.Version)
}
