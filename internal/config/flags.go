package config

import (
	"github.com/spf13/pflag"
)

// Flags holds the command-line overrides for the serve command.
type Flags struct {
	ConfigPath string

	fs        *pflag.FlagSet
	url       string
	token     string
	readOnly  bool
	timeout   int
	sslVerify bool
	transport string
	host      string
	port      int
	logLevel  string
	logFormat string
}

// RegisterFlags defines the serve flags on fs.
func RegisterFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	fs.StringVar(&f.ConfigPath, "config", "", "Path to a YAML config file (env: GITLAB_MCP_CONFIG)")
	fs.StringVar(&f.url, "gitlab-url", "", "GitLab instance URL (env: GITLAB_URL)")
	fs.StringVar(&f.token, "gitlab-token", "", "GitLab access token (env: GITLAB_TOKEN)")
	fs.BoolVar(&f.readOnly, "read-only", false, "Reject every write operation (env: GITLAB_READ_ONLY)")
	fs.IntVar(&f.timeout, "timeout", DefaultTimeoutSeconds, "Request timeout in seconds (env: GITLAB_TIMEOUT)")
	fs.BoolVar(&f.sslVerify, "ssl-verify", true, "Verify TLS certificates (env: GITLAB_SSL_VERIFY)")
	fs.StringVar(&f.transport, "transport", TransportStdio, "MCP transport: stdio, sse or streamable-http")
	fs.StringVar(&f.host, "host", DefaultHost, "Listen host for HTTP transports")
	fs.IntVar(&f.port, "port", DefaultPort, "Listen port for HTTP transports")
	fs.StringVar(&f.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	fs.StringVar(&f.logFormat, "log-format", "text", "Log format: text or json")
	return f
}

// Apply overrides cfg with every flag the user set explicitly.
// Flags left at their defaults do not clobber file or env values.
func (f *Flags) Apply(cfg *Config) {
	if f.fs.Changed("gitlab-url") {
		cfg.GitLab.URL = f.url
	}
	if f.fs.Changed("gitlab-token") {
		cfg.GitLab.Token = f.token
	}
	if f.fs.Changed("read-only") {
		cfg.GitLab.ReadOnly = f.readOnly
	}
	if f.fs.Changed("timeout") {
		cfg.GitLab.TimeoutSeconds = f.timeout
	}
	if f.fs.Changed("ssl-verify") {
		cfg.GitLab.SSLVerify = f.sslVerify
	}
	if f.fs.Changed("transport") {
		cfg.Server.Transport = f.transport
	}
	if f.fs.Changed("host") {
		cfg.Server.Host = f.host
	}
	if f.fs.Changed("port") {
		cfg.Server.Port = f.port
	}
	if f.fs.Changed("log-level") {
		cfg.Logging.Level = f.logLevel
	}
	if f.fs.Changed("log-format") {
		cfg.Logging.Format = f.logFormat
	}
	cfg.normalize()
}
