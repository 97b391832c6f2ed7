// Package config builds the immutable server configuration.
//
// Values are layered: built-in defaults, then an optional YAML file,
// then environment variables, then command-line flags. The result is
// validated once at startup so the server fails fast on a missing URL
// or token instead of failing on the first tool call.
package config

import (
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Transport names accepted by the serve command.
const (
	TransportStdio          = "stdio"
	TransportSSE            = "sse"
	TransportStreamableHTTP = "streamable-http"
)

// Defaults.
const (
	DefaultTimeoutSeconds = 30
	DefaultHost           = "127.0.0.1"
	DefaultPort           = 8000
)

// tokenEnvVars lists the token variables in lookup order.
var tokenEnvVars = []string{
	"GITLAB_TOKEN",
	"GITLAB_PAT",
	"GITLAB_PERSONAL_ACCESS_TOKEN",
	"GITLAB_API_TOKEN",
}

// Config is the complete server configuration.
type Config struct {
	GitLab  GitLabConfig  `yaml:"gitlab"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
}

// GitLabConfig holds the connection settings for the GitLab instance.
type GitLabConfig struct {
	URL            string `yaml:"url"`
	Token          string `yaml:"token"`
	ReadOnly       bool   `yaml:"read_only"`
	TimeoutSeconds int    `yaml:"timeout"`
	SSLVerify      bool   `yaml:"ssl_verify"`
}

// ServerConfig selects the MCP transport.
type ServerConfig struct {
	Transport string `yaml:"transport"`
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
}

// LoggingConfig controls the stderr logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// LookupFunc resolves an environment variable. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// Default returns a Config populated with built-in defaults.
func Default() *Config {
	return &Config{
		GitLab: GitLabConfig{
			TimeoutSeconds: DefaultTimeoutSeconds,
			SSLVerify:      true,
		},
		Server: ServerConfig{
			Transport: TransportStdio,
			Host:      DefaultHost,
			Port:      DefaultPort,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// DotenvFile is read from the working directory by Load when present.
const DotenvFile = ".env"

// Load builds a Config from defaults, the optional YAML file at path and
// the process environment, with ./.env filling variables the process
// does not set. It does not validate; flags may still fill in missing
// values.
func Load(path string) (*Config, error) {
	lookup, err := WithDotenv(DotenvFile, os.LookupEnv)
	if err != nil {
		return nil, err
	}
	return LoadWith(path, lookup)
}

// WithDotenv layers the variables in the dotenv file at path beneath
// lookup: a variable lookup resolves wins over the file. A missing file
// leaves lookup unchanged.
func WithDotenv(path string, lookup LookupFunc) (LookupFunc, error) {
	vals, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return lookup, nil
		}
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := vals[key]
		return v, ok
	}, nil
}

// LoadWith is Load with an injectable environment.
func LoadWith(path string, lookup LookupFunc) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path, lookup); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}

	cfg.normalize()
	return cfg, nil
}

func (c *Config) loadFile(path string, lookup LookupFunc) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "reading config file")
	}

	expanded := expandEnvVars(string(data), lookup)
	if err := yaml.Unmarshal([]byte(expanded), c); err != nil {
		return errors.Wrap(err, "parsing config file")
	}
	return nil
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR} with the variable's value, or with an
// empty string when it is unset.
func expandEnvVars(s string, lookup LookupFunc) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := envVarPattern.FindStringSubmatch(match)[1]
		v, _ := lookup(name)
		return v
	})
}

func (c *Config) applyEnv(lookup LookupFunc) error {
	if v, ok := lookup("GITLAB_URL"); ok && v != "" {
		c.GitLab.URL = v
	}
	for _, key := range tokenEnvVars {
		if v, ok := lookup(key); ok && v != "" {
			c.GitLab.Token = v
			break
		}
	}
	if v, ok := lookup("GITLAB_READ_ONLY"); ok {
		c.GitLab.ReadOnly = isTruthy(v)
	}
	if v, ok := lookup("GITLAB_TIMEOUT"); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return errors.Errorf("GITLAB_TIMEOUT must be a whole number of seconds, got %q", v)
		}
		c.GitLab.TimeoutSeconds = n
	}
	if v, ok := lookup("GITLAB_SSL_VERIFY"); ok {
		c.GitLab.SSLVerify = !isFalsy(v)
	}

	if v, ok := lookup("GITLAB_MCP_TRANSPORT"); ok && v != "" {
		c.Server.Transport = v
	}
	if v, ok := lookup("GITLAB_MCP_HOST"); ok && v != "" {
		c.Server.Host = v
	}
	if v, ok := lookup("GITLAB_MCP_PORT"); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return errors.Errorf("GITLAB_MCP_PORT must be a number, got %q", v)
		}
		c.Server.Port = n
	}
	if v, ok := lookup("GITLAB_MCP_LOG_LEVEL"); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := lookup("GITLAB_MCP_LOG_FORMAT"); ok && v != "" {
		c.Logging.Format = v
	}
	return nil
}

func (c *Config) normalize() {
	c.GitLab.URL = strings.TrimRight(strings.TrimSpace(c.GitLab.URL), "/")
	c.Server.Transport = strings.ToLower(strings.TrimSpace(c.Server.Transport))
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	c.Logging.Format = strings.ToLower(c.Logging.Format)
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes":
		return true
	}
	return false
}

func isFalsy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "false", "0", "no":
		return true
	}
	return false
}

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	if c.GitLab.URL == "" {
		return errors.New("GITLAB_URL environment variable is required")
	}
	u, err := url.Parse(c.GitLab.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.Errorf("GITLAB_URL must be an http(s) URL, got %q", c.GitLab.URL)
	}
	if c.GitLab.Token == "" {
		return errors.New("GitLab token is required. Set one of: " +
			"GITLAB_TOKEN, GITLAB_PAT, GITLAB_PERSONAL_ACCESS_TOKEN, or GITLAB_API_TOKEN")
	}
	if c.GitLab.TimeoutSeconds <= 0 {
		return errors.Errorf("timeout must be positive, got %d", c.GitLab.TimeoutSeconds)
	}

	switch c.Server.Transport {
	case TransportStdio, TransportSSE, TransportStreamableHTTP:
	default:
		return errors.Errorf("unknown transport %q (use %s, %s or %s)",
			c.Server.Transport, TransportStdio, TransportSSE, TransportStreamableHTTP)
	}
	if c.Server.Transport != TransportStdio && (c.Server.Port <= 0 || c.Server.Port > 65535) {
		return errors.Errorf("port out of range: %d", c.Server.Port)
	}
	return nil
}

// APIURL is the REST API v4 root for the configured instance.
func (c *Config) APIURL() string {
	return c.GitLab.URL + "/api/v4"
}

// Timeout returns the per-request timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.GitLab.TimeoutSeconds) * time.Second
}

// ListenAddr is the host:port the HTTP transports bind to.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
