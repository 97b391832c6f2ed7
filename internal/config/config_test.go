package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// envMap returns a LookupFunc backed by a map.
func envMap(m map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith("", envMap(nil))
	require.NoError(t, err)

	assert.Equal(t, "", cfg.GitLab.URL)
	assert.Equal(t, DefaultTimeoutSeconds, cfg.GitLab.TimeoutSeconds)
	assert.True(t, cfg.GitLab.SSLVerify)
	assert.False(t, cfg.GitLab.ReadOnly)
	assert.Equal(t, TransportStdio, cfg.Server.Transport)
	assert.Equal(t, "127.0.0.1:8000", cfg.ListenAddr())
	assert.Equal(t, 30*time.Second, cfg.Timeout())
}

func TestLoadWith_URLTrailingSlashTrimmed(t *testing.T) {
	cfg, err := LoadWith("", envMap(map[string]string{
		"GITLAB_URL": "https://gitlab.example.com/",
	}))
	require.NoError(t, err)

	assert.Equal(t, "https://gitlab.example.com", cfg.GitLab.URL)
	assert.Equal(t, "https://gitlab.example.com/api/v4", cfg.APIURL())
}

func TestLoadWith_TokenFallbackOrder(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"primary wins", map[string]string{"GITLAB_TOKEN": "a", "GITLAB_PAT": "b"}, "a"},
		{"pat", map[string]string{"GITLAB_PAT": "b", "GITLAB_API_TOKEN": "d"}, "b"},
		{"personal access token", map[string]string{"GITLAB_PERSONAL_ACCESS_TOKEN": "c", "GITLAB_API_TOKEN": "d"}, "c"},
		{"api token", map[string]string{"GITLAB_API_TOKEN": "d"}, "d"},
		{"empty primary skipped", map[string]string{"GITLAB_TOKEN": "", "GITLAB_PAT": "b"}, "b"},
		{"none", map[string]string{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadWith("", envMap(tt.env))
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.GitLab.Token)
		})
	}
}

func TestLoadWith_BooleanParsing(t *testing.T) {
	tests := []struct {
		value        string
		wantReadOnly bool
		wantVerify   bool
	}{
		{"true", true, true},
		{"TRUE", true, true},
		{"1", true, true},
		{"yes", true, true},
		{"false", false, false},
		{"0", false, false},
		{"no", false, false},
		{"maybe", false, true},
		{"", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			cfg, err := LoadWith("", envMap(map[string]string{
				"GITLAB_READ_ONLY":  tt.value,
				"GITLAB_SSL_VERIFY": tt.value,
			}))
			require.NoError(t, err)
			assert.Equal(t, tt.wantReadOnly, cfg.GitLab.ReadOnly, "read only")
			assert.Equal(t, tt.wantVerify, cfg.GitLab.SSLVerify, "ssl verify")
		})
	}
}

func TestLoadWith_Timeout(t *testing.T) {
	cfg, err := LoadWith("", envMap(map[string]string{"GITLAB_TIMEOUT": "5"}))
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.Timeout())

	_, err = LoadWith("", envMap(map[string]string{"GITLAB_TIMEOUT": "soon"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GITLAB_TIMEOUT")
}

func TestLoadWith_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gitlab-mcp.yaml")
	content := `gitlab:
  url: https://file.example.com/
  token: ${FILE_TOKEN}
  read_only: true
  timeout: 12
server:
  transport: sse
  port: 9000
logging:
  level: DEBUG
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadWith(path, envMap(map[string]string{
		"FILE_TOKEN":       "from-file-env",
		"GITLAB_READ_ONLY": "false",
	}))
	require.NoError(t, err)

	assert.Equal(t, "https://file.example.com", cfg.GitLab.URL)
	assert.Equal(t, "from-file-env", cfg.GitLab.Token)
	assert.False(t, cfg.GitLab.ReadOnly, "env overrides file")
	assert.Equal(t, 12, cfg.GitLab.TimeoutSeconds)
	assert.True(t, cfg.GitLab.SSLVerify, "default kept when file omits it")
	assert.Equal(t, TransportSSE, cfg.Server.Transport)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, DefaultHost, cfg.Server.Host)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadWith_MissingFile(t *testing.T) {
	_, err := LoadWith(filepath.Join(t.TempDir(), "nope.yaml"), envMap(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestLoadWith_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("gitlab: [unclosed"), 0o600))

	_, err := LoadWith(path, envMap(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config file")
}

func TestWithDotenv_FillsUnsetVariables(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(
		"# local settings\n"+
			"GITLAB_URL=https://gitlab.dotenv.example\n"+
			"GITLAB_TOKEN=\"glpat-from-file\"\n"+
			"GITLAB_READ_ONLY=true\n"), 0o600))

	lookup, err := WithDotenv(path, envMap(map[string]string{
		"GITLAB_TOKEN": "glpat-from-env",
	}))
	require.NoError(t, err)

	cfg, err := LoadWith("", lookup)
	require.NoError(t, err)
	assert.Equal(t, "https://gitlab.dotenv.example", cfg.GitLab.URL)
	assert.Equal(t, "glpat-from-env", cfg.GitLab.Token, "process environment wins over .env")
	assert.True(t, cfg.GitLab.ReadOnly)
}

func TestWithDotenv_MissingFileIsIgnored(t *testing.T) {
	base := envMap(map[string]string{"GITLAB_URL": "https://gitlab.example.com"})

	lookup, err := WithDotenv(filepath.Join(t.TempDir(), ".env"), base)
	require.NoError(t, err)

	v, ok := lookup("GITLAB_URL")
	assert.True(t, ok)
	assert.Equal(t, "https://gitlab.example.com", v)
	_, ok = lookup("GITLAB_TOKEN")
	assert.False(t, ok)
}

func TestWithDotenv_UnreadablePath(t *testing.T) {
	_, err := WithDotenv(t.TempDir(), envMap(nil))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.GitLab.URL = "https://gitlab.example.com"
		cfg.GitLab.Token = "glpat-x"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing url", func(c *Config) { c.GitLab.URL = "" }, "GITLAB_URL environment variable is required"},
		{"bad scheme", func(c *Config) { c.GitLab.URL = "ftp://x" }, "http(s) URL"},
		{"missing token", func(c *Config) { c.GitLab.Token = "" }, "GitLab token is required"},
		{"zero timeout", func(c *Config) { c.GitLab.TimeoutSeconds = 0 }, "timeout must be positive"},
		{"unknown transport", func(c *Config) { c.Server.Transport = "websocket" }, "unknown transport"},
		{"bad port on http transport", func(c *Config) {
			c.Server.Transport = TransportStreamableHTTP
			c.Server.Port = 70000
		}, "port out of range"},
		{"port ignored on stdio", func(c *Config) { c.Server.Port = 0 }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFlags_ApplyOnlyChanged(t *testing.T) {
	fs := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	flags := RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{
		"--gitlab-url", "https://flag.example.com/",
		"--read-only",
		"--transport", "Streamable-HTTP",
	}))

	cfg := Default()
	cfg.GitLab.Token = "from-env"
	cfg.Server.Port = 9100
	flags.Apply(cfg)

	assert.Equal(t, "https://flag.example.com", cfg.GitLab.URL)
	assert.True(t, cfg.GitLab.ReadOnly)
	assert.Equal(t, TransportStreamableHTTP, cfg.Server.Transport)
	assert.Equal(t, "from-env", cfg.GitLab.Token, "unset flag must not clobber")
	assert.Equal(t, 9100, cfg.Server.Port, "unset flag must not clobber")
}

func TestFlags_SSLVerifyCanBeDisabled(t *testing.T) {
	fs := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	flags := RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--ssl-verify=false"}))

	cfg := Default()
	flags.Apply(cfg)
	assert.False(t, cfg.GitLab.SSLVerify)
}
