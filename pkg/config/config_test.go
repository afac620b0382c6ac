package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearBootstrapEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GH_TOKEN", "GITHUB_TOKEN", "ONE_ORG", "ORG",
		"GIT_USER_NAME", "GIT_USER_EMAIL", "DISPATCH_SITE", "DISPATCH_README",
		"ALWAYS_DISPATCH", "USE_TOKEN_IN_URL", "POLL_INTERVAL", "WAIT_TIMEOUT",
		"RUNNER_TEMP",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "main", cfg.Bootstrap.DefaultBranch)
	assert.Equal(t, "gh-pages", cfg.Bootstrap.PagesBranch)
	assert.Equal(t, "/", cfg.Bootstrap.PagesPath)
	assert.Equal(t, "github-actions[bot]", cfg.Bootstrap.CommitterName)
	assert.Equal(t, "site-template-updated", cfg.Bootstrap.SiteEvent)
	assert.Equal(t, "readme-template-updated", cfg.Bootstrap.ReadmeEvent)
	assert.True(t, cfg.Bootstrap.AlwaysDispatch)
	assert.False(t, cfg.Bootstrap.TokenInCloneURL)
	assert.Equal(t, 3, cfg.Bootstrap.PollIntervalSeconds)
	assert.Equal(t, 120, cfg.Bootstrap.WaitTimeoutSeconds)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigFromPathMissingFile(t *testing.T) {
	cfg, err := LoadConfigFromPath(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg, "missing file yields the defaults")
}

func TestLoadConfigFromPathLayersOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
github:
  token: file-token
  organization: acme
bootstrap:
  always_dispatch: false
  pages_branch: docs
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfigFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "file-token", cfg.GitHub.Token)
	assert.Equal(t, "acme", cfg.GitHub.Organization)
	assert.False(t, cfg.Bootstrap.AlwaysDispatch, "explicit false survives the default true")
	assert.Equal(t, "docs", cfg.Bootstrap.PagesBranch)
	assert.Equal(t, "main", cfg.Bootstrap.DefaultBranch, "untouched keys keep their defaults")
}

func TestLoadConfigFromPathInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("github: ["), 0644))

	_, err := LoadConfigFromPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestApplyEnvOverrides(t *testing.T) {
	clearBootstrapEnv(t)
	t.Setenv("GH_TOKEN", " env-token ")
	t.Setenv("ONE_ORG", "acme")
	t.Setenv("GIT_USER_NAME", "seeder")
	t.Setenv("GIT_USER_EMAIL", "seeder@example.com")
	t.Setenv("DISPATCH_SITE", "site-changed")
	t.Setenv("DISPATCH_README", "readme-changed")
	t.Setenv("ALWAYS_DISPATCH", "no")
	t.Setenv("USE_TOKEN_IN_URL", "yes")
	t.Setenv("POLL_INTERVAL", "5")
	t.Setenv("WAIT_TIMEOUT", "60")

	cfg := DefaultConfig()
	cfg.GitHub.Token = "file-token"
	require.NoError(t, cfg.ApplyEnv())

	assert.Equal(t, "env-token", cfg.GitHub.Token, "environment wins over the config file")
	assert.Equal(t, "acme", cfg.GitHub.Organization)
	assert.Equal(t, "seeder", cfg.Bootstrap.CommitterName)
	assert.Equal(t, "seeder@example.com", cfg.Bootstrap.CommitterEmail)
	assert.Equal(t, "site-changed", cfg.Bootstrap.SiteEvent)
	assert.Equal(t, "readme-changed", cfg.Bootstrap.ReadmeEvent)
	assert.False(t, cfg.Bootstrap.AlwaysDispatch)
	assert.True(t, cfg.Bootstrap.TokenInCloneURL)
	assert.Equal(t, 5, cfg.Bootstrap.PollIntervalSeconds)
	assert.Equal(t, 60, cfg.Bootstrap.WaitTimeoutSeconds)
}

func TestApplyEnvTokenPrecedence(t *testing.T) {
	clearBootstrapEnv(t)
	t.Setenv("GITHUB_TOKEN", "actions-token")

	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, "actions-token", cfg.GitHub.Token)

	t.Setenv("GH_TOKEN", "explicit-token")
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, "explicit-token", cfg.GitHub.Token, "GH_TOKEN wins over GITHUB_TOKEN")
}

func TestApplyEnvWorkDir(t *testing.T) {
	clearBootstrapEnv(t)
	t.Setenv("RUNNER_TEMP", "/tmp/runner")

	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, filepath.Join("/tmp/runner", "studyforge-bootstrap"), cfg.Bootstrap.WorkDir)

	cfg = DefaultConfig()
	cfg.Bootstrap.WorkDir = "/explicit"
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, "/explicit", cfg.Bootstrap.WorkDir, "an explicit workdir is not overridden")
}

func TestApplyEnvInvalidNumbers(t *testing.T) {
	clearBootstrapEnv(t)
	t.Setenv("POLL_INTERVAL", "soon")

	err := DefaultConfig().ApplyEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POLL_INTERVAL")

	clearBootstrapEnv(t)
	t.Setenv("WAIT_TIMEOUT", "later")

	err = DefaultConfig().ApplyEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WAIT_TIMEOUT")
}

func TestParseBool(t *testing.T) {
	for _, v := range []string{"1", "true", "TRUE", "yes", "Yes", "on", " true "} {
		assert.True(t, parseBool(v), "%q should parse as true", v)
	}
	for _, v := range []string{"0", "false", "no", "off", "", "maybe"} {
		assert.False(t, parseBool(v), "%q should parse as false", v)
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Bootstrap.PollIntervalSeconds = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Bootstrap.WaitTimeoutSeconds = 1
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Bootstrap.CommitterEmail = ""
	assert.Error(t, cfg.Validate())
}

func TestSaveAndReloadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.GitHub.Organization = "acme"
	require.NoError(t, cfg.SaveConfigToPath(path))

	reloaded, err := LoadConfigFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, reloaded)
}

func TestGetConfigPath(t *testing.T) {
	path, err := GetConfigPath()
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, filepath.Join(".studyforge", "config.yaml")))
}
