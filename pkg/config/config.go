// Package config assembles the studyforge configuration from the config
// file and the environment, once, at process start. Everything downstream
// receives the resolved struct; no other package reads environment
// variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the studyforge configuration
type Config struct {
	GitHub    GitHubConfig    `yaml:"github"`
	Bootstrap BootstrapConfig `yaml:"bootstrap"`
}

// GitHubConfig represents GitHub-specific configuration
type GitHubConfig struct {
	Token        string `yaml:"token"`
	Organization string `yaml:"organization"`
}

// BootstrapConfig controls how course repositories are created and seeded.
type BootstrapConfig struct {
	DefaultBranch  string `yaml:"default_branch"`
	PagesBranch    string `yaml:"pages_branch"`
	PagesPath      string `yaml:"pages_path"`
	CommitterName  string `yaml:"committer_name"`
	CommitterEmail string `yaml:"committer_email"`
	CommitMessage  string `yaml:"commit_message"`

	SiteEvent   string `yaml:"site_event"`
	ReadmeEvent string `yaml:"readme_event"`

	// AlwaysDispatch fires the template events even when the seeding push
	// already happened; when false, dispatch is only the fallback trigger
	// for no-op syncs.
	AlwaysDispatch bool `yaml:"always_dispatch"`
	// TokenInCloneURL embeds the access token into the origin URL instead
	// of relying on ambient git credentials.
	TokenInCloneURL bool `yaml:"token_in_clone_url"`

	PollIntervalSeconds int `yaml:"poll_interval_seconds"`
	WaitTimeoutSeconds  int `yaml:"wait_timeout_seconds"`

	WorkDir       string `yaml:"workdir"`
	DisciplineDir string `yaml:"discipline_dir"`
	WorkflowsDir  string `yaml:"workflows_dir"`
}

// DefaultConfig returns the configuration used when nothing overrides it.
func DefaultConfig() *Config {
	return &Config{
		Bootstrap: BootstrapConfig{
			DefaultBranch:       "main",
			PagesBranch:         "gh-pages",
			PagesPath:           "/",
			CommitterName:       "github-actions[bot]",
			CommitterEmail:      "github-actions[bot]@users.noreply.github.com",
			CommitMessage:       "Apply bootstrap templates",
			SiteEvent:           "site-template-updated",
			ReadmeEvent:         "readme-template-updated",
			AlwaysDispatch:      true,
			TokenInCloneURL:     false,
			PollIntervalSeconds: 3,
			WaitTimeoutSeconds:  120,
			DisciplineDir:       filepath.Join("bootstrap", "repo_discipline"),
			WorkflowsDir:        filepath.Join("bootstrap", "repo_workflows"),
		},
	}
}

// LoadDotenv loads a .env file from the working directory when present.
// A missing file is the normal case outside CI.
func LoadDotenv() {
	_ = godotenv.Load()
}

// Load resolves the full configuration: defaults, then the config file,
// then environment overrides.
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	cfg, err := LoadConfigFromPath(configPath)
	if err != nil {
		return nil, err
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadConfigFromPath loads configuration from a specific path, layered over
// the defaults. A missing file yields the defaults.
func LoadConfigFromPath(path string) (*Config, error) {
	config := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// ApplyEnv applies the environment overrides the bootstrap automation has
// historically been driven by. GH_TOKEN wins over GITHUB_TOKEN.
func (c *Config) ApplyEnv() error {
	if token := firstEnv("GH_TOKEN", "GITHUB_TOKEN"); token != "" {
		c.GitHub.Token = strings.TrimSpace(token)
	}
	if org := firstEnv("ONE_ORG", "ORG"); org != "" {
		c.GitHub.Organization = strings.TrimSpace(org)
	}

	if name := os.Getenv("GIT_USER_NAME"); name != "" {
		c.Bootstrap.CommitterName = name
	}
	if email := os.Getenv("GIT_USER_EMAIL"); email != "" {
		c.Bootstrap.CommitterEmail = email
	}
	if event := os.Getenv("DISPATCH_SITE"); event != "" {
		c.Bootstrap.SiteEvent = event
	}
	if event := os.Getenv("DISPATCH_README"); event != "" {
		c.Bootstrap.ReadmeEvent = event
	}

	if v := os.Getenv("ALWAYS_DISPATCH"); v != "" {
		c.Bootstrap.AlwaysDispatch = parseBool(v)
	}
	if v := os.Getenv("USE_TOKEN_IN_URL"); v != "" {
		c.Bootstrap.TokenInCloneURL = parseBool(v)
	}

	if v := os.Getenv("POLL_INTERVAL"); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid POLL_INTERVAL %q: %w", v, err)
		}
		c.Bootstrap.PollIntervalSeconds = seconds
	}
	if v := os.Getenv("WAIT_TIMEOUT"); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid WAIT_TIMEOUT %q: %w", v, err)
		}
		c.Bootstrap.WaitTimeoutSeconds = seconds
	}

	if c.Bootstrap.WorkDir == "" {
		base := os.Getenv("RUNNER_TEMP")
		if base == "" {
			base = os.TempDir()
		}
		c.Bootstrap.WorkDir = filepath.Join(base, "studyforge-bootstrap")
	}

	return nil
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	b := c.Bootstrap
	if b.DefaultBranch == "" {
		return fmt.Errorf("bootstrap default branch is required")
	}
	if b.PagesBranch == "" {
		return fmt.Errorf("bootstrap pages branch is required")
	}
	if b.CommitterName == "" || b.CommitterEmail == "" {
		return fmt.Errorf("bootstrap committer identity is required")
	}
	if b.PollIntervalSeconds <= 0 {
		return fmt.Errorf("poll interval must be positive, got %d", b.PollIntervalSeconds)
	}
	if b.WaitTimeoutSeconds < b.PollIntervalSeconds {
		return fmt.Errorf("wait timeout %ds must be at least the poll interval %ds", b.WaitTimeoutSeconds, b.PollIntervalSeconds)
	}
	return nil
}

// SaveConfig saves configuration to the default location
func (c *Config) SaveConfig() error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	return c.SaveConfigToPath(configPath)
}

// SaveConfigToPath saves configuration to a specific path
func (c *Config) SaveConfigToPath(path string) error {
	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, ".studyforge", "config.yaml"), nil
}
