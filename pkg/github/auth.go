package github

import (
	"fmt"
	"strings"

	"studyforge/pkg/config"
)

// AuthManager resolves the GitHub token used by bootstrap operations
type AuthManager struct{}

// NewAuthManager creates a new authentication manager
func NewAuthManager() *AuthManager {
	return &AuthManager{}
}

// GetToken retrieves the GitHub token from the resolved configuration. The
// config layer has already applied the GH_TOKEN and GITHUB_TOKEN environment
// overrides, so by the time we are called the token either exists in the
// config or nowhere at all.
func (am *AuthManager) GetToken(cfg *config.Config) (string, error) {
	if cfg != nil && cfg.GitHub.Token != "" {
		return strings.TrimSpace(cfg.GitHub.Token), nil
	}

	return "", fmt.Errorf("no GitHub token found: set GH_TOKEN or GITHUB_TOKEN, or configure token in ~/.studyforge/config.yaml")
}

// GetAuthInstructions returns instructions for setting up GitHub authentication
func GetAuthInstructions() string {
	return `GitHub authentication is required. Please set up authentication using one of the following methods:

1. Environment Variable (Recommended for CI/CD):
   export GH_TOKEN="your_personal_access_token"
   (GITHUB_TOKEN is also accepted)

2. Configuration File:
   Add the following to ~/.studyforge/config.yaml:

   github:
     token: "your_personal_access_token"

To create a personal access token:
1. Go to GitHub Settings > Developer settings > Personal access tokens
2. Click "Generate new token (classic)"
3. Select the following scopes:
   - repo (create repositories, enable Pages, send dispatch events)
   - workflow (push workflow files into .github/workflows)
4. Copy the generated token and use it with one of the methods above

Note: Without the workflow scope, pushes that touch .github/workflows are rejected.`
}
