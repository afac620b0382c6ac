package github

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"
)

// Client implements the API interface using the GitHub REST API
type Client struct {
	client *github.Client
	ctx    context.Context
}

// NewClient creates a new GitHub API client with the provided token
func NewClient(token string) *Client {
	ctx := context.Background()
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)

	return &Client{
		client: github.NewClient(tc),
		ctx:    ctx,
	}
}

// RepoExists reports whether org/name exists and is visible to the token
func (c *Client) RepoExists(org, name string) (bool, error) {
	var exists bool

	err := WithRetry(func() error {
		_, resp, err := c.client.Repositories.Get(c.ctx, org, name)
		if err != nil {
			if resp != nil && resp.StatusCode == http.StatusNotFound {
				exists = false
				return nil
			}
			return WrapAPIError(err, fmt.Sprintf("repository %s/%s", org, name))
		}
		exists = true
		return nil
	}, DefaultRetryConfig())

	return exists, err
}

// CreateRepo creates a repository in org. A validation rejection because the
// name is already taken counts as success; the caller checked existence
// moments ago and a concurrent creation leaves the system in the desired
// state either way.
func (c *Client) CreateRepo(org string, opts CreateOptions) error {
	repo := &github.Repository{
		Name:        github.String(opts.Name),
		Description: github.String(opts.Description),
		Private:     github.Bool(opts.Private),
		AutoInit:    github.Bool(true),
		HasIssues:   github.Bool(false),
		HasWiki:     github.Bool(false),
		HasProjects: github.Bool(false),
	}

	return WithRetry(func() error {
		_, _, err := c.client.Repositories.Create(c.ctx, org, repo)
		if err != nil {
			wrapped := WrapAPIError(err, fmt.Sprintf("repository %s/%s", org, opts.Name))
			if wrapped.Type == ErrorTypeValidation {
				return nil
			}
			return wrapped
		}
		return nil
	}, DefaultRetryConfig())
}

// BranchExists reports whether the branch exists on org/name
func (c *Client) BranchExists(org, name, branch string) (bool, error) {
	var exists bool

	err := WithRetry(func() error {
		_, resp, err := c.client.Repositories.GetBranch(c.ctx, org, name, branch, 0)
		if err != nil {
			if resp != nil && resp.StatusCode == http.StatusNotFound {
				exists = false
				return nil
			}
			return WrapAPIError(err, fmt.Sprintf("branch %s/%s:%s", org, name, branch))
		}
		exists = true
		return nil
	}, DefaultRetryConfig())

	return exists, err
}

// GetPagesConfig returns the current Pages source for org/name, or nil when
// Pages has never been enabled.
func (c *Client) GetPagesConfig(org, name string) (*PagesConfig, error) {
	var cfg *PagesConfig

	err := WithRetry(func() error {
		pages, resp, err := c.client.Repositories.GetPagesInfo(c.ctx, org, name)
		if err != nil {
			if resp != nil && resp.StatusCode == http.StatusNotFound {
				cfg = nil
				return nil
			}
			return WrapAPIError(err, fmt.Sprintf("pages for %s/%s", org, name))
		}

		cfg = &PagesConfig{
			Branch: pages.GetSource().GetBranch(),
			Path:   pages.GetSource().GetPath(),
		}
		return nil
	}, DefaultRetryConfig())

	return cfg, err
}

// ConfigurePages drives the Pages site of org/name toward serving branch at
// path. It distinguishes a site that is already correct from one that had to
// be enabled or repointed, and reports PagesNotReady while GitHub still
// rejects the source branch.
func (c *Client) ConfigurePages(org, name, branch, path string) (PagesStatus, error) {
	current, err := c.GetPagesConfig(org, name)
	if err != nil {
		return "", err
	}

	if current == nil {
		return c.enablePages(org, name, branch, path)
	}

	if current.Branch == branch && current.Path == path {
		return PagesAlreadyCorrect, nil
	}

	return c.updatePages(org, name, branch, path)
}

func (c *Client) enablePages(org, name, branch, path string) (PagesStatus, error) {
	pages := &github.Pages{
		Source: &github.PagesSource{
			Branch: github.String(branch),
			Path:   github.String(path),
		},
	}

	status := PagesEnabled
	err := WithRetry(func() error {
		_, _, err := c.client.Repositories.EnablePages(c.ctx, org, name, pages)
		if err != nil {
			wrapped := WrapAPIError(err, fmt.Sprintf("pages for %s/%s", org, name))
			switch wrapped.Type {
			case ErrorTypeValidation:
				// Source branch not pushed yet
				status = PagesNotReady
				return nil
			case ErrorTypeConflict:
				// Enabled concurrently; the next attempt reads the real state
				status = PagesNotReady
				return nil
			}
			return wrapped
		}
		return nil
	}, DefaultRetryConfig())

	if err != nil {
		return "", err
	}
	return status, nil
}

func (c *Client) updatePages(org, name, branch, path string) (PagesStatus, error) {
	update := &github.PagesUpdate{
		Source: &github.PagesSource{
			Branch: github.String(branch),
			Path:   github.String(path),
		},
	}

	status := PagesUpdated
	err := WithRetry(func() error {
		_, err := c.client.Repositories.UpdatePages(c.ctx, org, name, update)
		if err != nil {
			wrapped := WrapAPIError(err, fmt.Sprintf("pages for %s/%s", org, name))
			if wrapped.Type == ErrorTypeValidation {
				status = PagesNotReady
				return nil
			}
			return wrapped
		}
		return nil
	}, DefaultRetryConfig())

	if err != nil {
		return "", err
	}
	return status, nil
}

// Dispatch fires a repository_dispatch event on org/name
func (c *Client) Dispatch(org, name, eventType string) error {
	return WithRetry(func() error {
		_, _, err := c.client.Repositories.Dispatch(c.ctx, org, name, github.DispatchRequestOptions{
			EventType: eventType,
		})
		if err != nil {
			return WrapAPIError(err, fmt.Sprintf("dispatch %s for %s/%s", eventType, org, name))
		}
		return nil
	}, DefaultRetryConfig())
}
