package github

// CreateOptions describes a repository to create. Repositories are always
// created with an initial commit so the default branch exists immediately,
// and with issues, wiki and projects disabled; course repositories get their
// surface from the pushed templates instead.
type CreateOptions struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Private     bool   `json:"private"`
}

// PagesConfig is the published source of a repository's Pages site.
type PagesConfig struct {
	Branch string `json:"branch"`
	Path   string `json:"path"`
}

// PagesStatus describes the result of a Pages configuration attempt.
type PagesStatus string

const (
	// PagesEnabled means the site was switched on with the requested source.
	PagesEnabled PagesStatus = "enabled"
	// PagesUpdated means the site existed with a different source and was repointed.
	PagesUpdated PagesStatus = "updated"
	// PagesAlreadyCorrect means the site already serves the requested source.
	PagesAlreadyCorrect PagesStatus = "already_correct"
	// PagesNotReady means GitHub rejected the source because the branch does
	// not exist yet; the caller is expected to retry later.
	PagesNotReady PagesStatus = "not_ready"
)
