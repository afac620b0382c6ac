package github

// API defines the GitHub operations the bootstrap orchestrator depends on
type API interface {
	// Repository operations
	RepoExists(org, name string) (bool, error)
	CreateRepo(org string, opts CreateOptions) error
	BranchExists(org, name, branch string) (bool, error)

	// Pages operations
	GetPagesConfig(org, name string) (*PagesConfig, error)
	ConfigurePages(org, name, branch, path string) (PagesStatus, error)

	// Dispatch operations
	Dispatch(org, name, eventType string) error
}
