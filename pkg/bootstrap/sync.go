package bootstrap

import (
	"fmt"
	"os"
	"path/filepath"

	"studyforge/pkg/config"
	"studyforge/pkg/gitrepo"
)

// Syncer seeds a repository working copy and reports whether it pushed.
type Syncer interface {
	Run(org, name string) (bool, error)
}

// Synchronizer mirrors the template sources into a repository clone and
// pushes the result. It reuses the working copy between runs; the reset to
// the remote head makes any leftover local state irrelevant.
type Synchronizer struct {
	git   *gitrepo.Git
	cfg   config.BootstrapConfig
	token string
}

// NewSynchronizer creates a synchronizer. The token is only embedded into
// remote URLs when the configuration asks for it.
func NewSynchronizer(git *gitrepo.Git, cfg config.BootstrapConfig, token string) *Synchronizer {
	return &Synchronizer{git: git, cfg: cfg, token: token}
}

// Run makes org/name's default branch carry exactly the template content.
// It reports true when a push happened and false when the repository was
// already up to date.
func (s *Synchronizer) Run(org, name string) (bool, error) {
	if err := s.checkTemplateSources(); err != nil {
		return false, err
	}

	dir := filepath.Join(s.cfg.WorkDir, fmt.Sprintf("%s__%s", org, name))
	url := gitrepo.RemoteURL(org, name)
	if s.cfg.TokenInCloneURL && s.token != "" {
		url = gitrepo.AuthenticatedRemoteURL(org, name, s.token)
	}

	var wc *gitrepo.WorkingCopy
	if gitrepo.IsClone(dir) {
		wc = s.git.Open(dir)
	} else {
		var err error
		wc, err = s.git.Clone(url, dir)
		if err != nil {
			return false, err
		}
	}

	if err := wc.SetOriginURL(url); err != nil {
		return false, err
	}
	if err := wc.Fetch(); err != nil {
		return false, err
	}
	if err := wc.SetIdentity(s.cfg.CommitterName, s.cfg.CommitterEmail); err != nil {
		return false, err
	}
	if err := wc.ResetToRemoteHead(s.cfg.DefaultBranch); err != nil {
		return false, err
	}

	if err := MirrorDir(s.cfg.DisciplineDir, wc.Dir(), rootExcludes); err != nil {
		return false, err
	}
	workflowTarget := filepath.Join(wc.Dir(), ".github", "workflows")
	if err := MirrorDir(s.cfg.WorkflowsDir, workflowTarget, workflowExcludes); err != nil {
		return false, err
	}

	changed, err := wc.HasChanges()
	if err != nil {
		return false, err
	}
	if !changed {
		return false, nil
	}

	if err := wc.CommitAndPush(s.cfg.DefaultBranch, s.cfg.CommitMessage); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Synchronizer) checkTemplateSources() error {
	for _, dir := range []string{s.cfg.DisciplineDir, s.cfg.WorkflowsDir} {
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("template source %s: %w", dir, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("template source %s is not a directory", dir)
		}
	}
	return nil
}
