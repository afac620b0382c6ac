package bootstrap

import (
	"errors"
	"fmt"

	"studyforge/pkg/github"
	"studyforge/pkg/poll"
)

// WaitRepoReady polls until the freshly created repository is visible
// through the API. Creation is eventually consistent; a clone attempt
// straight after a 201 can hit a 404.
func WaitRepoReady(api github.API, org, name string, policy poll.Policy) error {
	err := policy.Wait(func() (bool, error) {
		return api.RepoExists(org, name)
	})
	if errors.Is(err, poll.ErrDeadline) {
		return fmt.Errorf("repository %s/%s not visible after %s", org, name, policy.Timeout)
	}
	return err
}

// WaitBranch polls until the branch exists. It returns poll.ErrDeadline
// unchanged when the deadline passes so callers can map it to an outcome
// instead of a failure.
func WaitBranch(api github.API, org, name, branch string, policy poll.Policy) error {
	return policy.Wait(func() (bool, error) {
		return api.BranchExists(org, name, branch)
	})
}

// WaitPages repeatedly applies the Pages configuration until the API stops
// reporting the branch as not ready. It returns the final status, or
// poll.ErrDeadline when the deadline passes first.
func WaitPages(api github.API, org, name, branch, path string, policy poll.Policy) (github.PagesStatus, error) {
	var last github.PagesStatus
	err := policy.Wait(func() (bool, error) {
		status, err := api.ConfigurePages(org, name, branch, path)
		if err != nil {
			return false, err
		}
		last = status
		return status != github.PagesNotReady, nil
	})
	if err != nil {
		return last, err
	}
	return last, nil
}
