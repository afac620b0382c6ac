package bootstrap

// Status classifies the terminal state of one registry entry.
type Status string

const (
	// StatusCreated means the repository was created and seeded.
	StatusCreated Status = "created"
	// StatusSkipped means the repository already existed; nothing ran.
	StatusSkipped Status = "skipped"
	// StatusFailed means a step errored; later steps did not run.
	StatusFailed Status = "failed"
)

// PagesOutcome describes how far Pages readiness got for a created
// repository. Timeouts are outcomes, not errors: the repository is fine,
// the site just was not up yet when we stopped watching.
type PagesOutcome string

const (
	OutcomeEnabled       PagesOutcome = "enabled"
	OutcomeNoop          PagesOutcome = "noop"
	OutcomeTimeoutBranch PagesOutcome = "timeout_branch"
	OutcomeTimeoutPages  PagesOutcome = "timeout_pages"
)

// EntryResult records what happened to a single registry entry.
type EntryResult struct {
	Org     string
	Name    string
	Status  Status
	Outcome PagesOutcome
	Pushed  bool
	Err     error
}

// FullName returns the org-qualified repository name.
func (r EntryResult) FullName() string {
	return r.Org + "/" + r.Name
}

// Summary aggregates a batch run.
type Summary struct {
	Total   int
	Created int
	Skipped int
	Failed  int
}

// BatchResult collects per-entry results for a whole registry run.
type BatchResult struct {
	Results []EntryResult
	Summary Summary
}

func (b *BatchResult) add(res EntryResult) {
	b.Results = append(b.Results, res)
	b.Summary.Total++

	switch res.Status {
	case StatusCreated:
		b.Summary.Created++
	case StatusSkipped:
		b.Summary.Skipped++
	case StatusFailed:
		b.Summary.Failed++
	}
}

// Failed returns the results that ended in failure.
func (b *BatchResult) Failed() []EntryResult {
	var failed []EntryResult
	for _, res := range b.Results {
		if res.Status == StatusFailed {
			failed = append(failed, res)
		}
	}
	return failed
}

// HasFailures reports whether any entry failed.
func (b *BatchResult) HasFailures() bool {
	return b.Summary.Failed > 0
}
