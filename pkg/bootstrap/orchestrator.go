package bootstrap

import (
	"errors"
	"fmt"
	"time"

	"studyforge/pkg/config"
	"studyforge/pkg/github"
	"studyforge/pkg/poll"
	"studyforge/pkg/registry"
)

// PlanAction describes what a real run would do with one entry.
type PlanAction string

const (
	// PlanCreate means the repository does not exist and would be created.
	PlanCreate PlanAction = "create"
	// PlanSkip means the repository exists and the entry would be left alone.
	PlanSkip PlanAction = "skip"
	// PlanInvalid means the entry fails validation and would be reported.
	PlanInvalid PlanAction = "invalid"
	// PlanUnknown means the existence check itself failed.
	PlanUnknown PlanAction = "unknown"
)

// PlanItem pairs an entry with the action a real run would take.
type PlanItem struct {
	Org    string
	Name   string
	Action PlanAction
	Err    error
}

// Orchestrator drives the bootstrap flow for registry entries, one at a
// time. A failing entry is reported and never stops the batch.
type Orchestrator struct {
	api  github.API
	sync Syncer
	cfg  config.BootstrapConfig
}

// NewOrchestrator creates an orchestrator over the given API client and
// synchronizer.
func NewOrchestrator(api github.API, sync Syncer, cfg config.BootstrapConfig) *Orchestrator {
	return &Orchestrator{api: api, sync: sync, cfg: cfg}
}

// Run processes every entry in order and collects per-entry results.
func (o *Orchestrator) Run(entries []registry.Entry) BatchResult {
	var batch BatchResult
	for _, entry := range entries {
		result := o.processEntry(entry)
		batch.add(result)
		printResult(result)
	}
	return batch
}

// Plan reports what Run would do without creating or pushing anything.
// Only the existence check talks to the API.
func (o *Orchestrator) Plan(entries []registry.Entry) []PlanItem {
	items := make([]PlanItem, 0, len(entries))
	for _, entry := range entries {
		item := PlanItem{Org: entry.Org, Name: entry.Slug()}
		if err := entry.Validate(); err != nil {
			item.Action = PlanInvalid
			item.Err = err
			items = append(items, item)
			continue
		}
		exists, err := o.api.RepoExists(entry.Org, item.Name)
		switch {
		case err != nil:
			item.Action = PlanUnknown
			item.Err = err
		case exists:
			item.Action = PlanSkip
		default:
			item.Action = PlanCreate
		}
		items = append(items, item)
	}
	return items
}

// processEntry walks one entry through the full flow: existence check,
// create, readiness wait, template sync, dispatch, branch wait, Pages wait.
// Poll deadlines on the trailing waits are outcomes, not failures; the
// repository was created and seeded by then.
func (o *Orchestrator) processEntry(entry registry.Entry) EntryResult {
	result := EntryResult{Org: entry.Org, Name: entry.Slug()}

	if err := entry.Validate(); err != nil {
		return failed(result, err)
	}

	fmt.Printf("🔍 Checking %s\n", result.FullName())
	exists, err := o.api.RepoExists(result.Org, result.Name)
	if err != nil {
		return failed(result, err)
	}
	if exists {
		result.Status = StatusSkipped
		return result
	}

	fmt.Printf("📦 Creating %s\n", result.FullName())
	err = o.api.CreateRepo(result.Org, github.CreateOptions{
		Name:        result.Name,
		Description: entry.DisplayDescription(),
		Private:     entry.Private,
	})
	if err != nil {
		return failed(result, err)
	}

	if err := WaitRepoReady(o.api, result.Org, result.Name, o.policy()); err != nil {
		return failed(result, err)
	}

	pushed, err := o.sync.Run(result.Org, result.Name)
	if err != nil {
		return failed(result, err)
	}
	result.Pushed = pushed

	if o.cfg.AlwaysDispatch || !pushed {
		for _, event := range []string{o.cfg.SiteEvent, o.cfg.ReadmeEvent} {
			fmt.Printf("🚀 Dispatching %s to %s\n", event, result.FullName())
			if err := o.api.Dispatch(result.Org, result.Name, event); err != nil {
				return failed(result, err)
			}
		}
	}

	fmt.Printf("⏳ Waiting for branch %s on %s\n", o.cfg.PagesBranch, result.FullName())
	if err := WaitBranch(o.api, result.Org, result.Name, o.cfg.PagesBranch, o.policy()); err != nil {
		if errors.Is(err, poll.ErrDeadline) {
			result.Status = StatusCreated
			result.Outcome = OutcomeTimeoutBranch
			return result
		}
		return failed(result, err)
	}

	fmt.Printf("⏳ Waiting for Pages on %s\n", result.FullName())
	status, err := WaitPages(o.api, result.Org, result.Name, o.cfg.PagesBranch, o.cfg.PagesPath, o.policy())
	if err != nil {
		if errors.Is(err, poll.ErrDeadline) {
			result.Status = StatusCreated
			result.Outcome = OutcomeTimeoutPages
			return result
		}
		return failed(result, err)
	}

	result.Status = StatusCreated
	if status == github.PagesAlreadyCorrect {
		result.Outcome = OutcomeNoop
	} else {
		result.Outcome = OutcomeEnabled
	}
	return result
}

func (o *Orchestrator) policy() poll.Policy {
	return poll.Policy{
		Interval: time.Duration(o.cfg.PollIntervalSeconds) * time.Second,
		Timeout:  time.Duration(o.cfg.WaitTimeoutSeconds) * time.Second,
	}
}

func failed(result EntryResult, err error) EntryResult {
	result.Status = StatusFailed
	result.Err = err
	return result
}

func printResult(result EntryResult) {
	switch result.Status {
	case StatusSkipped:
		fmt.Printf("✓ %s already exists, skipping\n", result.FullName())
	case StatusFailed:
		fmt.Printf("❌ %s failed: %v\n", result.FullName(), result.Err)
	case StatusCreated:
		switch result.Outcome {
		case OutcomeTimeoutBranch:
			fmt.Printf("⚠️  %s created, branch never appeared before the deadline\n", result.FullName())
		case OutcomeTimeoutPages:
			fmt.Printf("⚠️  %s created, Pages not configurable before the deadline\n", result.FullName())
		case OutcomeNoop:
			fmt.Printf("✅ %s created, Pages already configured\n", result.FullName())
		default:
			fmt.Printf("✅ %s created, Pages enabled\n", result.FullName())
		}
	}
}
