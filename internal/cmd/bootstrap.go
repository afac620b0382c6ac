package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"studyforge/pkg/bootstrap"
	"studyforge/pkg/config"
	"studyforge/pkg/fuzzy"
	"studyforge/pkg/github"
	"studyforge/pkg/gitrepo"
	"studyforge/pkg/registry"
)

var (
	bootstrapWorkdir string
	bootstrapRepos   []string
	bootstrapDryRun  bool
	bootstrapSelect  bool
)

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap [registry.yaml]",
	Short: "Create and seed the course repositories listed in a registry",
	Long: `Bootstrap reads a repository registry and drives every entry to its
published state: missing repositories are created, seeded with the shared
discipline and workflow templates, and their GitHub Pages site is enabled
once the pages branch exists.

Repositories that already exist are skipped. A failing entry is reported
and never stops the rest of the batch; the exit code only reflects
problems that prevent the batch from starting at all.

When the registry path is omitted it is derived from the configured
organization as org/org_registry/<org>-registry.yml.

Examples:
  # Bootstrap every entry in the registry
  studyforge bootstrap org/org_registry/acme-registry.yml

  # Preview what would happen without touching GitHub
  studyforge bootstrap --dry-run

  # Bootstrap a subset of the registry
  studyforge bootstrap --repos algebra-1,calculus-2

  # Pick a single repository interactively
  studyforge bootstrap --select`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBootstrap,
}

func init() {
	bootstrapCmd.Flags().StringVar(&bootstrapWorkdir, "workdir", "", "Directory for template clones (defaults to the runner temp dir)")
	bootstrapCmd.Flags().StringSliceVar(&bootstrapRepos, "repos", nil, "Comma-separated registry names to process (e.g. --repos algebra-1,calculus-2)")
	bootstrapCmd.Flags().BoolVar(&bootstrapDryRun, "dry-run", false, "Report what would be created or skipped without changing anything")
	bootstrapCmd.Flags().BoolVar(&bootstrapSelect, "select", false, "Interactively pick one registry entry to bootstrap")
}

func runBootstrap(_ *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if bootstrapWorkdir != "" {
		cfg.Bootstrap.WorkDir = bootstrapWorkdir
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	registryPath, err := resolveRegistryPath(args, cfg)
	if err != nil {
		return err
	}

	entries, err := registry.Load(registryPath)
	if err != nil {
		return err
	}
	for i := range entries {
		if entries[i].Org == "" {
			entries[i].Org = cfg.GitHub.Organization
		}
	}

	entries, err = filterEntries(entries)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("⚠️  No repositories to bootstrap")
		return nil
	}

	authManager := github.NewAuthManager()
	token, err := authManager.GetToken(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", github.GetAuthInstructions())
		return err
	}
	client := github.NewClient(token)

	if bootstrapDryRun {
		fmt.Printf("🔍 Dry run over %s: nothing will be created or pushed\n\n", registryPath)
		orch := bootstrap.NewOrchestrator(client, nil, cfg.Bootstrap)
		displayPlan(orch.Plan(entries))
		return nil
	}

	fmt.Printf("🚀 Bootstrapping %d repositories from %s\n\n", len(entries), registryPath)
	syncer := bootstrap.NewSynchronizer(gitrepo.New(), cfg.Bootstrap, token)
	orch := bootstrap.NewOrchestrator(client, syncer, cfg.Bootstrap)
	batch := orch.Run(entries)
	displayBatchSummary(batch)

	// Per-entry failures are already in the report; only a batch that could
	// not start returns an error.
	return nil
}

func resolveRegistryPath(args []string, cfg *config.Config) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	if cfg.GitHub.Organization == "" {
		return "", fmt.Errorf("registry path not specified: pass it as an argument or configure the organization")
	}
	return registry.DefaultPath(cfg.GitHub.Organization), nil
}

// filterEntries narrows the registry to the requested subset: the --repos
// name filter first, then the interactive --select picker.
func filterEntries(entries []registry.Entry) ([]registry.Entry, error) {
	if len(bootstrapRepos) > 0 {
		wanted := make(map[string]bool, len(bootstrapRepos))
		for _, name := range bootstrapRepos {
			if name = strings.TrimSpace(name); name != "" {
				wanted[name] = true
			}
		}

		var filtered []registry.Entry
		for _, entry := range entries {
			if wanted[entry.Name] || wanted[entry.Slug()] {
				filtered = append(filtered, entry)
			}
		}
		entries = filtered
	}

	if bootstrapSelect {
		return selectEntry(entries)
	}
	return entries, nil
}

func selectEntry(entries []registry.Entry) ([]registry.Entry, error) {
	if !fuzzy.IsInteractive() {
		return nil, fmt.Errorf("interactive selection requires a terminal")
	}
	if len(entries) == 0 {
		return nil, nil
	}

	options := make([]fuzzy.Option, 0, len(entries))
	for _, entry := range entries {
		options = append(options, fuzzy.Option{
			Value:       entry.Name,
			Description: entry.DisplayDescription(),
		})
	}

	picker := fuzzy.NewPicker("🔍 Select repository to bootstrap:")
	value, err := picker.Pick(options)
	if err != nil {
		return nil, fmt.Errorf("repository selection failed: %w", err)
	}

	for _, entry := range entries {
		if entry.Name == value {
			return []registry.Entry{entry}, nil
		}
	}
	return nil, fmt.Errorf("selected repository %q not found in registry", value)
}

func displayPlan(items []bootstrap.PlanItem) {
	var create, skip, invalid, unknown int
	for _, item := range items {
		name := item.Org + "/" + item.Name
		switch item.Action {
		case bootstrap.PlanCreate:
			fmt.Printf("📦 %s would be created\n", name)
			create++
		case bootstrap.PlanSkip:
			fmt.Printf("✓ %s already exists, would skip\n", name)
			skip++
		case bootstrap.PlanInvalid:
			fmt.Printf("❌ %s is invalid: %v\n", name, item.Err)
			invalid++
		case bootstrap.PlanUnknown:
			fmt.Printf("⚠️  %s could not be checked: %v\n", name, item.Err)
			unknown++
		}
	}

	fmt.Printf("\n📊 Plan: %d to create, %d to skip", create, skip)
	if invalid > 0 {
		fmt.Printf(", %d invalid", invalid)
	}
	if unknown > 0 {
		fmt.Printf(", %d unknown", unknown)
	}
	fmt.Println()
}

func displayBatchSummary(batch bootstrap.BatchResult) {
	fmt.Printf("\n📊 Bootstrap summary: %d total, %d created, %d skipped, %d failed\n",
		batch.Summary.Total, batch.Summary.Created, batch.Summary.Skipped, batch.Summary.Failed)

	if batch.HasFailures() {
		fmt.Println("\nFailed repositories:")
		for _, res := range batch.Failed() {
			fmt.Printf("  ❌ %s: %v\n", res.FullName(), res.Err)
		}
	}
}
