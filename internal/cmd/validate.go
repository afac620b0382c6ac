package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"studyforge/pkg/config"
	"studyforge/pkg/registry"
)

var validateCmd = &cobra.Command{
	Use:   "validate <registry.yaml>",
	Short: "Validate a repository registry file",
	Long: `Validate a repository registry file without touching GitHub.

The document shape is checked first (a list of entries, or a mapping with
an org and a repos list), then every entry is validated: organization
present, repository name well formed after normalization, description
within the GitHub limit.

Examples:
  studyforge validate org/org_registry/acme-registry.yml`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func runValidate(_ *cobra.Command, args []string) error {
	registryFile := args[0]

	fmt.Printf("🔍 Validating registry: %s\n", registryFile)

	entries, err := registry.Load(registryFile)
	if err != nil {
		return fmt.Errorf("registry validation failed: %w", err)
	}

	// Entries without an org fall back to the configured organization, the
	// same way bootstrap resolves them.
	if cfg, err := config.Load(); err == nil && cfg.GitHub.Organization != "" {
		for i := range entries {
			if entries[i].Org == "" {
				entries[i].Org = cfg.GitHub.Organization
			}
		}
	}

	fmt.Printf("✓ YAML syntax and document shape are valid\n")
	fmt.Printf("📋 %d entries found\n\n", len(entries))

	invalid := 0
	for _, entry := range entries {
		name := entry.Name
		if name == "" {
			name = "(unnamed)"
		}
		if err := entry.Validate(); err != nil {
			invalid++
			fmt.Printf("❌ %s: %v\n", name, err)
			continue
		}
		fmt.Printf("✓ %s (%s)\n", name, entry.FullName())
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d entries failed validation", invalid, len(entries))
	}

	fmt.Printf("\n✅ Registry is valid\n")
	return nil
}
