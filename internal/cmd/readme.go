package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"studyforge/pkg/readme"
)

var (
	readmeCentral string
	readmeRepo    string
	readmeCfg     string
)

var readmeCmd = &cobra.Command{
	Use:   "readme",
	Short: "Render the repository README and SVG banners",
	Long: `Render README.md and the hero, access-site and repo-card SVG banners
from the central templates, substituting per-repository placeholder values.
A theme image matching the THEME placeholder is copied in from the central
assets when one exists.

Examples:
  studyforge readme --central central/readme-templates
  studyforge readme --central templates --repo courses/algebra-1 --cfg cfg.yml`,
	RunE: runReadme,
}

func init() {
	readmeCmd.Flags().StringVar(&readmeCentral, "central", "", "Central README template directory (required)")
	readmeCmd.Flags().StringVar(&readmeRepo, "repo", ".", "Repository to render into")
	readmeCmd.Flags().StringVar(&readmeCfg, "cfg", "", "Placeholder file or directory of YAML files")
	_ = readmeCmd.MarkFlagRequired("central")
}

func runReadme(_ *cobra.Command, _ []string) error {
	values, err := readme.LoadPlaceholders(readmeCfg)
	if err != nil {
		return fmt.Errorf("failed to load placeholders: %w", err)
	}

	result, err := readme.Build(readme.Options{
		RepoDir:    readmeRepo,
		CentralDir: readmeCentral,
		Values:     values,
	})
	if err != nil {
		return fmt.Errorf("readme build failed: %w", err)
	}

	fmt.Printf("✅ README rendered to %s\n", result.ReadmePath)
	for _, svg := range result.SVGPaths {
		fmt.Printf("✓ %s\n", svg)
	}
	if result.ThemeAsset != "" {
		fmt.Printf("✓ Theme asset: %s\n", result.ThemeAsset)
	}
	return nil
}
