package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"studyforge/pkg/posts"
	"studyforge/pkg/registry"
)

var (
	postsRegistry string
	postsOut      string
)

var postsCmd = &cobra.Command{
	Use:   "posts",
	Short: "Generate site post files from the registry",
	Long: `Generate one dated front-matter post file per registry entry, the
format the organization site consumes. Posts are ordered by completion
date and name; entries without a completion date sort as today.

Examples:
  studyforge posts --registry org/org_registry/acme-registry.yml
  studyforge posts --registry acme-registry.yml --out site/_posts`,
	RunE: runPosts,
}

func init() {
	postsCmd.Flags().StringVar(&postsRegistry, "registry", "", "Registry file to read (required)")
	postsCmd.Flags().StringVar(&postsOut, "out", "_posts", "Output directory for generated posts")
	_ = postsCmd.MarkFlagRequired("registry")
}

func runPosts(_ *cobra.Command, _ []string) error {
	entries, err := registry.Load(postsRegistry)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	written, err := posts.Generate(entries, postsOut)
	if err != nil {
		return fmt.Errorf("post generation failed: %w", err)
	}

	fmt.Printf("✅ Generated %d posts in %s\n", len(written), postsOut)
	return nil
}
