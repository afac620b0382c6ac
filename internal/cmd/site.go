package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"studyforge/pkg/site"
)

var (
	siteSrc      string
	siteOut      string
	siteTemplate string
	siteTitle    string
	siteExecute  bool
	siteCfgPath  string
)

var siteCmd = &cobra.Command{
	Use:   "site",
	Short: "Build the notebook HTML site for a course repository",
	Long: `Build the static site for a course repository: every notebook under
the source tree is converted to HTML, the navigation tree is embedded into
the site templates, and css, js and assets directories are copied through.

Directories without notebooks are pruned from the navigation; template
pages that do not exist in the template directory are skipped.

Examples:
  studyforge site --template central/site-templates
  studyforge site --src . --out site --template templates --execute
  studyforge site --template templates --cfg .github/site-config`,
	RunE: runSite,
}

func init() {
	siteCmd.Flags().StringVar(&siteSrc, "src", ".", "Repository root to scan for notebooks")
	siteCmd.Flags().StringVar(&siteOut, "out", "site", "Output directory for the rendered site")
	siteCmd.Flags().StringVar(&siteTemplate, "template", "", "Directory holding the site page templates (required)")
	siteCmd.Flags().StringVar(&siteTitle, "title", "", "Site title (defaults to the source directory name)")
	siteCmd.Flags().BoolVar(&siteExecute, "execute", false, "Execute notebooks before converting them")
	siteCmd.Flags().StringVar(&siteCfgPath, "cfg", "", "Site config file or directory of YAML files")
	_ = siteCmd.MarkFlagRequired("template")
}

func runSite(_ *cobra.Command, _ []string) error {
	values, err := site.LoadConfig(siteCfgPath)
	if err != nil {
		return fmt.Errorf("failed to load site config: %w", err)
	}

	builder := site.NewBuilder(site.NewNbConvert())
	count, err := builder.Build(site.Options{
		Src:      siteSrc,
		Out:      siteOut,
		Template: siteTemplate,
		Title:    siteTitle,
		Execute:  siteExecute,
		Config:   values,
	})
	if err != nil {
		return fmt.Errorf("site build failed: %w", err)
	}

	fmt.Printf("✅ Site built: %d notebooks rendered to %s\n", count, siteOut)
	return nil
}
