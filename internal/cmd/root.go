package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"studyforge/pkg/config"
)

var rootCmd = &cobra.Command{
	Use:   "studyforge",
	Short: "A CLI tool to bootstrap and publish course repositories on GitHub",
	Long: `Studyforge runs an organization of course repositories from a single
registry. It creates missing repositories, seeds them with the shared
discipline and workflow templates, enables GitHub Pages, and generates
the notebook site, post files and README artifacts the courses publish.`,
}

// Execute runs the root command. A .env file in the working directory is
// loaded first so CI-style variable files work locally too.
func Execute() {
	config.LoadDotenv()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(bootstrapCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(siteCmd)
	rootCmd.AddCommand(postsCmd)
	rootCmd.AddCommand(readmeCmd)
}
