// Package main provides the resume_builder CLI: the HTTP API server plus
// local tools to build, generate, manage and export saved resumes.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var dataDir string

var rootCmd = &cobra.Command{
	Use:           "resume_builder",
	Short:         "Resume Builder API server and local resume tools",
	Long:          "Resume Builder walks a candidate through a step-by-step resume wizard, drafts summaries and experience text with AI, and exports print-ready HTML, PDF and plain text.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", defaultDataDir(), "Directory holding saved resumes and the draft snapshot")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
