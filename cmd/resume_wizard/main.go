// Package main provides the entry point for the resume wizard CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resume_wizard",
	Short: "Step-by-step resume builder",
	Long: "Resume Wizard collects contact details, experience, education, projects and skills step by step, " +
		"sends the draft to the resume generation service and downloads the PDF rendition.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	configPath  string
	apiURL      string
	layoutName  string
	layoutFile  string
	timeoutSecs int
	verbose     bool
	metricsFile string
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Path to JSON config file")
	flags.StringVar(&apiURL, "api-url", "", "Base URL of the generation service (overrides RESUME_API_URL)")
	flags.StringVar(&layoutName, "layout", "", "Step layout: consolidated or granular (overrides RESUME_LAYOUT)")
	flags.StringVar(&layoutFile, "layout-file", "", "Path to a custom YAML step layout")
	flags.IntVar(&timeoutSecs, "timeout", 0, "Request timeout in seconds")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Print debug logs")
	flags.StringVar(&metricsFile, "metrics-file", "", "Write request metrics in Prometheus text format to this file on exit")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
