// qamind ingests Confluence QA checklists into Postgres and serves them to
// agents over MCP.
//
// Usage:
//
//	qamind load  --pages=<id,id,...> [--children] [--force]
//	qamind serve
//	qamind parse --file=<page.html>
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"qamind/pkg/core/config"
	"qamind/pkg/core/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	cfgFile  string
	settings *config.Settings
)

var rootCmd = &cobra.Command{
	Use:   "qamind",
	Short: "Confluence QA checklist ingestion and MCP query service",
	Long: "qamind extracts structured testcases from Confluence QA checklist pages\n" +
		"through a hybrid HTML + LLM pipeline, stores them in Postgres and exposes\n" +
		"semantic search tools over the Model Context Protocol.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		godotenv.Load()

		var err error
		settings, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}
		logging.Init(settings.LogLevel, settings.LogFormat)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./qamind.yaml)")
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
