package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"qamind/pkg/core/extract"
)

var parseFile string

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse one checklist HTML file and print the extracted testcases",
	Long: "Runs only the HTML extraction engine against a local file. Useful for\n" +
		"debugging table layouts without a database or an LLM key.",
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringVar(&parseFile, "file", "", "path to an HTML file with checklist tables")
}

func runParse(_ *cobra.Command, _ []string) error {
	if parseFile == "" {
		return fmt.Errorf("--file is required")
	}

	content, err := os.ReadFile(parseFile)
	if err != nil {
		return fmt.Errorf("read %s: %w", parseFile, err)
	}

	keywords, err := loadKeywords()
	if err != nil {
		return err
	}

	result := extract.NewHTMLParser(keywords).ParseTestcases(string(content))
	if result.Diagnostic != "" {
		fmt.Fprintf(os.Stderr, "diagnostic: %s\n", result.Diagnostic)
	}

	out, err := json.MarshalIndent(result.Testcases, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	fmt.Fprintf(os.Stderr, "%d testcases\n", len(result.Testcases))
	return nil
}
