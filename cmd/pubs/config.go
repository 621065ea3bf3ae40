package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/pubs/internal/config"
)

var configInit bool

func init() {
	configCmd.Flags().BoolVar(&configInit, "init", false, "Write a pubs.yml with the default layout in the current directory")
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved configuration",
	Long: `Show the configuration pubs would use from the current directory,
with all paths resolved.

Usage:
  pubs config           # Show resolved config
  pubs config --init    # Create pubs.yml with the default layout

Keys (pubs.yml):
  input_sources     BibTeX files in order; later files win on duplicate keys
  output_path       Markdown output file
  html_output_path  Optional HTML output file
  cutoff_year       Years below this are grouped under "Before <year>" (default 2020)
  index_path        SQLite search index (default .pubs/pubs.db)`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
}

// ConfigResponse is the response for the config command.
type ConfigResponse struct {
	Root           string   `json:"root"`
	InputSources   []string `json:"input_sources"`
	OutputPath     string   `json:"output_path"`
	HTMLOutputPath string   `json:"html_output_path,omitempty"`
	CutoffYear     int      `json:"cutoff_year"`
	IndexPath      string   `json:"index_path"`
}

func runConfig(cmd *cobra.Command, args []string) error {
	if configInit {
		return runConfigInit()
	}

	cfg := mustLoadConfig()

	if humanOutput {
		fmt.Printf("root:             %s\n", cfg.Root)
		fmt.Printf("input_sources:\n")
		for _, src := range cfg.InputSources {
			fmt.Printf("  - %s\n", src)
		}
		fmt.Printf("output_path:      %s\n", cfg.OutputPath)
		if cfg.HTMLOutputPath != "" {
			fmt.Printf("html_output_path: %s\n", cfg.HTMLOutputPath)
		}
		fmt.Printf("cutoff_year:      %d\n", cfg.CutoffYear)
		fmt.Printf("index_path:       %s\n", cfg.IndexPath)
	} else {
		outputJSON(ConfigResponse{
			Root:           cfg.Root,
			InputSources:   cfg.InputSources,
			OutputPath:     cfg.OutputPath,
			HTMLOutputPath: cfg.HTMLOutputPath,
			CutoffYear:     cfg.CutoffYear,
			IndexPath:      cfg.IndexPath,
		})
	}
	return nil
}

func runConfigInit() error {
	cwd, err := os.Getwd()
	if err != nil {
		exitWithError(ExitError, "getting current directory: %v", err)
	}

	path := config.ConfigPath(cwd)
	if _, err := os.Stat(path); err == nil {
		exitWithError(ExitConfigError, "%s already exists", path)
	}

	if err := config.Template().Save(path); err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		fmt.Printf("Created %s\n", path)
	} else {
		outputJSON(StatusResponse{Status: "created", Path: path})
	}
	return nil
}
