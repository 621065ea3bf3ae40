package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matsen/pubs/internal/bibtex"
	"github.com/matsen/pubs/internal/config"
	"github.com/matsen/pubs/internal/page"
	"github.com/matsen/pubs/internal/publication"
)

var (
	buildOutput    string
	buildHTML      string
	buildPageTitle string
)

func init() {
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "Markdown output path (overrides output_path)")
	buildCmd.Flags().StringVar(&buildHTML, "html", "", "Also write an HTML page to this path (overrides html_output_path)")
	buildCmd.Flags().StringVar(&buildPageTitle, "title", page.DefaultTitle, "Title of the HTML page")
	rootCmd.AddCommand(buildCmd)
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Write the Markdown publication list",
	Long: `Parse every configured BibTeX source, merge entries by key (later
sources win), group them by year and write the Markdown listing.

Missing sources contribute no entries. Malformed entries are skipped.

Examples:
  pubs build
  pubs build --output docs/publications.md
  pubs build --html site/publications.html --human`,
	RunE: runBuild,
}

// BucketSummary describes one heading of the written listing.
type BucketSummary struct {
	Heading string `json:"heading"`
	Count   int    `json:"count"`
}

// BuildResult is the response for the build command.
type BuildResult struct {
	Status     string          `json:"status"`
	Output     string          `json:"output"`
	HTMLOutput string          `json:"html_output,omitempty"`
	Records    int             `json:"records"`
	Buckets    []BucketSummary `json:"buckets"`
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	if buildOutput != "" {
		cfg.OutputPath = buildOutput
	}
	if buildHTML != "" {
		cfg.HTMLOutputPath = buildHTML
	}

	c, err := loadCollection(cfg, logger)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	result, err := writeListing(cfg, c, buildPageTitle, logger)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		fmt.Printf("Wrote: %s\n", result.Output)
		if result.HTMLOutput != "" {
			fmt.Printf("Wrote: %s\n", result.HTMLOutput)
		}
		for _, b := range result.Buckets {
			fmt.Printf("  %-18s %d\n", b.Heading, b.Count)
		}
	} else {
		outputJSON(result)
	}
	return nil
}

// loadCollection reads and merges every configured source.
func loadCollection(cfg *config.Config, logger *zap.Logger) (*bibtex.Collection, error) {
	c, err := bibtex.NewLoader(logger).Load(cfg.InputSources)
	if err != nil {
		return nil, fmt.Errorf("loading bibliography: %w", err)
	}
	return c, nil
}

// buildListing runs the full pipeline and writes the configured outputs.
func buildListing(cfg *config.Config, pageTitle string, logger *zap.Logger) (*BuildResult, error) {
	c, err := loadCollection(cfg, logger)
	if err != nil {
		return nil, err
	}
	return writeListing(cfg, c, pageTitle, logger)
}

// writeListing groups and renders a loaded collection and writes the outputs.
func writeListing(cfg *config.Config, c *bibtex.Collection, pageTitle string, logger *zap.Logger) (*BuildResult, error) {
	buckets := publication.GroupCollection(c, publication.GroupOptions{CutoffYear: cfg.CutoffYear})
	markdown := publication.Render(buckets)

	if err := writeFile(cfg.OutputPath, []byte(markdown)); err != nil {
		return nil, err
	}
	logger.Info("wrote publication list",
		zap.String("path", cfg.OutputPath),
		zap.Int("records", c.Len()),
		zap.Int("buckets", len(buckets)),
	)

	result := &BuildResult{
		Status:  "written",
		Output:  cfg.OutputPath,
		Records: c.Len(),
		Buckets: make([]BucketSummary, len(buckets)),
	}
	for i, b := range buckets {
		result.Buckets[i] = BucketSummary{Heading: b.Heading, Count: len(b.Publications)}
	}

	if cfg.HTMLOutputPath != "" {
		html, err := page.Render([]byte(markdown), pageTitle)
		if err != nil {
			return nil, err
		}
		if err := writeFile(cfg.HTMLOutputPath, html); err != nil {
			return nil, err
		}
		logger.Info("wrote publication page", zap.String("path", cfg.HTMLOutputPath))
		result.HTMLOutput = cfg.HTMLOutputPath
	}

	return result, nil
}

// writeFile replaces path with data, creating parent directories as needed.
func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
