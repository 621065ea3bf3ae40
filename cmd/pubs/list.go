package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/pubs/internal/publication"
)

func init() {
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the grouped publication list without writing files",
	Long: `Show the publication list grouped by year, exactly as build would
write it. JSON output contains the buckets with derived fields; --human
prints the Markdown.

Examples:
  pubs list
  pubs list --human`,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	c, err := loadCollection(cfg, logger)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	buckets := publication.GroupCollection(c, publication.GroupOptions{CutoffYear: cfg.CutoffYear})

	if humanOutput {
		fmt.Print(publication.Render(buckets))
	} else {
		if buckets == nil {
			buckets = []publication.Bucket{}
		}
		outputJSON(buckets)
	}
	return nil
}
