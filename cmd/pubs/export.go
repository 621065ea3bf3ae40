package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/pubs/internal/storage"
)

var exportOutput string

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write JSONL to this file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the merged entries as JSONL",
	Long: `Export the merged bibliography (after last-source-wins merging) as
JSONL, one entry per line with its key, type and fields.

Examples:
  pubs export > entries.jsonl
  pubs export --output .pubs/entries.jsonl`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	c, err := loadCollection(cfg, logger)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	// JSONL is always the payload; --human only affects the status line.
	if exportOutput == "" {
		if err := storage.WriteJSONL(os.Stdout, c.Entries()); err != nil {
			exitWithError(ExitError, "writing entries: %v", err)
		}
		return nil
	}

	if err := storage.WriteJSONLFile(exportOutput, c.Entries()); err != nil {
		exitWithError(ExitError, "writing entries: %v", err)
	}

	if humanOutput {
		fmt.Printf("Exported %d entries to %s\n", c.Len(), exportOutput)
	} else {
		outputJSON(ExportResult{Status: "exported", Path: exportOutput, Entries: c.Len()})
	}
	return nil
}

// ExportResult is the response for export --output.
type ExportResult struct {
	Status  string `json:"status"`
	Path    string `json:"path"`
	Entries int    `json:"entries"`
}
