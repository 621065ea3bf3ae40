package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matsen/pubs/internal/bibtex"
	"github.com/matsen/pubs/internal/config"
	"github.com/matsen/pubs/internal/publication"
	"github.com/matsen/pubs/internal/storage"
)

var indexFromJSONL string

func init() {
	indexCmd.Flags().StringVar(&indexFromJSONL, "from-jsonl", "", "Rebuild from a JSONL export instead of the BibTeX sources")
	rootCmd.AddCommand(indexCmd)
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Rebuild the search index",
	Long: `Rebuild the SQLite search index (index_path) from the BibTeX sources,
or from a JSONL file written by pubs export.

The index is disposable and can be rebuilt at any time.

Examples:
  pubs index
  pubs index --from-jsonl entries.jsonl`,
	RunE: runIndex,
}

// IndexResult is the response for the index command.
type IndexResult struct {
	Status       string `json:"status"`
	Path         string `json:"path"`
	Publications int    `json:"publications"`
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	var entries []bibtex.Entry
	if indexFromJSONL != "" {
		read, err := storage.ReadJSONLFile(indexFromJSONL)
		if err != nil {
			exitWithError(ExitDataError, "reading %s: %v", indexFromJSONL, err)
		}
		c := bibtex.NewCollection()
		c.Merge(read)
		entries = c.Entries()
	} else {
		c, err := loadCollection(cfg, logger)
		if err != nil {
			exitWithError(ExitDataError, "%v", err)
		}
		entries = c.Entries()
	}

	count, err := rebuildIndex(cfg, entries, logger)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		fmt.Printf("Indexed %d publications in %s\n", count, cfg.IndexPath)
	} else {
		outputJSON(IndexResult{Status: "rebuilt", Path: cfg.IndexPath, Publications: count})
	}
	return nil
}

// rebuildIndex replaces the index contents with the given entries.
func rebuildIndex(cfg *config.Config, entries []bibtex.Entry, logger *zap.Logger) (int, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.IndexPath), 0755); err != nil {
		return 0, fmt.Errorf("creating index directory: %w", err)
	}

	db, err := storage.OpenDB(cfg.IndexPath)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	count, err := db.Rebuild(publication.FromEntries(entries))
	if err != nil {
		return 0, fmt.Errorf("rebuilding index: %w", err)
	}
	logger.Info("rebuilt search index", zap.String("path", cfg.IndexPath), zap.Int("publications", count))
	return count, nil
}

// mustOpenIndex opens an existing index or exits with a hint to run pubs index.
func mustOpenIndex(cfg *config.Config) *storage.DB {
	if _, err := os.Stat(cfg.IndexPath); os.IsNotExist(err) {
		exitWithError(ExitConfigError, "search index not found at %s (run 'pubs index' first)", cfg.IndexPath)
	}

	db, err := storage.OpenDB(cfg.IndexPath)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	return db
}
