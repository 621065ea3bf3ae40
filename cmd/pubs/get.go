package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/matsen/pubs/internal/bibtex"
	"github.com/matsen/pubs/internal/publication"
)

var getFromSource bool

func init() {
	getCmd.Flags().BoolVar(&getFromSource, "source", false, "Show the merged BibTeX entry from the sources instead of the index")
	rootCmd.AddCommand(getCmd)
}

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a single publication by citation key",
	Long: `Get a single publication by its citation key from the search index.
With --source the BibTeX sources are read instead and the merged raw entry
is shown, which needs no index.

Examples:
  pubs get DBLP:journals/x/Smith21
  pubs get smith21 --source --human`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	key := args[0]
	cfg := mustLoadConfig()

	if getFromSource {
		c, err := loadCollection(cfg, logger)
		if err != nil {
			exitWithError(ExitDataError, "%v", err)
		}
		e, ok := c.Get(key)
		if !ok {
			exitWithError(ExitError, "entry not found: %s", key)
		}
		if humanOutput {
			printEntryDetail(e)
		} else {
			outputJSON(e)
		}
		return nil
	}

	db := mustOpenIndex(cfg)
	defer db.Close()

	p, err := db.GetByKey(key)
	if err != nil {
		exitWithError(ExitError, "getting publication: %v", err)
	}
	if p == nil {
		exitWithError(ExitError, "publication not found: %s", key)
	}

	if humanOutput {
		fmt.Println(publication.FormatItem(*p))
	} else {
		outputJSON(p)
	}
	return nil
}

// printEntryDetail prints an entry's fields in name order.
func printEntryDetail(e bibtex.Entry) {
	fmt.Printf("@%s{%s}\n", e.Type, e.Key)
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-10s %s\n", name, e.Fields[name])
	}
}
