package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/pubs/internal/publication"
	"github.com/matsen/pubs/internal/storage"
)

var (
	searchAuthor   string
	searchYearFrom int
	searchYearTo   int
	searchVenue    string
	searchLimit    int
)

func init() {
	searchCmd.Flags().StringVar(&searchAuthor, "author", "", "Match author names (prefix match)")
	searchCmd.Flags().IntVar(&searchYearFrom, "year-from", 0, "Earliest year to include")
	searchCmd.Flags().IntVar(&searchYearTo, "year-to", 0, "Latest year to include")
	searchCmd.Flags().StringVar(&searchVenue, "venue", "", "Venue substring (case-insensitive)")
	searchCmd.Flags().IntVar(&searchLimit, "limit", DefaultSearchLimit, "Maximum results to return (0 = all)")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the publication index",
	Long: `Search the publication index built by pubs index. The query matches
titles, authors and venues; filters narrow the results. Results are ordered
newest first.

Examples:
  pubs search phylogenetic
  pubs search --author Smith --year-from 2021
  pubs search "variational inference" --venue ICML --human`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	filters := storage.SearchFilters{
		Author:   searchAuthor,
		YearFrom: searchYearFrom,
		YearTo:   searchYearTo,
		Venue:    searchVenue,
	}
	if len(args) == 1 {
		filters.Keyword = args[0]
	}

	cfg := mustLoadConfig()
	db := mustOpenIndex(cfg)
	defer db.Close()

	results, err := db.Search(filters, searchLimit)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		total, err := db.Count()
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}
		printSearchResultsHuman(results)
		fmt.Printf("%d of %d indexed publications\n", len(results), total)
	} else {
		if results == nil {
			results = []publication.Publication{}
		}
		outputJSON(results)
	}
	return nil
}

// printSearchResultsHuman prints one block per publication.
func printSearchResultsHuman(results []publication.Publication) {
	if len(results) == 0 {
		fmt.Println("No matching publications")
	}
	for i, p := range results {
		year := p.RawYear
		if year == "" {
			year = "n.d."
		}
		fmt.Printf("%d. %s (%s)\n", i+1, p.Key, year)
		fmt.Printf("   %s\n", truncateString(p.Title, ListTitleMaxLen))
		if p.Authors != "" {
			fmt.Printf("   %s\n", p.Authors)
		}
		if p.Venue != "" {
			fmt.Printf("   %s\n", p.Venue)
		}
		if len(p.Links) > 0 {
			urls := make([]string, len(p.Links))
			for j, l := range p.Links {
				urls[j] = l.URL
			}
			fmt.Printf("   %s\n", strings.Join(urls, " "))
		}
		fmt.Println()
	}
}
