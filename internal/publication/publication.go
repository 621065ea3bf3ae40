// Package publication derives display values from BibTeX entries, groups them
// into year buckets, and renders the Markdown publication listing.
package publication

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/matsen/pubs/internal/bibtex"
)

// DOIBaseURL is the resolver prefix for DOI links.
const DOIBaseURL = "https://doi.org/"

// Link is a named external link rendered after a publication.
type Link struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Publication is the read-only display view of one bibliography entry.
type Publication struct {
	Key     string `json:"key"`
	Type    string `json:"type"`
	Year    int    `json:"year,omitempty"`  // 0 if HasYear is false
	HasYear bool   `json:"has_year"`        // true if a 4-digit year was found
	RawYear string `json:"raw_year"`        // trimmed year field, as rendered
	Month   int    `json:"month,omitempty"` // 1-12, 0 if unknown
	Authors string `json:"authors"`
	Title   string `json:"title"`
	Venue   string `json:"venue"`
	Links   []Link `json:"links,omitempty"`
}

var (
	yearRegex        = regexp.MustCompile(`\d{4}`)
	monthNumberRegex = regexp.MustCompile(`\d{1,2}`)
	trailingDotRegex = regexp.MustCompile(`\.\s*$`)
)

const authorSeparator = " and "

var monthNames = map[string]int{
	"jan": 1, "january": 1,
	"feb": 2, "february": 2,
	"mar": 3, "march": 3,
	"apr": 4, "april": 4,
	"may": 5,
	"jun": 6, "june": 6,
	"jul": 7, "july": 7,
	"aug": 8, "august": 8,
	"sep": 9, "sept": 9, "september": 9,
	"oct": 10, "october": 10,
	"nov": 11, "november": 11,
	"dec": 12, "december": 12,
}

// FromEntry derives the display view of an entry.
func FromEntry(e bibtex.Entry) Publication {
	year, hasYear := Year(e)
	return Publication{
		Key:     e.Key,
		Type:    e.Type,
		Year:    year,
		HasYear: hasYear,
		RawYear: e.Field("year"),
		Month:   Month(e),
		Authors: Authors(e),
		Title:   Title(e),
		Venue:   Venue(e),
		Links:   Links(e),
	}
}

// FromEntries derives display views for entries, preserving order.
func FromEntries(entries []bibtex.Entry) []Publication {
	pubs := make([]Publication, len(entries))
	for i, e := range entries {
		pubs[i] = FromEntry(e)
	}
	return pubs
}

// Year returns the first 4-digit run of the year field.
func Year(e bibtex.Entry) (int, bool) {
	m := yearRegex.FindString(e.Field("year"))
	if m == "" {
		return 0, false
	}
	y, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return y, true
}

// Month returns the month as 1-12, or 0 if absent or unrecognized.
// Numeric months are tried first, then English names and abbreviations.
func Month(e bibtex.Entry) int {
	m := strings.ToLower(e.Field("month"))
	if m == "" {
		return 0
	}

	if num := monthNumberRegex.FindString(m); num != "" {
		if v, err := strconv.Atoi(num); err == nil && v >= 1 && v <= 12 {
			return v
		}
	}

	return monthNames[m]
}

// Authors turns "A and B and C" into "A, B, C".
func Authors(e bibtex.Entry) string {
	a := e.Field("author")
	if a == "" {
		return ""
	}
	var parts []string
	for _, p := range strings.Split(a, authorSeparator) {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Title returns the title with one trailing period removed (common in DBLP exports).
func Title(e bibtex.Entry) string {
	return trailingDotRegex.ReplaceAllString(e.Field("title"), "")
}

// Venue prefers the journal, falling back to the booktitle.
func Venue(e bibtex.Entry) string {
	if j := e.Field("journal"); j != "" {
		return j
	}
	return e.Field("booktitle")
}

// Links returns a DOI link if a doi is present, followed by a url or ee link.
func Links(e bibtex.Entry) []Link {
	var links []Link
	if doi := e.Field("doi"); doi != "" {
		links = append(links, Link{Name: "DOI", URL: DOIBaseURL + doi})
	}
	if url := e.Field("url"); url != "" {
		links = append(links, Link{Name: "Link", URL: url})
	} else if ee := e.Field("ee"); ee != "" {
		// DBLP exports carry the external link as ee.
		links = append(links, Link{Name: "Link", URL: ee})
	}
	return links
}
