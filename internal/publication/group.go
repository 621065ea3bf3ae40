package publication

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultCutoffYear is the first year that gets its own bucket.
const DefaultCutoffYear = 2020

// NoYearHeading is the heading of the bucket for entries without a year.
const NoYearHeading = "Others (no year)"

// BucketKind identifies how a bucket was formed.
type BucketKind string

const (
	BucketYear   BucketKind = "year"    // one calendar year >= cutoff
	BucketBefore BucketKind = "before"  // all years < cutoff
	BucketNoYear BucketKind = "no_year" // no resolvable year
)

// Bucket is one heading of the listing and its ordered publications.
type Bucket struct {
	Kind         BucketKind    `json:"kind"`
	Year         int           `json:"year,omitempty"` // set for BucketYear
	Heading      string        `json:"heading"`
	Publications []Publication `json:"publications"`
}

// GroupOptions controls bucketing.
type GroupOptions struct {
	CutoffYear int // years below this share one bucket; 0 means DefaultCutoffYear
}

// Group partitions publications into buckets and orders them: years at or
// after the cutoff in descending order, then the before-cutoff bucket, then
// the no-year bucket. Empty buckets are omitted.
//
// The input order is the tie-break of last resort, so callers should pass
// publications in collection order.
func Group(pubs []Publication, opts GroupOptions) []Bucket {
	cutoff := opts.CutoffYear
	if cutoff == 0 {
		cutoff = DefaultCutoffYear
	}

	byYear := make(map[int][]Publication)
	var before, noYear []Publication

	for _, p := range pubs {
		switch {
		case !p.HasYear:
			noYear = append(noYear, p)
		case p.Year < cutoff:
			before = append(before, p)
		default:
			byYear[p.Year] = append(byYear[p.Year], p)
		}
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))

	buckets := make([]Bucket, 0, len(years)+2)
	for _, y := range years {
		group := byYear[y]
		SortByRecency(group)
		buckets = append(buckets, Bucket{
			Kind:         BucketYear,
			Year:         y,
			Heading:      fmt.Sprintf("%d", y),
			Publications: group,
		})
	}

	if len(before) > 0 {
		SortByRecency(before)
		buckets = append(buckets, Bucket{
			Kind:         BucketBefore,
			Heading:      fmt.Sprintf("Before %d", cutoff),
			Publications: before,
		})
	}

	if len(noYear) > 0 {
		SortByTitle(noYear)
		buckets = append(buckets, Bucket{
			Kind:         BucketNoYear,
			Heading:      NoYearHeading,
			Publications: noYear,
		})
	}

	return buckets
}

// SortByRecency stably sorts publications by (year, month, venue, title),
// all descending. Venue and title compare case-insensitively, so ties on
// date fall into reverse alphabetical order.
func SortByRecency(pubs []Publication) {
	lower := cases.Lower(language.Und)
	keys := make([]recencyKey, len(pubs))
	for i, p := range pubs {
		keys[i] = recencyKey{
			year:  p.Year,
			month: p.Month,
			venue: lower.String(p.Venue),
			title: lower.String(p.Title),
		}
	}
	sortWithKeys(pubs, func(i, j int) bool {
		return compareRecency(keys[i], keys[j]) > 0
	})
}

// SortByTitle stably sorts publications by title, then key, ascending and
// case-insensitively.
func SortByTitle(pubs []Publication) {
	lower := cases.Lower(language.Und)
	titles := make([]string, len(pubs))
	keys := make([]string, len(pubs))
	for i, p := range pubs {
		titles[i] = lower.String(p.Title)
		keys[i] = lower.String(p.Key)
	}
	sortWithKeys(pubs, func(i, j int) bool {
		if titles[i] != titles[j] {
			return titles[i] < titles[j]
		}
		return keys[i] < keys[j]
	})
}

// sortWithKeys stably reorders pubs by less, which compares positions in the
// original slice.
func sortWithKeys(pubs []Publication, less func(i, j int) bool) {
	order := make([]int, len(pubs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return less(order[a], order[b])
	})

	sorted := make([]Publication, len(pubs))
	for i, idx := range order {
		sorted[i] = pubs[idx]
	}
	copy(pubs, sorted)
}

// recencyKey is the sort tuple of a publication, with text fields lowercased.
type recencyKey struct {
	year, month  int
	venue, title string
}

// compareRecency compares the (year, month, venue, title) tuples of a and b.
func compareRecency(a, b recencyKey) int {
	if a.year != b.year {
		return compareInt(a.year, b.year)
	}
	if a.month != b.month {
		return compareInt(a.month, b.month)
	}
	if c := strings.Compare(a.venue, b.venue); c != 0 {
		return c
	}
	return strings.Compare(a.title, b.title)
}

func compareInt(a, b int) int {
	if a < b {
		return -1
	}
	return 1
}
