package publication

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pub(key string, year, month int, venue, title string) Publication {
	return Publication{
		Key:     key,
		Year:    year,
		HasYear: year != 0,
		Month:   month,
		Venue:   venue,
		Title:   title,
	}
}

func pubKeys(pubs []Publication) []string {
	out := make([]string, len(pubs))
	for i, p := range pubs {
		out[i] = p.Key
	}
	return out
}

func headings(buckets []Bucket) []string {
	out := make([]string, len(buckets))
	for i, b := range buckets {
		out[i] = b.Heading
	}
	return out
}

func TestGroup_Buckets(t *testing.T) {
	pubs := []Publication{
		pub("old", 2019, 0, "", "Old"),
		pub("y2020", 2020, 0, "", "Twenty"),
		pub("none", 0, 0, "", "Undated"),
		pub("y2022", 2022, 0, "", "Recent"),
		pub("older", 1999, 0, "", "Older"),
	}

	buckets := Group(pubs, GroupOptions{})

	assert.Equal(t, []string{"2022", "2020", "Before 2020", "Others (no year)"}, headings(buckets))
	assert.Equal(t, BucketYear, buckets[0].Kind)
	assert.Equal(t, 2022, buckets[0].Year)
	assert.Equal(t, []string{"y2020"}, pubKeys(buckets[1].Publications))
	assert.Equal(t, BucketBefore, buckets[2].Kind)
	assert.Equal(t, []string{"old", "older"}, pubKeys(buckets[2].Publications))
	assert.Equal(t, BucketNoYear, buckets[3].Kind)
	assert.Equal(t, []string{"none"}, pubKeys(buckets[3].Publications))
}

func TestGroup_CustomCutoff(t *testing.T) {
	buckets := Group([]Publication{
		pub("a", 2021, 0, "", "A"),
		pub("b", 2023, 0, "", "B"),
	}, GroupOptions{CutoffYear: 2022})

	require.Len(t, buckets, 2)
	assert.Equal(t, "2023", buckets[0].Heading)
	assert.Equal(t, "Before 2022", buckets[1].Heading)
}

func TestGroup_EmptyInput(t *testing.T) {
	assert.Empty(t, Group(nil, GroupOptions{}))
}

func TestSortByRecency(t *testing.T) {
	pubs := []Publication{
		pub("mar-a", 2021, 3, "Alpha Journal", "Title"),
		pub("nov", 2021, 11, "Zeta", "Title"),
		pub("mar-b", 2021, 3, "beta journal", "Title"),
		pub("nomonth", 2021, 0, "Zeta", "Title"),
		pub("mar-a-z", 2021, 3, "alpha journal", "Zebra"),
	}

	SortByRecency(pubs)

	want := []string{"nov", "mar-b", "mar-a-z", "mar-a", "nomonth"}
	if diff := cmp.Diff(want, pubKeys(pubs)); diff != "" {
		t.Errorf("SortByRecency order mismatch (-want +got):\n%s", diff)
	}
}

func TestSortByRecency_BeforeBucketMixesYears(t *testing.T) {
	pubs := []Publication{
		pub("2015", 2015, 12, "", "A"),
		pub("2019", 2019, 1, "", "A"),
		pub("2017", 2017, 6, "", "A"),
	}

	SortByRecency(pubs)

	assert.Equal(t, []string{"2019", "2017", "2015"}, pubKeys(pubs))
}

func TestSortByRecency_StableOnTies(t *testing.T) {
	pubs := []Publication{
		pub("first", 2021, 5, "V", "Same"),
		pub("second", 2021, 5, "v", "same"),
		pub("third", 2021, 5, "V", "SAME"),
	}

	SortByRecency(pubs)

	assert.Equal(t, []string{"first", "second", "third"}, pubKeys(pubs))
}

func TestSortByTitle(t *testing.T) {
	pubs := []Publication{
		pub("k3", 0, 0, "", "beta"),
		pub("K2", 0, 0, "", "Alpha"),
		pub("k1", 0, 0, "", "alpha"),
		pub("k0", 0, 0, "", ""),
	}

	SortByTitle(pubs)

	assert.Equal(t, []string{"k0", "k1", "K2", "k3"}, pubKeys(pubs))
}

func TestSortByTitle_FullCaseFolding(t *testing.T) {
	// U+0130 lowercases to "i" plus a combining dot, which sorts after "ib".
	pubs := []Publication{
		pub("dotted", 0, 0, "", "İa"),
		pub("plain", 0, 0, "", "ib"),
		pub("umlaut", 0, 0, "", "Über"),
		pub("lower-umlaut", 0, 0, "", "über"),
	}

	SortByTitle(pubs)

	assert.Equal(t, []string{"plain", "dotted", "lower-umlaut", "umlaut"}, pubKeys(pubs))
}
