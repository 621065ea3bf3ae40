package publication

import "github.com/matsen/pubs/internal/bibtex"

// GroupCollection derives, groups and orders every entry of a merged collection.
func GroupCollection(c *bibtex.Collection, opts GroupOptions) []Bucket {
	return Group(FromEntries(c.Entries()), opts)
}

// Markdown renders the publication listing for a merged collection.
func Markdown(c *bibtex.Collection, opts GroupOptions) string {
	return Render(GroupCollection(c, opts))
}
