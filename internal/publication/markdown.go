package publication

import (
	"fmt"
	"strings"
)

// FormatItem renders one publication as a Markdown bullet:
//
//	- Authors. “Title”. *Venue*. Year. [DOI](...), [Link](...)
//
// Empty pieces are omitted along with their separators.
func FormatItem(p Publication) string {
	var pieces []string
	if p.Authors != "" {
		pieces = append(pieces, p.Authors)
	}
	if p.Title != "" {
		pieces = append(pieces, "“"+p.Title+"”")
	}
	if p.Venue != "" {
		pieces = append(pieces, "*"+p.Venue+"*")
	}
	if p.RawYear != "" {
		pieces = append(pieces, p.RawYear)
	}

	s := strings.TrimSpace(strings.Join(pieces, ". "))
	s = strings.TrimSuffix(s, ".")

	if len(p.Links) > 0 {
		links := make([]string, len(p.Links))
		for i, l := range p.Links {
			links[i] = fmt.Sprintf("[%s](%s)", l.Name, l.URL)
		}
		s = s + ". " + strings.Join(links, ", ")
	}
	return "- " + s
}

// RenderLines renders buckets as Markdown lines: a heading, one bullet per
// publication, and a blank separator line per bucket.
func RenderLines(buckets []Bucket) []string {
	var lines []string
	for _, b := range buckets {
		if len(b.Publications) == 0 {
			continue
		}
		lines = append(lines, "### "+b.Heading)
		for _, p := range b.Publications {
			lines = append(lines, FormatItem(p))
		}
		lines = append(lines, "")
	}
	return lines
}

// Render produces the full Markdown document. The result is trimmed and ends
// with exactly one newline.
func Render(buckets []Bucket) string {
	return strings.TrimSpace(strings.Join(RenderLines(buckets), "\n")) + "\n"
}
