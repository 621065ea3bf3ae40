// Package bibtex parses BibTeX bibliography files into keyed entries.
//
// Parsing is best-effort: chunks without a recognizable @type{key, header are
// dropped, and field segments that do not match are skipped. Parse never
// returns an error for textual input.
package bibtex

import (
	"regexp"
	"strings"
)

// Entry is one parsed bibliography record.
type Entry struct {
	Key    string            `json:"key"`
	Type   string            `json:"type"`   // lowercase, e.g. article, inproceedings
	Fields map[string]string `json:"fields"` // lowercase field name -> cleaned value
}

// Field returns the trimmed value of a field, or "" if absent.
func (e Entry) Field(name string) string {
	return strings.TrimSpace(e.Fields[name])
}

var (
	// Match entry header: @type{key,
	headerRegex = regexp.MustCompile(`^@(\w+)\s*\{\s*([^,]+)\s*,`)
	// Match field: name = {value with one nesting level} | "value" | bare,
	fieldRegex = regexp.MustCompile(`(?s)(\w+)\s*=\s*(\{(?:[^{}]|\{[^{}]*\})*\}|"[^"]*"|[^,]+)\s*,?`)
)

// Parse extracts all well-formed entries from BibTeX text, in source order.
func Parse(text string) []Entry {
	return parseChunks(SplitEntries(text))
}

// parseChunks parses raw chunks, dropping those without a valid header.
func parseChunks(chunks []string) []Entry {
	var entries []Entry
	for _, chunk := range chunks {
		if e, ok := parseEntry(chunk); ok {
			entries = append(entries, e)
		}
	}
	return entries
}

// SplitEntries segments text into raw entry chunks, from '@' through the
// brace that closes the entry's first '{'. Scanning stops at the first '@'
// that has no opening brace or whose braces never balance.
func SplitEntries(text string) []string {
	var chunks []string
	i := 0
	for i < len(text) {
		at := strings.IndexByte(text[i:], '@')
		if at == -1 {
			break
		}
		at += i

		lb := strings.IndexByte(text[at:], '{')
		if lb == -1 {
			break
		}
		lb += at

		end := matchingBrace(text, lb)
		if end == -1 {
			// Truncated trailing garbage; nothing after it is trusted.
			break
		}
		chunks = append(chunks, strings.TrimSpace(text[at:end+1]))
		i = end + 1
	}
	return chunks
}

// matchingBrace returns the index of the '}' closing the '{' at open, or -1.
func matchingBrace(text string, open int) int {
	depth := 0
	for j := open; j < len(text); j++ {
		switch text[j] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return -1
}

// parseEntry parses a single raw chunk. ok is false if the header is unrecognized.
func parseEntry(chunk string) (Entry, bool) {
	m := headerRegex.FindStringSubmatchIndex(chunk)
	if m == nil {
		return Entry{}, false
	}
	entryType := strings.ToLower(chunk[m[2]:m[3]])
	key := strings.TrimSpace(chunk[m[4]:m[5]])

	// Fields start after the first comma following the key.
	comma := strings.IndexByte(chunk[m[5]:], ',')
	if comma == -1 {
		return Entry{}, false
	}
	body := strings.TrimSpace(chunk[m[5]+comma+1:])
	body = strings.TrimSpace(strings.TrimSuffix(body, "}"))

	return Entry{
		Key:    key,
		Type:   entryType,
		Fields: parseFields(body),
	}, true
}

// parseFields extracts name = value pairs from an entry body.
// Later duplicates overwrite earlier ones.
func parseFields(body string) map[string]string {
	fields := make(map[string]string)
	for _, fm := range fieldRegex.FindAllStringSubmatch(body, -1) {
		name := strings.ToLower(fm[1])
		fields[name] = cleanValue(fm[2])
	}
	return fields
}

// cleanValue strips one pair of outer delimiters and applies minimal LaTeX cleanup.
func cleanValue(v string) string {
	v = stripOuterDelimiters(v)
	v = strings.ReplaceAll(v, `\&`, "&")
	return strings.Join(strings.Fields(v), " ")
}

// stripOuterDelimiters removes one pair of surrounding braces or double quotes.
func stripOuterDelimiters(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '{' && last == '}') || (first == '"' && last == '"') {
			return strings.TrimSpace(s[1 : len(s)-1])
		}
	}
	return s
}
