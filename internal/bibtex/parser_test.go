package bibtex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_BasicEntry(t *testing.T) {
	text := `
@Article{Smith2021,
  Title   = {Foo {Bar} Baz},
  author  = "Alice Smith and Bob Lee",
  journal = {Nature},
  year    = 2021,
}
`
	entries := Parse(text)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, "Smith2021", e.Key)
	assert.Equal(t, "article", e.Type)
	assert.Equal(t, "Foo {Bar} Baz", e.Fields["title"])
	assert.Equal(t, "Alice Smith and Bob Lee", e.Fields["author"])
	assert.Equal(t, "Nature", e.Fields["journal"])
	assert.Equal(t, "2021", e.Fields["year"])
}

func TestParse_NestedBracesKept(t *testing.T) {
	entries := Parse(`@misc{k, title = {The {DNA} of {RNA} Viruses}, note = {x}}`)
	require.Len(t, entries, 1)
	assert.Equal(t, "The {DNA} of {RNA} Viruses", entries[0].Fields["title"])
	assert.Equal(t, "x", entries[0].Fields["note"])
}

func TestParse_LastFieldWithoutTrailingComma(t *testing.T) {
	entries := Parse(`@article{a1, title={A Study.}, author={X Y}, journal={J}, year={2021}}`)
	require.Len(t, entries, 1)

	fields := entries[0].Fields
	assert.Equal(t, "A Study.", fields["title"])
	assert.Equal(t, "X Y", fields["author"])
	assert.Equal(t, "J", fields["journal"])
	assert.Equal(t, "2021", fields["year"])
}

func TestParse_CleansValues(t *testing.T) {
	text := "@article{k,\n  journal = {Science \\& Nature\n     Reviews},\n  title = \"  Quoted   Title \",\n}"
	entries := Parse(text)
	require.Len(t, entries, 1)
	assert.Equal(t, "Science & Nature Reviews", entries[0].Fields["journal"])
	assert.Equal(t, "Quoted Title", entries[0].Fields["title"])
}

func TestParse_DuplicateFieldLastWins(t *testing.T) {
	entries := Parse(`@article{k, year = {2019}, YEAR = {2022}}`)
	require.Len(t, entries, 1)
	assert.Equal(t, "2022", entries[0].Fields["year"])
}

func TestParse_DropsUnrecognizedHeaders(t *testing.T) {
	text := `
@comment{no key here}
@article{good, title={Kept}}
`
	entries := Parse(text)
	require.Len(t, entries, 1)
	assert.Equal(t, "good", entries[0].Key)
}

func TestParse_EmptyAndGarbageInput(t *testing.T) {
	assert.Empty(t, Parse(""))
	assert.Empty(t, Parse("no entries at all"))
	assert.Empty(t, Parse("user@example.com wrote this"))
}

func TestParse_KeyIsTrimmed(t *testing.T) {
	entries := Parse("@InProceedings { conf/x/Y22 ,\n booktitle = {Proc}}")
	require.Len(t, entries, 1)
	assert.Equal(t, "conf/x/Y22", entries[0].Key)
	assert.Equal(t, "inproceedings", entries[0].Type)
	assert.Equal(t, "Proc", entries[0].Fields["booktitle"])
}

func TestSplitEntries(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "two entries",
			text: "@a{x, t={1}}\n\n@b{y, t={{2}}}",
			want: []string{"@a{x, t={1}}", "@b{y, t={{2}}}"},
		},
		{
			name: "at sign inside entry is not a new entry",
			text: "@a{x, email={me@host}} @b{y, t={2}}",
			want: []string{"@a{x, email={me@host}}", "@b{y, t={2}}"},
		},
		{
			name: "unbalanced entry stops scanning",
			text: "@a{x, t={1}}\n@b{bad, t={2}\n@c{z, t={3}}",
			want: []string{"@a{x, t={1}}"},
		},
		{
			name: "at sign without brace stops scanning",
			text: "@a{x, t={1}} trailing @ then nothing",
			want: []string{"@a{x, t={1}}"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitEntries(tt.text))
		})
	}
}

func TestStripOuterDelimiters(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"{abc}", "abc"},
		{`"abc"`, "abc"},
		{"{{abc}}", "{abc}"},
		{" { abc } ", "abc"},
		{"abc", "abc"},
		{"{", "{"},
		{`"abc}`, `"abc}`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, stripOuterDelimiters(tt.in))
		})
	}
}

func TestEntryField(t *testing.T) {
	e := Entry{Fields: map[string]string{"doi": " 10.1/x "}}
	assert.Equal(t, "10.1/x", e.Field("doi"))
	assert.Equal(t, "", e.Field("url"))
}

func TestDecode_DropsInvalidBytes(t *testing.T) {
	assert.Equal(t, "abcd", Decode([]byte("ab\xffcd")))
	assert.Equal(t, "Müller", Decode([]byte("Müller")))
	assert.Equal(t, "a\uFFFDb", Decode([]byte("a\uFFFDb")), "literal replacement character is valid UTF-8")
	assert.Equal(t, "ab", Decode([]byte("a\xe2\x82b")), "truncated sequence")
}

func TestParse_NonASCIISpaceBeforeEqualsSkipsField(t *testing.T) {
	entries := Parse("@article{k, title\u00a0= {Skipped}, year = {2021}}")
	require.Len(t, entries, 1)
	assert.Equal(t, map[string]string{"year": "2021"}, entries[0].Fields)
}
