package bibtex

import "strings"

// Decode converts raw file bytes to text, dropping invalid UTF-8 sequences
// instead of rejecting the input. Valid characters, including a literal
// U+FFFD, are kept.
func Decode(data []byte) string {
	return strings.ToValidUTF8(string(data), "")
}
