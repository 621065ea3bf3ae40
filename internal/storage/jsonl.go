// Package storage persists merged bibliography entries as JSONL and indexes
// derived publications in SQLite for search.
package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matsen/pubs/internal/bibtex"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines (1MB per line).
const MaxJSONLLineCapacity = 1024 * 1024

// WriteJSONL writes one entry per line, in the given order.
func WriteJSONL(w io.Writer, entries []bibtex.Entry) error {
	bw := bufio.NewWriter(w)
	for i, e := range entries {
		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("encoding entry %d: %w", i, err)
		}
		if _, err := bw.Write(data); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("writing newline: %w", err)
		}
	}
	return bw.Flush()
}

// ReadJSONL reads entries written by WriteJSONL. Empty lines are skipped.
func ReadJSONL(r io.Reader) ([]bibtex.Entry, error) {
	var entries []bibtex.Entry
	scanner := bufio.NewScanner(r)

	// Increase buffer size for long lines
	buf := make([]byte, MaxJSONLLineCapacity)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var e bibtex.Entry
		if err := json.Unmarshal(line, &e); err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		if e.Fields == nil {
			e.Fields = make(map[string]string)
		}
		entries = append(entries, e)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading entries: %w", err)
	}

	return entries, nil
}

// WriteJSONLFile writes entries to path, replacing existing content.
func WriteJSONLFile(path string, entries []bibtex.Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating entries file: %w", err)
	}
	if err := WriteJSONL(f, entries); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadJSONLFile reads entries from path. A missing file yields no entries.
func ReadJSONLFile(path string) ([]bibtex.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening entries file: %w", err)
	}
	defer f.Close()

	return ReadJSONL(f)
}
