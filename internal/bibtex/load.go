package bibtex

import (
	"fmt"
	"os"

	"go.uber.org/zap"
)

// Loader reads BibTeX sources from disk and merges them into a Collection.
type Loader struct {
	logger *zap.Logger
}

// NewLoader creates a loader. A nil logger disables logging.
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{logger: logger}
}

// ParseFile reads and parses a single .bib file.
// A missing file yields no entries and no error.
func ParseFile(path string) ([]Entry, error) {
	entries, _, err := parseFile(path)
	return entries, err
}

// parseFile also reports the number of raw chunks seen, for diagnostics.
func parseFile(path string) ([]Entry, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("reading %s: %w", path, err)
	}

	chunks := SplitEntries(Decode(data))
	return parseChunks(chunks), len(chunks), nil
}

// Load parses each path in order and merges the results. Entries from later
// paths replace entries with the same key from earlier paths.
func (l *Loader) Load(paths []string) (*Collection, error) {
	c := NewCollection()
	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			l.logger.Warn("bibliography source not found, skipping", zap.String("path", path))
			continue
		}

		entries, chunks, err := parseFile(path)
		if err != nil {
			return nil, err
		}
		l.logger.Debug("parsed bibliography source",
			zap.String("path", path),
			zap.Int("chunks", chunks),
			zap.Int("entries", len(entries)),
			zap.Int("dropped", chunks-len(entries)),
		)
		c.Merge(entries)
	}
	l.logger.Debug("merged bibliography sources",
		zap.Int("sources", len(paths)),
		zap.Int("records", c.Len()),
	)
	return c, nil
}
