package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/matsen/pubs/internal/publication"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

// selectPubFields contains the standard field list for SELECT queries.
const selectPubFields = `cite_key, entry_type, title, authors, venue,
	year, raw_year, month, links_json`

// orderByRecency orders results the way the listing does: newest first, then
// collection order. Rows without a year sort last.
const orderByRecency = ` ORDER BY year DESC, month DESC, position ASC`

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// createSchema creates the database schema if it doesn't exist.
func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS pubs (
			cite_key TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			entry_type TEXT NOT NULL,
			title TEXT NOT NULL,
			authors TEXT NOT NULL,
			venue TEXT NOT NULL,
			year INTEGER,
			raw_year TEXT NOT NULL,
			month INTEGER NOT NULL,
			links_json TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_pubs_year ON pubs(year);

		-- Full-text search over the rendered text fields
		CREATE VIRTUAL TABLE IF NOT EXISTS pubs_fts USING fts5(
			cite_key,
			title,
			authors,
			venue
		);
	`

	_, err := db.Exec(schema)
	return err
}

// Rebuild clears the index and reloads it from publications in collection order.
func (d *DB) Rebuild(pubs []publication.Publication) (int, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM pubs"); err != nil {
		return 0, fmt.Errorf("clearing pubs table: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM pubs_fts"); err != nil {
		return 0, fmt.Errorf("clearing pubs_fts table: %w", err)
	}

	pubsStmt, err := tx.Prepare(`
		INSERT INTO pubs (
			cite_key, position, entry_type, title, authors, venue,
			year, raw_year, month, links_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing pubs insert: %w", err)
	}
	defer pubsStmt.Close()

	ftsStmt, err := tx.Prepare(`
		INSERT INTO pubs_fts (cite_key, title, authors, venue)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing fts insert: %w", err)
	}
	defer ftsStmt.Close()

	for i, p := range pubs {
		var linksJSON []byte
		if len(p.Links) > 0 {
			linksJSON, err = json.Marshal(p.Links)
			if err != nil {
				return 0, fmt.Errorf("marshaling links for %s: %w", p.Key, err)
			}
		}

		var year sql.NullInt64
		if p.HasYear {
			year = sql.NullInt64{Int64: int64(p.Year), Valid: true}
		}

		_, err = pubsStmt.Exec(
			p.Key, i, p.Type, p.Title, p.Authors, p.Venue,
			year, p.RawYear, p.Month, nullableString(linksJSON),
		)
		if err != nil {
			return 0, fmt.Errorf("inserting %s: %w", p.Key, err)
		}

		if _, err := ftsStmt.Exec(p.Key, p.Title, p.Authors, p.Venue); err != nil {
			return 0, fmt.Errorf("inserting fts for %s: %w", p.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing index: %w", err)
	}
	return len(pubs), nil
}

// GetByKey retrieves a publication by citation key. Returns nil if absent.
func (d *DB) GetByKey(key string) (*publication.Publication, error) {
	row := d.db.QueryRow(`SELECT `+selectPubFields+` FROM pubs WHERE cite_key = ?`, key)
	return scanPublication(row)
}

// SearchFilters contains optional filters for Search.
type SearchFilters struct {
	Keyword  string // Full-text search across title, authors, venue
	Author   string // Search in authors only (prefix match)
	YearFrom int    // Minimum year (0 = no minimum)
	YearTo   int    // Maximum year (0 = no maximum)
	Venue    string // Venue substring (case-insensitive)
}

// Search returns publications matching ALL specified filters, newest first.
func (d *DB) Search(filters SearchFilters, limit int) ([]publication.Publication, error) {
	var ftsTerms []string
	var args []interface{}

	if q := prepareFTSQuery(filters.Keyword); q != "" {
		ftsTerms = append(ftsTerms, q)
	}
	if q := prepareAuthorQuery(filters.Author); q != "" {
		ftsTerms = append(ftsTerms, "authors:"+q)
	}

	var query string
	if len(ftsTerms) > 0 {
		query = `SELECT ` + selectPubFields + `
			FROM pubs
			WHERE cite_key IN (SELECT cite_key FROM pubs_fts WHERE pubs_fts MATCH ?)`
		args = append(args, strings.Join(ftsTerms, " AND "))
	} else {
		query = `SELECT ` + selectPubFields + ` FROM pubs WHERE 1=1`
	}

	if filters.YearFrom > 0 {
		query += " AND year >= ?"
		args = append(args, filters.YearFrom)
	}
	if filters.YearTo > 0 {
		query += " AND year <= ?"
		args = append(args, filters.YearTo)
	}
	if filters.Venue != "" {
		query += " AND venue LIKE ?"
		args = append(args, "%"+filters.Venue+"%")
	}

	query += orderByRecency
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	defer rows.Close()

	return scanPublications(rows)
}

// Count returns the number of indexed publications.
func (d *DB) Count() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM pubs").Scan(&count)
	return count, err
}

// scanner interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanPublication(s scanner) (*publication.Publication, error) {
	var p publication.Publication
	var year sql.NullInt64
	var linksJSON sql.NullString

	err := s.Scan(
		&p.Key, &p.Type, &p.Title, &p.Authors, &p.Venue,
		&year, &p.RawYear, &p.Month, &linksJSON,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	if year.Valid {
		p.Year = int(year.Int64)
		p.HasYear = true
	}
	if linksJSON.Valid && linksJSON.String != "" {
		if err := json.Unmarshal([]byte(linksJSON.String), &p.Links); err != nil {
			return nil, fmt.Errorf("parsing links JSON for %s: %w", p.Key, err)
		}
	}

	return &p, nil
}

func scanPublications(rows *sql.Rows) ([]publication.Publication, error) {
	var pubs []publication.Publication
	for rows.Next() {
		p, err := scanPublication(rows)
		if err != nil {
			return nil, err
		}
		if p != nil {
			pubs = append(pubs, *p)
		}
	}
	return pubs, rows.Err()
}

func nullableString(b []byte) sql.NullString {
	if len(b) == 0 {
		return sql.NullString{}
	}
	return sql.NullString{String: string(b), Valid: true}
}

// ftsOperators are the FTS5 query keywords. They are quoted when they appear
// as search terms.
var ftsOperators = map[string]bool{"AND": true, "OR": true, "NOT": true, "NEAR": true}

// prepareFTSQuery turns free text into an FTS5 query that ANDs its terms.
// Terms that are not plain barewords (e.g. "O'Brien", "10.1/x") and operator
// keywords are quoted as phrases.
func prepareFTSQuery(query string) string {
	terms := strings.Fields(query)
	for i, term := range terms {
		if !isFTSBareword(term) || ftsOperators[strings.ToUpper(term)] {
			terms[i] = quoteFTS(term)
		}
	}
	return strings.Join(terms, " ")
}

// isFTSBareword reports whether s can appear unquoted in an FTS5 query:
// ASCII letters, digits, underscore, or any non-ASCII character.
func isFTSBareword(s string) bool {
	for _, r := range s {
		switch {
		case r >= utf8.RuneSelf:
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		default:
			return false
		}
	}
	return s != ""
}

func quoteFTS(s string) string {
	return "\"" + strings.ReplaceAll(s, "\"", "\"\"") + "\""
}

// prepareAuthorQuery prepares an author name for FTS5 prefix matching
// (e.g., "Tim" matches "Timothy"). Parts are ORed.
func prepareAuthorQuery(author string) string {
	parts := strings.Fields(author)
	if len(parts) == 0 {
		return ""
	}

	terms := make([]string, len(parts))
	for i, part := range parts {
		terms[i] = quoteFTS(part) + "*"
	}
	return "(" + strings.Join(terms, " OR ") + ")"
}
