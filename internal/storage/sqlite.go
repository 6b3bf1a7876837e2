package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/scholref/linkage/internal/people"
	"github.com/scholref/linkage/internal/record"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database caching one resolved batch: the keyed
// publication lookup and the bidirectional publication/person index.
type DB struct {
	db *sql.DB
}

// OpenDB opens or creates a SQLite cache at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

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

func createSchema(db *sql.DB) error {
	schema := `
		-- One row per canonical publication
		CREATE TABLE IF NOT EXISTS publications (
			canonical_id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			pub_year INTEGER,
			venue TEXT,
			doi TEXT,
			best_url TEXT,
			authors_json TEXT NOT NULL
		);

		-- Every historically valid key form, many keys per publication
		CREATE TABLE IF NOT EXISTS lookup_keys (
			key TEXT PRIMARY KEY,
			canonical_id TEXT NOT NULL REFERENCES publications(canonical_id)
		);

		-- Resolved publication/person associations, ordered per publication
		CREATE TABLE IF NOT EXISTS credits (
			canonical_id TEXT NOT NULL,
			slug TEXT NOT NULL,
			author_order INTEGER NOT NULL,
			PRIMARY KEY (canonical_id, slug)
		);

		CREATE INDEX IF NOT EXISTS idx_credits_slug ON credits(slug);
	`

	_, err := db.Exec(schema)
	return err
}

// Rebuild clears the cache and repopulates it from one batch result:
// the keyed lookup from the identity resolver and the
// publication-to-authors map from the index builder.
func (d *DB) Rebuild(lookup map[string]*record.Publication, byPub map[string][]people.Identity) (int, error) {
	for _, table := range []string{"credits", "lookup_keys", "publications"} {
		if _, err := d.db.Exec("DELETE FROM " + table); err != nil {
			return 0, fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	pubStmt, err := d.db.Prepare(`
		INSERT OR IGNORE INTO publications (
			canonical_id, title, pub_year, venue, doi, best_url, authors_json
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing publications insert: %w", err)
	}
	defer pubStmt.Close()

	keyStmt, err := d.db.Prepare(`
		INSERT INTO lookup_keys (key, canonical_id) VALUES (?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing lookup_keys insert: %w", err)
	}
	defer keyStmt.Close()

	creditStmt, err := d.db.Prepare(`
		INSERT INTO credits (canonical_id, slug, author_order) VALUES (?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing credits insert: %w", err)
	}
	defer creditStmt.Close()

	inserted := make(map[string]bool)
	for key, pub := range lookup {
		if !inserted[pub.CanonicalID] {
			authorsJSON, err := json.Marshal(pub.Authors)
			if err != nil {
				return 0, fmt.Errorf("marshaling authors for %s: %w", pub.CanonicalID, err)
			}
			if _, err := pubStmt.Exec(
				pub.CanonicalID, pub.Title,
				nullableInt(pub.Year), nullableString(pub.Venue),
				nullableString(pub.DOI), nullableString(pub.BestURL),
				string(authorsJSON),
			); err != nil {
				return 0, fmt.Errorf("inserting publication %s: %w", pub.CanonicalID, err)
			}
			inserted[pub.CanonicalID] = true
		}
		if _, err := keyStmt.Exec(key, pub.CanonicalID); err != nil {
			return 0, fmt.Errorf("inserting key %s: %w", key, err)
		}
	}

	for pubID, authors := range byPub {
		for i, p := range authors {
			if _, err := creditStmt.Exec(pubID, p.Slug, i+1); err != nil {
				return 0, fmt.Errorf("inserting credit %s/%s: %w", pubID, p.Slug, err)
			}
		}
	}

	return len(inserted), nil
}

// ResolveKey looks a publication up by any of its registered key
// forms. Returns nil when the key is unclaimed.
func (d *DB) ResolveKey(key string) (*record.Publication, error) {
	row := d.db.QueryRow(`
		SELECT p.canonical_id, p.title, p.pub_year, p.venue, p.doi, p.best_url, p.authors_json
		FROM publications p
		JOIN lookup_keys k ON k.canonical_id = p.canonical_id
		WHERE k.key = ?
	`, key)
	return scanPublication(row)
}

// AuthorSlugs returns the resolved person slugs credited on a
// publication, in author order. An unknown publication yields nil.
func (d *DB) AuthorSlugs(canonicalID string) ([]string, error) {
	rows, err := d.db.Query(`
		SELECT slug FROM credits WHERE canonical_id = ? ORDER BY author_order
	`, canonicalID)
	if err != nil {
		return nil, fmt.Errorf("querying credits: %w", err)
	}
	defer rows.Close()

	var slugs []string
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return nil, err
		}
		slugs = append(slugs, slug)
	}
	return slugs, rows.Err()
}

// PublicationsOf returns every cached publication crediting a person,
// ordered by descending year then canonical ID.
func (d *DB) PublicationsOf(slug string) ([]*record.Publication, error) {
	rows, err := d.db.Query(`
		SELECT p.canonical_id, p.title, p.pub_year, p.venue, p.doi, p.best_url, p.authors_json
		FROM publications p
		JOIN credits c ON c.canonical_id = p.canonical_id
		WHERE c.slug = ?
		ORDER BY p.pub_year DESC, p.canonical_id
	`, slug)
	if err != nil {
		return nil, fmt.Errorf("querying publications: %w", err)
	}
	defer rows.Close()

	var pubs []*record.Publication
	for rows.Next() {
		pub, err := scanPublication(rows)
		if err != nil {
			return nil, err
		}
		if pub != nil {
			pubs = append(pubs, pub)
		}
	}
	return pubs, rows.Err()
}

// Counts returns the number of cached publications, keys, and credits.
func (d *DB) Counts() (pubs, keys, credits int, err error) {
	if err = d.db.QueryRow("SELECT COUNT(*) FROM publications").Scan(&pubs); err != nil {
		return
	}
	if err = d.db.QueryRow("SELECT COUNT(*) FROM lookup_keys").Scan(&keys); err != nil {
		return
	}
	err = d.db.QueryRow("SELECT COUNT(*) FROM credits").Scan(&credits)
	return
}

// scanner interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanPublication(s scanner) (*record.Publication, error) {
	var pub record.Publication
	var year sql.NullInt64
	var venue, doi, bestURL sql.NullString
	var authorsJSON string

	err := s.Scan(&pub.CanonicalID, &pub.Title, &year, &venue, &doi, &bestURL, &authorsJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	if year.Valid {
		pub.Year = int(year.Int64)
	}
	pub.Venue = venue.String
	pub.DOI = doi.String
	pub.BestURL = bestURL.String

	if err := json.Unmarshal([]byte(authorsJSON), &pub.Authors); err != nil {
		return nil, fmt.Errorf("parsing authors JSON for %s: %w", pub.CanonicalID, err)
	}

	return &pub, nil
}

func nullableString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullableInt(n int) sql.NullInt64 {
	if n == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(n), Valid: true}
}
