// Package library keeps the catalog of ingested papers in a local
// SQLite database. The retrieval engine holds the searchable content;
// the library holds the bibliographic record shown in listings.
package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/atihsingh22/research-agent/internal/domain"
)

// Paper is one catalog entry.
type Paper struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Authors   string    `json:"authors,omitempty"`
	Abstract  string    `json:"abstract,omitempty"`
	Filename  string    `json:"filename,omitempty"`
	Pages     int       `json:"pages,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Library wraps the catalog database.
type Library struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS papers (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL,
	authors    TEXT NOT NULL DEFAULT '',
	abstract   TEXT NOT NULL DEFAULT '',
	filename   TEXT NOT NULL DEFAULT '',
	pages      INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL
);`

// Open opens (creating if needed) the catalog at path.
func Open(path string) (*Library, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	// the sqlite driver serializes writers; a single connection avoids
	// SQLITE_BUSY under concurrent handlers
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating catalog schema: %w", err)
	}
	return &Library{db: db}, nil
}

// Save inserts or replaces a catalog entry.
func (l *Library) Save(ctx context.Context, p Paper) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	_, err := l.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO papers (id, title, authors, abstract, filename, pages, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.Authors, p.Abstract, p.Filename, p.Pages, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("saving paper %s: %w", p.ID, err)
	}
	return nil
}

// Get returns one entry or domain.ErrNotFound.
func (l *Library) Get(ctx context.Context, id string) (Paper, error) {
	var p Paper
	err := l.db.QueryRowContext(ctx,
		`SELECT id, title, authors, abstract, filename, pages, created_at
		 FROM papers WHERE id = ?`, id).
		Scan(&p.ID, &p.Title, &p.Authors, &p.Abstract, &p.Filename, &p.Pages, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Paper{}, domain.ErrNotFound
	}
	if err != nil {
		return Paper{}, fmt.Errorf("loading paper %s: %w", id, err)
	}
	return p, nil
}

// List returns all entries, newest first.
func (l *Library) List(ctx context.Context) ([]Paper, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, title, authors, abstract, filename, pages, created_at
		 FROM papers ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("listing papers: %w", err)
	}
	defer rows.Close()

	var papers []Paper
	for rows.Next() {
		var p Paper
		if err := rows.Scan(&p.ID, &p.Title, &p.Authors, &p.Abstract, &p.Filename, &p.Pages, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning paper row: %w", err)
		}
		papers = append(papers, p)
	}
	return papers, rows.Err()
}

// Delete removes an entry. Returns domain.ErrNotFound when the id is
// unknown.
func (l *Library) Delete(ctx context.Context, id string) error {
	res, err := l.db.ExecContext(ctx, `DELETE FROM papers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting paper %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Close releases the database handle.
func (l *Library) Close() error { return l.db.Close() }
