// Package docstore keeps named catalog documents in a SQL database. Only
// catalogs are stored; selections stay in the session.
package docstore

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/crypto/blake2b"
	_ "modernc.org/sqlite"

	"github.com/agentic-research/infracfg/internal/catalog"
)

// ErrNotFound is returned by Get for an unknown name.
var ErrNotFound = errors.New("catalog not found")

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Record is a stored catalog document.
type Record struct {
	Name      string
	Digest    string // hex BLAKE2b-256 of Document
	Document  []byte
	UpdatedAt time.Time
}

// Store is a catalog document store backed by database/sql.
type Store struct {
	db     *sql.DB
	driver string
	now    func() time.Time
}

// Open connects to driver/dsn and ensures the schema exists.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	switch driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s %s: %w", driver, dsn, err)
	}
	s := &Store{db: db, driver: driver, now: time.Now}
	if err := s.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS catalogs (
		name TEXT PRIMARY KEY,
		digest TEXT NOT NULL,
		document TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// rebind rewrites ? placeholders to $N for postgres.
func (s *Store) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Digest returns the hex BLAKE2b-256 digest of a document.
func Digest(doc []byte) string {
	sum := blake2b.Sum256(doc)
	return hex.EncodeToString(sum[:])
}

// Put validates raw as a catalog and stores it under name, replacing any
// previous document. Rejected documents return the catalog error unchanged.
func (s *Store) Put(ctx context.Context, name string, raw []byte) (Record, error) {
	if name == "" {
		return Record{}, errors.New("put catalog: empty name")
	}
	if _, err := catalog.Parse(raw); err != nil {
		return Record{}, err
	}
	rec := Record{Name: name, Digest: Digest(raw), Document: raw, UpdatedAt: s.now().UTC().Truncate(time.Second)}
	_, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO catalogs (name, digest, document, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			digest = excluded.digest,
			document = excluded.document,
			updated_at = excluded.updated_at`),
		rec.Name, rec.Digest, string(rec.Document), rec.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return Record{}, fmt.Errorf("put catalog %s: %w", name, err)
	}
	return rec, nil
}

// Get loads the document stored under name.
func (s *Store) Get(ctx context.Context, name string) (Record, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(
		`SELECT name, digest, document, updated_at FROM catalogs WHERE name = ?`), name)
	rec, err := scanRecord(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("get catalog %s: %w", name, ErrNotFound)
	}
	if err != nil {
		return Record{}, fmt.Errorf("get catalog %s: %w", name, err)
	}
	return rec, nil
}

// List returns every stored document ordered by name.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, digest, document, updated_at FROM catalogs ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list catalogs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("list catalogs: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Delete removes a stored document. Deleting an unknown name is ErrNotFound.
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM catalogs WHERE name = ?`), name)
	if err != nil {
		return fmt.Errorf("delete catalog %s: %w", name, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("delete catalog %s: %w", name, ErrNotFound)
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func scanRecord(scan func(dest ...any) error) (Record, error) {
	var (
		rec     Record
		doc     string
		updated string
	)
	if err := scan(&rec.Name, &rec.Digest, &doc, &updated); err != nil {
		return Record{}, err
	}
	rec.Document = []byte(doc)
	t, err := time.Parse(time.RFC3339, updated)
	if err != nil {
		return Record{}, fmt.Errorf("parse updated_at %q: %w", updated, err)
	}
	rec.UpdatedAt = t
	return rec, nil
}
