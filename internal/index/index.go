// Package index stores structure records in a SQLite database keyed by
// their BLAKE3 digest, so the same molecule read twice, from any format, is
// stored once.
//
// Build modes:
//   - Default (CGO_ENABLED=0): Uses pure Go modernc.org/sqlite
//   - CGO mode (CGO_ENABLED=1 -tags cgo_sqlite): Uses mattn/go-sqlite3
package index

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/FocuswithJustin/structfile/core/digest"
	"github.com/FocuswithJustin/structfile/core/errors"
	"github.com/FocuswithJustin/structfile/core/structfile"
)

const schema = `
CREATE TABLE IF NOT EXISTS records (
	digest     TEXT PRIMARY KEY,
	batch      TEXT NOT NULL,
	source     TEXT NOT NULL,
	format     TEXT NOT NULL,
	record_id  TEXT NOT NULL,
	length     INTEGER NOT NULL,
	seq_offset INTEGER NOT NULL,
	energy     REAL,
	sequence   TEXT NOT NULL,
	structure  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS records_batch ON records(batch);
`

const columns = `digest, batch, source, format, record_id, length, seq_offset, energy, sequence, structure`

// Entry is one stored record.
type Entry struct {
	Digest    string
	Batch     string
	Source    string
	Format    string
	ID        string
	Length    int
	Offset    uint64
	Energy    structfile.Float
	Sequence  string
	Structure string
}

// Store is a record index. It is safe for concurrent use; writes are
// serialized on a single connection.
type Store struct {
	db   *sql.DB
	path string
}

// DriverType returns "cgo" for mattn/go-sqlite3, "purego" for modernc.org/sqlite.
func DriverType() string {
	return driverType
}

// Open opens or creates the index at path.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, errors.NewIO("open index", path, err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, errors.NewIO("create schema", path, err)
	}
	return &Store{db: db, path: path}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return errors.NewIO("close index", s.path, err)
	}
	return nil
}

// NewBatch returns a fresh batch ID.
func NewBatch() string {
	return uuid.New().String()
}

// Put stores rec under its digest. It reports whether the record was new;
// a record already present is left unchanged.
func (s *Store) Put(ctx context.Context, batch, source string, rec *structfile.Record) (string, bool, error) {
	d := digest.Record(rec)
	var energy sql.NullFloat64
	if rec.Energy.Valid {
		energy = sql.NullFloat64{Float64: rec.Energy.Value, Valid: true}
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO records (`+columns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d, batch, source, rec.Format, rec.ID.String(), rec.Len(), int64(rec.Offset), energy,
		rec.Sequence().String(), rec.Structures().String())
	if err != nil {
		return d, false, errors.NewIO("insert record", s.path, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return d, false, errors.NewIO("insert record", s.path, err)
	}
	return d, n > 0, nil
}

// Get returns the entry with digest d.
func (s *Store) Get(ctx context.Context, d string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+columns+` FROM records WHERE digest = ?`, d)
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("record", d)
	}
	if err != nil {
		return nil, errors.NewIO("query record", s.path, err)
	}
	return e, nil
}

// List returns the entries of batch, or every entry when batch is empty,
// in insertion order.
func (s *Store) List(ctx context.Context, batch string) ([]*Entry, error) {
	query := `SELECT ` + columns + ` FROM records`
	var args []any
	if batch != "" {
		query += ` WHERE batch = ?`
		args = append(args, batch)
	}
	query += ` ORDER BY rowid`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewIO("list records", s.path, err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, errors.NewIO("scan record", s.path, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewIO("list records", s.path, err)
	}
	return entries, nil
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&n); err != nil {
		return 0, errors.NewIO("count records", s.path, err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(sc scanner) (*Entry, error) {
	var (
		e      Entry
		offset int64
		energy sql.NullFloat64
	)
	if err := sc.Scan(&e.Digest, &e.Batch, &e.Source, &e.Format, &e.ID, &e.Length, &offset, &energy, &e.Sequence, &e.Structure); err != nil {
		return nil, err
	}
	e.Offset = uint64(offset)
	if energy.Valid {
		e.Energy = structfile.Float{Value: energy.Float64, Valid: true}
	}
	return &e, nil
}
