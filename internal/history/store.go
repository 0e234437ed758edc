// Package history keeps a SQLite log of imported files so the detail pane
// and the history command can tell when a managed PDF arrived.
package history

import (
	"context"
	"database/sql"
	"embed"
	"os"
	"path/filepath"
	"time"

	"pdfinbox/internal/errors"
	"pdfinbox/internal/log"
	"pdfinbox/pkg/types"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed db/schema.sql
var dbFS embed.FS

// Entry is one recorded import.
type Entry struct {
	ID          string
	Name        string // Name in the unmanaged directory
	DestName    string // Name in the managed directory, differs after a rename
	Source      string
	Destination string
	Size        int64
	ImportedAt  time.Time
}

// Store is the SQLite-backed import history.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the history database at path. An empty path opens
// a private in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	dsn := ":memory:"
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.NewHistoryError("failed to create history directory", "open", err)
		}
		dsn = path
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.NewHistoryError("failed to open history database", "open", err)
	}
	// A single connection keeps an in-memory database alive and serializes
	// writers on disk.
	db.SetMaxOpenConns(1)

	pragmas := []string{"PRAGMA busy_timeout = 5000"}
	if path != "" {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL")
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			db.Close()
			return nil, errors.NewHistoryError("failed to configure history database", "open", err)
		}
	}

	schema, err := dbFS.ReadFile("db/schema.sql")
	if err != nil {
		db.Close()
		return nil, errors.NewHistoryError("failed to read schema", "open", err)
	}
	if _, err := db.ExecContext(ctx, string(schema)); err != nil {
		db.Close()
		return nil, errors.NewHistoryError("failed to apply schema", "open", err)
	}

	log.LogWithFields(log.F("path", dsn)).Debug("history store opened")
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores a completed import. Simulated and skipped imports are
// ignored.
func (s *Store) Record(ctx context.Context, result types.ImportResult) error {
	if !result.Moved {
		return nil
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO imports (id, name, dest_name, source, destination, size, imported_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(),
		result.Record.Name,
		filepath.Base(result.DestinationPath),
		result.SourcePath,
		result.DestinationPath,
		result.Record.Size,
		s.now().UnixNano(),
	)
	if err != nil {
		return errors.NewHistoryError("failed to record import", "record", err)
	}
	return nil
}

// Lookup returns the most recent import whose managed name is name.
func (s *Store) Lookup(ctx context.Context, name string) (Entry, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, dest_name, source, destination, size, imported_at
		 FROM imports WHERE dest_name = ?
		 ORDER BY imported_at DESC LIMIT 1`, name)

	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, errors.NewHistoryError("failed to look up import", "lookup", err)
	}
	return e, true, nil
}

// Recent returns up to limit imports, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, dest_name, source, destination, size, imported_at
		 FROM imports ORDER BY imported_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.NewHistoryError("failed to list imports", "recent", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, errors.NewHistoryError("failed to read import", "recent", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewHistoryError("failed to list imports", "recent", err)
	}
	return entries, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(sc scanner) (Entry, error) {
	var (
		e  Entry
		ts int64
	)
	if err := sc.Scan(&e.ID, &e.Name, &e.DestName, &e.Source, &e.Destination, &e.Size, &ts); err != nil {
		return Entry{}, err
	}
	e.ImportedAt = time.Unix(0, ts)
	return e, nil
}
