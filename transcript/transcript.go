// Package transcript keeps a SQLite log of evaluations, one row per trace,
// grouped by session.
package transcript

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	kimi "github.com/harshanarayana/kimi/core"
)

const schema = `
CREATE TABLE IF NOT EXISTS entries (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	session    TEXT    NOT NULL,
	source     TEXT    NOT NULL,
	outcome    TEXT    NOT NULL,
	kind       TEXT    NOT NULL DEFAULT '',
	failed     INTEGER NOT NULL,
	created_at TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS entries_session ON entries (session, id);
`

// Entry is one stored trace.
type Entry struct {
	ID        int64
	Session   string
	Source    string
	Outcome   string // printed result, or the error message
	Kind      string // error kind, empty on success
	Failed    bool
	CreatedAt time.Time
}

// Store appends traces for a single session.
type Store struct {
	db      *sql.DB
	session string
}

// Open opens (or creates) the transcript database at path and starts a new
// session in it.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// One connection keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db, session: uuid.New().String()}, nil
}

// Session is the id every Record call writes under.
func (s *Store) Session() string { return s.session }

func (s *Store) Record(ctx context.Context, t *kimi.Trace) error {
	var kind string
	if t.Failed() {
		kind = t.Kind.String()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO entries (session, source, outcome, kind, failed, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		s.session, t.Source, t.Outcome(), kind, t.Failed(), t.Timestamp.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("record trace: %w", err)
	}
	return nil
}

// Entries returns the entries of session in the order they were recorded.
func (s *Store) Entries(ctx context.Context, session string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session, source, outcome, kind, failed, created_at FROM entries WHERE session = ? ORDER BY id`,
		session)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var created string
		if err := rows.Scan(&e.ID, &e.Session, &e.Source, &e.Outcome, &e.Kind, &e.Failed, &created); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		if e.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("entry %d: bad timestamp %q: %w", e.ID, created, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Sessions lists every session in the database, oldest first.
func (s *Store) Sessions(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT session FROM entries GROUP BY session ORDER BY MIN(id)`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, id)
	}
	return sessions, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
