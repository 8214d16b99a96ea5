package store

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	_ "github.com/mattn/go-sqlite3"
)

// MemoryPath opens a private in-memory database instead of a file.
const MemoryPath = ":memory:"

// identPattern restricts table names accepted by EnsureTable and TableExists.
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Store is the relational store that holds all game state.
// Uses SQLite pinned to a single connection: the tick engine is the only writer.
type Store struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path.
//
// The database is configured with:
//   - WAL mode so external tools can read the game state while it runs
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//
// No tables are created here. The engine calls EnsureTable for the tables it
// owns and the logic script creates everything else.
func Open(path string) (*Store, error) {
	// Open database (creates file if doesn't exist)
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Verify connection works
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// One connection: an in-memory database is per-connection, and a second
	// connection would also reintroduce SQLITE_BUSY between ticks.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyPragmas(db, path); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
// Safe to call on a zero Store and more than once.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Borrowed wraps a store whose Close is a no-op. Hand it to an owner that
// closes what it is given (the engine drains its store) when the caller still
// needs the store afterwards and closes it itself.
type Borrowed struct {
	*Store
}

// Close does nothing.
func (Borrowed) Close() error { return nil }

// DB returns the underlying sql.DB for direct queries.
// Use with caution - prefer using Store methods when available.
func (s *Store) DB() *sql.DB {
	return s.db
}

// EnsureTable creates the named table with the given column definitions
// unless it already exists. Existing tables are left untouched, including
// their schema.
func (s *Store) EnsureTable(ctx context.Context, name, columns string) error {
	if !identPattern.MatchString(name) {
		return fmt.Errorf("ensure table: invalid table name %q", name)
	}
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS "%s"(%s)`, name, columns)
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("ensure table %s: %w", name, err)
	}
	return nil
}

// TableExists reports whether a table with the given name exists.
func (s *Store) TableExists(ctx context.Context, name string) (bool, error) {
	if !identPattern.MatchString(name) {
		return false, fmt.Errorf("table exists: invalid table name %q", name)
	}
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?",
		name,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("table exists %s: %w", name, err)
	}
	return count > 0, nil
}

// Exec runs one or more statements that have side effects.
// A batch of ;-separated statements runs in order and stops at the first
// failing statement. Statements that already ran stay committed.
func (s *Store) Exec(ctx context.Context, batch string, args ...any) error {
	if _, err := s.db.ExecContext(ctx, batch, args...); err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	return nil
}

// Query executes a read-only statement and returns the resulting rows.
// The rows are one-shot; callers must close them before the next Exec.
func (s *Store) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return s.db.QueryContext(ctx, query, args...)
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB, path string) error {
	pragmas := []string{
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	// WAL is meaningless for an in-memory database.
	if path != MemoryPath {
		pragmas = append([]string{"PRAGMA journal_mode = WAL"}, pragmas...)
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
