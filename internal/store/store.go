package store

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"net/url"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

var (
	// ErrNotFound is returned when a game or move does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned by AppendMove when the game changed since
	// the caller read it, or is no longer in progress.
	ErrConflict = errors.New("game was modified concurrently")
)

// connParams are applied by the driver to every connection it opens.
var connParams = url.Values{
	"_journal_mode": {"WAL"},
	"_synchronous":  {"NORMAL"},
	"_busy_timeout": {"5000"},
	"_foreign_keys": {"on"},
}

// migrations upgrade databases created by older versions. Entry i moves a
// database from user_version i to i+1; schema.sql already holds the result
// of all of them.
var migrations = []func(*sql.Tx) error{
	// v1: history listing index
	func(tx *sql.Tx) error {
		_, err := tx.Exec(`CREATE INDEX IF NOT EXISTS idx_games_status_created ON games(status, created_at)`)
		return err
	},
	// v2: reset generation guarding AppendMove
	func(tx *sql.Tx) error {
		ok, err := hasColumn(tx, "games", "generation")
		if err != nil || ok {
			return err
		}
		_, err = tx.Exec(`ALTER TABLE games ADD COLUMN generation INTEGER NOT NULL DEFAULT 0`)
		return err
	},
}

// hasColumn reports whether table has column. schema.sql creates new
// databases with every column already present.
func hasColumn(tx *sql.Tx, table, column string) (bool, error) {
	rows, err := tx.Query("SELECT name FROM pragma_table_info(?)", table)
	if err != nil {
		return false, err
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}

// Store persists games and their move logs in SQLite.
type Store struct {
	db *sql.DB
}

// Open creates or opens the database at path, then brings its schema up
// to date. Opening the same file again is safe.
//
// Connections run in WAL mode with NORMAL sync, a 5s busy timeout and
// foreign keys on. The pool holds a single connection so writes never
// contend inside one process.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?"+connParams.Encode())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func migrate(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	for v := version; v < len(migrations); v++ {
		if err := runMigration(db, v+1, migrations[v]); err != nil {
			return err
		}
	}
	return nil
}

func runMigration(db *sql.DB, to int, m func(*sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("migrate to v%d: %w", to, err)
	}
	defer tx.Rollback()

	if err := m(tx); err != nil {
		return fmt.Errorf("migrate to v%d: %w", to, err)
	}
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", to)); err != nil {
		return fmt.Errorf("migrate to v%d: set version: %w", to, err)
	}
	return tx.Commit()
}

// verifyPragma checks that a pragma is set to the expected value.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	if err := s.db.QueryRow("PRAGMA " + name).Scan(&value); err != nil {
		return fmt.Errorf("query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
