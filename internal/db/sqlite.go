package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/careloop/coach/internal/db/migrations"
	"github.com/careloop/coach/internal/logging"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)
)

// Open creates the SQLite database connection, runs migrations, and
// returns a Store. The connection is limited to one; SQLite does not
// handle concurrent writers well, so all access serializes through it.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	logging.Infof("database ready at %s", path)
	return &Store{db: db}, nil
}

// Store owns the shared database connection.
type Store struct {
	db *sql.DB
}

// DB exposes the underlying connection for repositories.
func (s *Store) DB() *sql.DB { return s.db }

// Close closes the connection.
func (s *Store) Close() error { return s.db.Close() }
