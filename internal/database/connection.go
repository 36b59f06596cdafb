package database

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// Connect opens the SQLite database at dbPath. Connection settings go in the
// DSN so every pooled connection gets them. _txlock=immediate makes each
// transaction take the write lock at BEGIN, which serializes concurrent
// read-modify-write transactions instead of failing them at commit.
//
// In-memory databases are rejected: each pooled connection would open its
// own empty database.
func Connect(dbPath string) (*sql.DB, error) {
	if IsMemoryPath(dbPath) {
		return nil, fmt.Errorf("in-memory database %q is not supported", dbPath)
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	params := url.Values{}
	params.Set("_foreign_keys", "on")
	params.Set("_journal_mode", "WAL")
	params.Set("_synchronous", "NORMAL")
	params.Set("_busy_timeout", "5000")
	params.Set("_txlock", "immediate")

	db, err := sql.Open("sqlite3", "file:"+(&url.URL{Path: dbPath}).EscapedPath()+"?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	return db, nil
}

// IsMemoryPath reports whether path names an SQLite in-memory database.
func IsMemoryPath(path string) bool {
	return path == ":memory:" || strings.HasPrefix(path, "file::memory:") || strings.Contains(path, "mode=memory")
}
